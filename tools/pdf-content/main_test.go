// seehuhn.de/go/pdfcore - the object model and content reader of a PDF library
// Copyright (C) 2026  Jochen Voss <voss@seehuhn.de>
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.


package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/google/go-cmp/cmp"

	"seehuhn.de/go/pdfcore/content"
	"seehuhn.de/go/pdfcore/tools/internal/dump"
)

func printEvents(t *testing.T, body, where string, opt *content.Options) string {
	t.Helper()
	buf := &bytes.Buffer{}
	p := newPrinter(buf, true)
	filter, err := newEventFilter(where)
	if err != nil {
		t.Fatal(err)
	}
	p.filter = filter
	err = p.printStream(strings.NewReader(body), opt)
	if err != nil {
		t.Fatal(err)
	}
	return buf.String()
}

func TestPrintStream(t *testing.T) {
	body := "q 1 0 0 1 10 20 cm /F1 12 Tf (Hi) Tj BI /W 1 /H 1 ID x EI Q foo"
	got := printEvents(t, body, "", nil)
	want := `q
1 0 0 1 10 20 cm
/F1 12 Tf
(Hi) Tj
BI <</H 1/W 1>>
ID 2 bytes EI
Q
foo [InvalidOperator]
1 operators with warnings
`
	if !color.NoColor {
		t.Fatal("color not disabled")
	}
	if d := cmp.Diff(want, got); d != "" {
		t.Error(d)
	}
}

func TestWhere(t *testing.T) {
	body := "q 1 0 0 1 10 20 cm 0.5 g Q 1 2 3 Q"
	got := printEvents(t, body, `Keyword == "Q" && len(Warnings) > 0`, nil)
	want := "1 2 3 Q [SpuriousStackContent]\n1 operators with warnings\n"
	if d := cmp.Diff(want, got); d != "" {
		t.Error(d)
	}

	// warned events which are not printed are not counted
	got = printEvents(t, body, `Op in ["cm", "g"] && Depth == 1`, nil)
	want = "1 0 0 1 10 20 cm\n0.5 g\n"
	if d := cmp.Diff(want, got); d != "" {
		t.Error(d)
	}
}

func TestWhereErrors(t *testing.T) {
	for _, src := range []string{"Op ==", "NoSuchField > 1", `Op + "x"`} {
		_, err := newEventFilter(src)
		if err == nil {
			t.Errorf("%q: expected error", src)
		}
	}
}

func TestStrict(t *testing.T) {
	buf := &bytes.Buffer{}
	p := newPrinter(buf, true)
	opt := &content.Options{Flags: content.ThrowOnWarnings}
	err := p.printStream(strings.NewReader("q foo Q"), opt)
	if err == nil {
		t.Fatal("expected error")
	}
	if d := cmp.Diff("q\nfoo [InvalidOperator]\n", buf.String()); d != "" {
		t.Error(d)
	}
}

const formDump = `1 0 obj
<</Type/Page/Resources<</XObject<</X1 2 0 R>>>>/Contents 3 0 R>>
endobj
2 0 obj
<</Type/XObject/Subtype/Form/BBox[0 0 10 10]>>
stream
0 0 m S
endstream
endobj
3 0 obj
<<>>
stream
q /X1 Do Q
endstream
endobj
`

func TestObjects(t *testing.T) {
	fname := filepath.Join(t.TempDir(), "objects.txt")
	err := os.WriteFile(fname, []byte(formDump), 0o644)
	if err != nil {
		t.Fatal(err)
	}

	cases := []struct {
		args []string
		opt  *content.Options
		want string
	}{
		{
			args: []string{"1"},
			want: "q\n/X1 Do\n  0 0 m\n  S\nend of form\nQ\n",
		},
		{
			args: []string{"1"},
			opt:  &content.Options{Flags: content.DontFollowXObjects},
			want: "q\n/X1 Do\nQ\n",
		},
		{
			args: []string{"2"},
			want: "0 0 m\nS\n",
		},
	}
	for _, test := range cases {
		buf := &bytes.Buffer{}
		p := newPrinter(buf, true)
		err := runObjects(p, fname, test.args, test.opt, nil)
		if err != nil {
			t.Fatal(err)
		}
		if d := cmp.Diff(test.want, buf.String()); d != "" {
			t.Errorf("%v: %s", test.args, d)
		}
	}

	for _, args := range [][]string{{"7"}, {"x"}} {
		err := runObjects(newPrinter(&bytes.Buffer{}, true), fname, args, nil, nil)
		if err == nil {
			t.Errorf("%v: expected error", args)
		}
	}
}

func TestObjectsCanvas(t *testing.T) {
	d, err := dump.Read(strings.NewReader(formDump), nil)
	if err != nil {
		t.Fatal(err)
	}
	page, _ := d.Lookup(1)
	if _, isPage := newCanvas(d.Store, page).(*content.PageCanvas); !isPage {
		t.Error("object 1 should be read as a page")
	}
	form, _ := d.Lookup(2)
	if _, isForm := newCanvas(d.Store, form).(*content.FormCanvas); !isForm {
		t.Error("object 2 should be read as a form")
	}
}

func TestTruncate(t *testing.T) {
	p := &printer{width: 20}
	cases := []struct {
		in, out string
	}{
		{"short", "short"},
		{"0123456789", "0123456789"},
		{"äöüäöüäöüäöü", "äöüäöüä..."},
		{`(abcde\(xyz)`, "(abcde..."},
	}
	for _, test := range cases {
		if got := p.truncate(test.in); got != test.out {
			t.Errorf("%q: got %q, want %q", test.in, got, test.out)
		}
	}
}
