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

package pdfcore

import (
	"bytes"
	"errors"
	"io"
	"math"
	"strings"
	"testing"
	"testing/iotest"

	"github.com/google/go-cmp/cmp"
)

func TestParseValue(t *testing.T) {
	cases := []struct {
		in  string
		out Native
	}{
		{"null", nil},
		{"true", Bool(true)},
		{"false", Bool(false)},
		{"123", Integer(123)},
		{"-7", Integer(-7)},
		{"+17", Integer(17)},
		{"1.5", Real(1.5)},
		{"-.5", Real(-0.5)},
		{"4.", Real(4)},
		{"/Name", Name("Name")},
		{"/A#20B", Name("A B")},
		{"/", Name("")},
		{"(hello)", String("hello")},
		{"(a (b) c)", String("a (b) c")},
		{`(a\)b)`, String("a)b")},
		{`(\101\60\0)`, String("A0\000")},
		{`(\n\r\t\b\f\\)`, String("\n\r\t\b\f\\")},
		{"(a\\\nb)", String("ab")},
		{"(a\r\nb)", String("a\nb")},
		{"(a\rb)", String("a\nb")},
		{"<48 65 6c6C6f>", String("Hello")},
		{"<901FA>", String{0x90, 0x1f, 0xa0}},
		{"<>", String{}},
		{"[1 2 R]", Array{NewReference(1, 2)}},
		{"[1 2 3]", Array{Integer(1), Integer(2), Integer(3)}},
		{"[1 0 R 2]", Array{NewReference(1, 0), Integer(2)}},
		{"[[]]", Array{Array{}}},
		{"12 0 R", NewReference(12, 0)},
		{"<</A 1/B[/C]>>", Dict{"A": Integer(1), "B": Array{Name("C")}}},
		{"<< /A null /B 5 0 R >>", Dict{"B": NewReference(5, 0)}},
		{"% comment\n7 % trailing", Integer(7)},
	}
	for _, test := range cases {
		v, err := ParseValue([]byte(test.in))
		if err != nil {
			t.Errorf("%q: %v", test.in, err)
			continue
		}
		if d := cmp.Diff(test.out, v.Native()); d != "" {
			t.Errorf("%q: (-want +got):\n%s", test.in, d)
		}
	}
}

func TestParseErrors(t *testing.T) {
	cases := []string{
		"",
		"[1 2",
		"<</A>>",
		"<<1 2>>",
		"(unterminated",
		"<12 zz>",
		"[1 obj]",
		"1 2",
		"endobj",
		strings.Repeat("[", 300) + strings.Repeat("]", 300),
	}
	for _, in := range cases {
		_, err := ParseValue([]byte(in))
		var malformed *MalformedFileError
		if !errors.As(err, &malformed) {
			t.Errorf("%q: expected MalformedFileError, got %v", in, err)
		}
	}
}

func TestErrorPosition(t *testing.T) {
	_, err := ParseValue([]byte("[1 2 /x obj]"))
	var malformed *MalformedFileError
	if !errors.As(err, &malformed) {
		t.Fatalf("unexpected error %v", err)
	}
	if malformed.Pos != 8 {
		t.Errorf("wrong position %d", malformed.Pos)
	}
}

func TestTokens(t *testing.T) {
	in := "q 1 0 0 1 10 10 cm /F1 12 Tf (x) Tj ] } >> Q"
	tok := NewTokenizer(strings.NewReader(in), nil)
	var got []string
	for {
		x, err := tok.Next()
		if err == io.EOF {
			break
		} else if err != nil {
			t.Fatal(err)
		}
		got = append(got, x.String())
	}
	want := []string{
		"q", "1", "0", "0", "1", "10", "10", "cm",
		"/F1", "12", "Tf", "(x)", "Tj", "]", "}", ">>", "Q",
	}
	if d := cmp.Diff(want, got); d != "" {
		t.Errorf("(-want +got):\n%s", d)
	}
}

func TestNoReferencesInContent(t *testing.T) {
	tok := NewTokenizer(strings.NewReader("1 0 R"), nil)
	var kinds []TokenKind
	for {
		x, err := tok.Next()
		if err == io.EOF {
			break
		} else if err != nil {
			t.Fatal(err)
		}
		kinds = append(kinds, x.Kind)
	}
	want := []TokenKind{TokenValue, TokenValue, TokenKeyword}
	if d := cmp.Diff(want, kinds); d != "" {
		t.Errorf("(-want +got):\n%s", d)
	}
}

func TestReferenceLookahead(t *testing.T) {
	// Two integers followed by something other than R must be returned
	// unchanged, and the following tokens must not be lost.
	opt := &TokenizerOptions{References: true}
	tok := NewTokenizer(strings.NewReader("1 2 3 4 R 5"), opt)
	var got []Native
	for {
		x, err := tok.Next()
		if err == io.EOF {
			break
		} else if err != nil {
			t.Fatal(err)
		}
		got = append(got, x.Value.Native())
	}
	want := []Native{Integer(1), Integer(2), NewReference(3, 4), Integer(5)}
	if d := cmp.Diff(want, got); d != "" {
		t.Errorf("(-want +got):\n%s", d)
	}
}

func TestSmallReads(t *testing.T) {
	in := "<</Type/Page/Kids[1 0 R 2 0 R]/Name(a long string value)>>"
	want, err := ParseValue([]byte(in))
	if err != nil {
		t.Fatal(err)
	}

	r := iotest.OneByteReader(strings.NewReader(in))
	tok := NewTokenizer(r, &TokenizerOptions{References: true})
	got, err := tok.ReadValue()
	if err != nil {
		t.Fatal(err)
	}
	if d := cmp.Diff(want.Native(), got.Native()); d != "" {
		t.Errorf("(-want +got):\n%s", d)
	}
}

func TestRoundTrip(t *testing.T) {
	values := []Native{
		Integer(42),
		Real(0.125),
		Name("with space"),
		String("(unbalanced"),
		String{0, 1, 2, 255},
		Array{Integer(1), nil, Bool(true), NewReference(3, 1)},
		Dict{
			"Type":  Name("Test"),
			"Array": Array{Real(1.5), String("x")},
			"Sub":   Dict{"Ref": NewReference(7, 0)},
		},
	}
	for _, x := range values {
		buf := &bytes.Buffer{}
		err := NewValue(x).Write(buf, WriteClean)
		if err != nil {
			t.Fatal(err)
		}
		y, err := ParseValue(buf.Bytes())
		if err != nil {
			t.Errorf("%q: %v", buf.String(), err)
			continue
		}
		if d := cmp.Diff(x, y.Native()); d != "" {
			t.Errorf("%q: (-want +got):\n%s", buf.String(), d)
		}
	}
}

// In compact mode, reals are written without trailing zeros.  Integral
// reals therefore read back as integers.
func TestCompactRoundTrip(t *testing.T) {
	cases := []struct {
		in   Native
		text string
		out  Native
	}{
		{
			in: Array{Name("a"), Integer(1), Real(2), Real(math.Copysign(0, -1)),
				Real(0.25), Bool(false), nil, NewReference(3, 0)},
			text: "[/a 1 2 0 0.25 false null 3 0 R]",
			out: Array{Name("a"), Integer(1), Integer(2), Integer(0),
				Real(0.25), Bool(false), nil, NewReference(3, 0)},
		},
		{
			in:   Dict{"K": Array{Integer(1)}, "L": Real(0)},
			text: "<</K[ 1]/L 0>>",
			out:  Dict{"K": Array{Integer(1)}, "L": Integer(0)},
		},
		{
			in:   Array{Array{}, Integer(5), Name("n"), Real(-1.5)},
			text: "[[] 5/n -1.5]",
			out:  Array{Array{}, Integer(5), Name("n"), Real(-1.5)},
		},
		{
			in:   Real(-0.0000001),
			text: " 0",
			out:  Integer(0),
		},
	}
	for _, test := range cases {
		buf := &bytes.Buffer{}
		err := NewValue(test.in).Write(buf, WriteCompact)
		if err != nil {
			t.Fatal(err)
		}
		if buf.String() != test.text {
			t.Errorf("%s: got %q, want %q", Format(test.in), buf.String(), test.text)
		}
		v, err := ParseValue(buf.Bytes())
		if err != nil {
			t.Errorf("%q: %v", buf.String(), err)
			continue
		}
		if d := cmp.Diff(test.out, v.Native()); d != "" {
			t.Errorf("%q: (-want +got):\n%s", buf.String(), d)
		}
	}
}

func TestReadIndirectObject(t *testing.T) {
	in := "3 0 obj\n<</Length 5>>\nstream\nhello\nendstream\nendobj\n" +
		"4 1 obj\n[1 2]\nendobj\n" +
		"5 0 obj\n<</Length 6 0 R>>\nstream\r\nab\ncd\nendstream\nendobj\n"
	tok := NewTokenizer(strings.NewReader(in), &TokenizerOptions{References: true})

	obj, err := tok.ReadIndirectObject()
	if err != nil {
		t.Fatal(err)
	}
	if obj.Reference != NewReference(3, 0) || string(obj.Stream) != "hello" {
		t.Errorf("wrong object: %s %q", obj.Reference, obj.Stream)
	}

	obj, err = tok.ReadIndirectObject()
	if err != nil {
		t.Fatal(err)
	}
	if obj.Reference != NewReference(4, 1) || obj.Stream != nil {
		t.Errorf("wrong object: %s %q", obj.Reference, obj.Stream)
	}
	if d := cmp.Diff(Array{Integer(1), Integer(2)}, obj.Value.Native()); d != "" {
		t.Errorf("(-want +got):\n%s", d)
	}

	obj, err = tok.ReadIndirectObject()
	if err != nil {
		t.Fatal(err)
	}
	if string(obj.Stream) != "ab\ncd" {
		t.Errorf("wrong stream data %q", obj.Stream)
	}
}

func TestStreamLengthTooLarge(t *testing.T) {
	in := "1 0 obj\n<</Length 9223372036854775807>>\nstream\nabc\nendstream\nendobj\n"
	tok := NewTokenizer(strings.NewReader(in), &TokenizerOptions{References: true})
	_, err := tok.ReadIndirectObject()
	var malformed *MalformedFileError
	if !errors.As(err, &malformed) {
		t.Errorf("expected MalformedFileError, got %v", err)
	}
}

func TestStreamLengthLong(t *testing.T) {
	data := strings.Repeat("0123456789abcdef", 10000)
	in := "1 0 obj\n<</Length 160000>>\nstream\n" + data + "\nendstream\nendobj\n"
	tok := NewTokenizer(iotest.HalfReader(strings.NewReader(in)), &TokenizerOptions{References: true})
	obj, err := tok.ReadIndirectObject()
	if err != nil {
		t.Fatal(err)
	}
	if string(obj.Stream) != data {
		t.Errorf("wrong stream data, %d bytes", len(obj.Stream))
	}
}

func TestWriteIndirect(t *testing.T) {
	s := NewStore(nil)
	obj, err := s.CreateDictionaryObject("Test")
	if err != nil {
		t.Fatal(err)
	}
	stm, err := obj.Stream()
	if err != nil {
		t.Fatal(err)
	}
	err = stm.SetFiltered([]byte("payload"), nil)
	if err != nil {
		t.Fatal(err)
	}

	buf := &bytes.Buffer{}
	err = obj.WriteIndirect(buf, WriteCompact)
	if err != nil {
		t.Fatal(err)
	}

	tok := NewTokenizer(buf, &TokenizerOptions{References: true})
	ind, err := tok.ReadIndirectObject()
	if err != nil {
		t.Fatal(err)
	}
	if ind.Reference != obj.Reference() {
		t.Errorf("wrong reference %s", ind.Reference)
	}
	if string(ind.Stream) != "payload" {
		t.Errorf("wrong stream %q", ind.Stream)
	}
	dict, _ := ind.Value.TryGetDict()
	if dict["Length"] != Integer(7) || dict["Type"] != Name("Test") {
		t.Errorf("wrong dict %s", Format(dict))
	}
}

func FuzzParseValue(f *testing.F) {
	f.Add("<</A[1 2 0 R (x)]/B<00ff>>>")
	f.Add("[/a#20b 1.5 -3 true null]")
	f.Add("(a\\(b\\)c)")
	f.Fuzz(func(t *testing.T, in string) {
		v1, err := ParseValue([]byte(in))
		if err != nil {
			return
		}
		buf := &bytes.Buffer{}
		err = v1.Write(buf, WriteClean)
		if err != nil {
			return // non-finite reals
		}
		v2, err := ParseValue(buf.Bytes())
		if err != nil {
			t.Fatalf("%q: %v", buf.String(), err)
		}
		buf2 := &bytes.Buffer{}
		v2.Write(buf2, WriteClean)
		if buf.String() != buf2.String() {
			t.Errorf("%q != %q", buf.String(), buf2.String())
		}
	})
}
