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

package ascii85

import (
	"bytes"
	"encoding/ascii85"
	"io"
	"testing"
	"testing/iotest"
)

func TestDecode(t *testing.T) {
	cases := []struct {
		in      string
		out     string
		invalid bool
	}{
		{in: "~>", out: ""},
		{in: "87cURD]i,\"Ebo80~>", out: "Hello World!"},
		{in: "z~>", out: "\000\000\000\000"},
		{in: "  z \n z~>", out: "\000\000\000\000\000\000\000\000"},
		{in: "@~>", invalid: true},
		{in: "87cUR", invalid: true},
		{in: "87cUR~x", invalid: true},
		{in: "87c{UR~>", invalid: true},
	}
	for _, test := range cases {
		out, err := io.ReadAll(Decode(bytes.NewReader([]byte(test.in))))
		if test.invalid {
			if err == nil {
				t.Errorf("%q: missing error", test.in)
			}
			continue
		}
		if err != nil {
			t.Errorf("%q: %v", test.in, err)
		} else if string(out) != test.out {
			t.Errorf("%q: got %q, want %q", test.in, out, test.out)
		}
	}
}

func TestSmallReads(t *testing.T) {
	in := []byte("87cURD]i,\"Ebo80~>")
	r := Decode(iotest.OneByteReader(bytes.NewReader(in)))
	out, err := io.ReadAll(iotest.OneByteReader(r))
	if err != nil {
		t.Fatal(err)
	}
	if string(out) != "Hello World!" {
		t.Errorf("got %q", out)
	}
}

func FuzzReader(f *testing.F) {
	f.Add([]byte(""))
	f.Add([]byte("1234"))
	f.Add([]byte("12345678"))
	f.Add([]byte("z"))
	f.Add([]byte("ABCDE"))

	f.Fuzz(func(t *testing.T, data []byte) {
		for _, c := range data {
			if c <= ' ' && !isSpace[c] || c == '~' {
				return
			}
		}

		out1, err1 := io.ReadAll(ascii85.NewDecoder(bytes.NewReader(data)))

		data2 := make([]byte, len(data), len(data)+2)
		copy(data2, data)
		data2 = append(data2, '~', '>')
		out2, err2 := io.ReadAll(Decode(bytes.NewReader(data2)))

		if err2 != nil && err1 == nil {
			t.Errorf("err2=%v, err1=nil", err2)
		}
		if err1 == nil && !bytes.Equal(out1, out2) {
			t.Errorf("out1=%q, out2=%q", out1, out2)
		}
	})
}

func FuzzRoundTrip(f *testing.F) {
	f.Add([]byte(""))
	f.Add([]byte("Hello world!"))
	f.Add([]byte("\000"))

	f.Fuzz(func(t *testing.T, in []byte) {
		buf := &bytes.Buffer{}
		enc := Encode(withDummyClose{buf})
		_, err := enc.Write(in)
		if err != nil {
			t.Fatal(err)
		}
		err = enc.Close()
		if err != nil {
			t.Fatal(err)
		}

		out, err := io.ReadAll(Decode(bytes.NewReader(buf.Bytes())))
		if err != nil {
			t.Fatal(err)
		}
		if !bytes.Equal(in, out) {
			t.Errorf("in=%q, out=%q, encoded=%q", in, out, buf.Bytes())
		}
	})
}

// withDummyClose turns an io.Writer into an io.WriteCloser.
type withDummyClose struct {
	io.Writer
}

func (w withDummyClose) Close() error {
	return nil
}
