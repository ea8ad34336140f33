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

package predict

import (
	"bytes"
	"fmt"
	"io"
	"testing"
	"testing/iotest"

	"github.com/google/go-cmp/cmp"
)

func TestValidate(t *testing.T) {
	cases := []struct {
		p  Params
		ok bool
	}{
		{Params{Predictor: 1}, true},
		{Params{Colors: 1, BitsPerComponent: 8, Columns: 1, Predictor: 2}, true},
		{Params{Colors: 3, BitsPerComponent: 16, Columns: 100, Predictor: 12}, true},
		{Params{Colors: 0, BitsPerComponent: 8, Columns: 1, Predictor: 2}, false},
		{Params{Colors: 61, BitsPerComponent: 8, Columns: 1, Predictor: 2}, false},
		{Params{Colors: 1, BitsPerComponent: 3, Columns: 1, Predictor: 10}, false},
		{Params{Colors: 1, BitsPerComponent: 8, Columns: 0, Predictor: 10}, false},
		{Params{Colors: 1, BitsPerComponent: 8, Columns: 1, Predictor: 7}, false},
	}
	for _, test := range cases {
		err := test.p.Validate()
		if (err == nil) != test.ok {
			t.Errorf("%+v: got error %v", test.p, err)
		}
	}
}

func TestRoundTrip(t *testing.T) {
	for _, predictor := range []int{1, 2, 10, 11, 12, 13, 14, 15} {
		for _, bpc := range []int{1, 2, 4, 8, 16} {
			p := &Params{
				Colors:           3,
				BitsPerComponent: bpc,
				Columns:          7,
				Predictor:        predictor,
			}
			t.Run(fmt.Sprintf("P%d-B%d", predictor, bpc), func(t *testing.T) {
				rowBytes := (p.Colors*p.BitsPerComponent*p.Columns + 7) / 8
				in := make([]byte, 5*rowBytes)
				for i := range in {
					in[i] = byte(i*i + 7*i)
				}

				buf := &bytes.Buffer{}
				w, err := NewWriter(nopCloser{buf}, p)
				if err != nil {
					t.Fatal(err)
				}
				// write in small pieces, to exercise row buffering
				for i := 0; i < len(in); i += 5 {
					_, err = w.Write(in[i:min(i+5, len(in))])
					if err != nil {
						t.Fatal(err)
					}
				}
				err = w.Close()
				if err != nil {
					t.Fatal(err)
				}

				r, err := NewReader(io.NopCloser(iotest.HalfReader(buf)), p)
				if err != nil {
					t.Fatal(err)
				}
				out, err := io.ReadAll(r)
				if err != nil {
					t.Fatal(err)
				}
				if d := cmp.Diff(in, out); d != "" {
					t.Errorf("round trip failed (-want +got):\n%s", d)
				}
			})
		}
	}
}

func TestPNGUp(t *testing.T) {
	p := &Params{Colors: 1, BitsPerComponent: 8, Columns: 3, Predictor: 12}
	encoded := []byte{
		2, 1, 2, 3,
		2, 1, 1, 1,
	}
	r, err := NewReader(io.NopCloser(bytes.NewReader(encoded)), p)
	if err != nil {
		t.Fatal(err)
	}
	out, err := io.ReadAll(r)
	if err != nil {
		t.Fatal(err)
	}
	if d := cmp.Diff([]byte{1, 2, 3, 2, 3, 4}, out); d != "" {
		t.Errorf("unexpected output (-want +got):\n%s", d)
	}
}

func TestTIFFPadding(t *testing.T) {
	// 3 columns of 1 bit, the 5 padding bits must be kept
	p := &Params{Colors: 1, BitsPerComponent: 1, Columns: 3, Predictor: 2}
	encoded := []byte{0b1_1_0_10101}
	r, err := NewReader(io.NopCloser(bytes.NewReader(encoded)), p)
	if err != nil {
		t.Fatal(err)
	}
	out, err := io.ReadAll(r)
	if err != nil {
		t.Fatal(err)
	}
	if d := cmp.Diff([]byte{0b1_0_0_10101}, out); d != "" {
		t.Errorf("unexpected output (-want +got):\n%s", d)
	}
}

func TestTruncatedRow(t *testing.T) {
	p := &Params{Colors: 1, BitsPerComponent: 8, Columns: 4, Predictor: 11}
	encoded := []byte{1, 1, 1, 1, 1, 1, 5}
	r, err := NewReader(io.NopCloser(bytes.NewReader(encoded)), p)
	if err != nil {
		t.Fatal(err)
	}
	out, err := io.ReadAll(r)
	if err != nil {
		t.Fatal(err)
	}
	if d := cmp.Diff([]byte{1, 2, 3, 4, 5}, out); d != "" {
		t.Errorf("unexpected output (-want +got):\n%s", d)
	}
}

func TestInvalidPNGTag(t *testing.T) {
	p := &Params{Colors: 1, BitsPerComponent: 8, Columns: 2, Predictor: 10}
	r, err := NewReader(io.NopCloser(bytes.NewReader([]byte{7, 1, 2})), p)
	if err != nil {
		t.Fatal(err)
	}
	_, err = io.ReadAll(r)
	if err == nil {
		t.Error("invalid filter type accepted")
	}
}

type nopCloser struct {
	io.Writer
}

func (nopCloser) Close() error { return nil }
