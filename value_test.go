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
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestZero(t *testing.T) {
	kinds := []Kind{
		KindNull, KindBool, KindInteger, KindReal, KindString,
		KindName, KindArray, KindDictionary, KindReference, KindRawData,
	}
	for _, k := range kinds {
		v := Zero(k)
		if v.Kind() != k {
			t.Errorf("Zero(%s).Kind() = %s", k, v.Kind())
		}
	}
}

func TestClear(t *testing.T) {
	v := NewValue(Array{Integer(1), Integer(2)})
	v.Clear()
	a, err := v.GetArray()
	if err != nil {
		t.Fatal(err)
	}
	if len(a) != 0 {
		t.Errorf("array not cleared: %v", a)
	}

	v = NewValue(Real(3.5))
	v.Clear()
	if x, ok := v.TryGetRealStrict(); !ok || x != 0 {
		t.Errorf("real not cleared: %s", v)
	}

	var null Value
	null.Clear()
	if !null.IsNull() {
		t.Errorf("null changed kind: %s", null.Kind())
	}
}

func TestClone(t *testing.T) {
	orig := NewValue(Dict{
		"A": Array{Integer(1), String("x")},
		"B": Dict{"C": Name("D")},
	})
	c := orig.Clone()

	d, _ := c.GetDict()
	d["A"].(Array)[0] = Integer(99)
	d["A"].(Array)[1].(String)[0] = 'y'
	d["B"].(Dict)["C"] = Name("E")

	want := Dict{
		"A": Array{Integer(1), String("x")},
		"B": Dict{"C": Name("D")},
	}
	if diff := cmp.Diff(want, orig.Native()); diff != "" {
		t.Errorf("original modified (-want +got):\n%s", diff)
	}

	var dst Value
	dst.Assign(orig)
	eq, err := dst.Equal(orig)
	if err != nil || !eq {
		t.Errorf("Assign: %v %v", eq, err)
	}
}

func TestAccessors(t *testing.T) {
	v := NewValue(Integer(7))
	if x, err := v.GetInteger(); err != nil || x != 7 {
		t.Errorf("GetInteger: %d %v", x, err)
	}
	if x, err := v.GetReal(); err != nil || x != 7 {
		t.Errorf("GetReal: %g %v", x, err)
	}
	if _, err := v.GetRealStrict(); !errors.Is(err, ErrInvalidDataType) {
		t.Errorf("GetRealStrict: %v", err)
	}
	if _, err := v.GetName(); !errors.Is(err, ErrInvalidDataType) {
		t.Errorf("GetName: %v", err)
	}
	if !v.IsNumber() || v.IsRealStrict() {
		t.Error("wrong number predicates")
	}

	r := NewValue(Real(2.5))
	if _, err := r.GetInteger(); !errors.Is(err, ErrInvalidDataType) {
		t.Errorf("GetInteger on Real: %v", err)
	}
	if x, err := r.GetIntegerLenient(); err != nil || x != 3 {
		t.Errorf("GetIntegerLenient: %d %v", x, err)
	}
	if x, _ := NewValue(Real(-2.5)).GetIntegerLenient(); x != -3 {
		t.Errorf("GetIntegerLenient(-2.5) = %d", x)
	}
}

func TestSetters(t *testing.T) {
	v := NewValue(Integer(1))
	if err := v.SetReal(2.6); err != nil {
		t.Fatal(err)
	}
	if x, _ := v.TryGetInteger(); x != 3 {
		t.Errorf("SetReal on Integer: got %s", v)
	}

	v = NewValue(Real(1))
	if err := v.SetInteger(4); err != nil {
		t.Fatal(err)
	}
	if x, ok := v.TryGetRealStrict(); !ok || x != 4 {
		t.Errorf("SetInteger on Real: got %s", v)
	}

	v = NewValue(Name("x"))
	if err := v.SetBool(true); !errors.Is(err, ErrInvalidDataType) {
		t.Errorf("SetBool on Name: %v", err)
	}
	if n, _ := v.GetName(); n != "x" {
		t.Errorf("failed setter modified value: %s", v)
	}

	s := String("abc")
	v = NewValue(String{})
	if err := v.SetString(s); err != nil {
		t.Fatal(err)
	}
	s[0] = 'X'
	if got, _ := v.GetString(); string(got) != "abc" {
		t.Errorf("SetString did not copy: %q", got)
	}
}

func TestEqual(t *testing.T) {
	cases := []struct {
		a, b Native
		eq   bool
	}{
		{nil, nil, true},
		{Integer(1), Integer(1), true},
		{Integer(1), Real(1), false},
		{Real(1.5), Real(1.5), true},
		{String("a"), String("a"), true},
		{String("a"), Name("a"), false},
		{Array{Integer(1), nil}, Array{Integer(1), nil}, true},
		{Array{Integer(1)}, Array{Integer(1), Integer(2)}, false},
		{Dict{"A": Integer(1), "B": nil}, Dict{"A": Integer(1)}, true},
		{Dict{"A": Integer(1)}, Dict{"A": Integer(2)}, false},
		{NewReference(1, 0), NewReference(1, 1), false},
	}
	for i, test := range cases {
		eq, err := NewValue(test.a).Equal(NewValue(test.b))
		if err != nil {
			t.Errorf("%d: %v", i, err)
		} else if eq != test.eq {
			t.Errorf("%d: %s == %s: got %t", i, Format(test.a), Format(test.b), eq)
		}
	}

	_, err := NewValue(RawData("x")).Equal(NewValue(RawData("x")))
	if !errors.Is(err, ErrNotImplemented) {
		t.Errorf("raw data comparison: %v", err)
	}
}

func TestTextString(t *testing.T) {
	cases := []string{
		"",
		"hello",
		"€100",
		"Grüße",
		"日本語",
		"• bullet",
	}
	for _, s := range cases {
		enc := TextString(s)
		got := enc.AsTextString()
		if got != s {
			t.Errorf("%q: round trip gave %q", s, got)
		}
	}

	if enc := TextString("日本"); enc[0] != 0xFE || enc[1] != 0xFF {
		t.Errorf("missing UTF-16 BOM: % x", []byte(enc))
	}
	if enc := TextString("Grüße"); len(enc) != 5 {
		t.Errorf("expected PDFDocEncoding, got % x", []byte(enc))
	}
	if got := (String{'G', 'r', 0xFC, 0xDF, 'e'}).AsTextString(); got != "Grüße" {
		t.Errorf("PDFDocEncoding: got %q", got)
	}
}
