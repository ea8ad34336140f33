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
	"fmt"
	"io"
	"math"
	"slices"
)

// Value holds one PDF value of any kind.  The zero Value is the PDF null
// object.
//
// Composite payloads (strings, names, arrays, dictionaries and raw data)
// returned by the accessors share memory with the Value.  Use [Value.Clone]
// or [Value.Assign] to obtain an independent copy.
type Value struct {
	x Native
}

// NewValue wraps a basic PDF value.  Passing nil gives the null value.
func NewValue(x Native) Value {
	return Value{x: x}
}

// Zero returns the default value of the given kind: false, 0, 0.0, the empty
// string, name, array, dictionary or raw data, or the zero reference.
func Zero(k Kind) Value {
	switch k {
	case KindBool:
		return Value{Bool(false)}
	case KindInteger:
		return Value{Integer(0)}
	case KindReal:
		return Value{Real(0)}
	case KindString:
		return Value{String{}}
	case KindName:
		return Value{Name("")}
	case KindArray:
		return Value{Array{}}
	case KindDictionary:
		return Value{Dict{}}
	case KindReference:
		return Value{Reference(0)}
	case KindRawData:
		return Value{RawData{}}
	default:
		return Value{}
	}
}

// Native returns the wrapped basic value.  The result is nil for null.
func (v Value) Native() Native {
	return v.x
}

// Kind returns the kind of value stored in v.
func (v Value) Kind() Kind {
	if v.x == nil {
		return KindNull
	}
	return v.x.Kind()
}

func (v Value) IsNull() bool       { return v.x == nil }
func (v Value) IsBool() bool       { return v.Kind() == KindBool }
func (v Value) IsInteger() bool    { return v.Kind() == KindInteger }
func (v Value) IsRealStrict() bool { return v.Kind() == KindReal }
func (v Value) IsString() bool     { return v.Kind() == KindString }
func (v Value) IsName() bool       { return v.Kind() == KindName }
func (v Value) IsArray() bool      { return v.Kind() == KindArray }
func (v Value) IsDictionary() bool { return v.Kind() == KindDictionary }
func (v Value) IsReference() bool  { return v.Kind() == KindReference }
func (v Value) IsRawData() bool    { return v.Kind() == KindRawData }

// IsNumber reports whether v is an Integer or a Real.
func (v Value) IsNumber() bool {
	k := v.Kind()
	return k == KindInteger || k == KindReal
}

// Clear resets v to the default value of its kind.
// The kind of v does not change.
func (v *Value) Clear() {
	*v = Zero(v.Kind())
}

// Clone returns a deep copy of v.
func (v Value) Clone() Value {
	return Value{x: cloneNative(v.x)}
}

// Assign replaces the contents of v with a deep copy of src.
func (v *Value) Assign(src Value) {
	v.x = cloneNative(src.x)
}

func cloneNative(x Native) Native {
	switch x := x.(type) {
	case String:
		return slices.Clone(x)
	case RawData:
		return slices.Clone(x)
	case Array:
		res := make(Array, len(x))
		for i, elem := range x {
			res[i] = cloneNative(elem)
		}
		return res
	case Dict:
		res := make(Dict, len(x))
		for key, val := range x {
			res[key] = cloneNative(val)
		}
		return res
	default:
		return x
	}
}

func (v Value) typeError(want string) error {
	return fmt.Errorf("%w: expected %s but got %s", ErrInvalidDataType, want, v.Kind())
}

// GetBool returns the value of a Bool.
func (v Value) GetBool() (bool, error) {
	x, ok := v.TryGetBool()
	if !ok {
		return false, v.typeError("Bool")
	}
	return x, nil
}

// TryGetBool returns the value of a Bool.
// The second return value is false if v is not a Bool.
func (v Value) TryGetBool() (bool, bool) {
	x, ok := v.x.(Bool)
	return bool(x), ok
}

// GetInteger returns the value of an Integer.  Reals are not converted.
func (v Value) GetInteger() (int64, error) {
	x, ok := v.TryGetInteger()
	if !ok {
		return 0, v.typeError("Integer")
	}
	return x, nil
}

// TryGetInteger returns the value of an Integer.
func (v Value) TryGetInteger() (int64, bool) {
	x, ok := v.x.(Integer)
	return int64(x), ok
}

// GetIntegerLenient returns the value of an Integer or a Real.
// Reals are rounded to the nearest integer, with halfway cases
// rounded away from zero.
func (v Value) GetIntegerLenient() (int64, error) {
	x, ok := v.TryGetIntegerLenient()
	if !ok {
		return 0, v.typeError("number")
	}
	return x, nil
}

// TryGetIntegerLenient is like [Value.GetIntegerLenient] but reports
// failure using a boolean.
func (v Value) TryGetIntegerLenient() (int64, bool) {
	switch x := v.x.(type) {
	case Integer:
		return int64(x), true
	case Real:
		return roundReal(x), true
	default:
		return 0, false
	}
}

func roundReal(x Real) int64 {
	r := math.Round(float64(x))
	switch {
	case r >= math.MaxInt64:
		return math.MaxInt64
	case r <= math.MinInt64:
		return math.MinInt64
	case math.IsNaN(r):
		return 0
	}
	return int64(r)
}

// GetReal returns the value of a Real or an Integer.
func (v Value) GetReal() (float64, error) {
	x, ok := v.TryGetReal()
	if !ok {
		return 0, v.typeError("number")
	}
	return x, nil
}

// TryGetReal returns the value of a Real or an Integer.
func (v Value) TryGetReal() (float64, bool) {
	switch x := v.x.(type) {
	case Real:
		return float64(x), true
	case Integer:
		return float64(x), true
	default:
		return 0, false
	}
}

// GetRealStrict returns the value of a Real.  Integers are not converted.
func (v Value) GetRealStrict() (float64, error) {
	x, ok := v.TryGetRealStrict()
	if !ok {
		return 0, v.typeError("Real")
	}
	return x, nil
}

// TryGetRealStrict returns the value of a Real.
func (v Value) TryGetRealStrict() (float64, bool) {
	x, ok := v.x.(Real)
	return float64(x), ok
}

// GetString returns the value of a String.
func (v Value) GetString() (String, error) {
	x, ok := v.TryGetString()
	if !ok {
		return nil, v.typeError("String")
	}
	return x, nil
}

// TryGetString returns the value of a String.
func (v Value) TryGetString() (String, bool) {
	x, ok := v.x.(String)
	return x, ok
}

// GetName returns the value of a Name.
func (v Value) GetName() (Name, error) {
	x, ok := v.TryGetName()
	if !ok {
		return "", v.typeError("Name")
	}
	return x, nil
}

// TryGetName returns the value of a Name.
func (v Value) TryGetName() (Name, bool) {
	x, ok := v.x.(Name)
	return x, ok
}

// GetArray returns the value of an Array.
func (v Value) GetArray() (Array, error) {
	x, ok := v.TryGetArray()
	if !ok {
		return nil, v.typeError("Array")
	}
	return x, nil
}

// TryGetArray returns the value of an Array.
func (v Value) TryGetArray() (Array, bool) {
	x, ok := v.x.(Array)
	return x, ok
}

// GetDict returns the value of a Dictionary.
func (v Value) GetDict() (Dict, error) {
	x, ok := v.TryGetDict()
	if !ok {
		return nil, v.typeError("Dictionary")
	}
	return x, nil
}

// TryGetDict returns the value of a Dictionary.
func (v Value) TryGetDict() (Dict, bool) {
	x, ok := v.x.(Dict)
	return x, ok
}

// GetReference returns the value of a Reference.
func (v Value) GetReference() (Reference, error) {
	x, ok := v.TryGetReference()
	if !ok {
		return 0, v.typeError("Reference")
	}
	return x, nil
}

// TryGetReference returns the value of a Reference.
func (v Value) TryGetReference() (Reference, bool) {
	x, ok := v.x.(Reference)
	return x, ok
}

// GetRawData returns the value of a RawData.
func (v Value) GetRawData() (RawData, error) {
	x, ok := v.TryGetRawData()
	if !ok {
		return nil, v.typeError("RawData")
	}
	return x, nil
}

// TryGetRawData returns the value of a RawData.
func (v Value) TryGetRawData() (RawData, bool) {
	x, ok := v.x.(RawData)
	return x, ok
}

// SetBool changes the value of a Bool.
func (v *Value) SetBool(b bool) error {
	if v.Kind() != KindBool {
		return v.typeError("Bool")
	}
	v.x = Bool(b)
	return nil
}

// SetInteger changes the value of a number.  If v holds a Real, the
// integer is stored as a Real.
func (v *Value) SetInteger(x int64) error {
	switch v.Kind() {
	case KindInteger:
		v.x = Integer(x)
	case KindReal:
		v.x = Real(x)
	default:
		return v.typeError("number")
	}
	return nil
}

// SetReal changes the value of a number.  If v holds an Integer, the
// value is rounded to the nearest integer.
func (v *Value) SetReal(x float64) error {
	switch v.Kind() {
	case KindReal:
		v.x = Real(x)
	case KindInteger:
		v.x = Integer(roundReal(Real(x)))
	default:
		return v.typeError("number")
	}
	return nil
}

// SetName changes the value of a Name.
func (v *Value) SetName(n Name) error {
	if v.Kind() != KindName {
		return v.typeError("Name")
	}
	v.x = n
	return nil
}

// SetString changes the value of a String.  The bytes are copied.
func (v *Value) SetString(s String) error {
	if v.Kind() != KindString {
		return v.typeError("String")
	}
	v.x = slices.Clone(s)
	return nil
}

// SetReference changes the value of a Reference.
func (v *Value) SetReference(ref Reference) error {
	if v.Kind() != KindReference {
		return v.typeError("Reference")
	}
	v.x = ref
	return nil
}

// Equal compares two values.  Values of different kinds are never equal;
// in particular an Integer is never equal to a Real.  Comparing raw data
// fails with [ErrNotImplemented].
func (v Value) Equal(other Value) (bool, error) {
	return equalNative(v.x, other.x)
}

func equalNative(a, b Native) (bool, error) {
	switch a := a.(type) {
	case nil:
		return b == nil, nil
	case Bool:
		y, ok := b.(Bool)
		return ok && a == y, nil
	case Integer:
		y, ok := b.(Integer)
		return ok && a == y, nil
	case Real:
		y, ok := b.(Real)
		return ok && a == y, nil
	case Name:
		y, ok := b.(Name)
		return ok && a == y, nil
	case Reference:
		y, ok := b.(Reference)
		return ok && a == y, nil
	case String:
		y, ok := b.(String)
		return ok && bytes.Equal(a, y), nil
	case Array:
		y, ok := b.(Array)
		if !ok || len(a) != len(y) {
			return false, nil
		}
		for i := range a {
			eq, err := equalNative(a[i], y[i])
			if err != nil || !eq {
				return false, err
			}
		}
		return true, nil
	case Dict:
		y, ok := b.(Dict)
		if !ok || a.len() != y.len() {
			return false, nil
		}
		for key, val := range a {
			if val == nil {
				continue
			}
			eq, err := equalNative(val, y[key])
			if err != nil || !eq {
				return false, err
			}
		}
		return true, nil
	case RawData:
		return false, fmt.Errorf("%w: equality for raw data", ErrNotImplemented)
	default:
		return false, fmt.Errorf("%w: equality for %T", ErrNotImplemented, a)
	}
}

// Write serializes v to w.
func (v Value) Write(w io.Writer, mode WriteMode) error {
	return writeNative(w, v.x, mode)
}

func (v Value) String() string {
	return Format(v.x)
}
