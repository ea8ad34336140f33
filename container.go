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
	"fmt"
)

// Getter gives access to indirect objects.  [*Store] implements this
// interface.
type Getter interface {
	GetObject(ref Reference) (*Object, bool)
}

// Resolve resolves references to indirect objects.
//
// If x is a [Reference], the value of the corresponding object is returned.
// Chains of references are followed.  References to missing objects
// resolve to null, as required by section 7.3.10 of ISO 32000-2:2020.
// If x is not a reference, it is returned unchanged.
//
// Reference loops give an error of type [*MalformedFileError].
func Resolve(g Getter, x Native) (Native, error) {
	orig := x

	count := 0
	for {
		ref, isReference := x.(Reference)
		if !isReference {
			return x, nil
		}
		count++
		if count > 16 {
			return nil, &MalformedFileError{
				Err: fmt.Errorf("%s: too many levels of indirection", orig.(Reference)),
			}
		}

		obj, ok := g.GetObject(ref)
		if !ok {
			return nil, nil
		}
		x = obj.value.x
	}
}

func resolveAndCast[T Native](g Getter, x Native) (res T, err error) {
	x, err = Resolve(g, x)
	if err != nil {
		return res, err
	}
	if x == nil {
		return res, nil
	}

	res, isCorrectType := x.(T)
	if isCorrectType {
		return res, nil
	}
	return res, &MalformedFileError{
		Err: fmt.Errorf("%w: expected %s but got %s", ErrInvalidDataType, res.Kind(), x.Kind()),
	}
}

// Helper functions for getting values of a specific type.  Each of these
// functions calls Resolve on the value before attempting to convert it to
// the desired type.  If the value is null, the zero value is returned
// without error.  If the value has the wrong type, an error is returned.
//
// The signature of these functions is
//
//	func GetT(g Getter, x Native) (T, error)
//
// where T is the type of the value to be returned.
var (
	GetArray   = resolveAndCast[Array]
	GetBool    = resolveAndCast[Bool]
	GetDict    = resolveAndCast[Dict]
	GetInteger = resolveAndCast[Integer]
	GetName    = resolveAndCast[Name]
	GetReal    = resolveAndCast[Real]
	GetString  = resolveAndCast[String]
)

// GetStreamObject returns the indirect object a stream reference points
// to.  The result is nil if x is null or refers to a missing object.
// An error is returned if x is not a reference or the object has no stream.
func GetStreamObject(g Getter, x Native) (*Object, error) {
	if x == nil {
		return nil, nil
	}
	ref, ok := x.(Reference)
	if !ok {
		return nil, &MalformedFileError{Err: errNotStream}
	}

	for range 16 {
		obj, ok := g.GetObject(ref)
		if !ok {
			return nil, nil
		}
		if obj.HasStream() {
			return obj, nil
		}
		next, ok := obj.value.x.(Reference)
		if !ok {
			return nil, &MalformedFileError{Err: fmt.Errorf("%s: %w", ref, errNotStream)}
		}
		ref = next
	}
	return nil, &MalformedFileError{Err: errors.New("too many levels of indirection")}
}

var errNotStream = errors.New("not a stream")
