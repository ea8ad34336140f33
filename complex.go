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

// This file contains helpers for composite values which are built from
// the basic types, like rectangles and transformation matrices.

import (
	"errors"
	"fmt"
	"math"

	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/geom/rect"
)

// GetNumber is a helper function for reading numeric values.
// This resolves indirect references and makes sure the resulting value is
// an Integer or a Real.
func GetNumber(g Getter, x Native) (float64, error) {
	x, err := Resolve(g, x)
	if err != nil {
		return 0, err
	}
	switch x := x.(type) {
	case Integer:
		return float64(x), nil
	case Real:
		return float64(x), nil
	default:
		return 0, &MalformedFileError{
			Err: fmt.Errorf("%w: expected number but got %s", ErrInvalidDataType, Format(x)),
		}
	}
}

// GetRectangle resolves references to indirect objects and makes sure the
// resulting value is a PDF rectangle.  The corners are normalized so that
// LLx <= URx and LLy <= URy.  If the value is null, the zero rectangle is
// returned.
func GetRectangle(g Getter, x Native) (rect.Rect, error) {
	a, err := GetArray(g, x)
	if err != nil || a == nil {
		return rect.Rect{}, err
	}
	if len(a) != 4 {
		return rect.Rect{}, errNoRectangle
	}

	var values [4]float64
	for i, elem := range a {
		values[i], err = GetNumber(g, elem)
		if err != nil {
			return rect.Rect{}, err
		}
	}
	return rect.Rect{
		LLx: math.Min(values[0], values[2]),
		LLy: math.Min(values[1], values[3]),
		URx: math.Max(values[0], values[2]),
		URy: math.Max(values[1], values[3]),
	}, nil
}

var errNoRectangle = &MalformedFileError{Err: errors.New("not a valid PDF rectangle")}

// GetMatrix reads a transformation matrix given as an array of six
// numbers.  If the value is null, the identity matrix is returned.
func GetMatrix(g Getter, x Native) (matrix.Matrix, error) {
	a, err := GetArray(g, x)
	if err != nil {
		return matrix.Matrix{}, err
	}
	if a == nil {
		return matrix.Identity, nil
	}
	if len(a) != 6 {
		return matrix.Matrix{}, errNoMatrix
	}

	var m matrix.Matrix
	for i, elem := range a {
		m[i], err = GetNumber(g, elem)
		if err != nil {
			return matrix.Matrix{}, err
		}
	}
	return m, nil
}

var errNoMatrix = &MalformedFileError{Err: errors.New("not a valid transformation matrix")}
