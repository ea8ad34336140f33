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
	"math"
	"strconv"
)

// Character classes, see section 7.2.3 of ISO 32000-2:2020.

type characterClass byte

const (
	regular characterClass = iota
	space
	delimiter
)

var class [256]characterClass

func init() {
	for _, c := range []byte{0, 9, 10, 12, 13, 32} {
		class[c] = space
	}
	for _, c := range []byte("()<>[]{}/%") {
		class[c] = delimiter
	}
}

// IsSpace reports whether c is a PDF white-space character.
func IsSpace(c byte) bool {
	return class[c] == space
}

// IsDelimiter reports whether c is a PDF delimiter character.
func IsDelimiter(c byte) bool {
	return class[c] == delimiter
}

// IsRegular reports whether c is neither white space nor a delimiter.
func IsRegular(c byte) bool {
	return class[c] == regular
}

func hexDigit(c byte) byte {
	switch {
	case c >= '0' && c <= '9':
		return c - '0'
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10
	default:
		return 255
	}
}

// parseNumber tries to interpret s as a number.
// The function returns [Integer] or [Real] in case s is a valid
// number, and nil otherwise.  Exponents are not allowed.
func parseNumber(s []byte) Native {
	if len(s) == 0 {
		return nil
	}

	x, err := strconv.ParseInt(string(s), 10, 64)
	if err == nil {
		return Integer(x)
	}

	digits := 0
	dots := 0
	for i, c := range s {
		switch {
		case i == 0 && (c == '+' || c == '-'):
		case c == '.':
			dots++
		case c >= '0' && c <= '9':
			digits++
		default:
			return nil
		}
	}
	if digits == 0 || dots > 1 {
		return nil
	}

	y, err := strconv.ParseFloat(string(s), 64)
	if err != nil && !isRangeError(err) || math.IsNaN(y) {
		return nil
	}
	if math.IsInf(y, 0) {
		return nil
	}
	return Real(y)
}

func isRangeError(err error) bool {
	ne, ok := err.(*strconv.NumError)
	return ok && ne.Err == strconv.ErrRange
}
