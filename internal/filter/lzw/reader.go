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

// Package lzw implements the LZWDecode filter of PDF, see section 7.4.4 of
// ISO 32000-2:2020.
//
// Codes are packed most significant bit first, with 8-bit literals and
// code widths between 9 and 12 bits.  If EarlyChange is set, the code width
// is increased one code early, in the same way as TIFF does.
package lzw

import (
	"compress/lzw"
	"io"

	tifflzw "golang.org/x/image/tiff/lzw"
)

// NewReader returns a ReadCloser which decompresses LZW data from r.
func NewReader(r io.Reader, earlyChange bool) io.ReadCloser {
	if earlyChange {
		return tifflzw.NewReader(r, tifflzw.MSB, 8)
	}
	return lzw.NewReader(r, lzw.MSB, 8)
}
