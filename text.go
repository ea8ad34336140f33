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
	"unicode/utf8"

	"golang.org/x/text/encoding/unicode"
)

var (
	utf16BOM = []byte{0xFE, 0xFF}
	utf8BOM  = []byte{0xEF, 0xBB, 0xBF}
)

// TextString encodes a Go string as a PDF text string.
// PDFDocEncoding is used if it can represent every character of s,
// otherwise the string is encoded as UTF-16BE with a byte order mark.
func TextString(s string) String {
	if res, ok := pdfDocEncode(s); ok {
		return res
	}

	enc := unicode.UTF16(unicode.BigEndian, unicode.UseBOM).NewEncoder()
	res, err := enc.Bytes([]byte(s))
	if err != nil {
		res := append(String{}, utf8BOM...)
		return append(res, s...)
	}
	return String(res)
}

// AsTextString interprets x as a PDF text string and returns the
// corresponding Go string.  UTF-16BE and UTF-8 strings are recognized by
// their byte order marks, everything else is decoded using PDFDocEncoding.
func (x String) AsTextString() string {
	switch {
	case bytes.HasPrefix(x, utf16BOM):
		dec := unicode.UTF16(unicode.BigEndian, unicode.ExpectBOM).NewDecoder()
		res, err := dec.Bytes(x)
		if err == nil {
			return string(res)
		}
	case bytes.HasPrefix(x, utf8BOM):
		return string(x[len(utf8BOM):])
	}
	return pdfDocDecode(x)
}

func pdfDocDecode(s String) string {
	for _, c := range s {
		if c >= 0x80 || pdfDocDecodeTable[c] != rune(c) {
			goto Decode
		}
	}
	return string(s)

Decode:
	r := make([]rune, len(s))
	for i, c := range s {
		r[i] = pdfDocDecodeTable[c]
	}
	return string(r)
}

func pdfDocEncode(s string) (String, bool) {
	res := make(String, 0, len(s))
	for _, r := range s {
		if r == utf8.RuneError {
			return nil, false
		}
		c, ok := pdfDocEncodeTable[r]
		if !ok {
			return nil, false
		}
		res = append(res, c)
	}
	// Strings which look like they carry a BOM would be misread.
	if bytes.HasPrefix(res, utf16BOM) {
		return nil, false
	}
	return res, true
}

var (
	pdfDocDecodeTable [256]rune
	pdfDocEncodeTable map[rune]byte
)

func init() {
	for i := range pdfDocDecodeTable {
		pdfDocDecodeTable[i] = rune(i)
	}
	for i, r := range []rune{0x02D8, 0x02C7, 0x02C6, 0x02D9, 0x02DD, 0x02DB, 0x02DA, 0x02DC} {
		pdfDocDecodeTable[0x18+i] = r
	}
	for i, r := range []rune{
		0x2022, 0x2020, 0x2021, 0x2026, 0x2014, 0x2013, 0x0192, 0x2044,
		0x2039, 0x203A, 0x2212, 0x2030, 0x201E, 0x201C, 0x201D, 0x2018,
		0x2019, 0x201A, 0x2122, 0xFB01, 0xFB02, 0x0141, 0x0152, 0x0160,
		0x0178, 0x017D, 0x0131, 0x0142, 0x0153, 0x0161, 0x017E,
	} {
		pdfDocDecodeTable[0x80+i] = r
	}
	pdfDocDecodeTable[0x7F] = utf8.RuneError
	pdfDocDecodeTable[0x9F] = utf8.RuneError
	pdfDocDecodeTable[0xA0] = 0x20AC
	pdfDocDecodeTable[0xAD] = utf8.RuneError

	pdfDocEncodeTable = make(map[rune]byte, 256)
	for i, r := range pdfDocDecodeTable {
		if r != utf8.RuneError {
			pdfDocEncodeTable[r] = byte(i)
		}
	}
}
