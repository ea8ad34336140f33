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

// Package asciihex implements the ASCIIHexDecode filter of PDF.
package asciihex

import (
	"bufio"
	"fmt"
	"io"
)

// Decode returns a ReadCloser which decodes data in ASCII hexadecimal form.
// White space is ignored, and the data ends at the first '>'.  An odd final
// digit is treated as if it were followed by 0.
func Decode(r io.Reader) io.ReadCloser {
	return &reader{r: bufio.NewReader(r)}
}

type reader struct {
	r   *bufio.Reader
	err error

	high    byte
	hasHigh bool
}

func (r *reader) Read(p []byte) (n int, err error) {
	for n < len(p) && r.err == nil {
		c, err := r.r.ReadByte()
		if err == io.EOF {
			err = io.ErrUnexpectedEOF
		}
		if err != nil {
			r.err = err
			break
		}

		switch {
		case c == '>':
			if r.hasHigh {
				p[n] = r.high << 4
				n++
				r.hasHigh = false
			}
			r.err = io.EOF
		case isSpace(c):
			// pass
		default:
			d, ok := digitValue(c)
			if !ok {
				r.err = fmt.Errorf("asciihex: invalid character %q", c)
				break
			}
			if r.hasHigh {
				p[n] = r.high<<4 | d
				n++
			} else {
				r.high = d
			}
			r.hasHigh = !r.hasHigh
		}
	}

	if n > 0 {
		return n, nil
	}
	return 0, r.err
}

func (r *reader) Close() error {
	if r.err == nil || r.err == io.EOF {
		return nil
	}
	return r.err
}

func digitValue(c byte) (byte, bool) {
	switch {
	case c >= '0' && c <= '9':
		return c - '0', true
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10, true
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10, true
	default:
		return 0, false
	}
}

func isSpace(c byte) bool {
	switch c {
	case 0, 9, 10, 12, 13, 32:
		return true
	}
	return false
}
