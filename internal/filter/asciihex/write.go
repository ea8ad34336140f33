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

package asciihex

import (
	"io"
)

const hexDigits = "0123456789abcdef"

// Encode returns a WriteCloser which writes data in ASCII hexadecimal form.
// Output lines are at most width characters long; width must be at least 2.
// Closing the returned writer writes the '>' marker and closes w.
func Encode(w io.WriteCloser, width int) io.WriteCloser {
	return &writer{
		w:     w,
		width: max(width, 2),
		buf:   make([]byte, 0, 512),
	}
}

type writer struct {
	w     io.WriteCloser
	width int
	col   int
	buf   []byte
}

func (w *writer) Write(p []byte) (int, error) {
	for n, c := range p {
		if w.col+2 > w.width {
			w.buf = append(w.buf, '\n')
			w.col = 0
		}
		w.buf = append(w.buf, hexDigits[c>>4], hexDigits[c&15])
		w.col += 2

		if len(w.buf) >= cap(w.buf)-3 {
			_, err := w.w.Write(w.buf)
			w.buf = w.buf[:0]
			if err != nil {
				return n, err
			}
		}
	}
	return len(p), nil
}

func (w *writer) Close() error {
	if w.col+1 > w.width {
		w.buf = append(w.buf, '\n')
	}
	w.buf = append(w.buf, '>')
	_, err := w.w.Write(w.buf)
	w.buf = w.buf[:0]
	if err != nil {
		return err
	}
	return w.w.Close()
}
