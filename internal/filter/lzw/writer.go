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

package lzw

import (
	"errors"
	"io"
)

const (
	clearCode = 256
	eodCode   = 257
	minWidth  = 9
	maxWidth  = 12
	maxCode   = 1<<maxWidth - 1
)

// NewWriter returns a WriteCloser which compresses data using LZW and
// writes the result to w.  Close must be called to flush the output.
// Closing the writer does not close w.
func NewWriter(w io.Writer, earlyChange bool) (io.WriteCloser, error) {
	lw := &writer{
		w:      w,
		prefix: -1,
		buf:    make([]byte, 0, 512),
	}
	if earlyChange {
		lw.early = 1
	}
	lw.reset()
	lw.emit(clearCode)
	return lw, nil
}

type writer struct {
	w     io.Writer
	early uint32

	table  map[uint32]uint32 // prefix<<8 | next byte -> code
	hi     uint32            // most recently assigned code
	width  uint
	prefix int

	bits  uint32
	nBits uint
	buf   []byte

	err error
}

var errClosed = errors.New("lzw: write to closed writer")

func (w *writer) reset() {
	w.table = make(map[uint32]uint32, 1024)
	w.hi = eodCode
	w.width = minWidth
}

func (w *writer) Write(p []byte) (int, error) {
	if w.err != nil {
		return 0, w.err
	}
	for _, c := range p {
		if w.prefix < 0 {
			w.prefix = int(c)
			continue
		}
		key := uint32(w.prefix)<<8 | uint32(c)
		if code, ok := w.table[key]; ok {
			w.prefix = int(code)
			continue
		}
		w.emit(uint32(w.prefix))
		w.table[key] = w.hi + 1
		w.bump()
		w.prefix = int(c)
	}
	if len(w.buf) >= 256 {
		w.flush()
	}
	return len(p), w.err
}

// bump advances the code counter in the same way the decoder does after
// reading a code.
func (w *writer) bump() {
	w.hi++
	if w.hi+w.early >= 1<<w.width && w.width < maxWidth {
		w.width++
	}
	if w.hi >= maxCode-w.early {
		w.emit(clearCode)
		w.reset()
	}
}

func (w *writer) emit(code uint32) {
	w.bits = w.bits<<w.width | code
	w.nBits += w.width
	for w.nBits >= 8 {
		w.nBits -= 8
		w.buf = append(w.buf, byte(w.bits>>w.nBits))
	}
	w.bits &= 1<<w.nBits - 1
}

func (w *writer) flush() {
	if w.err != nil || len(w.buf) == 0 {
		return
	}
	_, w.err = w.w.Write(w.buf)
	w.buf = w.buf[:0]
}

// Close writes the pending code and the end-of-data marker.
func (w *writer) Close() error {
	if w.err == errClosed {
		return nil
	} else if w.err != nil {
		return w.err
	}

	if w.prefix >= 0 {
		w.emit(uint32(w.prefix))
		w.bump()
	}
	w.emit(eodCode)
	if w.nBits > 0 {
		w.buf = append(w.buf, byte(w.bits<<(8-w.nBits)))
		w.bits, w.nBits = 0, 0
	}
	w.flush()
	if w.err != nil {
		return w.err
	}
	w.err = errClosed
	return nil
}
