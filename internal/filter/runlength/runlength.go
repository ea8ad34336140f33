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

// Package runlength implements the RunLengthDecode filter of PDF.
//
// A length byte 0-127 is followed by 1-128 literal bytes, a length byte
// 129-255 is followed by one byte which is repeated 257-length times, and
// the length byte 128 marks the end of data.
package runlength

import (
	"bufio"
	"io"
)

const eod = 128

// Decode returns a ReadCloser which decodes run-length encoded data.
// Missing end-of-data markers are tolerated.
func Decode(r io.Reader) io.ReadCloser {
	return &reader{br: bufio.NewReader(r)}
}

type reader struct {
	br  *bufio.Reader
	err error

	count   int // bytes left in the current run
	literal bool
	value   byte
}

func (r *reader) Read(p []byte) (n int, err error) {
	for n < len(p) && r.err == nil {
		if r.count == 0 {
			r.startRun()
			continue
		}

		k := min(r.count, len(p)-n)
		if r.literal {
			k, err = io.ReadFull(r.br, p[n:n+k])
			if err == io.EOF {
				err = io.ErrUnexpectedEOF
			}
			r.err = err
		} else {
			for i := range k {
				p[n+i] = r.value
			}
		}
		n += k
		r.count -= k
	}

	if n > 0 {
		return n, nil
	}
	return 0, r.err
}

func (r *reader) startRun() {
	length, err := r.br.ReadByte()
	if err != nil {
		r.err = err
		return
	}
	switch {
	case length == eod:
		r.err = io.EOF
	case length < eod:
		r.count = int(length) + 1
		r.literal = true
	default:
		r.value, err = r.br.ReadByte()
		if err == io.EOF {
			err = io.ErrUnexpectedEOF
		}
		r.err = err
		r.count = 257 - int(length)
		r.literal = false
	}
}

func (r *reader) Close() error {
	return nil
}

// Encode returns a WriteCloser which run-length encodes data.
// Closing the returned writer writes the end-of-data marker and closes w.
func Encode(w io.WriteCloser) io.WriteCloser {
	return &writer{w: w}
}

type writer struct {
	w io.WriteCloser

	// buf[0] is reserved for the length byte of a literal run
	buf  [129]byte
	used int

	repeatCount int
	repeatVal   byte
}

func (w *writer) Write(p []byte) (n int, err error) {
	for n < len(p) {
		b := p[n]
		if w.repeatCount > 0 {
			if b == w.repeatVal && w.repeatCount < 128 {
				w.repeatCount++
				n++
				continue
			}
			if err := w.flushRepeat(); err != nil {
				return n, err
			}
		}

		w.used++
		w.buf[w.used] = b
		n++

		// three equal bytes start a repeated run
		if w.used >= 3 && w.buf[w.used] == w.buf[w.used-1] && w.buf[w.used] == w.buf[w.used-2] {
			if w.used > 3 {
				if err := w.flushLiteral(w.used - 3); err != nil {
					return n, err
				}
			}
			w.used = 0
			w.repeatCount = 3
			w.repeatVal = b
		} else if w.used == 128 {
			if err := w.flushLiteral(128); err != nil {
				return n, err
			}
			w.used = 0
		}
	}
	return n, nil
}

// flushLiteral writes the first count buffered bytes as a literal run.
func (w *writer) flushLiteral(count int) error {
	w.buf[0] = byte(count - 1)
	_, err := w.w.Write(w.buf[:count+1])
	return err
}

func (w *writer) flushRepeat() error {
	_, err := w.w.Write([]byte{byte(257 - w.repeatCount), w.repeatVal})
	w.repeatCount = 0
	return err
}

func (w *writer) Close() error {
	if w.repeatCount > 0 {
		if err := w.flushRepeat(); err != nil {
			return err
		}
	}
	if w.used > 0 {
		if err := w.flushLiteral(w.used); err != nil {
			return err
		}
		w.used = 0
	}
	if _, err := w.w.Write([]byte{eod}); err != nil {
		return err
	}
	return w.w.Close()
}
