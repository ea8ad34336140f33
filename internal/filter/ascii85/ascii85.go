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

// Package ascii85 implements the ASCII85Decode filter of PDF.
//
// Unlike [encoding/ascii85], the decoder requires the end-of-data
// marker "~>" and accepts partial final groups.
package ascii85

import (
	"errors"
	"io"
)

// Encode returns a WriteCloser which encodes data in ASCII base-85 form.
// Closing the returned writer writes the "~>" marker and closes w.
func Encode(w io.WriteCloser) io.WriteCloser {
	return &writer{
		w:   w,
		buf: make([]byte, 0, 80),
	}
}

// Decode returns a ReadCloser which decodes ASCII base-85 data.
func Decode(r io.Reader) io.ReadCloser {
	return &reader{r: r}
}

var (
	errEndMarker   = errors.New("ascii85: invalid end marker")
	errInvalidChar = errors.New("ascii85: invalid character")
)

type reader struct {
	r io.Reader

	// err is returned to the caller once all decoded bytes are delivered.
	err     error
	readErr error

	buf       [512]byte
	pos, nbuf int

	out      [4]byte
	leftover []byte

	v     uint32
	k     int
	tilde bool
}

func (r *reader) Read(p []byte) (n int, err error) {
	if len(p) == 0 {
		return 0, nil
	}

	if len(r.leftover) > 0 {
		n = copy(p, r.leftover)
		r.leftover = r.leftover[n:]
	}
	if r.err != nil {
		if n > 0 {
			return n, nil
		}
		return 0, r.err
	}

	for n < len(p) {
		for r.pos == r.nbuf && r.readErr == nil {
			r.nbuf, r.readErr = r.r.Read(r.buf[:])
			r.pos = 0
			if r.readErr == io.EOF {
				r.readErr = io.ErrUnexpectedEOF
			}
		}
		if r.pos == r.nbuf {
			r.err = r.readErr
			break
		}
		c := r.buf[r.pos]
		r.pos++

		if r.tilde {
			if c == '>' {
				r.err = io.EOF
			} else {
				r.err = errEndMarker
			}
			break
		}

		switch {
		case isSpace[c]:
			continue
		case c >= '!' && c < '!'+85:
			r.v = r.v*85 + uint32(c-'!')
			r.k++
		case c == 'z' && r.k == 0:
			r.v = 0
			r.k = 5
		case c == '~':
			switch r.k {
			case 0:
			case 1:
				r.err = errEndMarker
			default:
				for i := r.k; i < 5; i++ {
					r.v = r.v*85 + 84
				}
				n += r.deliver(p[n:], r.k-1)
			}
			r.tilde = true
			if r.err != nil {
				return n, nil
			}
			continue
		default:
			r.err = errInvalidChar
		}
		if r.err != nil {
			break
		}

		if r.k == 5 {
			n += r.deliver(p[n:], 4)
		}
	}

	if n > 0 {
		return n, nil
	}
	return 0, r.err
}

// deliver copies the first count bytes of the current group to p and
// stores the rest as leftover.
func (r *reader) deliver(p []byte, count int) int {
	r.out[0] = byte(r.v >> 24)
	r.out[1] = byte(r.v >> 16)
	r.out[2] = byte(r.v >> 8)
	r.out[3] = byte(r.v)
	r.v = 0
	r.k = 0

	l := copy(p, r.out[:count])
	if l < count {
		r.leftover = r.out[l:count]
	}
	return l
}

func (r *reader) Close() error {
	if r.err == nil || r.err == io.EOF {
		return nil
	}
	return r.err
}

type writer struct {
	w   io.WriteCloser
	buf []byte
	v   uint32
	k   int
}

func (w *writer) Write(p []byte) (int, error) {
	for n, b := range p {
		w.v = w.v<<8 | uint32(b)
		w.k++
		if w.k < 4 {
			continue
		}

		if cap(w.buf) < len(w.buf)+8 { // space for "xxxxx~>\n"
			err := w.flush()
			if err != nil {
				return n, err
			}
		}
		if w.v == 0 {
			w.buf = append(w.buf, 'z')
		} else {
			var c [5]byte
			v := w.v
			for i := 4; i >= 0; i-- {
				c[i] = byte(v%85) + '!'
				v /= 85
			}
			w.buf = append(w.buf, c[:]...)
		}
		w.v = 0
		w.k = 0
	}
	return len(p), nil
}

func (w *writer) Close() error {
	if w.k != 0 {
		v := w.v << ((4 - w.k) * 8)
		var c [5]byte
		for i := 4; i >= 0; i-- {
			c[i] = byte(v%85) + '!'
			v /= 85
		}
		w.buf = append(w.buf, c[:w.k+1]...)
		w.v = 0
		w.k = 0
	}
	w.buf = append(w.buf, '~', '>')
	err := w.flush()
	if err != nil {
		return err
	}
	return w.w.Close()
}

func (w *writer) flush() error {
	w.buf = append(w.buf, '\n')
	_, err := w.w.Write(w.buf)
	w.buf = w.buf[:0]
	return err
}

var isSpace [256]bool

func init() {
	for _, c := range []byte{0, 9, 10, 12, 13, 32} {
		isSpace[c] = true
	}
}
