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

package content

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"seehuhn.de/go/pdfcore"
)

// readInlineImageDict reads the key/value pairs between BI and ID.
func (r *Reader) readInlineImageDict(ev *Event, f *frame) error {
	if len(r.operands) > 0 {
		ev.Warnings |= WarnSpuriousStackContent
		r.operands = r.operands[:0]
	}

	dict := pdfcore.Dict{}
	for {
		pos := f.tok.Pos()
		tok, err := f.tok.Next()
		if err == io.EOF {
			return &pdfcore.MalformedFileError{Pos: pos, Err: io.ErrUnexpectedEOF}
		} else if err != nil {
			return err
		}

		if tok.Kind == pdfcore.TokenKeyword {
			if tok.Keyword == string(OpInlineImageData) {
				break
			}
			return &pdfcore.MalformedFileError{
				Pos: pos,
				Err: fmt.Errorf("unexpected %q in inline image dictionary", tok.Keyword),
			}
		}
		key, isName := tok.Value.TryGetName()
		if !isName {
			return &pdfcore.MalformedFileError{
				Pos: pos,
				Err: fmt.Errorf("invalid inline image key %s", tok.Value),
			}
		}

		val, err := f.tok.ReadValue()
		if err != nil {
			return err
		}
		if !val.IsNull() {
			dict[key] = val.Native()
		}
	}

	ev.Type = EventImageDict
	ev.Op = OpBeginInlineImage
	ev.Keyword = string(OpBeginInlineImage)
	ev.ImageDict = dict
	r.image = dict
	return nil
}

// states of the EI scanner
const (
	readE = iota
	readI
	readWhiteSpace
)

// readInlineImageData reads the data of an inline image, following the ID
// operator.  If a custom handler is installed, no event is produced and
// the function returns false.
func (r *Reader) readInlineImageData(ev *Event, dict pdfcore.Dict) (bool, error) {
	f := r.frames[len(r.frames)-1]

	if r.handler != nil {
		if !r.handler(dict, f.tok) {
			f.tok = pdfcore.NewTokenizer(bytes.NewReader(nil), nil)
		}
		return false, nil
	}

	ev.Type = EventImageData
	ev.Op = OpInlineImageData
	ev.Keyword = string(OpInlineImageData)
	ev.ImageDict = dict

	// one white space character separates ID from the data
	_, err := f.tok.ReadByte()
	if err == io.EOF {
		ev.Warnings |= WarnMissingEndImage
		return true, nil
	} else if err != nil {
		return true, err
	}

	if r.useLen {
		if n := inlineImageLength(dict); n > 0 {
			return true, r.readFixedLength(ev, f, n)
		}
	}

	// The data ends at the first "EI" which is followed by white space.
	// Binary data can contain this sequence, so this is only a heuristic.
	buf := r.imgBuf
	n := 0
	state := readE
	for {
		c, err := f.tok.ReadByte()
		if err == io.EOF {
			ev.ImageData = buf[:n]
			ev.Warnings |= WarnMissingEndImage
			r.imgBuf = buf
			return true, nil
		} else if err != nil {
			return true, err
		}

		switch state {
		case readE:
			if c == 'E' {
				state = readI
			}
		case readI:
			if c == 'I' {
				state = readWhiteSpace
			} else {
				state = readE
			}
		case readWhiteSpace:
			if pdfcore.IsSpace(c) {
				ev.ImageData = buf[:n-2]
				r.imgBuf = buf
				return true, nil
			}
			state = readE
		}

		if n == len(buf) {
			newBuf := make([]byte, max(2*len(buf), inlineChunkSize))
			copy(newBuf, buf)
			buf = newBuf
		}
		buf[n] = c
		n++
	}
}

const inlineChunkSize = 4096

// readFixedLength reads n bytes of image data, followed by EI.
func (r *Reader) readFixedLength(ev *Event, f *frame, n int) error {
	data := r.imgBuf[:0]
	for len(data) < n {
		start := len(data)
		k := min(n-start, inlineChunkSize)
		data = append(data, make([]byte, k)...)
		m, err := f.tok.ReadFull(data[start:])
		if err != nil {
			data = data[:start+m]
			var malformed *pdfcore.MalformedFileError
			if !errors.As(err, &malformed) {
				return err
			}
			ev.ImageData = data
			ev.Warnings |= WarnMissingEndImage
			r.imgBuf = data[:cap(data)]
			return nil
		}
	}
	ev.ImageData = data
	r.imgBuf = data[:cap(data)]

	f.tok.SkipWhiteSpace()
	for _, want := range []byte(OpEndInlineImage) {
		c, err := f.tok.PeekByte()
		if err != nil || c != want {
			ev.Warnings |= WarnMissingEndImage
			return nil
		}
		f.tok.ReadByte()
	}
	return nil
}

// inlineImageLength returns the value of /L or /Length in an inline
// image dictionary, or 0 if there is no such entry.
func inlineImageLength(dict pdfcore.Dict) int {
	for _, key := range []pdfcore.Name{"L", "Length"} {
		if x, ok := dict[key].(pdfcore.Integer); ok && x > 0 && x < 1<<31 {
			return int(x)
		}
	}
	return 0
}
