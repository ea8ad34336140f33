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


package predict

import "io"

type reader struct {
	src  io.ReadCloser
	p    *Params
	in   []byte // one row of encoded data
	prev []byte // previous decoded row, PNG only
	out  []byte // decoded data not yet returned
	err  error
}

// NewReader returns a reader which reverses the predictor on the data
// read from r.  For predictor 1, r is returned unchanged.
//
// A truncated last row is decoded as far as the data goes.
func NewReader(r io.ReadCloser, p *Params) (io.ReadCloser, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if p.Predictor == 1 {
		return r, nil
	}

	res := &reader{
		src: r,
		p:   p,
		in:  make([]byte, p.encodedRowBytes()),
	}
	if p.isPNG() {
		res.prev = make([]byte, p.rowBytes())
	}
	return res, nil
}

func (r *reader) Read(buf []byte) (int, error) {
	for len(r.out) == 0 {
		if r.err != nil {
			return 0, r.err
		}
		r.err = r.nextRow()
	}
	n := copy(buf, r.out)
	r.out = r.out[n:]
	return n, nil
}

func (r *reader) Close() error {
	return r.src.Close()
}

// nextRow decodes one row into r.out.
func (r *reader) nextRow() error {
	n, err := io.ReadFull(r.src, r.in)
	if err == io.ErrUnexpectedEOF {
		err = io.EOF
	} else if err != nil {
		return err
	}
	row := r.in[:n]

	if !r.p.isPNG() {
		tiffDecode(row, r.p)
		r.out = row
		return err
	}

	if n == 0 {
		return err
	}
	data := row[1:]
	decErr := pngDecode(row[0], data, r.prev, r.p.sampleBytes())
	if decErr != nil {
		return decErr
	}
	copy(r.prev, data)
	r.out = data
	return err
}
