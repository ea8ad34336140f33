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

type writer struct {
	dst  io.WriteCloser
	p    *Params
	row  []byte // the row being collected
	used int
	prev []byte // previous row, PNG only
	out  []byte // one row of encoded data
}

// NewWriter returns a writer which applies the predictor to the data
// and writes the result to w.  For predictor 1, w is returned unchanged.
//
// Closing the writer closes w.  If the data does not end at a row
// boundary, the last row is padded with zeros.
func NewWriter(w io.WriteCloser, p *Params) (io.WriteCloser, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if p.Predictor == 1 {
		return w, nil
	}

	res := &writer{
		dst: w,
		p:   p,
		row: make([]byte, p.rowBytes()),
		out: make([]byte, p.encodedRowBytes()),
	}
	if p.isPNG() {
		res.prev = make([]byte, p.rowBytes())
	}
	return res, nil
}

func (w *writer) Write(buf []byte) (int, error) {
	n := 0
	for len(buf) > 0 {
		k := copy(w.row[w.used:], buf)
		w.used += k
		n += k
		buf = buf[k:]
		if w.used == len(w.row) {
			err := w.flushRow()
			if err != nil {
				return n, err
			}
		}
	}
	return n, nil
}

func (w *writer) Close() error {
	if w.used > 0 {
		clear(w.row[w.used:])
		err := w.flushRow()
		if err != nil {
			w.dst.Close()
			return err
		}
	}
	return w.dst.Close()
}

func (w *writer) flushRow() error {
	w.used = 0

	if !w.p.isPNG() {
		tiffEncode(w.row, w.p)
		_, err := w.dst.Write(w.row)
		return err
	}

	bpp := w.p.sampleBytes()
	tag := byte(w.p.Predictor - 10)
	if w.p.Predictor == 15 {
		tag = pngChoose(w.out[1:], w.row, w.prev, bpp)
	}
	w.out[0] = tag
	pngEncode(tag, w.out[1:], w.row, w.prev, bpp)
	w.prev, w.row = w.row, w.prev

	_, err := w.dst.Write(w.out)
	return err
}
