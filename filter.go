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
	"compress/zlib"
	"fmt"
	"io"

	"seehuhn.de/go/pdfcore/internal/filter/ascii85"
	"seehuhn.de/go/pdfcore/internal/filter/asciihex"
	"seehuhn.de/go/pdfcore/internal/filter/dct"
	"seehuhn.de/go/pdfcore/internal/filter/lzw"
	"seehuhn.de/go/pdfcore/internal/filter/predict"
	"seehuhn.de/go/pdfcore/internal/filter/runlength"
)

// FilterType identifies one of the standard PDF stream filters.
type FilterType uint8

// These are the standard filters from section 7.4 of ISO 32000-2:2020.
const (
	FilterNone FilterType = iota
	FilterASCIIHex
	FilterASCII85
	FilterLZW
	FilterFlate
	FilterRunLength
	FilterCCITTFax
	FilterJBIG2
	FilterDCT
	FilterJPX
	FilterCrypt
)

var filterNames = [...]Name{
	FilterASCIIHex:  "ASCIIHexDecode",
	FilterASCII85:   "ASCII85Decode",
	FilterLZW:       "LZWDecode",
	FilterFlate:     "FlateDecode",
	FilterRunLength: "RunLengthDecode",
	FilterCCITTFax:  "CCITTFaxDecode",
	FilterJBIG2:     "JBIG2Decode",
	FilterDCT:       "DCTDecode",
	FilterJPX:       "JPXDecode",
	FilterCrypt:     "Crypt",
}

// abbreviations used in inline images
var filterAbbrev = map[Name]FilterType{
	"AHx": FilterASCIIHex,
	"A85": FilterASCII85,
	"LZW": FilterLZW,
	"Fl":  FilterFlate,
	"RL":  FilterRunLength,
	"CCF": FilterCCITTFax,
	"DCT": FilterDCT,
}

// Name returns the PDF name of the filter.
// The result is empty for [FilterNone] and for invalid values.
func (ft FilterType) Name() Name {
	if int(ft) < len(filterNames) {
		return filterNames[ft]
	}
	return ""
}

func (ft FilterType) String() string {
	if n := ft.Name(); n != "" {
		return string(n)
	}
	return fmt.Sprintf("FilterType(%d)", ft)
}

// ParseFilterType converts a filter name to a FilterType.  Both the full
// names and the abbreviations used in inline images are recognized.
func ParseFilterType(name Name) (FilterType, error) {
	for i, n := range filterNames {
		if n == name && n != "" {
			return FilterType(i), nil
		}
	}
	if ft, ok := filterAbbrev[name]; ok {
		return ft, nil
	}
	return FilterNone, fmt.Errorf("%w: unknown filter %q", ErrInvalidDataType, name)
}

// Filter encodes and decodes stream data for one filter stage.
type Filter interface {
	// Encode returns a writer which encodes data and writes the result to w.
	// Closing the returned writer must flush all data and close w.
	Encode(w io.WriteCloser) (io.WriteCloser, error)

	// Decode returns a reader which decodes the data read from r.
	Decode(r io.Reader) (io.ReadCloser, error)
}

// FilterFactory constructs the Filter for one stage of a stream.
// The parms argument holds the corresponding /DecodeParms dictionary, or
// nil if there is none.
type FilterFactory func(ft FilterType, parms Dict) (Filter, error)

// DefaultFilters is the built-in [FilterFactory].
// It supports ASCIIHexDecode, ASCII85Decode, RunLengthDecode, FlateDecode
// and LZWDecode in both directions, and DCTDecode for decoding only.
func DefaultFilters(ft FilterType, parms Dict) (Filter, error) {
	switch ft {
	case FilterASCIIHex:
		return asciiHexFilter{}, nil
	case FilterASCII85:
		return ascii85Filter{}, nil
	case FilterRunLength:
		return runLengthFilter{}, nil
	case FilterFlate:
		p, err := predictorParams(parms)
		if err != nil {
			return nil, err
		}
		return &flateFilter{predict: p}, nil
	case FilterLZW:
		p, err := predictorParams(parms)
		if err != nil {
			return nil, err
		}
		early := true
		if x, ok := parms["EarlyChange"].(Integer); ok {
			early = x != 0
		}
		return &lzwFilter{predict: p, early: early}, nil
	case FilterDCT:
		return dctFilter{}, nil
	case FilterCCITTFax, FilterJBIG2, FilterJPX, FilterCrypt:
		return nil, fmt.Errorf("%s: %w", ft, ErrNotImplemented)
	default:
		return nil, fmt.Errorf("%w: filter type %d", ErrInvalidDataType, ft)
	}
}

// predictorParams extracts the predictor settings from a /DecodeParms
// dictionary.  The result is nil if no predictor is used.
func predictorParams(parms Dict) (*predict.Params, error) {
	p := &predict.Params{
		Colors:           1,
		BitsPerComponent: 8,
		Columns:          1,
		Predictor:        1,
	}
	for key, ptr := range map[Name]*int{
		"Colors":           &p.Colors,
		"BitsPerComponent": &p.BitsPerComponent,
		"Columns":          &p.Columns,
		"Predictor":        &p.Predictor,
	} {
		if x, ok := parms[key].(Integer); ok {
			if x < 0 || x > 1<<30 {
				return nil, fmt.Errorf("invalid /%s %d", key, x)
			}
			*ptr = int(x)
		}
	}
	if p.Predictor == 1 {
		return nil, nil
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

type asciiHexFilter struct{}

func (asciiHexFilter) Encode(w io.WriteCloser) (io.WriteCloser, error) {
	return asciihex.Encode(w, 79), nil
}

func (asciiHexFilter) Decode(r io.Reader) (io.ReadCloser, error) {
	return asciihex.Decode(r), nil
}

type ascii85Filter struct{}

func (ascii85Filter) Encode(w io.WriteCloser) (io.WriteCloser, error) {
	return ascii85.Encode(w), nil
}

func (ascii85Filter) Decode(r io.Reader) (io.ReadCloser, error) {
	return ascii85.Decode(r), nil
}

type runLengthFilter struct{}

func (runLengthFilter) Encode(w io.WriteCloser) (io.WriteCloser, error) {
	return runlength.Encode(w), nil
}

func (runLengthFilter) Decode(r io.Reader) (io.ReadCloser, error) {
	return runlength.Decode(r), nil
}

type flateFilter struct {
	predict *predict.Params
}

func (f *flateFilter) Encode(w io.WriteCloser) (io.WriteCloser, error) {
	zw, err := zlib.NewWriterLevel(w, zlib.BestCompression)
	if err != nil {
		return nil, err
	}
	var res io.WriteCloser = &closeBoth{WriteCloser: zw, next: w}
	if f.predict != nil {
		res, err = predict.NewWriter(res, f.predict)
		if err != nil {
			return nil, err
		}
	}
	return res, nil
}

func (f *flateFilter) Decode(r io.Reader) (io.ReadCloser, error) {
	zr, err := zlib.NewReader(r)
	if err != nil {
		return nil, err
	}
	if f.predict != nil {
		return predict.NewReader(zr, f.predict)
	}
	return zr, nil
}

type lzwFilter struct {
	predict *predict.Params
	early   bool
}

func (f *lzwFilter) Encode(w io.WriteCloser) (io.WriteCloser, error) {
	lw, err := lzw.NewWriter(w, f.early)
	if err != nil {
		return nil, err
	}
	var res io.WriteCloser = &closeBoth{WriteCloser: lw, next: w}
	if f.predict != nil {
		res, err = predict.NewWriter(res, f.predict)
		if err != nil {
			return nil, err
		}
	}
	return res, nil
}

func (f *lzwFilter) Decode(r io.Reader) (io.ReadCloser, error) {
	lr := lzw.NewReader(r, f.early)
	if f.predict != nil {
		return predict.NewReader(lr, f.predict)
	}
	return lr, nil
}

type dctFilter struct{}

func (dctFilter) Encode(io.WriteCloser) (io.WriteCloser, error) {
	return nil, fmt.Errorf("DCTDecode encoding: %w", ErrNotImplemented)
}

func (dctFilter) Decode(r io.Reader) (io.ReadCloser, error) {
	return dct.Decode(r)
}

// closeBoth closes an encoder and then the writer it writes to.
type closeBoth struct {
	io.WriteCloser
	next io.Closer
}

func (w *closeBoth) Close() error {
	err := w.WriteCloser.Close()
	err2 := w.next.Close()
	if err == nil {
		err = err2
	}
	return err
}
