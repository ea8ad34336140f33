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


// Package predict implements the TIFF and PNG predictors which can be
// combined with the FlateDecode and LZWDecode filters.
//
// See section 7.4.4.4 of ISO 32000-2:2020.
package predict

import (
	"errors"
	"fmt"
)

// Params holds the predictor entries of a /DecodeParms dictionary.
type Params struct {
	Colors           int // components per sample
	BitsPerComponent int // 1, 2, 4, 8 or 16
	Columns          int // samples per row

	// Predictor is 1 for no prediction, 2 for TIFF predictor 2, or 10 to
	// 15 for the PNG predictors.  When encoding, 10 to 14 select the PNG
	// filter type Predictor-10 for every row, and 15 chooses a filter
	// type per row.
	Predictor int
}

const maxColumns = 1 << 20

var errColumns = errors.New("predictor: invalid /Columns")

// Validate checks that p describes a supported predictor.
func (p *Params) Validate() error {
	switch p.Predictor {
	case 1:
		return nil
	case 2:
		if p.Colors < 1 || p.Colors > 60 {
			return fmt.Errorf("predictor: invalid /Colors %d", p.Colors)
		}
	case 10, 11, 12, 13, 14, 15:
		if p.Colors < 1 || p.Colors > 256 {
			return fmt.Errorf("predictor: invalid /Colors %d", p.Colors)
		}
	default:
		return fmt.Errorf("predictor: unsupported /Predictor %d", p.Predictor)
	}

	switch p.BitsPerComponent {
	case 1, 2, 4, 8, 16:
	default:
		return fmt.Errorf("predictor: invalid /BitsPerComponent %d", p.BitsPerComponent)
	}

	if p.Columns < 1 || p.Columns > maxColumns {
		return errColumns
	}
	if p.Columns > (1<<31-1)/p.bitsPerSample() {
		return errColumns
	}
	return nil
}

func (p *Params) isPNG() bool {
	return p.Predictor >= 10
}

func (p *Params) bitsPerSample() int {
	return p.Colors * p.BitsPerComponent
}

// rowBytes is the length of a row of decoded data.
func (p *Params) rowBytes() int {
	return (p.bitsPerSample()*p.Columns + 7) / 8
}

// sampleBytes is the distance used by the PNG filters to find the
// corresponding byte of the previous sample.
func (p *Params) sampleBytes() int {
	return max((p.bitsPerSample()+7)/8, 1)
}

// encodedRowBytes is the length of a row of encoded data.
// PNG rows start with a filter type byte.
func (p *Params) encodedRowBytes() int {
	if p.isPNG() {
		return p.rowBytes() + 1
	}
	return p.rowBytes()
}
