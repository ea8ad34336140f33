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

import "fmt"

// component returns component i of a row packed with bpc bits per
// component.  16 bit values are big endian.
func component(row []byte, i, bpc int) uint32 {
	switch bpc {
	case 8:
		return uint32(row[i])
	case 16:
		return uint32(row[2*i])<<8 | uint32(row[2*i+1])
	default:
		bit := i * bpc
		shift := 8 - bpc - bit%8
		return uint32(row[bit/8]>>shift) & (1<<bpc - 1)
	}
}

func setComponent(row []byte, i, bpc int, v uint32) {
	switch bpc {
	case 8:
		row[i] = byte(v)
	case 16:
		row[2*i] = byte(v >> 8)
		row[2*i+1] = byte(v)
	default:
		bit := i * bpc
		shift := 8 - bpc - bit%8
		mask := byte(1<<bpc-1) << shift
		row[bit/8] = row[bit/8]&^mask | byte(v<<shift)&mask
	}
}

// tiffDecode undoes horizontal differencing in place.  The padding bits
// at the end of the row, and an incomplete trailing component, are left
// unchanged.
func tiffDecode(row []byte, p *Params) {
	colors, bpc := p.Colors, p.BitsPerComponent
	n := min(len(row)*8/bpc, colors*p.Columns)
	mask := uint32(1)<<bpc - 1
	for i := colors; i < n; i++ {
		v := component(row, i, bpc) + component(row, i-colors, bpc)
		setComponent(row, i, bpc, v&mask)
	}
}

// tiffEncode applies horizontal differencing in place.
func tiffEncode(row []byte, p *Params) {
	colors, bpc := p.Colors, p.BitsPerComponent
	n := min(len(row)*8/bpc, colors*p.Columns)
	mask := uint32(1)<<bpc - 1
	for i := n - 1; i >= colors; i-- {
		v := component(row, i, bpc) - component(row, i-colors, bpc)
		setComponent(row, i, bpc, v&mask)
	}
}

// PNG filter types
const (
	pngNone    = 0
	pngSub     = 1
	pngUp      = 2
	pngAverage = 3
	pngPaeth   = 4
)

// pngDecode reverses the PNG filter of one row in place.  The
// bytes of prev hold the previous decoded row, or zeros for the first
// row.
func pngDecode(tag byte, row, prev []byte, bpp int) error {
	switch tag {
	case pngNone:
	case pngSub:
		for i := bpp; i < len(row); i++ {
			row[i] += row[i-bpp]
		}
	case pngUp:
		for i := range row {
			row[i] += prev[i]
		}
	case pngAverage:
		for i := range row {
			var left int
			if i >= bpp {
				left = int(row[i-bpp])
			}
			row[i] += byte((left + int(prev[i])) / 2)
		}
	case pngPaeth:
		for i := range row {
			var left, upLeft byte
			if i >= bpp {
				left = row[i-bpp]
				upLeft = prev[i-bpp]
			}
			row[i] += paeth(left, prev[i], upLeft)
		}
	default:
		return fmt.Errorf("predictor: invalid PNG filter type %d", tag)
	}
	return nil
}

// pngEncode writes the filtered version of row to out.
func pngEncode(tag byte, out, row, prev []byte, bpp int) {
	for i := range row {
		var left, upLeft byte
		if i >= bpp {
			left = row[i-bpp]
			upLeft = prev[i-bpp]
		}
		switch tag {
		case pngNone:
			out[i] = row[i]
		case pngSub:
			out[i] = row[i] - left
		case pngUp:
			out[i] = row[i] - prev[i]
		case pngAverage:
			out[i] = row[i] - byte((int(left)+int(prev[i]))/2)
		case pngPaeth:
			out[i] = row[i] - paeth(left, prev[i], upLeft)
		}
	}
}

// pngChoose selects the filter type which gives the smallest sum of
// absolute differences, as recommended by the PNG specification.
func pngChoose(out, row, prev []byte, bpp int) byte {
	best := byte(pngNone)
	bestScore := -1
	for tag := byte(pngNone); tag <= pngPaeth; tag++ {
		pngEncode(tag, out, row, prev, bpp)
		score := 0
		for _, b := range out {
			score += min(int(b), 256-int(b))
		}
		if bestScore < 0 || score < bestScore {
			best, bestScore = tag, score
		}
	}
	return best
}

func paeth(a, b, c byte) byte {
	p := int(a) + int(b) - int(c)
	pa := abs(p - int(a))
	pb := abs(p - int(b))
	pc := abs(p - int(c))
	switch {
	case pa <= pb && pa <= pc:
		return a
	case pb <= pc:
		return b
	default:
		return c
	}
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
