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


// Package dct decodes DCTDecode (JPEG) stream data.
package dct

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"io"
)

// Decode reads a JPEG image from r and returns the samples as PDF image
// data: one byte per component, without padding at the end of rows.
// Gray images give 1 component, CMYK images 4, and all other images are
// converted to RGB.
func Decode(r io.Reader) (io.ReadCloser, error) {
	img, err := jpeg.Decode(r)
	if err != nil {
		return nil, err
	}

	var data []byte
	switch img := img.(type) {
	case *image.Gray:
		data = packRows(img.Pix, img.Stride, img.Rect, img.Bounds(), 1)
	case *image.CMYK:
		data = packRows(img.Pix, img.Stride, img.Rect, img.Bounds(), 4)
	default:
		data = toRGB(img)
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

// packRows copies the pixels inside b out of a pixel buffer covering
// rect.
func packRows(pix []byte, stride int, rect, b image.Rectangle, n int) []byte {
	rowLen := b.Dx() * n
	res := make([]byte, 0, rowLen*b.Dy())
	for y := b.Min.Y; y < b.Max.Y; y++ {
		start := (y-rect.Min.Y)*stride + (b.Min.X-rect.Min.X)*n
		res = append(res, pix[start:start+rowLen]...)
	}
	return res
}

func toRGB(img image.Image) []byte {
	bounds := img.Bounds()
	res := make([]byte, 0, 3*bounds.Dx()*bounds.Dy())
	ycc, isYCbCr := img.(*image.YCbCr)
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			if isYCbCr {
				c := ycc.YCbCrAt(x, y)
				r, g, b := color.YCbCrToRGB(c.Y, c.Cb, c.Cr)
				res = append(res, r, g, b)
				continue
			}
			c := color.RGBAModel.Convert(img.At(x, y)).(color.RGBA)
			res = append(res, c.R, c.G, c.B)
		}
	}
	return res
}
