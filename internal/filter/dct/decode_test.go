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


package dct

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"io"
	"testing"
)

func encode(t *testing.T, img image.Image) []byte {
	t.Helper()
	buf := &bytes.Buffer{}
	err := jpeg.Encode(buf, img, &jpeg.Options{Quality: 100})
	if err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestGray(t *testing.T) {
	img := image.NewGray(image.Rect(0, 0, 8, 4))
	for i := range img.Pix {
		img.Pix[i] = 128
	}
	r, err := Decode(bytes.NewReader(encode(t, img)))
	if err != nil {
		t.Fatal(err)
	}
	data, err := io.ReadAll(r)
	if err != nil {
		t.Fatal(err)
	}
	if len(data) != 8*4 {
		t.Fatalf("got %d bytes, want %d", len(data), 8*4)
	}
	for i, b := range data {
		if b < 126 || b > 130 {
			t.Errorf("sample %d: got %d, want 128", i, b)
		}
	}
}

func TestColor(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 16, 16))
	for y := range 16 {
		for x := range 16 {
			img.Set(x, y, color.RGBA{R: 200, G: 40, B: 40, A: 255})
		}
	}
	r, err := Decode(bytes.NewReader(encode(t, img)))
	if err != nil {
		t.Fatal(err)
	}
	data, err := io.ReadAll(r)
	if err != nil {
		t.Fatal(err)
	}
	if len(data) != 16*16*3 {
		t.Fatalf("got %d bytes, want %d", len(data), 16*16*3)
	}
	if data[0] < 180 || data[1] > 60 || data[2] > 60 {
		t.Errorf("unexpected first pixel %v", data[:3])
	}
}

func TestInvalid(t *testing.T) {
	_, err := Decode(bytes.NewReader([]byte("not a JPEG file")))
	if err == nil {
		t.Error("invalid data accepted")
	}
}
