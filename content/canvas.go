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

// Canvas provides a content stream together with its resources.
type Canvas interface {
	Resources() (pdfcore.Dict, error)
	Contents() (io.Reader, error)
}

// maxPageTreeDepth limits the search for inherited page attributes.
const maxPageTreeDepth = 64

var errPageTreeDepth = errors.New("page tree too deep")

// PageCanvas is the content of a page.
type PageCanvas struct {
	g    pdfcore.Getter
	page pdfcore.Dict
}

// NewPageCanvas creates a canvas for the given page dictionary.
func NewPageCanvas(g pdfcore.Getter, page pdfcore.Dict) *PageCanvas {
	return &PageCanvas{g: g, page: page}
}

// Resources returns the resource dictionary of the page.
// Resources inherited from the page tree are taken into account.
func (c *PageCanvas) Resources() (pdfcore.Dict, error) {
	node := c.page
	for range maxPageTreeDepth {
		if node == nil {
			return nil, nil
		}
		if res, ok := node["Resources"]; ok {
			return pdfcore.GetDict(c.g, res)
		}
		parent, err := pdfcore.GetDict(c.g, node["Parent"])
		if err != nil {
			return nil, err
		}
		node = parent
	}
	return nil, &pdfcore.MalformedFileError{Err: errPageTreeDepth}
}

// Contents returns the decoded content of the page.  If /Contents is an
// array of streams, the streams are concatenated, separated by newlines.
func (c *PageCanvas) Contents() (io.Reader, error) {
	contents := c.page["Contents"]
	if ref, isRef := contents.(pdfcore.Reference); isRef {
		obj, ok := c.g.GetObject(ref)
		if !ok {
			return bytes.NewReader(nil), nil
		}
		if !obj.HasStream() {
			contents = obj.Value().Native()
		}
	}

	switch contents := contents.(type) {
	case nil:
		return bytes.NewReader(nil), nil
	case pdfcore.Array:
		var parts []io.Reader
		for i, ref := range contents {
			body, err := streamData(c.g, ref)
			if err != nil {
				return nil, err
			}
			if i > 0 {
				parts = append(parts, bytes.NewReader([]byte{'\n'}))
			}
			parts = append(parts, bytes.NewReader(body))
		}
		return io.MultiReader(parts...), nil
	default:
		body, err := streamData(c.g, contents)
		if err != nil {
			return nil, err
		}
		return bytes.NewReader(body), nil
	}
}

func streamData(g pdfcore.Getter, x pdfcore.Native) ([]byte, error) {
	obj, err := pdfcore.GetStreamObject(g, x)
	if err != nil {
		return nil, fmt.Errorf("content stream: %w", err)
	}
	if obj == nil {
		return nil, nil
	}
	stm, err := obj.Stream()
	if err != nil {
		return nil, err
	}
	return stm.FilteredBytes()
}

// FormCanvas is the content of a form XObject.
type FormCanvas struct {
	g   pdfcore.Getter
	obj *pdfcore.Object
}

// NewFormCanvas creates a canvas for a form XObject.
func NewFormCanvas(g pdfcore.Getter, obj *pdfcore.Object) *FormCanvas {
	return &FormCanvas{g: g, obj: obj}
}

// Resources returns the resource dictionary of the form.
func (c *FormCanvas) Resources() (pdfcore.Dict, error) {
	dict, ok := c.obj.Dict()
	if !ok {
		return nil, errNotForm
	}
	return pdfcore.GetDict(c.g, dict["Resources"])
}

// Contents returns the decoded content stream of the form.
func (c *FormCanvas) Contents() (io.Reader, error) {
	if !c.obj.HasStream() {
		return nil, errNotForm
	}
	stm, err := c.obj.Stream()
	if err != nil {
		return nil, err
	}
	body, err := stm.FilteredBytes()
	if err != nil {
		return nil, err
	}
	return bytes.NewReader(body), nil
}

// BytesCanvas is a content stream held in memory.
type BytesCanvas struct {
	data      []byte
	resources pdfcore.Dict
}

// NewBytesCanvas creates a canvas from decoded content stream data.
func NewBytesCanvas(data []byte, resources pdfcore.Dict) *BytesCanvas {
	return &BytesCanvas{data: data, resources: resources}
}

// Resources returns the resource dictionary of the canvas.
func (c *BytesCanvas) Resources() (pdfcore.Dict, error) {
	return c.resources, nil
}

// Contents returns the content stream data.
func (c *BytesCanvas) Contents() (io.Reader, error) {
	return bytes.NewReader(c.data), nil
}
