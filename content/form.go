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
	"errors"
	"fmt"

	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/geom/rect"

	"seehuhn.de/go/pdfcore"
)

// Form describes a form XObject, as seen by a [Reader].
type Form struct {
	Object *pdfcore.Object

	// Resources is the resource dictionary used for the content of the
	// form.  Forms without their own resources use the resources of the
	// content stream which invokes them.
	Resources pdfcore.Dict

	BBox   rect.Rect
	Matrix matrix.Matrix
}

var errNotForm = errors.New("not a form XObject")

// NewForm reads the description of a form XObject.
// If the form has no /Resources entry, parentRes is used instead.
func NewForm(g pdfcore.Getter, obj *pdfcore.Object, parentRes pdfcore.Dict) (*Form, error) {
	if obj == nil || !obj.HasStream() {
		return nil, errNotForm
	}
	dict, ok := obj.Dict()
	if !ok {
		return nil, errNotForm
	}
	if subtype, _ := pdfcore.GetName(g, dict["Subtype"]); subtype != "Form" {
		return nil, fmt.Errorf("%s: %w", obj.Reference(), errNotForm)
	}

	res, err := pdfcore.GetDict(g, dict["Resources"])
	if err != nil {
		return nil, fmt.Errorf("%s: /Resources: %w", obj.Reference(), err)
	}
	if res == nil {
		res = parentRes
	}

	bbox, err := pdfcore.GetRectangle(g, dict["BBox"])
	if err != nil {
		return nil, fmt.Errorf("%s: /BBox: %w", obj.Reference(), err)
	}
	m, err := pdfcore.GetMatrix(g, dict["Matrix"])
	if err != nil {
		return nil, fmt.Errorf("%s: /Matrix: %w", obj.Reference(), err)
	}

	return &Form{
		Object:    obj,
		Resources: res,
		BBox:      bbox,
		Matrix:    m,
	}, nil
}
