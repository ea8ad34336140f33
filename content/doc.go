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

// Package content reads PDF content streams.
//
// A [Reader] splits a content stream into a sequence of events: operators
// together with their operands, the dictionary and data of inline images,
// and the begin and end of form XObjects.  Form XObjects invoked by the
// Do operator are read in place, using an explicit stack of content
// streams which bounds the nesting depth and detects recursion.
//
// Problems in the content stream are reported as warnings attached to
// events.  Reading continues after a warning, unless the reader was
// created with the [ThrowOnWarnings] flag.
//
//	r, err := content.NewReader(store, content.NewPageCanvas(store, page), nil)
//	if err != nil {
//		return err
//	}
//	for ev, err := range r.All() {
//		if err != nil {
//			return err
//		}
//		fmt.Println(ev)
//	}
package content
