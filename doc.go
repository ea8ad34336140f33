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

// Package pdfcore implements the object model of PDF files.
//
// The following types implement the basic PDF value types.
// All of these implement the [Native] interface:
//
//	Array
//	Bool
//	Dict
//	Integer
//	Name
//	RawData
//	Real
//	Reference
//	String
//
// A [Value] wraps one of these, with nil standing for the PDF null object,
// and provides typed accessors.
//
// Indirect objects live in a [Store], which allocates object numbers:
//
//	store := pdfcore.NewStore(nil)
//	obj, err := store.CreateDictionaryObject("XObject")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	stm, err := obj.Stream()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	err = stm.Set(data) // FlateDecode by default
//
// Unused objects can be removed using [Store.CollectGarbage], and
// [Store.RenumberObjects] compacts the object numbers.
//
// The [Tokenizer] reads PDF syntax, both for object data and for content
// streams.  The content stream reader is in the subpackage "content".
package pdfcore
