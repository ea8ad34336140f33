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
	"bytes"
	"fmt"
	"io"
)

// Object is an indirect object: a value, optionally with stream data,
// which is identified by a [Reference].
//
// Objects are normally created by a [Store], which then owns them.
type Object struct {
	ref    Reference
	value  Value
	stream *Stream
	store  *Store
	dirty  bool
}

// NewObject creates an object which does not belong to any store.
// It can later be inserted using [Store.AddObject].
func NewObject(v Value) *Object {
	return &Object{value: v}
}

// Reference returns the reference of the object.  For objects outside
// a store this is the zero reference.
func (o *Object) Reference() Reference {
	return o.ref
}

// Store returns the store which owns the object, or nil.
func (o *Object) Store() *Store {
	return o.store
}

// Value returns the value of the object.
// Composite payloads share memory with the object, use [Object.Update]
// to modify them.
func (o *Object) Value() Value {
	return o.value
}

// SetValue replaces the value of the object and marks it as dirty.
// Objects with stream data must keep a dictionary value.
func (o *Object) SetValue(v Value) error {
	if o.stream != nil && !v.IsDictionary() {
		return fmt.Errorf("%w: stream objects need a dictionary, not %s",
			ErrInvalidDataType, v.Kind())
	}
	o.value = v
	o.SetDirty()
	o.dropDecoded()
	return nil
}

// Update calls fn to modify the value of the object in place, and marks
// the object as dirty.
func (o *Object) Update(fn func(v *Value)) {
	fn(&o.value)
	o.SetDirty()
	o.dropDecoded()
}

// dropDecoded removes the decoded stream data from the store's cache.
// This is needed whenever /Filter or /DecodeParms may have changed.
func (o *Object) dropDecoded() {
	if o.stream != nil && o.store != nil {
		o.store.cache.Remove(o.ref)
	}
}

// Dict returns the dictionary value of the object.
func (o *Object) Dict() (Dict, bool) {
	return o.value.TryGetDict()
}

// IsDirty reports whether the object was modified since the last call to
// [Object.ResetDirty].
func (o *Object) IsDirty() bool {
	return o.dirty
}

// SetDirty marks the object as modified.
func (o *Object) SetDirty() {
	o.dirty = true
}

// ResetDirty clears the modification flag.
func (o *Object) ResetDirty() {
	o.dirty = false
}

// HasStream reports whether the object has stream data attached.
func (o *Object) HasStream() bool {
	return o.stream != nil
}

// Stream returns the stream of the object, creating an empty stream if
// necessary.  Only objects with a dictionary value can carry a stream.
func (o *Object) Stream() (*Stream, error) {
	if o.stream != nil {
		return o.stream, nil
	}
	if !o.value.IsDictionary() {
		return nil, fmt.Errorf("%w: stream objects need a dictionary, not %s",
			ErrInvalidDataType, o.value.Kind())
	}

	newBuffer := defaultStreamFactory
	if o.store != nil {
		newBuffer = o.store.newBuffer
	}
	o.stream = &Stream{
		owner: o,
		buf:   newBuffer(),
	}
	return o.stream, nil
}

// RemoveStream detaches the stream data from the object.
// The stream must not be in an append session.
func (o *Object) RemoveStream() error {
	if o.stream == nil {
		return nil
	}
	if o.stream.IsAppending() {
		return ErrAppendActive
	}
	o.stream.owner = nil
	o.stream = nil
	if dict, ok := o.Dict(); ok {
		delete(dict, "Length")
		delete(dict, "Filter")
		delete(dict, "DecodeParms")
	}
	o.SetDirty()
	return nil
}

// MoveStreamTo moves the stream data of o to dst.  The entries
// describing the encoding (/Filter, /DecodeParms and /Length) move
// together with the data.  Any existing stream of dst is replaced.
func (o *Object) MoveStreamTo(dst *Object) error {
	if o.stream == nil {
		return fmt.Errorf("%w: object has no stream", ErrInvalidHandle)
	}
	if o.stream.IsAppending() {
		return fmt.Errorf("cannot move stream: %w", ErrAppendActive)
	}
	if dst == o {
		return nil
	}
	if dst.stream != nil && dst.stream.IsAppending() {
		return fmt.Errorf("cannot replace stream: %w", ErrAppendActive)
	}
	dstDict, ok := dst.Dict()
	if !ok {
		return fmt.Errorf("%w: stream objects need a dictionary, not %s",
			ErrInvalidDataType, dst.value.Kind())
	}
	srcDict, _ := o.Dict()

	for _, key := range []Name{"Length", "Filter", "DecodeParms"} {
		if val, ok := srcDict[key]; ok {
			dstDict[key] = val
		} else {
			delete(dstDict, key)
		}
		delete(srcDict, key)
	}

	if dst.stream != nil {
		dst.stream.owner = nil
	}
	dst.stream = o.stream
	dst.stream.owner = dst
	o.stream = nil

	if o.store != nil {
		o.store.cache.Remove(o.ref)
	}
	if dst.store != nil {
		dst.store.cache.Remove(dst.ref)
	}
	o.SetDirty()
	dst.SetDirty()
	return nil
}

// WriteIndirect writes the object in the form used in PDF files,
// including the "n g obj" header and the stream data, if any.
// The /Length entry is updated to match the stream data.
func (o *Object) WriteIndirect(w io.Writer, mode WriteMode) error {
	_, err := fmt.Fprintf(w, "%d %d obj\n", o.ref.Number(), o.ref.Generation())
	if err != nil {
		return err
	}

	if o.stream != nil {
		dict, ok := o.Dict()
		if !ok {
			return fmt.Errorf("%w: stream objects need a dictionary", ErrInvalidDataType)
		}
		data := o.stream.RawBytes()
		dict["Length"] = Integer(len(data))

		err = dict.PDF(w, mode)
		if err != nil {
			return err
		}
		_, err = io.WriteString(w, "\nstream\n")
		if err != nil {
			return err
		}
		_, err = w.Write(data)
		if err != nil {
			return err
		}
		_, err = io.WriteString(w, "\nendstream")
		if err != nil {
			return err
		}
	} else {
		err = o.value.Write(w, mode)
		if err != nil {
			return err
		}
	}

	_, err = io.WriteString(w, "\nendobj\n")
	return err
}

func (o *Object) String() string {
	buf := &bytes.Buffer{}
	fmt.Fprintf(buf, "%s: %s", o.ref, o.value)
	if o.stream != nil {
		fmt.Fprintf(buf, " + %d bytes of stream data", o.stream.Len())
	}
	return buf.String()
}
