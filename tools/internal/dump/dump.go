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

// Package dump reads and writes text dumps of PDF objects.
//
// A dump is a sequence of indirect objects in the form "n g obj ... endobj",
// optionally followed by the keyword "trailer" and a dictionary.
package dump

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"seehuhn.de/go/pdfcore"
)

// Dump is a collection of indirect objects, together with a trailer
// dictionary.
type Dump struct {
	Store   *pdfcore.Store
	Trailer pdfcore.Value // null if the dump has no trailer
}

// Read loads a dump into a new store.  All objects are marked as clean.
func Read(r io.Reader, opt *pdfcore.StoreOptions) (*Dump, error) {
	d := &Dump{Store: pdfcore.NewStore(opt)}
	t := pdfcore.NewTokenizer(r, &pdfcore.TokenizerOptions{References: true})

	for {
		t.SkipWhiteSpace()
		b, err := t.PeekByte()
		if err == io.EOF {
			break
		} else if err != nil {
			return nil, err
		}

		if b == 't' {
			err = t.ReadKeyword("trailer")
			if err != nil {
				return nil, err
			}
			d.Trailer, err = t.ReadValue()
			if err != nil {
				return nil, err
			}
			if !d.Trailer.IsDictionary() {
				return nil, &pdfcore.MalformedFileError{
					Pos: t.Pos(),
					Err: errors.New("trailer is not a dictionary"),
				}
			}
			continue
		}

		ind, err := t.ReadIndirectObject()
		if err != nil {
			return nil, err
		}
		err = d.add(ind)
		if err != nil {
			return nil, err
		}
	}

	for obj := range d.Store.All() {
		obj.ResetDirty()
	}
	return d, nil
}

func (d *Dump) add(ind *pdfcore.IndirectObject) error {
	if _, exists := d.Store.GetObject(ind.Reference); exists {
		return fmt.Errorf("duplicate object %s", ind.Reference)
	}
	obj, err := d.Store.PushObject(ind.Reference, ind.Value)
	if err != nil {
		return err
	}
	if ind.Stream == nil {
		return nil
	}
	s, err := obj.Stream()
	if err != nil {
		return fmt.Errorf("%s: %w", ind.Reference, err)
	}
	return s.SetRawData(bytes.NewReader(ind.Stream), int64(len(ind.Stream)))
}

// Write writes all objects in order of increasing object number,
// followed by the trailer.
func (d *Dump) Write(w io.Writer, mode pdfcore.WriteMode) error {
	for obj := range d.Store.All() {
		err := d.Store.WriteObject(obj)
		if err != nil {
			return err
		}
		err = obj.WriteIndirect(w, mode)
		if err != nil {
			return err
		}
	}
	d.Store.Finish()

	if d.Trailer.IsNull() {
		return nil
	}
	_, err := io.WriteString(w, "trailer\n")
	if err != nil {
		return err
	}
	err = d.Trailer.Write(w, mode)
	if err != nil {
		return err
	}
	_, err = io.WriteString(w, "\n")
	return err
}

// Bytes returns the output of [Dump.Write] as a byte slice.
func (d *Dump) Bytes(mode pdfcore.WriteMode) ([]byte, error) {
	buf := &bytes.Buffer{}
	err := d.Write(buf, mode)
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Lookup returns the object with the given object number, whatever its
// generation.
func (d *Dump) Lookup(num uint32) (*pdfcore.Object, bool) {
	for obj := range d.Store.All() {
		if obj.Reference().Number() == num {
			return obj, true
		}
	}
	return nil, false
}
