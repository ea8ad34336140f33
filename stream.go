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
	"errors"
	"fmt"
	"io"
)

// Stream holds the data of a stream object.  The stream dictionary is
// the value of the owning [Object].
//
// Data is stored in encoded form, as described by the /Filter entry of
// the stream dictionary.  New data is written in an append session:
// [Stream.BeginAppend], followed by any number of calls to
// [Stream.Append], followed by [Stream.EndAppend].
type Stream struct {
	owner   *Object
	buf     StreamBuffer
	session *appendSession
}

type appendSession struct {
	enc io.WriteCloser
	buf StreamBuffer

	// saved holds the encoding entries of the stream dictionary from
	// before the session, restored if the session fails.
	saved Dict
}

var encodingKeys = []Name{"Filter", "DecodeParms", "Length"}

// AppendOptions control [Stream.BeginAppend].
// A nil pointer selects the defaults.
type AppendOptions struct {
	// KeepExisting makes the new data follow the existing data.  The
	// existing data is decoded and re-encoded with the new filters.
	// By default, the existing data is discarded.
	KeepExisting bool

	// KeepFilterKey leaves the /Filter and /DecodeParms entries unchanged
	// when no filters are given.  This is used to store data which is
	// already encoded.
	KeepFilterKey bool

	// NoMarkDirty prevents the owning object from being marked as modified.
	NoMarkDirty bool
}

const rawCopyChunk = 4096

// Owner returns the object the stream belongs to.
// The result is nil if the stream was removed from its object.
func (s *Stream) Owner() *Object {
	return s.owner
}

func (s *Stream) store() *Store {
	if s.owner == nil {
		return nil
	}
	return s.owner.store
}

func (s *Stream) factory() FilterFactory {
	if st := s.store(); st != nil {
		return st.filters
	}
	return DefaultFilters
}

func (s *Stream) defaultFilter() FilterType {
	if st := s.store(); st != nil {
		return st.defaultFilter
	}
	return FilterFlate
}

func (s *Stream) dict() (Dict, error) {
	if s.owner == nil {
		return nil, fmt.Errorf("%w: stream has no owner", ErrInvalidHandle)
	}
	dict, ok := s.owner.Dict()
	if !ok {
		return nil, fmt.Errorf("%w: stream objects need a dictionary", ErrInvalidDataType)
	}
	return dict, nil
}

// IsAppending reports whether an append session is open.
func (s *Stream) IsAppending() bool {
	return s.session != nil
}

// RawBytes returns the encoded stream data.
// The returned slice must not be modified.
func (s *Stream) RawBytes() []byte {
	return s.buf.Bytes()
}

// Len returns the length of the encoded stream data.
func (s *Stream) Len() int {
	return s.buf.Len()
}

// Filters returns the filters listed in the /Filter entry of the stream
// dictionary, in the order in which they are applied for decoding.
func (s *Stream) Filters() ([]FilterType, error) {
	dict, err := s.dict()
	if err != nil {
		return nil, err
	}

	var g Getter
	if st := s.store(); st != nil {
		g = st
	}
	x := dict["Filter"]
	if g != nil {
		x, err = Resolve(g, x)
		if err != nil {
			return nil, err
		}
	}

	var names []Native
	switch x := x.(type) {
	case nil:
		return nil, nil
	case Name:
		names = []Native{x}
	case Array:
		names = x
	default:
		return nil, fmt.Errorf("%w: invalid /Filter %s", ErrInvalidDataType, Format(x))
	}

	res := make([]FilterType, 0, len(names))
	for _, elem := range names {
		name, ok := elem.(Name)
		if !ok {
			return nil, fmt.Errorf("%w: invalid /Filter element %s", ErrInvalidDataType, Format(elem))
		}
		ft, err := ParseFilterType(name)
		if err != nil {
			return nil, err
		}
		res = append(res, ft)
	}
	return res, nil
}

// decodeParms returns the /DecodeParms dictionaries, one per filter.
func (s *Stream) decodeParms(n int) []Dict {
	res := make([]Dict, n)
	dict, _ := s.dict()
	switch x := dict["DecodeParms"].(type) {
	case Dict:
		if n > 0 {
			res[0] = x
		}
	case Array:
		for i := 0; i < n && i < len(x); i++ {
			res[i], _ = x[i].(Dict)
		}
	}
	return res
}

// BeginAppend opens an append session.  The given filters are used to
// encode the data, in the order in which they will be applied for
// decoding.  The /Filter entry of the stream dictionary is updated: it is
// removed if filters is empty, set to a name for a single filter and set
// to an array otherwise.  /DecodeParms is removed whenever /Filter is
// rewritten.
//
// If a session is already open, [ErrAppendActive] is returned and the
// open session is not affected.
func (s *Stream) BeginAppend(filters []FilterType, opt *AppendOptions) error {
	if s.session != nil {
		return ErrAppendActive
	}
	if opt == nil {
		opt = &AppendOptions{}
	}
	dict, err := s.dict()
	if err != nil {
		return err
	}

	var existing []byte
	if opt.KeepExisting && s.buf.Len() > 0 {
		buf := &bytes.Buffer{}
		err := s.GetFilteredCopy(buf)
		if err != nil {
			return err
		}
		existing = buf.Bytes()
	}

	newBuf := s.newBuffer()
	var enc io.WriteCloser = nopWriteCloser{newBuf}
	factory := s.factory()
	for _, ft := range filters {
		f, err := factory(ft, nil)
		if err != nil {
			return err
		}
		enc, err = f.Encode(enc)
		if err != nil {
			return err
		}
	}

	if !opt.NoMarkDirty {
		s.owner.SetDirty()
	}
	if st := s.store(); st != nil {
		st.notify(func(o Observer) { o.BeginAppendStream(s) })
	}

	saved := Dict{}
	for _, key := range encodingKeys {
		if val, ok := dict[key]; ok {
			saved[key] = val
		}
	}

	switch {
	case len(filters) == 0:
		if !opt.KeepFilterKey {
			delete(dict, "Filter")
			delete(dict, "DecodeParms")
		}
	case len(filters) == 1:
		dict["Filter"] = filters[0].Name()
		delete(dict, "DecodeParms")
	default:
		names := make(Array, len(filters))
		for i, ft := range filters {
			names[i] = ft.Name()
		}
		dict["Filter"] = names
		delete(dict, "DecodeParms")
	}

	s.session = &appendSession{enc: enc, buf: newBuf, saved: saved}

	if len(existing) > 0 {
		err := s.Append(existing)
		if err != nil {
			s.abort()
			return err
		}
	}
	return nil
}

func (s *Stream) newBuffer() StreamBuffer {
	if st := s.store(); st != nil {
		return st.newBuffer()
	}
	return defaultStreamFactory()
}

// Append adds data to the stream.  An append session must be open.
func (s *Stream) Append(p []byte) error {
	if s.session == nil {
		return ErrAppendInactive
	}
	if len(p) == 0 {
		return nil
	}
	_, err := s.session.enc.Write(p)
	return err
}

// Write implements the [io.Writer] interface, using [Stream.Append].
func (s *Stream) Write(p []byte) (int, error) {
	err := s.Append(p)
	if err != nil {
		return 0, err
	}
	return len(p), nil
}

// EndAppend closes the append session.  The encoded data replaces the
// previous stream data and the /Length entry is updated.
func (s *Stream) EndAppend() error {
	if s.session == nil {
		return ErrAppendInactive
	}
	session := s.session
	s.session = nil

	err := session.enc.Close()
	if err == nil {
		s.buf = session.buf
		if dict, err2 := s.dict(); err2 == nil {
			dict["Length"] = Integer(s.buf.Len())
		}
	} else {
		s.restore(session)
	}

	if st := s.store(); st != nil {
		st.cache.Remove(s.owner.ref)
		st.notify(func(o Observer) { o.EndAppendStream(s) })
	}
	return err
}

// abort closes a session after an error.  The previous data and the
// entries describing its encoding are kept.
func (s *Stream) abort() {
	session := s.session
	if session == nil {
		return
	}
	s.session = nil
	session.enc.Close()
	s.restore(session)
	if st := s.store(); st != nil {
		st.notify(func(o Observer) { o.EndAppendStream(s) })
	}
}

func (s *Stream) restore(session *appendSession) {
	dict, err := s.dict()
	if err != nil {
		return
	}
	for _, key := range encodingKeys {
		if val, ok := session.saved[key]; ok {
			dict[key] = val
		} else {
			delete(dict, key)
		}
	}
}

// Set replaces the stream data, encoding it with the default filter of the
// store.  Empty data leaves the stream unchanged.
func (s *Stream) Set(data []byte) error {
	if len(data) == 0 {
		return nil
	}
	return s.SetFiltered(data, []FilterType{s.defaultFilter()})
}

// SetFiltered replaces the stream data, encoding it with the given
// filters.  Empty data leaves the stream unchanged.
func (s *Stream) SetFiltered(data []byte, filters []FilterType) error {
	if len(data) == 0 {
		return nil
	}
	return s.setFrom(bytes.NewReader(data), filters)
}

// SetFrom replaces the stream data with the contents of r, encoded with
// the default filter of the store.
func (s *Stream) SetFrom(r io.Reader) error {
	return s.setFrom(r, []FilterType{s.defaultFilter()})
}

// SetFromFiltered replaces the stream data with the contents of r,
// encoded with the given filters.
func (s *Stream) SetFromFiltered(r io.Reader, filters []FilterType) error {
	return s.setFrom(r, filters)
}

func (s *Stream) setFrom(r io.Reader, filters []FilterType) error {
	err := s.BeginAppend(filters, nil)
	if err != nil {
		return err
	}
	_, err = io.Copy(s, r)
	if err != nil {
		s.abort()
		return err
	}
	return s.EndAppend()
}

// SetRawData replaces the stream data with already encoded data read
// from r.  The /Filter entry is not changed.  If length is negative,
// r is read until EOF, otherwise at most length bytes are copied.
func (s *Stream) SetRawData(r io.Reader, length int64) error {
	err := s.BeginAppend(nil, &AppendOptions{KeepFilterKey: true})
	if err != nil {
		return err
	}

	buf := make([]byte, rawCopyChunk)
	for length != 0 {
		chunk := buf
		if length > 0 && length < int64(len(chunk)) {
			chunk = chunk[:length]
		}
		n, err := r.Read(chunk)
		if n > 0 {
			if err := s.Append(chunk[:n]); err != nil {
				s.abort()
				return err
			}
			if length > 0 {
				length -= int64(n)
			}
		}
		if err == io.EOF {
			break
		} else if err != nil {
			s.abort()
			return err
		}
	}
	return s.EndAppend()
}

// GetFilteredCopy writes the decoded stream data to w.
// The filters are applied in the order they are listed in /Filter.
func (s *Stream) GetFilteredCopy(w io.Writer) error {
	filters, err := s.Filters()
	if err != nil {
		return err
	}
	parms := s.decodeParms(len(filters))

	var r io.Reader = bytes.NewReader(s.buf.Bytes())
	var closers []io.Closer
	defer func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i].Close()
		}
	}()

	factory := s.factory()
	for i, ft := range filters {
		f, err := factory(ft, parms[i])
		if err != nil {
			return err
		}
		rc, err := f.Decode(r)
		if err != nil {
			return fmt.Errorf("%s: %w", ft, err)
		}
		closers = append(closers, rc)
		r = rc
	}

	_, err = io.Copy(w, r)
	if err != nil {
		return err
	}

	for i := len(closers) - 1; i >= 0; i-- {
		err = errors.Join(err, closers[i].Close())
	}
	closers = nil
	return err
}

// FilteredBytes returns the decoded stream data.  For streams in a store,
// the result is cached.  The returned slice must not be modified.
func (s *Stream) FilteredBytes() ([]byte, error) {
	st := s.store()
	if st != nil {
		if c, ok := st.cache.Get(s.owner.ref); ok && c.stream == s {
			return c.data, nil
		}
	}

	buf := &bytes.Buffer{}
	err := s.GetFilteredCopy(buf)
	if err != nil {
		return nil, err
	}
	data := buf.Bytes()

	if st != nil && s.session == nil {
		st.cache.Put(s.owner.ref, cachedStream{stream: s, data: data})
	}
	return data, nil
}

type nopWriteCloser struct {
	io.Writer
}

func (nopWriteCloser) Close() error {
	return nil
}
