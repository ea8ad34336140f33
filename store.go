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
	"iter"
	"maps"
	"slices"
)

// MaxObjectNumber is the largest object number a [Store] allocates.
const MaxObjectNumber = 8388607

// StoreOptions configures a [Store].
// A nil pointer selects the defaults.
type StoreOptions struct {
	// DisableReuse prevents the store from reusing the numbers of removed
	// objects.
	DisableReuse bool

	// Filters constructs the stream filters.  If this is nil,
	// [DefaultFilters] is used.
	Filters FilterFactory

	// DefaultFilter is used by [Stream.Set] and [Stream.SetFrom].
	// The zero value selects [FilterFlate].
	DefaultFilter FilterType

	// CacheSize is the number of decoded stream payloads kept in memory
	// by [Stream.FilteredBytes].  Zero selects 16 entries, a negative value
	// disables the cache.
	CacheSize int

	// StreamFactory allocates the buffers holding the stream data.
	// If this is nil, [bytes.Buffer] is used.
	StreamFactory StreamFactory
}

// StreamBuffer holds the encoded data of a stream.
type StreamBuffer interface {
	Write(p []byte) (int, error)
	Bytes() []byte
	Len() int
	Reset()
}

// StreamFactory allocates a new, empty StreamBuffer.
type StreamFactory func() StreamBuffer

func defaultStreamFactory() StreamBuffer {
	return &bytes.Buffer{}
}

// Store is a collection of indirect objects, indexed by object number.
//
// The store allocates object numbers for new objects, keeps track of
// free numbers which can be reused, and notifies observers about writes
// and stream modifications.  A Store is not safe for concurrent use.
type Store struct {
	objects map[uint32]*Object

	// free holds the references available for reuse, in increasing order.
	// The generation numbers are already incremented.
	free        []Reference
	unavailable map[uint32]bool
	objectCount uint32
	reuse       bool

	observers []*Subscription

	filters       FilterFactory
	defaultFilter FilterType
	newBuffer     StreamFactory
	cache         *lruCache[Reference, cachedStream]
}

type cachedStream struct {
	stream *Stream
	data   []byte
}

// NewStore creates an empty store.
func NewStore(opt *StoreOptions) *Store {
	if opt == nil {
		opt = &StoreOptions{}
	}

	s := &Store{
		objects:       make(map[uint32]*Object),
		unavailable:   make(map[uint32]bool),
		reuse:         !opt.DisableReuse,
		filters:       opt.Filters,
		defaultFilter: opt.DefaultFilter,
		newBuffer:     opt.StreamFactory,
	}
	if s.filters == nil {
		s.filters = DefaultFilters
	}
	if s.defaultFilter == FilterNone {
		s.defaultFilter = FilterFlate
	}
	if s.newBuffer == nil {
		s.newBuffer = defaultStreamFactory
	}

	cacheSize := opt.CacheSize
	if cacheSize == 0 {
		cacheSize = 16
	}
	s.cache = newCache[Reference, cachedStream](cacheSize)

	return s
}

// SetCanReuseObjectNumbers enables or disables the reuse of object numbers.
// Disabling reuse discards the list of free numbers.
func (s *Store) SetCanReuseObjectNumbers(reuse bool) {
	s.reuse = reuse
	if !reuse {
		s.free = nil
	}
}

// CanReuseObjectNumbers reports whether numbers of removed objects are
// reused.
func (s *Store) CanReuseObjectNumbers() bool {
	return s.reuse
}

// Len returns the number of objects in the store.
func (s *Store) Len() int {
	return len(s.objects)
}

// ObjectCount returns the largest object number ever used in the store.
func (s *Store) ObjectCount() uint32 {
	return s.objectCount
}

// FreeReferences returns the references which will be used for new
// objects before any new numbers are allocated.
func (s *Store) FreeReferences() []Reference {
	return slices.Clone(s.free)
}

// GetObject returns the object with the given reference.
// Both the object number and the generation must match.
func (s *Store) GetObject(ref Reference) (*Object, bool) {
	obj, ok := s.objects[ref.Number()]
	if !ok || obj.ref != ref {
		return nil, false
	}
	return obj, true
}

// MustGetObject is like [Store.GetObject], but returns [ErrNoObject] if
// the object does not exist.
func (s *Store) MustGetObject(ref Reference) (*Object, error) {
	obj, ok := s.GetObject(ref)
	if !ok {
		return nil, fmt.Errorf("%s: %w", ref, ErrNoObject)
	}
	return obj, nil
}

// All iterates over the objects in the store, in order of increasing
// reference.  The store must not be modified during the iteration.
func (s *Store) All() iter.Seq[*Object] {
	return func(yield func(*Object) bool) {
		for _, num := range slices.Sorted(maps.Keys(s.objects)) {
			if !yield(s.objects[num]) {
				return
			}
		}
	}
}

// CreateObject adds a new object with the given value to the store.
func (s *Store) CreateObject(v Value) (*Object, error) {
	ref, err := s.nextFreeReference()
	if err != nil {
		return nil, err
	}
	obj := &Object{ref: ref, value: v, store: s, dirty: true}
	s.insert(obj)
	return obj, nil
}

// CreateDictionaryObject adds a new object with a dictionary value.
// If typ is not empty, the dictionary gets a /Type entry.
func (s *Store) CreateDictionaryObject(typ Name) (*Object, error) {
	dict := Dict{}
	if typ != "" {
		dict["Type"] = typ
	}
	return s.CreateObject(NewValue(dict))
}

// PushObject adds a new object with the given reference and value.
// An existing object with the same number is replaced.
func (s *Store) PushObject(ref Reference, v Value) (*Object, error) {
	obj := NewObject(v)
	err := s.AddObject(obj, ref)
	if err != nil {
		return nil, err
	}
	return obj, nil
}

// AddObject inserts an object which does not belong to any store, using
// the given reference.  An existing object with the same number is
// replaced.
func (s *Store) AddObject(obj *Object, ref Reference) error {
	if obj == nil {
		return fmt.Errorf("%w: nil object", ErrInvalidHandle)
	}
	if obj.store != nil {
		return fmt.Errorf("%w: object already belongs to a store", ErrInvalidHandle)
	}
	num := ref.Number()
	if num == 0 || num > MaxObjectNumber {
		return fmt.Errorf("%w: invalid object number %d", ErrInvalidHandle, num)
	}

	if old, ok := s.objects[num]; ok {
		old.store = nil
	}
	obj.ref = ref
	obj.store = s
	obj.dirty = true
	s.insert(obj)

	if i, found := slices.BinarySearchFunc(s.free, num, compareNumber); found {
		s.free = slices.Delete(s.free, i, i+1)
	}
	return nil
}

func compareNumber(ref Reference, num uint32) int {
	switch {
	case ref.Number() < num:
		return -1
	case ref.Number() > num:
		return 1
	default:
		return 0
	}
}

func (s *Store) insert(obj *Object) {
	s.objects[obj.ref.Number()] = obj
	s.cache.Remove(obj.ref)
	s.TryIncrementObjectCount(obj.ref)
}

// TryIncrementObjectCount raises the high-water mark of object numbers
// to include ref, if needed.
func (s *Store) TryIncrementObjectCount(ref Reference) {
	if num := ref.Number(); num > s.objectCount {
		s.objectCount = num
	}
}

// nextFreeReference finds the reference for a new object.
func (s *Store) nextFreeReference() (Reference, error) {
	if s.reuse && len(s.free) > 0 {
		ref := s.free[0]
		s.free = s.free[1:]
		return ref, nil
	}

	num := s.objectCount + 1
	for s.unavailable[num] {
		num++
	}
	if num > MaxObjectNumber {
		return 0, ErrAllocation
	}
	return NewReference(num, 0), nil
}

// RemoveObject removes an object from the store and returns it.
// The result is nil if the object does not exist.
//
// If markFree is set and number reuse is enabled, the object number is
// added to the list of free numbers, with the generation number increased
// by one.  Numbers whose generation has reached [MaxGeneration] are never
// used again.
func (s *Store) RemoveObject(ref Reference, markFree bool) *Object {
	obj, ok := s.GetObject(ref)
	if !ok {
		return nil
	}
	if markFree {
		s.addFreeObject(ref)
	}

	delete(s.objects, ref.Number())
	s.cache.Remove(ref)
	obj.store = nil
	return obj
}

func (s *Store) addFreeObject(ref Reference) {
	if !s.reuse {
		return
	}
	num := ref.Number()
	gen := ref.Generation()
	if gen >= MaxGeneration {
		s.unavailable[num] = true
		return
	}

	next := NewReference(num, gen+1)
	i, found := slices.BinarySearchFunc(s.free, num, compareNumber)
	if found {
		s.free[i] = next
	} else {
		s.free = slices.Insert(s.free, i, next)
	}
}

// Clear removes all objects, free numbers and observers from the store.
func (s *Store) Clear() {
	for _, obj := range s.objects {
		obj.store = nil
	}
	clear(s.objects)
	clear(s.unavailable)
	s.free = nil
	s.objectCount = 0
	for _, sub := range s.observers {
		sub.store = nil
	}
	s.observers = nil
	s.cache.Clear()
}

// WriteObject notifies all observers that obj is about to be written.
func (s *Store) WriteObject(obj *Object) error {
	if obj == nil {
		return fmt.Errorf("%w: nil object", ErrInvalidHandle)
	}
	s.notify(func(o Observer) { o.WriteObject(obj) })
	return nil
}

// Finish notifies all observers that writing is complete.
func (s *Store) Finish() {
	s.notify(func(o Observer) { o.Finish() })
}
