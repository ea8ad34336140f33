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
	"fmt"
	"maps"
	"slices"
)

// reachable returns the set of references which can be reached from the
// given roots by following arrays, dictionaries and references.
// References to missing objects are included.
func (s *Store) reachable(roots ...Native) map[Reference]bool {
	seen := make(map[Reference]bool)
	todo := slices.Clone(roots)
	for len(todo) > 0 {
		x := todo[len(todo)-1]
		todo = todo[:len(todo)-1]

		switch x := x.(type) {
		case Array:
			todo = append(todo, x...)
		case Dict:
			for _, val := range x {
				todo = append(todo, val)
			}
		case Reference:
			if seen[x] {
				continue
			}
			seen[x] = true
			if obj, ok := s.GetObject(x); ok {
				todo = append(todo, obj.value.x)
			}
		}
	}
	return seen
}

// GetObjectDependencies returns the references which are directly or
// indirectly used by obj, in increasing order.  The reference of obj
// itself is only included if the object refers back to itself.
func (s *Store) GetObjectDependencies(obj *Object) []Reference {
	if obj == nil {
		return nil
	}
	deps := s.reachable(obj.value.x)
	return slices.SortedFunc(maps.Keys(deps), Reference.Compare)
}

// CollectGarbage removes all objects which cannot be reached from the
// trailer or from one of the references in keep.  The numbers of removed
// objects are marked as free.  The function returns the number of
// objects removed.
//
// The reachable set is computed before any object is removed.
func (s *Store) CollectGarbage(trailer Value, keep ...Reference) (int, error) {
	roots := make([]Native, 0, len(keep)+1)
	roots = append(roots, trailer.x)
	for _, ref := range keep {
		roots = append(roots, ref)
	}
	live := s.reachable(roots...)

	var unused []Reference
	for obj := range s.All() {
		if !live[obj.ref] {
			unused = append(unused, obj.ref)
		}
	}
	for _, ref := range unused {
		s.RemoveObject(ref, true)
	}
	return len(unused), nil
}

// RenumberObjects assigns consecutive object numbers, starting at 1, to
// all objects in the store, keeping their relative order.  All
// generation numbers are reset to 0 and all references, both inside the
// objects and inside the trailer, are updated.
//
// If doGC is set, unreachable objects (see [Store.CollectGarbage]) are
// removed first; the references in notDelete are kept alive.
//
// A reference to a missing object gives an error wrapping [ErrNoObject].
// In this case the store and the trailer are not modified.  After success,
// the list of free numbers is empty.
func (s *Store) RenumberObjects(trailer *Value, notDelete []Reference, doGC bool) error {
	var trailerVal Native
	if trailer != nil {
		trailerVal = trailer.x
	}

	var live map[Reference]bool
	if doGC {
		roots := []Native{trailerVal}
		for _, ref := range notDelete {
			roots = append(roots, ref)
		}
		live = s.reachable(roots...)
	}

	var survivors []*Object
	for obj := range s.All() {
		if live == nil || live[obj.ref] {
			survivors = append(survivors, obj)
		}
	}

	mapping := make(map[Reference]Reference, len(survivors))
	for i, obj := range survivors {
		mapping[obj.ref] = NewReference(uint32(i+1), 0)
	}

	newValues := make([]Native, len(survivors))
	for i, obj := range survivors {
		x, err := renumber(obj.value.x, mapping)
		if err != nil {
			return fmt.Errorf("object %s: %w", obj.ref, err)
		}
		newValues[i] = x
	}
	newTrailer, err := renumber(trailerVal, mapping)
	if err != nil {
		return fmt.Errorf("trailer: %w", err)
	}

	// All checks passed, now commit the changes.
	for _, obj := range s.objects {
		obj.store = nil
	}
	clear(s.objects)
	for i, obj := range survivors {
		obj.ref = mapping[obj.ref]
		obj.value = Value{newValues[i]}
		obj.store = s
		obj.dirty = true
		s.objects[obj.ref.Number()] = obj
	}
	if trailer != nil {
		trailer.x = newTrailer
	}
	s.free = nil
	clear(s.unavailable)
	s.objectCount = uint32(len(survivors))
	s.cache.Clear()

	return nil
}

// renumber returns a copy of x with all references replaced according to
// mapping.  Values without references are returned unchanged.
func renumber(x Native, mapping map[Reference]Reference) (Native, error) {
	switch x := x.(type) {
	case Reference:
		y, ok := mapping[x]
		if !ok {
			return nil, fmt.Errorf("%s: %w", x, ErrNoObject)
		}
		return y, nil
	case Array:
		res := make(Array, len(x))
		for i, elem := range x {
			y, err := renumber(elem, mapping)
			if err != nil {
				return nil, err
			}
			res[i] = y
		}
		return res, nil
	case Dict:
		res := make(Dict, len(x))
		for key, val := range x {
			y, err := renumber(val, mapping)
			if err != nil {
				return nil, err
			}
			res[key] = y
		}
		return res, nil
	default:
		return x, nil
	}
}
