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
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestCreateObject(t *testing.T) {
	s := NewStore(nil)
	var refs []Reference
	for i := range 3 {
		obj, err := s.CreateObject(NewValue(Integer(i)))
		if err != nil {
			t.Fatal(err)
		}
		if !obj.IsDirty() || obj.Store() != s {
			t.Error("new object not owned or not dirty")
		}
		refs = append(refs, obj.Reference())
	}
	want := []Reference{NewReference(1, 0), NewReference(2, 0), NewReference(3, 0)}
	if d := cmp.Diff(want, refs); d != "" {
		t.Errorf("(-want +got):\n%s", d)
	}
	if s.Len() != 3 || s.ObjectCount() != 3 {
		t.Errorf("Len=%d ObjectCount=%d", s.Len(), s.ObjectCount())
	}

	obj, ok := s.GetObject(NewReference(2, 0))
	if !ok {
		t.Fatal("object 2 not found")
	}
	if x, _ := obj.Value().TryGetInteger(); x != 1 {
		t.Errorf("wrong value %s", obj.Value())
	}
	if _, ok := s.GetObject(NewReference(2, 1)); ok {
		t.Error("generation mismatch not detected")
	}
	if _, err := s.MustGetObject(NewReference(9, 0)); !errors.Is(err, ErrNoObject) {
		t.Errorf("MustGetObject: %v", err)
	}
}

func TestReuse(t *testing.T) {
	s := NewStore(nil)
	for range 4 {
		s.CreateObject(Value{})
	}
	s.RemoveObject(NewReference(3, 0), true)
	s.RemoveObject(NewReference(2, 0), true)

	want := []Reference{NewReference(2, 1), NewReference(3, 1)}
	if d := cmp.Diff(want, s.FreeReferences()); d != "" {
		t.Errorf("free list (-want +got):\n%s", d)
	}

	obj, _ := s.CreateObject(Value{})
	if obj.Reference() != NewReference(2, 1) {
		t.Errorf("got %s, want obj_2@1", obj.Reference())
	}
	obj, _ = s.CreateObject(Value{})
	if obj.Reference() != NewReference(3, 1) {
		t.Errorf("got %s, want obj_3@1", obj.Reference())
	}
	obj, _ = s.CreateObject(Value{})
	if obj.Reference() != NewReference(5, 0) {
		t.Errorf("got %s, want obj_5", obj.Reference())
	}
}

func TestNoReuse(t *testing.T) {
	s := NewStore(&StoreOptions{DisableReuse: true})
	s.CreateObject(Value{})
	s.CreateObject(Value{})
	s.RemoveObject(NewReference(1, 0), true)
	if len(s.FreeReferences()) != 0 {
		t.Errorf("unexpected free list %v", s.FreeReferences())
	}
	obj, _ := s.CreateObject(Value{})
	if obj.Reference() != NewReference(3, 0) {
		t.Errorf("got %s", obj.Reference())
	}

	s.SetCanReuseObjectNumbers(true)
	if !s.CanReuseObjectNumbers() {
		t.Error("reuse not enabled")
	}
	s.RemoveObject(NewReference(2, 0), true)
	obj, _ = s.CreateObject(Value{})
	if obj.Reference() != NewReference(2, 1) {
		t.Errorf("got %s", obj.Reference())
	}
}

func TestMaxGeneration(t *testing.T) {
	s := NewStore(nil)
	_, err := s.PushObject(NewReference(1, MaxGeneration), Value{})
	if err != nil {
		t.Fatal(err)
	}
	s.RemoveObject(NewReference(1, MaxGeneration), true)
	if len(s.FreeReferences()) != 0 {
		t.Errorf("exhausted number on free list: %v", s.FreeReferences())
	}
	obj, _ := s.CreateObject(Value{})
	if obj.Reference() != NewReference(2, 0) {
		t.Errorf("got %s", obj.Reference())
	}
}

func TestAllocationLimit(t *testing.T) {
	s := NewStore(nil)
	_, err := s.PushObject(NewReference(MaxObjectNumber, 0), Value{})
	if err != nil {
		t.Fatal(err)
	}
	_, err = s.CreateObject(Value{})
	if !errors.Is(err, ErrAllocation) {
		t.Errorf("expected ErrAllocation, got %v", err)
	}

	_, err = s.PushObject(NewReference(MaxObjectNumber+1, 0), Value{})
	if !errors.Is(err, ErrInvalidHandle) {
		t.Errorf("expected ErrInvalidHandle, got %v", err)
	}
}

func TestAddObject(t *testing.T) {
	s := NewStore(nil)
	s.CreateObject(Value{})
	s.CreateObject(Value{})
	s.RemoveObject(NewReference(1, 0), true)

	obj := NewObject(NewValue(Name("x")))
	err := s.AddObject(obj, NewReference(1, 1))
	if err != nil {
		t.Fatal(err)
	}
	if len(s.FreeReferences()) != 0 {
		t.Errorf("number still free: %v", s.FreeReferences())
	}
	if err := s.AddObject(obj, NewReference(5, 0)); !errors.Is(err, ErrInvalidHandle) {
		t.Errorf("adding owned object: %v", err)
	}

	// replacing an object detaches the old one
	old, _ := s.GetObject(NewReference(2, 0))
	_, err = s.PushObject(NewReference(2, 0), NewValue(Integer(2)))
	if err != nil {
		t.Fatal(err)
	}
	if old.Store() != nil {
		t.Error("replaced object still attached")
	}
}

func TestRemoveObject(t *testing.T) {
	s := NewStore(nil)
	obj, _ := s.CreateObject(Value{})
	if s.RemoveObject(NewReference(1, 1), true) != nil {
		t.Error("removed object with wrong generation")
	}
	if got := s.RemoveObject(obj.Reference(), false); got != obj {
		t.Error("wrong object returned")
	}
	if obj.Store() != nil {
		t.Error("removed object still attached")
	}
	if len(s.FreeReferences()) != 0 {
		t.Error("number freed without markFree")
	}
}

func TestAll(t *testing.T) {
	s := NewStore(nil)
	for _, num := range []uint32{7, 3, 5} {
		s.PushObject(NewReference(num, 0), Value{})
	}
	var got []uint32
	for obj := range s.All() {
		got = append(got, obj.Reference().Number())
	}
	if d := cmp.Diff([]uint32{3, 5, 7}, got); d != "" {
		t.Errorf("(-want +got):\n%s", d)
	}
	if s.ObjectCount() != 7 {
		t.Errorf("ObjectCount = %d", s.ObjectCount())
	}
}

func TestClearStore(t *testing.T) {
	s := NewStore(nil)
	obj, _ := s.CreateObject(Value{})
	s.CreateObject(Value{})
	s.RemoveObject(NewReference(2, 0), true)
	s.Attach(&recorder{})

	s.Clear()
	if s.Len() != 0 || s.ObjectCount() != 0 || len(s.FreeReferences()) != 0 {
		t.Error("store not empty")
	}
	if obj.Store() != nil {
		t.Error("object still attached")
	}
	obj, _ = s.CreateObject(Value{})
	if obj.Reference() != NewReference(1, 0) {
		t.Errorf("got %s", obj.Reference())
	}
}

func TestSetValue(t *testing.T) {
	s := NewStore(nil)
	obj, _ := s.CreateDictionaryObject("")
	obj.ResetDirty()

	obj.Update(func(v *Value) {
		d, _ := v.TryGetDict()
		d["A"] = Integer(1)
	})
	if !obj.IsDirty() {
		t.Error("Update did not mark object dirty")
	}

	if _, err := obj.Stream(); err != nil {
		t.Fatal(err)
	}
	err := obj.SetValue(NewValue(Integer(1)))
	if !errors.Is(err, ErrInvalidDataType) {
		t.Errorf("stream object accepted non-dictionary: %v", err)
	}
}

// recorder is an Observer which logs all notifications.
type recorder struct {
	events  []string
	onWrite func()
}

func (r *recorder) WriteObject(obj *Object) {
	r.events = append(r.events, "write "+obj.Reference().String())
	if r.onWrite != nil {
		r.onWrite()
	}
}

func (r *recorder) BeginAppendStream(s *Stream) {
	r.events = append(r.events, "begin "+s.Owner().Reference().String())
}

func (r *recorder) EndAppendStream(s *Stream) {
	r.events = append(r.events, "end "+s.Owner().Reference().String())
}

func (r *recorder) Finish() {
	r.events = append(r.events, "finish")
}

func TestObservers(t *testing.T) {
	s := NewStore(nil)
	obj, _ := s.CreateDictionaryObject("")

	a := &recorder{}
	b := &recorder{}
	s.Attach(a)
	subB := s.Attach(b)

	stm, _ := obj.Stream()
	if err := stm.Set([]byte("data")); err != nil {
		t.Fatal(err)
	}
	s.WriteObject(obj)
	subB.Detach()
	subB.Detach()
	s.Finish()

	wantA := []string{"begin obj_1", "end obj_1", "write obj_1", "finish"}
	wantB := []string{"begin obj_1", "end obj_1", "write obj_1"}
	if d := cmp.Diff(wantA, a.events); d != "" {
		t.Errorf("a (-want +got):\n%s", d)
	}
	if d := cmp.Diff(wantB, b.events); d != "" {
		t.Errorf("b (-want +got):\n%s", d)
	}

	if err := s.WriteObject(nil); !errors.Is(err, ErrInvalidHandle) {
		t.Errorf("WriteObject(nil): %v", err)
	}
}

func TestDetachDuringNotify(t *testing.T) {
	s := NewStore(nil)
	obj, _ := s.CreateObject(Value{})

	a := &recorder{}
	b := &recorder{}
	a.onWrite = func() { s.Detach(b) }
	s.Attach(a)
	s.Attach(b)

	s.WriteObject(obj)
	if len(a.events) != 1 {
		t.Errorf("a: %v", a.events)
	}
	if len(b.events) != 0 {
		t.Errorf("detached observer notified: %v", b.events)
	}
}

// sliceObserver has a slice field, so its values cannot be compared.
type sliceObserver struct {
	count *int
	_     []int
}

func (o sliceObserver) WriteObject(*Object)       { *o.count++ }
func (o sliceObserver) BeginAppendStream(*Stream) {}
func (o sliceObserver) EndAppendStream(*Stream)   {}
func (o sliceObserver) Finish()                   {}

func TestDetachNotComparable(t *testing.T) {
	s := NewStore(nil)
	obj, _ := s.CreateObject(Value{})

	count := 0
	o := sliceObserver{count: &count}
	sub := s.Attach(o)
	s.Attach(&recorder{})

	s.Detach(o)
	s.Detach(&recorder{})
	s.WriteObject(obj)
	if count != 1 {
		t.Errorf("got %d notifications, want 1", count)
	}

	sub.Detach()
	s.WriteObject(obj)
	if count != 1 {
		t.Errorf("detached observer notified")
	}
}
