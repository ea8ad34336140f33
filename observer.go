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
	"reflect"
	"slices"
)

// Observer receives notifications from a [Store].
// Callbacks are called synchronously, in the order the observers were
// attached.
type Observer interface {
	WriteObject(obj *Object)
	BeginAppendStream(s *Stream)
	EndAppendStream(s *Stream)
	Finish()
}

// Subscription represents an attached [Observer].
type Subscription struct {
	store *Store
	obs   Observer
}

// Attach registers an observer with the store.
// The same observer can be attached more than once.
func (s *Store) Attach(o Observer) *Subscription {
	sub := &Subscription{store: s, obs: o}
	s.observers = append(s.observers, sub)
	return sub
}

// Detach removes all subscriptions of the given observer.
// Observers whose dynamic type is not comparable are never matched; use
// [Subscription.Detach] for these.
func (s *Store) Detach(o Observer) {
	s.observers = slices.DeleteFunc(s.observers, func(sub *Subscription) bool {
		if !sameObserver(sub.obs, o) {
			return false
		}
		sub.store = nil
		return true
	})
}

// Detach removes the subscription.  Calling Detach more than once is
// harmless.  Detaching from inside a callback is allowed; the observer
// receives no further notifications.
func (sub *Subscription) Detach() {
	s := sub.store
	if s == nil {
		return
	}
	sub.store = nil
	s.observers = slices.DeleteFunc(s.observers, func(x *Subscription) bool {
		return x == sub
	})
}

func sameObserver(a, b Observer) bool {
	ta := reflect.TypeOf(a)
	if ta != reflect.TypeOf(b) || ta == nil || !ta.Comparable() {
		return false
	}
	return a == b
}

func (s *Store) notify(fn func(Observer)) {
	for _, sub := range slices.Clone(s.observers) {
		if sub.store != s {
			continue
		}
		fn(sub.obs)
	}
}
