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
	"strconv"
	"strings"

	"seehuhn.de/go/pdfcore"
)

// EventType describes what kind of content an [Event] holds.
type EventType uint8

// These are the possible event types.
const (
	// EventOperator is an operator together with its operands.
	EventOperator EventType = iota + 1

	// EventImageDict is the dictionary of an inline image, read between
	// the BI and ID operators.
	EventImageDict

	// EventImageData holds the raw data of an inline image, read between
	// the ID and EI operators.
	EventImageData

	// EventForm is emitted for a Do operator which invokes a form
	// XObject.  The following events come from the content stream of
	// the form, until the matching EventEndForm.
	EventForm

	// EventEndForm marks the end of the content stream of a form XObject.
	EventEndForm
)

func (t EventType) String() string {
	switch t {
	case EventOperator:
		return "Operator"
	case EventImageDict:
		return "ImageDict"
	case EventImageData:
		return "ImageData"
	case EventForm:
		return "Form"
	case EventEndForm:
		return "EndForm"
	default:
		return "EventType(" + strconv.Itoa(int(t)) + ")"
	}
}

// Warning is a set of problems found while reading content.
type Warning uint8

// These are the possible warnings.
const (
	// WarnInvalidOperator indicates an unknown operator, or an operator
	// with too few operands.
	WarnInvalidOperator Warning = 1 << iota

	// WarnSpuriousStackContent indicates that an operator had more
	// operands than it needs.
	WarnSpuriousStackContent

	// WarnInvalidSyntax indicates malformed tokens, for example an
	// unbalanced "]" or ">>".
	WarnInvalidSyntax

	// WarnInvalidXObject indicates that the XObject named by a Do
	// operator is missing or invalid.
	WarnInvalidXObject

	// WarnRecursiveXObject indicates that a form XObject invokes itself,
	// directly or indirectly, or that forms are nested too deeply.
	WarnRecursiveXObject

	// WarnMissingEndImage indicates that the data of an inline image
	// was not terminated by EI.
	WarnMissingEndImage
)

var warningNames = []string{
	"InvalidOperator",
	"SpuriousStackContent",
	"InvalidSyntax",
	"InvalidXObject",
	"RecursiveXObject",
	"MissingEndImage",
}

// Has reports whether all warnings in x are set in w.
func (w Warning) Has(x Warning) bool {
	return w&x == x
}

func (w Warning) String() string {
	if w == 0 {
		return "none"
	}
	var parts []string
	for i, name := range warningNames {
		if w&(1<<i) != 0 {
			parts = append(parts, name)
		}
	}
	if rest := w &^ (1<<len(warningNames) - 1); rest != 0 {
		parts = append(parts, "0x"+strconv.FormatUint(uint64(rest), 16))
	}
	return strings.Join(parts, "|")
}

// Flags control the behaviour of a [Reader].
type Flags uint8

const (
	// ThrowOnWarnings makes the reader return a [*WarningError] for
	// every event which has warnings.
	ThrowOnWarnings Flags = 1 << iota

	// DontFollowXObjects reports Do operators for form XObjects as plain
	// operator events, without reading the content of the form.
	DontFollowXObjects
)

// Event is one unit of content read by a [Reader].
type Event struct {
	Type     EventType
	Warnings Warning

	// Op is the operator, for EventOperator, EventForm and EventEndForm.
	// It is OpUnknown if Keyword is not a valid operator.
	Op      Op
	Keyword string

	// Operands holds the operands of the operator, in the order they
	// appear in the content stream.
	Operands []pdfcore.Value

	ImageDict pdfcore.Dict
	ImageData []byte

	// Form is set for EventForm and EventEndForm.
	Form *Form

	// XObject is the object invoked by a Do operator, if it could be
	// found.
	XObject *pdfcore.Object
}

func (ev *Event) String() string {
	b := &strings.Builder{}
	b.WriteString(ev.Type.String())
	switch ev.Type {
	case EventOperator, EventForm:
		for _, arg := range ev.Operands {
			b.WriteString(" ")
			b.WriteString(arg.String())
		}
		b.WriteString(" ")
		b.WriteString(ev.Keyword)
	case EventImageDict:
		b.WriteString(" ")
		b.WriteString(pdfcore.Format(ev.ImageDict))
	case EventImageData:
		b.WriteString(" ")
		b.WriteString(strconv.Itoa(len(ev.ImageData)))
		b.WriteString(" bytes")
	}
	if ev.Warnings != 0 {
		b.WriteString(" [")
		b.WriteString(ev.Warnings.String())
		b.WriteString("]")
	}
	return b.String()
}

// WarningError is returned together with an event which has warnings,
// if the reader was created with [ThrowOnWarnings].
type WarningError struct {
	Warnings Warning
	Event    *Event
}

func (err *WarningError) Error() string {
	return "content stream: " + err.Warnings.String()
}
