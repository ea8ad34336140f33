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
	"bytes"
	"errors"
	"io"
	"iter"

	"seehuhn.de/go/pdfcore"
)

// Options configure a [Reader].
// A nil pointer selects the defaults.
type Options struct {
	Flags Flags

	// InlineImage, if set, is called to consume the data of inline
	// images, instead of the built-in scanner for the EI marker.
	// The handler must read up to and including the EI operator.
	// Returning false indicates that the end of the content stream has
	// been reached.
	InlineImage InlineImageHandler

	// InlineImageLength enables the use of /L or /Length entries in inline
	// image dictionaries.  If such an entry is present, exactly that many
	// bytes are read as image data, without scanning for EI.
	InlineImageLength bool

	// MaxDepth is the maximal number of nested content streams.
	// Zero selects a default of 32.
	MaxDepth int
}

// InlineImageHandler consumes the data of an inline image.
// See [Options.InlineImage].
type InlineImageHandler func(dict pdfcore.Dict, r io.ByteReader) bool

const defaultMaxDepth = 32

// frame is one content stream on the reader's stack.
type frame struct {
	tok       *pdfcore.Tokenizer
	resources pdfcore.Dict

	// form and xobj are nil for the outermost content stream.
	form *Form
	xobj *pdfcore.Object
}

// Reader reads content streams as a sequence of events.
// Form XObjects invoked by the Do operator are followed, using an
// explicit stack of content streams.
type Reader struct {
	g        pdfcore.Getter
	flags    Flags
	handler  InlineImageHandler
	useLen   bool
	maxDepth int

	frames   []*frame
	operands []pdfcore.Value
	pending  Warning

	// image is the dictionary of an inline image whose data is still
	// to be read.
	image pdfcore.Dict

	imgBuf []byte
	ev     Event
}

// NewReader creates a reader for the content of a canvas.
// The getter is used to resolve the resources of the canvas.
func NewReader(g pdfcore.Getter, c Canvas, opt *Options) (*Reader, error) {
	res, err := c.Resources()
	if err != nil {
		return nil, err
	}
	body, err := c.Contents()
	if err != nil {
		return nil, err
	}

	r := newReader(g, opt)
	root := &frame{
		tok:       pdfcore.NewTokenizer(body, nil),
		resources: res,
	}
	if fc, isForm := c.(*FormCanvas); isForm {
		root.xobj = fc.obj
	}
	r.frames = append(r.frames, root)
	return r, nil
}

// NewStreamReader creates a reader for a content stream without
// resources.  Do operators cannot be followed and give a
// [WarnInvalidXObject] warning.
func NewStreamReader(body io.Reader, opt *Options) *Reader {
	r := newReader(nil, opt)
	r.frames = append(r.frames, &frame{
		tok: pdfcore.NewTokenizer(body, nil),
	})
	return r
}

func newReader(g pdfcore.Getter, opt *Options) *Reader {
	if opt == nil {
		opt = &Options{}
	}
	maxDepth := opt.MaxDepth
	if maxDepth <= 0 {
		maxDepth = defaultMaxDepth
	}
	return &Reader{
		g:        g,
		flags:    opt.Flags,
		handler:  opt.InlineImage,
		useLen:   opt.InlineImageLength,
		maxDepth: maxDepth,
		imgBuf:   make([]byte, inlineChunkSize),
	}
}

// Depth returns the number of content streams currently open.
func (r *Reader) Depth() int {
	return len(r.frames)
}

// Next reads the next event.  At the end of the content, [io.EOF] is
// returned.  The returned event is only valid until the next call to Next.
//
// If the reader was created with [ThrowOnWarnings], events with warnings
// are returned together with a [*WarningError].  Reading can continue
// after such an error.
func (r *Reader) Next() (*Event, error) {
	ev := &r.ev
	operands := ev.Operands[:0]
	*ev = Event{Operands: operands}

	err := r.next(ev)
	if err != nil {
		return nil, err
	}

	ev.Warnings |= r.pending
	r.pending = 0
	if ev.Warnings != 0 && r.flags&ThrowOnWarnings != 0 {
		return ev, &WarningError{Warnings: ev.Warnings, Event: ev}
	}
	return ev, nil
}

// All iterates over the remaining events.  Iteration stops after the
// first error which is not a [*WarningError].
func (r *Reader) All() iter.Seq2[*Event, error] {
	return func(yield func(*Event, error) bool) {
		for {
			ev, err := r.Next()
			if err == io.EOF {
				return
			}
			if !yield(ev, err) {
				return
			}
			var warn *WarningError
			if err != nil && !errors.As(err, &warn) {
				return
			}
		}
	}
}

func (r *Reader) next(ev *Event) error {
	if r.image != nil {
		dict := r.image
		r.image = nil
		done, err := r.readInlineImageData(ev, dict)
		if err != nil || done {
			return err
		}
	}

	for len(r.frames) > 0 {
		f := r.frames[len(r.frames)-1]
		tok, err := f.tok.Next()
		if err == io.EOF {
			r.frames = r.frames[:len(r.frames)-1]
			r.operands = r.operands[:0]
			if f.form != nil {
				ev.Type = EventEndForm
				ev.Op = OpXObject
				ev.Keyword = string(OpXObject)
				ev.Form = f.form
				ev.XObject = f.xobj
				return nil
			}
			continue
		} else if err != nil {
			var malformed *pdfcore.MalformedFileError
			if errors.As(err, &malformed) {
				r.pending |= WarnInvalidSyntax
				continue
			}
			return err
		}

		if tok.Kind == pdfcore.TokenValue {
			r.operands = append(r.operands, tok.Value)
			continue
		}

		switch tok.Keyword {
		case "]", ">>", ">", ")", "{", "}":
			r.pending |= WarnInvalidSyntax
			continue
		case string(OpBeginInlineImage):
			return r.readInlineImageDict(ev, f)
		}

		r.setOperator(ev, tok.Keyword)
		if ev.Op == OpXObject {
			r.handleDo(ev, f)
		}
		return nil
	}
	return io.EOF
}

// setOperator fills in an operator event, consuming the operand stack.
func (r *Reader) setOperator(ev *Event, keyword string) {
	ev.Type = EventOperator
	ev.Keyword = keyword
	ev.Operands = append(ev.Operands, r.operands...)
	r.operands = r.operands[:0]

	op, known := LookupOp(keyword)
	ev.Op = op
	if !known {
		ev.Warnings |= WarnInvalidOperator
		return
	}
	n := op.NumOperands()
	if n == variable {
		return
	}
	switch {
	case len(ev.Operands) < n:
		ev.Warnings |= WarnInvalidOperator
	case len(ev.Operands) > n:
		ev.Warnings |= WarnSpuriousStackContent
	}
}

// handleDo looks up the XObject named by a Do operator and, for form
// XObjects, pushes the content stream of the form.
func (r *Reader) handleDo(ev *Event, f *frame) {
	if len(ev.Operands) == 0 {
		return
	}
	name, isName := ev.Operands[len(ev.Operands)-1].TryGetName()
	if !isName || r.g == nil || f.resources == nil {
		ev.Warnings |= WarnInvalidXObject
		return
	}

	xobjects, err := pdfcore.GetDict(r.g, f.resources["XObject"])
	if err != nil {
		ev.Warnings |= WarnInvalidXObject
		return
	}
	obj, err := pdfcore.GetStreamObject(r.g, xobjects[name])
	if err != nil || obj == nil {
		ev.Warnings |= WarnInvalidXObject
		return
	}
	ev.XObject = obj

	dict, _ := obj.Dict()
	subtype, _ := pdfcore.GetName(r.g, dict["Subtype"])
	switch {
	case subtype == "Image":
		return
	case subtype != "Form":
		ev.Warnings |= WarnInvalidXObject
		return
	case r.flags&DontFollowXObjects != 0:
		return
	}

	for _, open := range r.frames {
		if open.xobj == obj {
			ev.Warnings |= WarnRecursiveXObject
			return
		}
	}
	if len(r.frames) >= r.maxDepth {
		ev.Warnings |= WarnRecursiveXObject
		return
	}

	form, err := NewForm(r.g, obj, f.resources)
	if err != nil {
		ev.Warnings |= WarnInvalidXObject
		return
	}
	stm, err := obj.Stream()
	if err != nil {
		ev.Warnings |= WarnInvalidXObject
		return
	}
	body, err := stm.FilteredBytes()
	if err != nil {
		ev.Warnings |= WarnInvalidXObject
		return
	}

	r.frames = append(r.frames, &frame{
		tok:       pdfcore.NewTokenizer(bytes.NewReader(body), nil),
		resources: form.Resources,
		form:      form,
		xobj:      obj,
	})
	ev.Type = EventForm
	ev.Form = form
}
