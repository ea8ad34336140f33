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
	"math"
	"slices"
	"strconv"
	"strings"
)

// Kind identifies which of the basic PDF types a [Value] holds.
type Kind uint8

// These are the possible kinds of PDF values.
const (
	KindNull Kind = iota
	KindBool
	KindInteger
	KindReal
	KindString
	KindName
	KindArray
	KindDictionary
	KindReference
	KindRawData
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "Null"
	case KindBool:
		return "Bool"
	case KindInteger:
		return "Integer"
	case KindReal:
		return "Real"
	case KindString:
		return "String"
	case KindName:
		return "Name"
	case KindArray:
		return "Array"
	case KindDictionary:
		return "Dictionary"
	case KindReference:
		return "Reference"
	case KindRawData:
		return "RawData"
	default:
		return "Kind(" + strconv.Itoa(int(k)) + ")"
	}
}

// WriteMode controls the layout of serialized PDF values.
type WriteMode uint8

const (
	// WriteClean separates tokens by spaces and puts every dictionary
	// entry on its own line.
	WriteClean WriteMode = 0

	// WriteCompact omits all optional white space.  A space is written
	// before every token which could merge with a preceding bare token.
	// Reals lose their trailing zeros, so an integral Real reads back as
	// an Integer.
	WriteCompact WriteMode = 1
)

func (m WriteMode) compact() bool {
	return m&WriteCompact != 0
}

// Native is implemented by the basic PDF types: [Bool], [Integer], [Real],
// [String], [Name], [Array], [Dict], [Reference] and [RawData].
// The nil interface value represents the PDF null object.
type Native interface {
	// Kind returns the kind of the value.
	Kind() Kind

	// PDF writes the PDF file representation of the value to w.
	PDF(w io.Writer, mode WriteMode) error

	isNative()
}

// Bool represents a boolean value in a PDF file.
type Bool bool

// Kind implements the [Native] interface.
func (x Bool) Kind() Kind { return KindBool }

// PDF implements the [Native] interface.
func (x Bool) PDF(w io.Writer, mode WriteMode) error {
	s := "false"
	if x {
		s = "true"
	}
	return writeBare(w, mode, s)
}

func (x Bool) isNative() {}

// Integer represents an integer constant in a PDF file.
type Integer int64

// Kind implements the [Native] interface.
func (x Integer) Kind() Kind { return KindInteger }

// PDF implements the [Native] interface.
func (x Integer) PDF(w io.Writer, mode WriteMode) error {
	return writeBare(w, mode, strconv.FormatInt(int64(x), 10))
}

func (x Integer) isNative() {}

// Real represents a real number in a PDF file.
type Real float64

// Kind implements the [Native] interface.
func (x Real) Kind() Kind { return KindReal }

// PDF implements the [Native] interface.
//
// Reals are written in fixed-point notation with six fractional digits.  In
// compact mode, trailing zeros and a trailing decimal point are removed.
func (x Real) PDF(w io.Writer, mode WriteMode) error {
	if math.IsInf(float64(x), 0) || math.IsNaN(float64(x)) {
		return errNonFinite
	}
	s := strconv.FormatFloat(float64(x), 'f', 6, 64)
	if mode.compact() {
		s = strings.TrimRight(s, "0")
		s = strings.TrimSuffix(s, ".")
		if s == "" || s == "-" || s == "-0" {
			s = "0"
		}
	}
	return writeBare(w, mode, s)
}

func (x Real) isNative() {}

var errNonFinite = errors.New("real number is not finite")

// String represents a raw string in a PDF file.  The character set encoding,
// if any, is determined by the context.
type String []byte

// Kind implements the [Native] interface.
func (x String) Kind() Kind { return KindString }

// PDF implements the [Native] interface.
//
// The literal form is used unless more than a third of the bytes would
// need escaping, in which case the string is written in hex form.
func (x String) PDF(w io.Writer, _ WriteMode) error {
	l := []byte(x)

	level := 0
	for _, c := range l {
		if c == '(' {
			level++
		} else if c == ')' {
			level--
			if level < 0 {
				break
			}
		}
	}
	balanced := level == 0

	var funny []int
	for i, c := range l {
		if c < 32 || c == '\\' || c >= 0x7f ||
			!balanced && (c == '(' || c == ')') {
			funny = append(funny, i)
		}
	}
	n := len(l)

	buf := &bytes.Buffer{}
	if 3*len(funny) <= n {
		buf.WriteString("(")
		pos := 0
		for _, i := range funny {
			if pos < i {
				buf.Write(l[pos:i])
			}
			c := l[i]
			switch c {
			case '\r':
				buf.WriteString(`\r`)
			case '\n':
				buf.WriteString(`\n`)
			case '\t':
				buf.WriteString(`\t`)
			case '\b':
				buf.WriteString(`\b`)
			case '\f':
				buf.WriteString(`\f`)
			case '(':
				buf.WriteString(`\(`)
			case ')':
				buf.WriteString(`\)`)
			case '\\':
				buf.WriteString(`\\`)
			default:
				fmt.Fprintf(buf, `\%03o`, c)
			}
			pos = i + 1
		}
		if pos < n {
			buf.Write(l[pos:n])
		}
		buf.WriteString(")")
	} else {
		fmt.Fprintf(buf, "<%x>", l)
	}

	_, err := w.Write(buf.Bytes())
	return err
}

func (x String) isNative() {}

// Name represents a name object in a PDF file.
type Name string

// Kind implements the [Native] interface.
func (x Name) Kind() Kind { return KindName }

// PDF implements the [Native] interface.
func (x Name) PDF(w io.Writer, _ WriteMode) error {
	l := []byte(x)

	buf := make([]byte, 0, len(l)+1)
	buf = append(buf, '/')
	for _, c := range l {
		if class[c] != regular || c < 0x21 || c > 0x7e || c == '#' {
			buf = fmt.Appendf(buf, "#%02x", c)
		} else {
			buf = append(buf, c)
		}
	}

	_, err := w.Write(buf)
	return err
}

func (x Name) isNative() {}

// Array represent an array of objects in a PDF file.
// Nil elements represent the null object.
type Array []Native

// Kind implements the [Native] interface.
func (x Array) Kind() Kind { return KindArray }

func (x Array) String() string {
	return "<Array, " + strconv.Itoa(len(x)) + " elements>"
}

// PDF implements the [Native] interface.
func (x Array) PDF(w io.Writer, mode WriteMode) error {
	_, err := w.Write([]byte("["))
	if err != nil {
		return err
	}
	for i, val := range x {
		if i > 0 && !mode.compact() {
			_, err := w.Write([]byte(" "))
			if err != nil {
				return err
			}
		}
		err = writeNative(w, val, mode)
		if err != nil {
			return err
		}
	}
	_, err = w.Write([]byte("]"))
	return err
}

func (x Array) isNative() {}

// Dict represent a Dictionary object in a PDF file.
// Entries with a nil value are treated as absent.
type Dict map[Name]Native

// Kind implements the [Native] interface.
func (x Dict) Kind() Kind { return KindDictionary }

func (x Dict) String() string {
	res := []string{}
	tp, ok := x["Type"].(Name)
	if ok {
		res = append(res, string(tp)+" Dict")
	} else {
		res = append(res, "Dict")
	}
	if n := x.len(); n != 1 {
		res = append(res, strconv.Itoa(n)+" entries")
	} else {
		res = append(res, "1 entry")
	}
	return "<" + strings.Join(res, ", ") + ">"
}

// PDF implements the [Native] interface.
//
// Keys are written in sorted order.
func (x Dict) PDF(w io.Writer, mode WriteMode) error {
	keys := x.sortedKeys()

	_, err := w.Write([]byte("<<"))
	if err != nil {
		return err
	}

	for _, name := range keys {
		if !mode.compact() {
			_, err = w.Write([]byte("\n"))
			if err != nil {
				return err
			}
		}
		err = name.PDF(w, mode)
		if err != nil {
			return err
		}
		if !mode.compact() {
			_, err = w.Write([]byte(" "))
			if err != nil {
				return err
			}
		}
		err = x[name].PDF(w, mode)
		if err != nil {
			return err
		}
	}
	if len(keys) > 0 && !mode.compact() {
		_, err = w.Write([]byte("\n"))
		if err != nil {
			return err
		}
	}
	_, err = w.Write([]byte(">>"))
	return err
}

func (x Dict) isNative() {}

func (x Dict) sortedKeys() []Name {
	keys := make([]Name, 0, len(x))
	for key, val := range x {
		if val == nil {
			continue
		}
		keys = append(keys, key)
	}
	slices.Sort(keys)
	return keys
}

// len returns the number of non-null entries.
func (x Dict) len() int {
	n := 0
	for _, val := range x {
		if val != nil {
			n++
		}
	}
	return n
}

// Reference represents a reference to an indirect object in a PDF file.
// The lower 32 bits represent the object number, the next 16 bits the
// generation number.
type Reference uint64

// MaxGeneration is the largest generation number an object can have.
// Object numbers whose generation reaches this value are not reused.
const MaxGeneration = 65535

// NewReference creates a reference from an object number and a generation.
func NewReference(number uint32, generation uint16) Reference {
	return Reference(uint64(number) | uint64(generation)<<32)
}

// Number returns the object number of the reference.
func (x Reference) Number() uint32 {
	return uint32(x)
}

// Generation returns the generation number of the reference.
func (x Reference) Generation() uint16 {
	return uint16(x >> 32)
}

// Compare orders references by object number, then by generation.
// The result is negative, zero or positive.
func (x Reference) Compare(y Reference) int {
	switch {
	case x.Number() < y.Number():
		return -1
	case x.Number() > y.Number():
		return 1
	case x.Generation() < y.Generation():
		return -1
	case x.Generation() > y.Generation():
		return 1
	default:
		return 0
	}
}

func (x Reference) String() string {
	res := "obj_" + strconv.FormatUint(uint64(x.Number()), 10)
	if gen := x.Generation(); gen > 0 {
		res += "@" + strconv.FormatUint(uint64(gen), 10)
	}
	return res
}

// Kind implements the [Native] interface.
func (x Reference) Kind() Kind { return KindReference }

// PDF implements the [Native] interface.
func (x Reference) PDF(w io.Writer, mode WriteMode) error {
	if x>>48 != 0 {
		return fmt.Errorf("invalid reference: 0x%016x", uint64(x))
	}
	return writeBare(w, mode, fmt.Sprintf("%d %d R", x.Number(), x.Generation()))
}

func (x Reference) isNative() {}

// RawData is a sequence of bytes which is written to the output unchanged.
// It is used for inline image data and for pre-serialized values.
type RawData []byte

// Kind implements the [Native] interface.
func (x RawData) Kind() Kind { return KindRawData }

// PDF implements the [Native] interface.
func (x RawData) PDF(w io.Writer, _ WriteMode) error {
	_, err := w.Write(x)
	return err
}

func (x RawData) isNative() {}

// writeBare writes a token which is not self-delimiting.
func writeBare(w io.Writer, mode WriteMode, s string) error {
	if mode.compact() {
		s = " " + s
	}
	_, err := io.WriteString(w, s)
	return err
}

func writeNative(w io.Writer, x Native, mode WriteMode) error {
	if x == nil {
		return writeBare(w, mode, "null")
	}
	return x.PDF(w, mode)
}

// Format formats a PDF value as a string, in the same way as
// it would be written to a PDF file in clean mode.
func Format(x Native) string {
	buf := &bytes.Buffer{}
	err := writeNative(buf, x, WriteClean)
	if err != nil {
		return "<" + err.Error() + ">"
	}
	return buf.String()
}
