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
	"strconv"
)

var (
	// ErrInvalidDataType is returned by accessors and setters which are
	// applied to a value of the wrong kind.
	ErrInvalidDataType = errors.New("invalid data type")

	// ErrNoObject indicates that a reference does not resolve to an object
	// in the store.
	ErrNoObject = errors.New("object not found")

	// ErrInvalidHandle indicates that a required object or stream is missing.
	ErrInvalidHandle = errors.New("invalid handle")

	// ErrNotImplemented is returned for operations which are explicitly
	// unsupported, for example comparing raw data.
	ErrNotImplemented = errors.New("not implemented")

	// ErrAllocation is returned when no more object numbers are available.
	ErrAllocation = errors.New("no free object numbers")

	// ErrAppendActive is returned by BeginAppend, if an append session
	// is already open on the stream.
	ErrAppendActive = errors.New("BeginAppend called twice without EndAppend")

	// ErrAppendInactive is returned by Append and EndAppend outside an
	// append session.
	ErrAppendInactive = errors.New("BeginAppend was not called")
)

// MalformedFileError indicates that PDF data could not be parsed.
type MalformedFileError struct {
	Pos int64
	Err error
}

func (err *MalformedFileError) Error() string {
	middle := ""
	if err.Err != nil {
		middle = ": " + err.Err.Error()
	}
	tail := ""
	if err.Pos > 0 {
		tail = " (at byte " + strconv.FormatInt(err.Pos, 10) + ")"
	}
	return "malformed PDF data" + middle + tail
}

func (err *MalformedFileError) Unwrap() error {
	return err.Err
}
