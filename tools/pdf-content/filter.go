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


package main

import (
	"fmt"
	"strings"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"seehuhn.de/go/pdfcore/content"
)

// eventEnv is the environment seen by -where expressions.
type eventEnv struct {
	Type     string   // "Operator", "ImageDict", ...
	Op       string   // operator keyword, empty for unknown operators
	Keyword  string   // keyword as found in the content stream
	Operands []string // operands in PDF syntax
	Warnings []string // e.g. "InvalidOperator"
	Depth    int      // 1 for the top-level content stream
}

func newEventEnv(ev *content.Event, depth int) eventEnv {
	env := eventEnv{
		Type:    ev.Type.String(),
		Op:      string(ev.Op),
		Keyword: ev.Keyword,
		Depth:   depth,
	}
	for _, arg := range ev.Operands {
		env.Operands = append(env.Operands, formatOperand(arg.Native()))
	}
	if ev.Warnings != 0 {
		env.Warnings = strings.Split(ev.Warnings.String(), "|")
	}
	return env
}

// eventFilter selects the events to print.
type eventFilter struct {
	prg *vm.Program
}

// newEventFilter compiles a boolean expression over the fields of
// eventEnv, for example `Op == "Do" || len(Warnings) > 0`.
// An empty expression selects all events.
func newEventFilter(src string) (*eventFilter, error) {
	if src == "" {
		return &eventFilter{}, nil
	}
	prg, err := expr.Compile(src, expr.Env(eventEnv{}), expr.AsBool())
	if err != nil {
		return nil, fmt.Errorf("invalid -where expression: %w", err)
	}
	return &eventFilter{prg: prg}, nil
}

func (f *eventFilter) match(ev *content.Event, depth int) (bool, error) {
	if f == nil || f.prg == nil {
		return true, nil
	}
	res, err := expr.Run(f.prg, newEventEnv(ev, depth))
	if err != nil {
		return false, err
	}
	return res.(bool), nil
}
