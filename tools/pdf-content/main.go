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


// Pdf-content prints the operators found in PDF content streams.
//
// Usage:
//
//	pdf-content [flags] [file ...]
//	pdf-content [flags] -objects dump [number ...]
//
// The -where flag takes an expression which selects the events to print,
// for example
//
//	pdf-content -where 'Op == "Do" || len(Warnings) > 0' page.txt
//
// Each file must contain the decoded data of a content stream.  If no
// files are given, the content stream is read from standard input.  One
// line is printed for every operator and every inline image, together
// with the problems found by the reader.
//
// With -objects, the objects are read from a dump as written by
// pdf-objects, and the arguments are the object numbers of pages or form
// XObjects.  In this mode, resources are available and the content of
// form XObjects is shown indented below the "Do" operator, unless
// -no-forms is given.
package main

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"golang.org/x/term"

	"seehuhn.de/go/pdfcore"
	"seehuhn.de/go/pdfcore/content"
	"seehuhn.de/go/pdfcore/tools/internal/buildinfo"
	"seehuhn.de/go/pdfcore/tools/internal/config"
	"seehuhn.de/go/pdfcore/tools/internal/dump"
	"seehuhn.de/go/pdfcore/tools/internal/profile"
)

func main() {
	configFile := flag.String("config", "", "read settings from `file`")
	objects := flag.String("objects", "", "read pages and forms from the object dump `file`")
	strict := flag.Bool("strict", false, "stop at the first warning")
	noForms := flag.Bool("no-forms", false, "do not descend into form XObjects")
	useLength := flag.Bool("length", false, "use /L entries of inline images")
	where := flag.String("where", "", "only print events matching `expr`")
	noColor := flag.Bool("no-color", false, "disable colored output")
	cpuprofile := flag.String("cpuprofile", "", "write CPU profile to `file`")
	memprofile := flag.String("memprofile", "", "write memory profile to `file`")
	version := flag.Bool("version", false, "print version information and exit")
	flag.Parse()
	log.SetFlags(0)
	log.SetPrefix("pdf-content: ")

	if *version {
		fmt.Println(buildinfo.Short("pdf-content"))
		return
	}

	cfg, err := config.Load(*configFile)
	if err != nil {
		log.Fatal(err)
	}
	opt := cfg.ReaderOptions()
	if *strict {
		opt.Flags |= content.ThrowOnWarnings
	}
	if *noForms {
		opt.Flags |= content.DontFollowXObjects
	}
	if *useLength {
		opt.InlineImageLength = true
	}

	filter, err := newEventFilter(*where)
	if err != nil {
		log.Fatal(err)
	}

	stop, err := profile.Start(*cpuprofile, *memprofile)
	if err != nil {
		log.Fatal(err)
	}

	out := bufio.NewWriter(os.Stdout)
	p := newPrinter(out, *noColor)
	p.filter = filter
	if *objects != "" {
		err = runObjects(p, *objects, flag.Args(), opt, cfg.StoreOptions())
	} else {
		err = run(p, flag.Args(), opt)
	}
	err = errors.Join(err, out.Flush(), stop())
	if err != nil {
		log.Fatal(err)
	}
}

func run(p *printer, files []string, opt *content.Options) error {
	if len(files) == 0 {
		return p.printStream(os.Stdin, opt)
	}
	for i, fname := range files {
		if len(files) > 1 {
			p.section(i, fname)
		}
		err := printFile(p, fname, opt)
		if err != nil {
			return err
		}
	}
	return nil
}

func printFile(p *printer, fname string, opt *content.Options) error {
	fd, err := os.Open(fname)
	if err != nil {
		return err
	}
	defer fd.Close()
	return p.printStream(fd, opt)
}

// runObjects prints the content of the pages and form XObjects with the
// given object numbers.
func runObjects(p *printer, fname string, args []string, opt *content.Options, storeOpt *pdfcore.StoreOptions) error {
	fd, err := os.Open(fname)
	if err != nil {
		return err
	}
	d, err := dump.Read(bufio.NewReader(fd), storeOpt)
	fd.Close()
	if err != nil {
		return fmt.Errorf("%s: %w", fname, err)
	}

	for i, arg := range args {
		num, err := strconv.ParseUint(arg, 10, 32)
		if err != nil {
			return fmt.Errorf("invalid object number %q", arg)
		}
		obj, ok := d.Lookup(uint32(num))
		if !ok {
			return fmt.Errorf("%s: object %d not found", fname, num)
		}
		if len(args) > 1 {
			p.section(i, obj.Reference().String())
		}

		cr, err := content.NewReader(d.Store, newCanvas(d.Store, obj), opt)
		if err != nil {
			return fmt.Errorf("%s: %w", obj.Reference(), err)
		}
		err = p.printReader(cr)
		if err != nil {
			return err
		}
	}
	return nil
}

// newCanvas treats stream objects as form XObjects and all other objects
// as pages.
func newCanvas(g pdfcore.Getter, obj *pdfcore.Object) content.Canvas {
	if obj.HasStream() {
		return content.NewFormCanvas(g, obj)
	}
	dict, _ := obj.Dict()
	return content.NewPageCanvas(g, dict)
}

// printer formats the events of a content stream, one per line.
type printer struct {
	w      io.Writer
	width  int
	filter *eventFilter

	header   func(format string, a ...any) string
	operator func(format string, a ...any) string
	operand  func(format string, a ...any) string
	image    func(format string, a ...any) string
	warning  func(format string, a ...any) string
}

func newPrinter(w io.Writer, noColor bool) *printer {
	fd := os.Stdout.Fd()
	isTerm := isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
	if noColor || !isTerm {
		color.NoColor = true
	}

	width := 0 // no limit
	if isTerm {
		if cols, _, err := term.GetSize(int(fd)); err == nil && cols > 20 {
			width = cols
		}
	}

	return &printer{
		w:        w,
		width:    width,
		header:   color.New(color.Bold).SprintfFunc(),
		operator: color.New(color.FgCyan, color.Bold).SprintfFunc(),
		operand:  fmt.Sprintf,
		image:    color.YellowString,
		warning:  color.RedString,
	}
}

// section starts the output for the i-th of several inputs.
func (p *printer) section(i int, name string) {
	if i > 0 {
		fmt.Fprintln(p.w)
	}
	fmt.Fprintln(p.w, p.header(name+":"))
}

func (p *printer) printStream(r io.Reader, opt *content.Options) error {
	return p.printReader(content.NewStreamReader(r, opt))
}

// printReader prints all events selected by the filter.  The summary
// line counts the printed events which carry warnings.
func (p *printer) printReader(cr *content.Reader) error {
	numWarnings := 0
	for ev, err := range cr.All() {
		var warnErr *content.WarningError
		if errors.As(err, &warnErr) {
			p.printEvent(cr.Depth(), warnErr.Event)
			return err
		} else if err != nil {
			return err
		}
		ok, err := p.filter.match(ev, cr.Depth())
		if err != nil {
			return err
		}
		if !ok {
			continue
		}
		p.printEvent(cr.Depth(), ev)
		if ev.Warnings != 0 {
			numWarnings++
		}
	}
	if numWarnings > 0 {
		fmt.Fprintln(p.w, p.warning("%d operators with warnings", numWarnings))
	}
	return nil
}

func (p *printer) printEvent(depth int, ev *content.Event) {
	level := depth - 1
	if ev.Type == content.EventForm {
		// the form's frame is already open
		level--
	}
	indent := strings.Repeat("  ", max(level, 0))

	var parts []string
	switch ev.Type {
	case content.EventOperator, content.EventForm:
		for _, arg := range ev.Operands {
			parts = append(parts, p.operand("%s", p.truncate(formatOperand(arg.Native()))))
		}
		parts = append(parts, p.operator("%s", ev.Keyword))
	case content.EventImageDict:
		dict := formatOperand(ev.ImageDict)
		parts = append(parts, p.operator("BI"), p.image("%s", p.truncate(dict)))
	case content.EventImageData:
		parts = append(parts, p.operator("ID"),
			p.image("%d bytes", len(ev.ImageData)), p.operator("EI"))
	case content.EventEndForm:
		parts = append(parts, p.header("end of form"))
	}
	if ev.Warnings != 0 {
		parts = append(parts, p.warning("[%s]", ev.Warnings))
	}
	fmt.Fprintln(p.w, indent+strings.Join(parts, " "))
}

// formatOperand returns the PDF representation of x, without optional
// white space.
func formatOperand(x pdfcore.Native) string {
	b := &strings.Builder{}
	err := pdfcore.NewValue(x).Write(b, pdfcore.WriteCompact)
	if err != nil {
		return "<" + err.Error() + ">"
	}
	return strings.TrimSpace(b.String())
}

// truncate shortens s so that an operand fits into a terminal line.
// The cut is made at a rune boundary, and a dangling backslash is
// removed.
func (p *printer) truncate(s string) string {
	limit := p.width / 2
	if p.width == 0 || utf8.RuneCountInString(s) <= limit {
		return s
	}
	head := string([]rune(s)[:limit-3])
	return strings.TrimRight(head, `\`) + "..."
}
