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


// Pdf-objects rewrites a dump of PDF objects.
//
// Usage:
//
//	pdf-objects [flags] file
//
// The input consists of indirect objects in the form "n g obj ... endobj",
// optionally followed by a trailer dictionary.  The objects are loaded
// into an object store.  Unreachable objects can be removed (-gc) and the
// remaining objects can be given consecutive numbers (-renumber).  The
// result is written to standard output or to the file given by -o.  With
// -diff, the changes are shown instead.
package main

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"github.com/sergi/go-diff/diffmatchpatch"

	"seehuhn.de/go/pdfcore"
	"seehuhn.de/go/pdfcore/tools/internal/buildinfo"
	"seehuhn.de/go/pdfcore/tools/internal/config"
	"seehuhn.de/go/pdfcore/tools/internal/dump"
	"seehuhn.de/go/pdfcore/tools/internal/profile"
)

type options struct {
	gc       bool
	renumber bool
	diff     bool
	compact  bool
	out      string
}

func main() {
	configFile := flag.String("config", "", "read settings from `file`")
	opt := &options{}
	flag.BoolVar(&opt.gc, "gc", false, "remove objects not reachable from the trailer")
	flag.BoolVar(&opt.renumber, "renumber", false, "assign consecutive object numbers")
	flag.BoolVar(&opt.diff, "diff", false, "show the changes instead of the result")
	flag.BoolVar(&opt.compact, "compact", false, "omit optional white space in the output")
	flag.StringVar(&opt.out, "o", "", "write the result to `file`")
	cpuprofile := flag.String("cpuprofile", "", "write CPU profile to `file`")
	memprofile := flag.String("memprofile", "", "write memory profile to `file`")
	version := flag.Bool("version", false, "print version information and exit")
	flag.Parse()
	log.SetFlags(0)
	log.SetPrefix("pdf-objects: ")

	if *version {
		fmt.Println(buildinfo.Short("pdf-objects"))
		return
	}
	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: pdf-objects [flags] file")
		flag.PrintDefaults()
		os.Exit(2)
	}

	cfg, err := config.Load(*configFile)
	if err != nil {
		log.Fatal(err)
	}

	stop, err := profile.Start(*cpuprofile, *memprofile)
	if err != nil {
		log.Fatal(err)
	}
	err = run(flag.Arg(0), cfg.StoreOptions(), opt)
	err = errors.Join(err, stop())
	if err != nil {
		log.Fatal(err)
	}
}

func run(fname string, storeOpt *pdfcore.StoreOptions, opt *options) error {
	fd, err := os.Open(fname)
	if err != nil {
		return err
	}
	d, err := dump.Read(bufio.NewReader(fd), storeOpt)
	fd.Close()
	if err != nil {
		return fmt.Errorf("%s: %w", fname, err)
	}

	mode := pdfcore.WriteClean
	if opt.compact {
		mode = pdfcore.WriteCompact
	}

	var before []byte
	if opt.diff {
		before, err = d.Bytes(mode)
		if err != nil {
			return err
		}
	}

	if opt.gc && d.Trailer.IsNull() {
		return fmt.Errorf("%s: garbage collection needs a trailer", fname)
	}
	numBefore := d.Store.Len()
	switch {
	case opt.renumber:
		err = d.Store.RenumberObjects(&d.Trailer, nil, opt.gc)
	case opt.gc:
		_, err = d.Store.CollectGarbage(d.Trailer)
	}
	if err != nil {
		return err
	}
	if removed := numBefore - d.Store.Len(); removed > 0 {
		log.Printf("removed %d unreachable objects", removed)
	}

	w := io.Writer(os.Stdout)
	if opt.out != "" {
		out, err := os.Create(opt.out)
		if err != nil {
			return err
		}
		defer out.Close()
		w = out
	}
	bw := bufio.NewWriter(w)

	if opt.diff {
		after, err := d.Bytes(mode)
		if err != nil {
			return err
		}
		colored := opt.out == "" && isatty.IsTerminal(os.Stdout.Fd())
		writeDiff(bw, string(before), string(after), colored)
	} else {
		err = d.Write(bw, mode)
		if err != nil {
			return err
		}
	}
	return bw.Flush()
}

// writeDiff prints a line-based diff between two dumps.
func writeDiff(w io.Writer, before, after string, colored bool) {
	color.NoColor = !colored
	added := color.New(color.FgGreen).SprintFunc()
	removed := color.New(color.FgRed).SprintFunc()

	dmp := diffmatchpatch.New()
	a, b, lines := dmp.DiffLinesToChars(before, after)
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(a, b, false), lines)

	for _, diff := range diffs {
		text := strings.TrimSuffix(diff.Text, "\n")
		for _, line := range strings.Split(text, "\n") {
			switch diff.Type {
			case diffmatchpatch.DiffInsert:
				fmt.Fprintln(w, added("+ "+line))
			case diffmatchpatch.DiffDelete:
				fmt.Fprintln(w, removed("- "+line))
			default:
				fmt.Fprintln(w, "  "+line)
			}
		}
	}
}
