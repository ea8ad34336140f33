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


// Package buildinfo formats version information for the command line
// tools.
package buildinfo

import (
	"runtime/debug"
)

// Version returns the module path and version of the running binary,
// for example "seehuhn.de/go/pdfcore v0.1.0".  For development builds
// the abbreviated VCS revision is used instead of the version.  The
// result is empty if no build information is available.
func Version() string {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return ""
	}
	if v := info.Main.Version; v != "" && v != "(devel)" {
		return info.Main.Path + " " + v
	}

	settings := make(map[string]string, len(info.Settings))
	for _, s := range info.Settings {
		settings[s.Key] = s.Value
	}
	rev := settings["vcs.revision"]
	if rev == "" {
		return ""
	}
	rev = rev[:min(len(rev), 8)]
	if settings["vcs.modified"] == "true" {
		rev += "+dirty"
	}
	return info.Main.Path + " " + rev
}

// Short returns the tool name together with the version, e.g.
// "pdf-content (seehuhn.de/go/pdfcore v0.1.0)".
func Short(toolName string) string {
	v := Version()
	if v == "" {
		return toolName
	}
	return toolName + " (" + v + ")"
}
