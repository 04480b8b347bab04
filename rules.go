// Copyright (C) 2022  Shanhu Tech Inc.
//
// This program is free software: you can redistribute it and/or modify it
// under the terms of the GNU Affero General Public License as published by the
// Free Software Foundation, either version 3 of the License, or (at your
// option) any later version.
//
// This program is distributed in the hope that it will be useful, but WITHOUT
// ANY WARRANTY; without even the implied warranty of MERCHANTABILITY or
// FITNESS FOR A PARTICULAR PURPOSE.  See the GNU Affero General Public License
// for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

package mobuild

const rulePipeExe = "pipe_exe"

// PipeExe is a work unit that builds one pipe executable from C, C++ and
// assembly sources.
type PipeExe struct {
	// Name of the output artifact. Must be unique in a build graph and
	// safe to use as a file name.
	Name string

	// Source directories. Files directly under each directory are
	// compiled; sub directories are not searched.
	Sources []string

	// Individual source files added on top of Sources.
	ExtraSourceFiles []string `json:",omitempty"`

	// Base names of collected files to leave out.
	IgnoredFiles []string `json:",omitempty"`

	// Extra flags for all C and C++ sources.
	ExtraCFlags string `json:",omitempty"`

	// Extra flags for C++ sources only.
	ExtraCPPFlags string `json:",omitempty"`

	// Extra flags for the linker.
	ExtraLinkFlags string `json:",omitempty"`

	// Libraries to link. Defaults to mastd when empty.
	Libraries []string `json:",omitempty"`
}
