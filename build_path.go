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

import (
	"path"
	"regexp"
	"strings"

	"shanhu.io/misc/errcode"
)

// underPath joins f under p. The result never escapes p.
func underPath(p, f string) string {
	f = path.Clean(path.Join("/", f))
	return strings.TrimPrefix(path.Join("/", p, f), "/")
}

// makePath resolves f against project directory p. Absolute paths are
// taken from the source root.
func makePath(p, f string) string {
	if path.IsAbs(f) {
		return strings.TrimPrefix(path.Clean(f), "/")
	}
	return underPath(p, f)
}

// sourcePath resolves f against project directory p. Relative paths may
// leave p but not the source root. Absolute paths are taken from the
// source root.
func sourcePath(p, f string) (string, error) {
	if path.IsAbs(f) {
		return makePath(p, f), nil
	}
	j := path.Clean(path.Join(p, f))
	if j == ".." || strings.HasPrefix(j, "../") {
		return "", errcode.InvalidArgf("%q is out of the source root", f)
	}
	if j == "." {
		return "", nil
	}
	return j, nil
}

var safeNameRE = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]*$`)

func isSafeName(name string) bool { return safeNameRE.MatchString(name) }
