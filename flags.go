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
	"github.com/kballard/go-shellquote"
	"shanhu.io/misc/errcode"
)

// splitFlags splits a flag string into command line words, following
// shell quoting rules. Words are otherwise kept as written.
func splitFlags(s string) ([]string, error) {
	words, err := shellquote.Split(s)
	if err != nil {
		return nil, errcode.InvalidArgf("bad flags %q: %s", s, err)
	}
	return words, nil
}
