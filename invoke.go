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
	"os"

	"shanhu.io/misc/errcode"
)

// Environment variables read by Invoke.
const (
	RootEnv   = "MOSYNCDIR"
	ConfigEnv = "CONFIG"
)

// Invoke builds w from the current working directory into its build
// sub directory, using the SDK found at $MOSYNCDIR.
func Invoke(w *PipeExe) error {
	root := os.Getenv(RootEnv)
	if root == "" {
		return errcode.InvalidArgf("$%s is not set", RootEnv)
	}
	b, err := NewBuilder(&Config{
		Root:   root,
		Src:    ".",
		Out:    "build",
		Config: os.Getenv(ConfigEnv),
	})
	if err != nil {
		return err
	}
	return b.Invoke(w)
}
