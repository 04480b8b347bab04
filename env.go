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
	"path"
	"path/filepath"
)

// Build configuration names.
const (
	ConfigDebug   = "debug"
	ConfigRelease = "release"
)

type env struct {
	rootDir     string // SDK root, where bin/, include/ and lib/ live.
	srcDir      string
	outDir      string
	buildConfig string
	dockerImage string
}

func (e *env) prepareOut(ps ...string) (string, error) {
	p := e.out(ps...)
	dir := filepath.Dir(p)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return "", err
	}
	return p, nil
}

func joinUnder(dir string, ps []string) string {
	if len(ps) == 0 {
		return dir
	}
	p := path.Join(ps...)
	return filepath.Join(dir, filepath.FromSlash(p))
}

func (e *env) out(ps ...string) string { return joinUnder(e.outDir, ps) }

func (e *env) src(ps ...string) string { return joinUnder(e.srcDir, ps) }

func (e *env) root(ps ...string) string { return joinUnder(e.rootDir, ps) }

// libConfig returns the name of the library sub directory that matches
// the build configuration.
func (e *env) libConfig() string { return "pipe_" + e.buildConfig }
