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

	"shanhu.io/misc/jsonx"
	"shanhu.io/text/lexing"
)

// BuildFileName is the name of the file that declares the work units of
// a project directory.
const BuildFileName = "BUILD.mobuild"

func makeBuildFileNode(t string) interface{} {
	switch t {
	case rulePipeExe:
		return new(PipeExe)
	}
	return nil
}

type declaredExe struct {
	exe *PipeExe
	pos *lexing.Pos
}

func readBuildFile(env *env, p string) ([]*declaredExe, []*lexing.Error) {
	fp := env.src(p, BuildFileName)
	if _, err := os.Stat(fp); err != nil {
		return nil, lexing.SingleErr(err)
	}

	rules, errs := jsonx.ReadSeriesFile(fp, makeBuildFileNode)
	if errs != nil {
		return nil, errs
	}

	errList := lexing.NewErrorList()
	var exes []*declaredExe
	for _, r := range rules {
		switch v := r.V.(type) {
		case *PipeExe:
			exes = append(exes, &declaredExe{exe: v, pos: r.Pos})
		default:
			errList.Errorf(r.Pos, "unknown type: %q", r.Type)
		}
	}

	if errs := errList.Errs(); errs != nil {
		return nil, errs
	}
	return exes, nil
}
