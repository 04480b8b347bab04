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

type fileStat struct {
	Name         string
	Size         int64
	ModTimestamp int64
	Mode         uint32
}

func newOutFileStat(env *env, p string) (*fileStat, error) {
	info, err := os.Lstat(env.out(p))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errcode.NotFoundf("out:%s not found", p)
		}
		return nil, err
	}

	return &fileStat{
		Name:         p,
		Size:         info.Size(),
		ModTimestamp: info.ModTime().UnixNano(),
		Mode:         uint32(info.Mode()),
	}, nil
}

func sameFileStat(env *env, stat *fileStat) (bool, error) {
	cur, err := newOutFileStat(env, stat.Name)
	if err != nil {
		if errcode.IsNotFound(err) {
			return false, nil
		}
		return false, errcode.Annotate(err, "check current")
	}

	same := cur.Size == stat.Size
	same = same && cur.ModTimestamp == stat.ModTimestamp
	same = same && cur.Mode == stat.Mode

	return same, nil
}

// buildOutput records the outputs of a rule execution.
type buildOutput struct {
	Outs []*fileStat `json:",omitempty"`
}

func newBuilt(env *env, meta *buildRuleMeta) (*buildOutput, error) {
	out := new(buildOutput)
	for _, f := range meta.outs {
		stat, err := newOutFileStat(env, f)
		if err != nil {
			return nil, errcode.Annotatef(err, "stat output %q", f)
		}
		out.Outs = append(out.Outs, stat)
	}
	return out, nil
}

func checkSameBuilt(env *env, out *buildOutput) (bool, error) {
	for _, stat := range out.Outs {
		same, err := sameFileStat(env, stat)
		if err != nil {
			return false, errcode.Annotatef(err, "check %q", stat.Name)
		}
		if !same {
			return false, nil
		}
	}
	return true, nil
}
