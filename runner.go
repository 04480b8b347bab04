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
	"io"
	"path/filepath"

	"shanhu.io/misc/errcode"
)

// toolPaths maps SDK, source and output files to the paths that the
// toolchain sees.
type toolPaths struct {
	sdkRoot string
	srcRoot string
	outRoot string
	join    func(elem ...string) string
}

func (p *toolPaths) under(root string, ps []string) string {
	if len(ps) == 0 {
		return root
	}
	return p.join(root, p.join(ps...))
}

func (p *toolPaths) sdk(ps ...string) string { return p.under(p.sdkRoot, ps) }
func (p *toolPaths) src(ps ...string) string { return p.under(p.srcRoot, ps) }
func (p *toolPaths) out(ps ...string) string { return p.under(p.outRoot, ps) }

func (p *toolPaths) tool(name string) string { return p.sdk("bin", name) }

// runner runs toolchain commands for one work unit.
type runner interface {
	paths() *toolPaths
	run(args []string) error
	close() error
}

type hostRunner struct {
	dir string
	p   *toolPaths
	log io.Writer
}

func newHostRunner(env *env, log io.Writer) (*hostRunner, error) {
	sdk, err := filepath.Abs(env.root())
	if err != nil {
		return nil, errcode.Annotate(err, "get absolute sdk dir")
	}
	src, err := filepath.Abs(env.src())
	if err != nil {
		return nil, errcode.Annotate(err, "get absolute src dir")
	}
	out, err := filepath.Abs(env.out())
	if err != nil {
		return nil, errcode.Annotate(err, "get absolute out dir")
	}
	return &hostRunner{
		dir: src,
		p: &toolPaths{
			sdkRoot: sdk,
			srcRoot: src,
			outRoot: out,
			join:    filepath.Join,
		},
		log: log,
	}, nil
}

func (r *hostRunner) paths() *toolPaths { return r.p }

func (r *hostRunner) run(args []string) error {
	if len(args) == 0 {
		return errcode.InvalidArgf("empty command")
	}
	j := &execJob{
		dir:  r.dir,
		bin:  args[0],
		args: args[1:],
		out:  r.log,
	}
	return j.command().Run()
}

func (r *hostRunner) close() error { return nil }

func newRunner(env *env, log io.Writer) (runner, error) {
	if env.dockerImage != "" {
		return newDockerRunner(env, env.dockerImage)
	}
	return newHostRunner(env, log)
}
