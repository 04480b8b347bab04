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
	"path/filepath"

	"shanhu.io/misc/errcode"
	"shanhu.io/virgo/dock"
)

// Mount points of the containerised toolchain.
const (
	contSDKRoot = "/mobuild/sdk"
	contSrcRoot = "/mobuild/src"
	contOutRoot = "/mobuild/out"
)

func exitError(exit int) error {
	if exit == 0 {
		return nil
	}
	return errcode.Internalf("exit with code: %d", exit)
}

func execError(ret int, err error) error {
	if err != nil {
		return err
	}
	return exitError(ret)
}

// dockerRunner runs the toolchain inside one container. The SDK and the
// sources are mounted read-only; the output directory is writable.
type dockerRunner struct {
	cont *dock.Cont
	p    *toolPaths
}

func newDockerRunner(env *env, image string) (*dockerRunner, error) {
	mounts := []struct {
		host     string
		cont     string
		readOnly bool
	}{
		{env.root(), contSDKRoot, true},
		{env.src(), contSrcRoot, true},
		{env.out(), contOutRoot, false},
	}

	config := new(dock.ContConfig)
	for _, m := range mounts {
		abs, err := filepath.Abs(m.host)
		if err != nil {
			return nil, errcode.Annotatef(err, "get absolute path of %q", m.host)
		}
		config.Mounts = append(config.Mounts, &dock.ContMount{
			Host:     abs,
			Cont:     m.cont,
			ReadOnly: m.readOnly,
		})
	}

	client := dock.NewUnixClient("")
	cont, err := dock.CreateCont(client, image, config)
	if err != nil {
		return nil, errcode.Annotate(err, "create container")
	}
	if err := cont.Start(); err != nil {
		cont.Drop()
		return nil, errcode.Annotate(err, "start container")
	}

	return &dockerRunner{
		cont: cont,
		p: &toolPaths{
			sdkRoot: contSDKRoot,
			srcRoot: contSrcRoot,
			outRoot: contOutRoot,
			join:    path.Join,
		},
	}, nil
}

func (r *dockerRunner) paths() *toolPaths { return r.p }

func (r *dockerRunner) run(args []string) error {
	if len(args) == 0 {
		return errcode.InvalidArgf("empty command")
	}
	return execError(r.cont.ExecWithSetup(&dock.ExecSetup{
		Cmd:        args,
		Env:        []string{"MOSYNCDIR=" + contSDKRoot},
		WorkingDir: contSrcRoot,
	}))
}

func (r *dockerRunner) close() error { return r.cont.Drop() }
