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
	"log"
	"os"
	"path"

	"shanhu.io/misc/errcode"
	"shanhu.io/misc/jsonutil"
	"shanhu.io/misc/strutil"
)

// objDirName is the output sub directory for intermediate files. Program
// names never start with a dot.
const objDirName = ".obj"

var sourceExts = map[string]bool{
	".c":   true,
	".cpp": true,
	".cc":  true,
	".s":   true,
}

func isCPP(f string) bool {
	switch path.Ext(f) {
	case ".cpp", ".cc":
		return true
	}
	return false
}

func isAsm(f string) bool { return path.Ext(f) == ".s" }

// listSources lists source files directly under dir, which is a path
// relative to the source root.
func listSources(env *env, dir string) ([]string, error) {
	entries, err := os.ReadDir(env.src(dir))
	if err != nil {
		return nil, err
	}
	var files []string
	for _, entry := range entries {
		if !entry.Type().IsRegular() {
			continue
		}
		name := entry.Name()
		if sourceExts[path.Ext(name)] {
			files = append(files, path.Join(dir, name))
		}
	}
	return files, nil
}

type pipeExe struct {
	name    string
	srcs    []string
	out     string
	objDir  string
	libs    []string
	cflags  []string
	cpp     []string
	ldflags []string
	rule    *PipeExe
}

func newPipeExe(env *env, p string, r *PipeExe) (*pipeExe, error) {
	if r.Name == "" {
		return nil, errcode.InvalidArgf("work unit has no name")
	}
	if !isSafeName(r.Name) {
		return nil, errcode.InvalidArgf("invalid name %q", r.Name)
	}
	if len(r.Sources) == 0 {
		return nil, errcode.InvalidArgf("%q has no source directory", r.Name)
	}

	cflags, err := splitFlags(r.ExtraCFlags)
	if err != nil {
		return nil, errcode.Annotate(err, "extra c flags")
	}
	cpp, err := splitFlags(r.ExtraCPPFlags)
	if err != nil {
		return nil, errcode.Annotate(err, "extra c++ flags")
	}
	ldflags, err := splitFlags(r.ExtraLinkFlags)
	if err != nil {
		return nil, errcode.Annotate(err, "extra link flags")
	}

	ignored := strutil.MakeSet(r.IgnoredFiles)
	m := make(map[string]bool)
	add := func(f string) {
		if !ignored[path.Base(f)] {
			m[f] = true
		}
	}

	for _, dir := range r.Sources {
		d, err := sourcePath(p, dir)
		if err != nil {
			return nil, err
		}
		files, err := listSources(env, d)
		if err != nil {
			return nil, errcode.Annotatef(err, "list sources in %q", dir)
		}
		for _, f := range files {
			add(f)
		}
	}
	for _, f := range r.ExtraSourceFiles {
		sf, err := sourcePath(p, f)
		if err != nil {
			return nil, err
		}
		add(sf)
	}
	if len(m) == 0 {
		return nil, errcode.InvalidArgf("%q has no source files", r.Name)
	}

	libs := r.Libraries
	if len(libs) == 0 {
		libs = []string{"mastd"}
	}

	return &pipeExe{
		name:    underPath(p, r.Name),
		srcs:    strutil.SortedList(m),
		out:     underPath(p, r.Name),
		objDir:  path.Join(objDirName, underPath(p, r.Name)),
		libs:    libs,
		cflags:  cflags,
		cpp:     cpp,
		ldflags: ldflags,
		rule:    r,
	}, nil
}

func (e *pipeExe) manifest() string { return path.Join(e.objDir, "manifest.json") }

func (e *pipeExe) meta(env *env) (*buildRuleMeta, error) {
	dat := struct {
		Rule   *PipeExe
		Config string
		Image  string `json:",omitempty"`
	}{
		Rule:   e.rule,
		Config: env.buildConfig,
		Image:  env.dockerImage,
	}
	d, err := makeRuleDigest(rulePipeExe, e.name, &dat)
	if err != nil {
		return nil, errcode.Annotate(err, "digest")
	}
	return &buildRuleMeta{
		name:   e.name,
		deps:   e.srcs,
		outs:   []string{e.out, e.manifest()},
		digest: d,
	}, nil
}

func (e *pipeExe) objFile(src string) string {
	return path.Join(e.objDir, src+".s")
}

func (e *pipeExe) configFlags(env *env) []string {
	if env.buildConfig == ConfigRelease {
		return []string{"-O2"}
	}
	return []string{"-g", "-O0"}
}

func (e *pipeExe) compileArgs(env *env, paths *toolPaths, src string) []string {
	args := []string{
		paths.tool("xgcc"),
		"-S",
		"-DMAPIP",
		"-I" + paths.sdk("include"),
	}
	args = append(args, e.configFlags(env)...)
	args = append(args, e.cflags...)
	if isCPP(src) {
		args = append(args, e.cpp...)
	}
	args = append(args,
		"-o", paths.out(e.objFile(src)),
		paths.src(src),
	)
	return args
}

func (e *pipeExe) linkArgs(env *env, paths *toolPaths) []string {
	args := []string{
		paths.tool("pipe-tool"),
		"-s" + paths.sdk("lib", env.libConfig()),
	}
	args = append(args, e.ldflags...)
	args = append(args, "-B", paths.out(e.out))
	for _, src := range e.srcs {
		if isAsm(src) {
			args = append(args, paths.src(src))
		} else {
			args = append(args, paths.out(e.objFile(src)))
		}
	}
	for _, lib := range e.libs {
		args = append(args, lib+".lib")
	}
	return args
}

type exeManifest struct {
	Name    string
	Config  string
	Objects []string
	Program *fileStat
}

func (e *pipeExe) build(env *env, opts *buildOpts) error {
	paths := opts.runner.paths()

	var objs []string
	for _, src := range e.srcs {
		if isAsm(src) {
			continue
		}
		obj := e.objFile(src)
		if _, err := env.prepareOut(obj); err != nil {
			return errcode.Annotate(err, "prepare object dir")
		}
		log.Printf("compile %s", src)
		if err := opts.runner.run(e.compileArgs(env, paths, src)); err != nil {
			return errcode.Annotatef(err, "compile %s", src)
		}
		objs = append(objs, obj)
	}

	if _, err := env.prepareOut(e.out); err != nil {
		return errcode.Annotate(err, "prepare output dir")
	}
	log.Printf("link %s", e.name)
	if err := opts.runner.run(e.linkArgs(env, paths)); err != nil {
		return errcode.Annotatef(err, "link %s", e.name)
	}

	stat, err := newOutFileStat(env, e.out)
	if err != nil {
		return errcode.Annotate(err, "check program")
	}
	m := &exeManifest{
		Name:    e.name,
		Config:  env.buildConfig,
		Objects: objs,
		Program: stat,
	}
	return jsonutil.WriteFile(env.out(e.manifest()), m)
}
