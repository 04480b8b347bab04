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
	"shanhu.io/misc/errcode"
	"shanhu.io/misc/osutil"
	"shanhu.io/text/lexing"
)

type loader struct {
	env *env

	// All registered build nodes.
	nodes map[string]*buildNode

	// Rule nodes in declaration order.
	rules []*buildNode

	// All loaded build nodes. A loaded node always has its dependencies
	// loaded.
	loaded map[string]*buildNode

	tracer *loadTracer

	errList *lexing.ErrorList
}

func newLoader(env *env) *loader {
	return &loader{
		env:     env,
		loaded:  make(map[string]*buildNode),
		nodes:   make(map[string]*buildNode),
		tracer:  newLoadTracer(),
		errList: lexing.NewErrorList(),
	}
}

func (l *loader) register(n *buildNode) {
	if n.name == "" {
		l.errList.Errorf(n.pos, "node name is empty")
		return
	}
	if p, ok := l.nodes[n.name]; ok {
		l.errList.Errorf(n.pos, "node with name %q redeclared", n.name)
		if p.pos != nil {
			l.errList.Errorf(p.pos, "  previously defined here")
		}
		return
	}
	l.nodes[n.name] = n
	if n.typ == nodeRule {
		l.rules = append(l.rules, n)
	}
}

// load all names that are referenced at pos.
func (l *loader) load(names []string, pos *lexing.Pos) []*buildNode {
	var nodes []*buildNode
	for _, name := range names {
		if n := l.load1(name, pos); n != nil {
			nodes = append(nodes, n)
		}
	}
	return nodes
}

func (l *loader) load1(name string, pos *lexing.Pos) *buildNode {
	if !l.tracer.push(name) {
		l.errList.Errorf(
			pos, "has circular dependency: %q",
			append(l.tracer.stack(), name),
		)
		return nil
	}
	defer l.tracer.pop()

	if n, ok := l.loaded[name]; ok {
		return n // already loaded
	}

	n, ok := l.nodes[name]
	if ok { // Registered but not loaded yet
		if !l.checkSourceDeps(n) {
			return nil
		}
		l.load(n.deps, n.pos) // Load its dependencies.
		l.loaded[name] = n    // Add into loaded map.
		return n
	}

	// Auto register and load source files.
	f := l.env.src(name)
	isFile, err := osutil.IsRegular(f)
	if err != nil {
		l.errList.Errorf(pos, "check file %q: %s", f, err)
		return nil
	}
	if isFile {
		n := &buildNode{
			name: name,
			typ:  nodeSrc,
		}
		l.register(n)
		l.loaded[name] = n
		return n
	}

	l.errList.Add(&lexing.Error{
		Pos: pos,
		Err: errcode.NotFoundf("cannot resolve %q", name),
	})
	return nil
}

// checkSourceDeps reports deps of rule n that are shadowed by a rule of
// the same name. Rule deps are always source files.
func (l *loader) checkSourceDeps(n *buildNode) bool {
	if n.typ != nodeRule {
		return true
	}
	ok := true
	for _, dep := range n.deps {
		if d, found := l.nodes[dep]; found && d.typ == nodeRule {
			l.errList.Errorf(
				n.pos, "source %q of %q conflicts with a rule name",
				dep, n.name,
			)
			if d.pos != nil {
				l.errList.Errorf(d.pos, "  rule defined here")
			}
			ok = false
		}
	}
	return ok
}

// addPipeExe turns r, declared in project directory p, into a rule node
// and registers it.
func (l *loader) addPipeExe(p string, r *PipeExe, pos *lexing.Pos) {
	rule, err := newPipeExe(l.env, p, r)
	if err != nil {
		l.errList.Add(&lexing.Error{Pos: pos, Err: err})
		return
	}
	meta, err := rule.meta(l.env)
	if err != nil {
		l.errList.Add(&lexing.Error{Pos: pos, Err: err})
		return
	}
	l.register(&buildNode{
		name:     meta.name,
		typ:      nodeRule,
		deps:     meta.deps,
		pos:      pos,
		ruleType: rulePipeExe,
		rule:     rule,
		ruleMeta: meta,
	})
}

func (l *loader) readBuildFile(p string) {
	rules, errs := readBuildFile(l.env, p)
	if errs != nil {
		l.errList.AddAll(errs)
		return
	}
	for _, r := range rules {
		l.addPipeExe(p, r.exe, r.pos)
	}
}

func (l *loader) ruleNames() []string {
	var names []string
	for _, n := range l.rules {
		names = append(names, n.name)
	}
	return names
}

func (l *loader) Errs() []*lexing.Error {
	return l.errList.Errs()
}

// loadNodes reads the build file in the source root and loads the named
// nodes. When names is empty, all declared rules are loaded.
func loadNodes(env *env, names []string) (
	[]*buildNode, map[string]*buildNode, []*lexing.Error,
) {
	l := newLoader(env)
	l.readBuildFile("")
	if errs := l.Errs(); errs != nil {
		return nil, nil, errs
	}
	if len(names) == 0 {
		names = l.ruleNames()
	}
	return l.finish(names)
}

func (l *loader) finish(names []string) (
	[]*buildNode, map[string]*buildNode, []*lexing.Error,
) {
	nodes := l.load(names, nil)
	if errs := l.Errs(); errs != nil {
		return nil, nil, errs
	}
	return nodes, l.loaded, nil
}
