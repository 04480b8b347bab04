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
	"errors"
	"io"
	"log"
	"os"

	"shanhu.io/misc/errcode"
	"shanhu.io/text/lexing"
)

// Config provides the configuration to start a builder.
type Config struct {
	Root   string // SDK root directory
	Src    string // Source directory
	Out    string // Output directory
	Config string // Build configuration, debug or release.

	// Docker image that carries the toolchain. When empty, the toolchain
	// runs on the host.
	DockerImage string

	// Where toolchain output goes. Defaults to stderr.
	Log io.Writer
}

// Builder builds pipe executables.
type Builder struct {
	env *env
	log io.Writer
}

const cacheFile = ".cache.db"

// NewBuilder creates a new builder.
func NewBuilder(config *Config) (*Builder, error) {
	if config.Root == "" {
		return nil, errcode.InvalidArgf("sdk root not specified")
	}
	buildConfig := config.Config
	switch buildConfig {
	case "":
		buildConfig = ConfigDebug
	case ConfigDebug, ConfigRelease:
	default:
		return nil, errcode.InvalidArgf(
			"unknown build config %q", buildConfig,
		)
	}

	src := config.Src
	if src == "" {
		src = "."
	}
	out := config.Out
	if out == "" {
		out = "build"
	}

	w := config.Log
	if w == nil {
		w = os.Stderr
	}

	return &Builder{
		env: &env{
			rootDir:     config.Root,
			srcDir:      src,
			outDir:      out,
			buildConfig: buildConfig,
			dockerImage: config.DockerImage,
		},
		log: w,
	}, nil
}

// Out returns the filesystem path to an output file.
func (b *Builder) Out(f string) string { return b.env.out(f) }

// Src returns the filesystem path to a source file.
func (b *Builder) Src(f string) string { return b.env.src(f) }

// Build builds the given rules declared in the build file of the source
// directory. It builds all declared rules when rules is empty.
func (b *Builder) Build(rules []string) []*lexing.Error {
	nodes, nodeMap, errs := loadNodes(b.env, rules)
	if errs != nil {
		return errs
	}
	if err := b.buildNodes(nodes, nodeMap); err != nil {
		return lexing.SingleErr(err)
	}
	return nil
}

// Invoke builds one work unit that is not declared in any build file.
func (b *Builder) Invoke(w *PipeExe) error {
	l := newLoader(b.env)
	l.addPipeExe("", w, nil)
	if errs := l.Errs(); errs != nil {
		return loadError(errs)
	}
	nodes, nodeMap, errs := l.finish([]string{l.rules[0].name})
	if errs != nil {
		return loadError(errs)
	}
	return b.buildNodes(nodes, nodeMap)
}

// loadError folds a list of load errors of an undeclared work unit into
// one, keeping the error code of the first. Such errors have no position.
func loadError(errs []*lexing.Error) error {
	return errcode.Annotatef(errs[0].Err, "load got %d errors", len(errs))
}

// Clean removes the output directory.
func (b *Builder) Clean() error {
	return os.RemoveAll(b.env.out())
}

type buildContext struct {
	nodes map[string]*buildNode
	built map[string]string
	cache *buildCache
}

func (b *Builder) buildNodes(
	nodes []*buildNode, nodeMap map[string]*buildNode,
) error {
	if err := os.MkdirAll(b.env.out(), 0700); err != nil {
		return errcode.Annotate(err, "make output dir")
	}
	cache, err := newBuildCache(b.env.out(cacheFile))
	if err != nil {
		return errcode.Annotate(err, "open build cache")
	}
	defer cache.close()

	ctx := &buildContext{
		nodes: nodeMap,
		built: make(map[string]string),
		cache: cache,
	}

	for _, n := range nodes {
		if n.typ == nodeSrc {
			log.Printf("%s is a source file", n.name)
			continue
		}
		if _, err := b.buildNode(ctx, n); err != nil {
			return err
		}
	}
	return nil
}

func (b *Builder) buildNode(ctx *buildContext, n *buildNode) (
	string, error,
) {
	if digest, ok := ctx.built[n.name]; ok {
		return digest, nil
	}

	deps := make(map[string]string)
	for _, dep := range n.deps {
		depNode := ctx.nodes[dep]
		if depNode == nil {
			return "", errcode.InvalidArgf(
				"dep %q for %q not found", dep, n.name,
			)
		}
		d, err := b.buildNode(ctx, depNode)
		if err != nil {
			return "", err
		}
		deps[dep] = d
	}

	digest, err := buildNodeDigest(b.env, n, deps)
	if err != nil {
		return "", errcode.Annotate(err, "digest")
	}
	ctx.built[n.name] = digest
	if n.typ != nodeRule {
		return digest, nil
	}

	built, err := ctx.cache.get(digest)
	if err != nil {
		if !errors.Is(err, errNotFoundInCache) {
			return "", errcode.Annotate(err, "check from build cache")
		}
	} else {
		same, err := checkSameBuilt(b.env, built)
		if err != nil {
			return "", errcode.Annotate(err, "check built")
		}
		if same { // Cache hit.
			log.Printf("%s is up to date", n.name)
			return digest, nil
		}
	}

	if err := ctx.cache.remove(digest); err != nil {
		return "", errcode.Annotate(err, "invalidate cache")
	}

	log.Printf("BUILD %s", n.name)
	run, err := newRunner(b.env, b.log)
	if err != nil {
		return "", errcode.Annotate(err, "start toolchain")
	}
	defer run.close()

	opts := &buildOpts{runner: run}
	if err := n.rule.build(b.env, opts); err != nil {
		return "", errcode.Annotatef(err, "build %s", n.name)
	}

	out, err := newBuilt(b.env, n.ruleMeta)
	if err != nil {
		return "", errcode.Annotate(err, "make built")
	}
	if err := ctx.cache.put(digest, out); err != nil {
		return "", errcode.Annotate(err, "save in build cache")
	}
	return digest, nil
}
