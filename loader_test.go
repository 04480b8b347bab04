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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"shanhu.io/misc/errcode"
)

func TestLoadTracer(t *testing.T) {
	tr := newLoadTracer()
	assert.True(t, tr.push("a"))
	assert.True(t, tr.push("b"))
	assert.False(t, tr.push("a"))
	assert.Equal(t, []string{"a", "b"}, tr.stack())
	tr.pop()
	tr.pop()
	tr.pop()
	assert.Empty(t, tr.stack())
	assert.True(t, tr.push("a"))
}

func TestLoaderRedeclared(t *testing.T) {
	env := testEnv(t)
	writeFiles(t, env.srcDir, map[string]string{"main.c": ""})

	l := newLoader(env)
	l.addPipeExe("", &PipeExe{Name: "prog", Sources: []string{"."}}, nil)
	require.Nil(t, l.Errs())
	l.addPipeExe("", &PipeExe{Name: "prog", Sources: []string{"."}}, nil)

	errs := l.Errs()
	require.NotEmpty(t, errs)
	assert.Contains(t, errs[0].Err.Error(), `"prog" redeclared`)
}

func TestLoaderLoadsSources(t *testing.T) {
	env := testEnv(t)
	writeFiles(t, env.srcDir, map[string]string{"a.c": "", "b.cpp": ""})

	l := newLoader(env)
	l.addPipeExe("", &PipeExe{Name: "prog", Sources: []string{"."}}, nil)
	nodes, loaded, errs := l.finish([]string{"prog"})
	require.Nil(t, errs)
	require.Len(t, nodes, 1)
	assert.Equal(t, nodeRule, nodes[0].typ)
	for _, src := range []string{"a.c", "b.cpp"} {
		require.Contains(t, loaded, src)
		assert.Equal(t, nodeSrc, loaded[src].typ)
	}
}

func TestLoaderRuleNamedAfterOwnSource(t *testing.T) {
	env := testEnv(t)
	writeFiles(t, env.srcDir, map[string]string{"main.c": ""})

	// A rule named after its own source file.
	l := newLoader(env)
	l.addPipeExe("", &PipeExe{Name: "main.c", Sources: []string{"."}}, nil)
	require.Nil(t, l.Errs())

	_, _, errs := l.finish([]string{"main.c"})
	require.NotEmpty(t, errs)
	assert.Contains(t, errs[0].Err.Error(), "conflicts with a rule name")
}

func TestLoaderRuleNamedAfterOtherSource(t *testing.T) {
	env := testEnv(t)
	writeFiles(t, env.srcDir, map[string]string{
		"a.c":       "",
		"b.c":       "",
		"sub/sub.c": "",
	})

	l := newLoader(env)
	l.addPipeExe("", &PipeExe{Name: "prog", Sources: []string{"."}}, nil)
	l.addPipeExe("", &PipeExe{Name: "b.c", Sources: []string{"sub"}}, nil)
	require.Nil(t, l.Errs())

	_, _, errs := l.finish([]string{"prog"})
	require.NotEmpty(t, errs)
	assert.Contains(t, errs[0].Err.Error(), `source "b.c" of "prog"`)

	// The other rule alone loads fine.
	l = newLoader(env)
	l.addPipeExe("", &PipeExe{Name: "b.c", Sources: []string{"sub"}}, nil)
	_, _, errs = l.finish([]string{"b.c"})
	assert.Nil(t, errs)
}

func TestLoaderUnknownTarget(t *testing.T) {
	env := testEnv(t)
	l := newLoader(env)
	_, _, errs := l.finish([]string{"nothing"})
	require.NotEmpty(t, errs)
	assert.Contains(t, errs[0].Err.Error(), "cannot resolve")
	assert.True(t, errcode.IsNotFound(errs[0].Err))
}
