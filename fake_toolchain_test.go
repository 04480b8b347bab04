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
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// fakeTool writes its arguments to a log file and creates the file that
// follows outFlag.
const fakeTool = `#!/bin/sh
echo "%s $*" >> "%s"
out=""
while [ $# -gt 0 ]; do
	if [ "$1" = "%s" ]; then
		out="$2"
		shift
	fi
	shift
done
echo "%s" > "$out"
`

type fakeSDK struct {
	root string
	log  string
}

func newFakeSDK(t *testing.T) *fakeSDK {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("fake toolchain needs a posix shell")
	}

	root := t.TempDir()
	bin := filepath.Join(root, "bin")
	require.NoError(t, os.MkdirAll(bin, 0700))
	log := filepath.Join(root, "tool.log")

	for _, tool := range []struct{ name, flag string }{
		{"xgcc", "-o"},
		{"pipe-tool", "-B"},
	} {
		script := fmt.Sprintf(fakeTool, tool.name, log, tool.flag, tool.name)
		f := filepath.Join(bin, tool.name)
		require.NoError(t, os.WriteFile(f, []byte(script), 0700))
	}
	return &fakeSDK{root: root, log: log}
}

func (s *fakeSDK) calls(t *testing.T) []string {
	t.Helper()
	bs, err := os.ReadFile(s.log)
	if os.IsNotExist(err) {
		return nil
	}
	require.NoError(t, err)
	return strings.Split(strings.TrimSpace(string(bs)), "\n")
}

func writeFiles(t *testing.T, dir string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		f := filepath.Join(dir, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(f), 0700))
		require.NoError(t, os.WriteFile(f, []byte(content), 0600))
	}
}

func newTestBuilder(t *testing.T, sdk *fakeSDK, src string) *Builder {
	t.Helper()
	b, err := NewBuilder(&Config{
		Root: sdk.root,
		Src:  src,
		Out:  filepath.Join(t.TempDir(), "out"),
		Log:  io.Discard,
	})
	require.NoError(t, err)
	return b
}
