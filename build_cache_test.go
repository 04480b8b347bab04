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
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildCache(t *testing.T) {
	f := filepath.Join(t.TempDir(), "cache.db")
	c, err := newBuildCache(f)
	require.NoError(t, err)

	_, err = c.get("sha256:none")
	assert.ErrorIs(t, err, errNotFoundInCache)

	out := &buildOutput{Outs: []*fileStat{{
		Name: "prog", Size: 12, ModTimestamp: 34, Mode: 0600,
	}}}
	require.NoError(t, c.put("sha256:a", out))
	require.NoError(t, c.put("sha256:a", out)) // replaces

	got, err := c.get("sha256:a")
	require.NoError(t, err)
	assert.Equal(t, out, got)
	require.NoError(t, c.close())

	// Entries survive reopening.
	c, err = newBuildCache(f)
	require.NoError(t, err)
	defer c.close()

	_, err = c.get("sha256:a")
	require.NoError(t, err)

	require.NoError(t, c.remove("sha256:a"))
	_, err = c.get("sha256:a")
	assert.ErrorIs(t, err, errNotFoundInCache)
}
