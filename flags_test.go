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
)

func TestSplitFlags(t *testing.T) {
	for _, test := range []struct {
		in   string
		want []string
	}{
		{"", nil},
		{"   ", nil},
		{" -Wno-shadow", []string{"-Wno-shadow"}},
		{"-O2 -DX=1", []string{"-O2", "-DX=1"}},
		{`-DNAME="a b"`, []string{"-DNAME=a b"}},
		{`-I'dir with space'`, []string{"-Idir with space"}},
	} {
		got, err := splitFlags(test.in)
		require.NoError(t, err, test.in)
		if len(test.want) == 0 {
			assert.Empty(t, got, test.in)
			continue
		}
		assert.Equal(t, test.want, got, test.in)
	}

	_, err := splitFlags(`"unterminated`)
	assert.Error(t, err)
}
