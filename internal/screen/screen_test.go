// Copyright (C) 2021  Antonio Lassandro

// This program is free software: you can redistribute it and/or modify it
// under the terms of the GNU General Public License as published by the Free
// Software Foundation, either version 3 of the License, or (at your option)
// any later version.

// This program is distributed in the hope that it will be useful, but WITHOUT
// ANY WARRANTY; without even the implied warranty of MERCHANTABILITY or
// FITNESS FOR A PARTICULAR PURPOSE.  See the GNU General Public License for
// more details.

// You should have received a copy of the GNU General Public License along
// with this program.  If not, see <http://www.gnu.org/licenses/>.

package screen

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetAndRenderPlain(t *testing.T) {
	s := New(1)
	s.Set(0, 0, true)
	s.Set(7, 7, true)

	var buf strings.Builder
	s.Render(&buf, false)

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, rows)
	assert.True(t, strings.HasPrefix(lines[0], "1"))
	assert.True(t, strings.HasSuffix(lines[rows-1], "1"))
}

func TestSetIgnoresOutOfRange(t *testing.T) {
	s := New(1)
	s.Set(-1, 0, true)
	s.Set(0, -1, true)
	s.Set(colsPerTile, 0, true)
	s.Set(0, rows, true)

	var buf strings.Builder
	s.Render(&buf, false)
	assert.NotContains(t, buf.String(), "1")
}

func TestNewClampsTilesToAtLeastOne(t *testing.T) {
	s := New(0)
	assert.Len(t, s.grid[0], colsPerTile)
}

func TestRenderColorUsesAnsiGlyph(t *testing.T) {
	s := New(1)
	s.Set(0, 0, true)

	var buf strings.Builder
	s.Render(&buf, true)
	assert.Contains(t, buf.String(), "\x1b[7m")
}
