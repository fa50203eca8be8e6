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

package encoding

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPackUnpack(t *testing.T) {
	testCases := []struct {
		name                   string
		op, ext, arg1, arg2    uint8
	}{
		{"nop", 0, 0, 0, 0},
		{"mov reg imm", 2, 0, 1, 17},
		{"max bytes", 255, 255, 255, 255},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			word := Pack(tc.op, tc.ext, tc.arg1, tc.arg2)
			op, ext, arg1, arg2 := Unpack(word)
			assert.Equal(t, tc.op, op)
			assert.Equal(t, tc.ext, ext)
			assert.Equal(t, tc.arg1, arg1)
			assert.Equal(t, tc.arg2, arg2)
		})
	}
}

func TestParseLiteral(t *testing.T) {
	testCases := []struct {
		name  string
		input string
		want  int32
		ok    bool
	}{
		{"decimal", "1234", 1234, true},
		{"decimal nine", "9", 9, true},
		{"hex lowercase full range", "0xabcdef", 0xabcdef, true},
		{"hex uppercase", "0xABCDEF", 0xabcdef, true},
		{"hex zero", "0x0", 0, true},
		{"binary", "0b1011", 0b1011, true},
		{"empty", "", 0, false},
		{"garbage", "0xzz", 0, false},
		{"not a number", "labelname", 0, false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := ParseLiteral(tc.input)
			require.Equal(t, tc.ok, ok)
			if tc.ok {
				assert.Equal(t, tc.want, got)
			}
		})
	}
}

func TestImageRoundTrip(t *testing.T) {
	words := []int32{1, -2, 3, 0x7fffffff, -0x80000000}

	var buf bytes.Buffer
	require.NoError(t, WriteImage(&buf, words))

	got, err := ReadImage(&buf)
	require.NoError(t, err)
	assert.Equal(t, words, got)
}
