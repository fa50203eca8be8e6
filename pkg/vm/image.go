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

package vm

// ImageMeta carries the per-task stack sizing the assembler recorded for
// a program. A zero field means "use the VM's default."
type ImageMeta struct {
	CallStackSize uint32
	DataStackSize uint32
}

// Image is an assembled program: a flat sequence of packed instruction
// words interleaved with the immediate literals they reference. It is
// immutable once built; the VM only ever reads it by index.
type Image struct {
	Words []int32
	Meta  ImageMeta
}

// Size is the number of code words in the image.
func (img *Image) Size() uint32 {
	return uint32(len(img.Words))
}
