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

// Package syshost wires the demo screen device and a sleep call onto the
// three syscall numbers the reference runtime's driver recognizes. This
// is host wiring the CLI driver installs; the VM core never imports it.
package syshost

import (
	"io"
	"time"

	"github.com/svmlang/svm/internal/screen"
)

const (
	SysSleep     = 1
	SysScreenSet = 2
	SysScreenOut = 3
)

// Host bundles the screen device and output sink a Port closure renders
// into.
type Host struct {
	Screen *screen.Screen
	Out    io.Writer
	Color  bool
}

// Port is a vm.SyscallPort-shaped handler (any, *[16]int32, int32). It is
// declared without importing pkg/vm; callers pass the method value h.Port
// directly where a vm.SyscallPort is expected.
func (h *Host) Port(ctx any, registers *[16]int32, num int32) {
	switch num {
	case SysSleep:
		time.Sleep(time.Duration(registers[0]) * time.Millisecond)
	case SysScreenSet:
		h.Screen.Set(int(registers[0]), int(registers[1]), registers[2] != 0)
	case SysScreenOut:
		h.Screen.Render(h.Out, h.Color)
	default:
		// no-op, matching the reference runtime's default handler
	}
}
