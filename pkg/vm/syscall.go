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

// SyscallPort is the host capability SYS forwards to. ctx is whatever
// opaque value the host passed to NewVM; registers is the current task's
// live register file, mutable by the handler; num is SYS's operand. A
// nil port behaves as a no-op, matching the default weak syscall handler
// of the original runtime.
type SyscallPort func(ctx any, registers *[NumRegisters]int32, num int32)
