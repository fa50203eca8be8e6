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

// DefaultCallStackSize and DefaultDataStackSize are used whenever an
// Image's metadata leaves the corresponding size at zero.
const (
	DefaultCallStackSize = 8
	DefaultDataStackSize = 32
)

// taskID names a task inside a Scheduler's slot table.
type taskID uint32

// Task is one cooperatively scheduled thread of execution: its own
// program counter, registers, flags, and two independent fixed-capacity
// stacks. Tasks never share state.
type Task struct {
	id taskID

	PC  uint32
	RPC uint32

	Registers [NumRegisters]int32
	Flags     Flags

	dataStack []int32
	sp        int

	callStack []int32
	rpc       int
}

// newTask allocates a task's stacks through alloc and seeds its register
// file and entry point. It never mutates seed.
func newTask(id taskID, alloc Allocator, pc uint32, seed [NumRegisters]int32, meta ImageMeta) (*Task, error) {
	if alloc == nil {
		return nil, ErrNullArg
	}

	callSize := int(meta.CallStackSize)
	if callSize == 0 {
		callSize = DefaultCallStackSize
	}
	dataSize := int(meta.DataStackSize)
	if dataSize == 0 {
		dataSize = DefaultDataStackSize
	}

	callStack, err := alloc.AllocInt32(callSize)
	if err != nil || callStack == nil {
		return nil, ErrBadAlloc
	}
	dataStack, err := alloc.AllocInt32(dataSize)
	if err != nil || dataStack == nil {
		return nil, ErrBadAlloc
	}

	t := &Task{
		id:        id,
		PC:        pc,
		Registers: seed,
		callStack: callStack,
		dataStack: dataStack,
	}
	return t, nil
}

// deinit releases a task's stack buffers. Kept as an explicit lifecycle
// step, mirroring the task init/deinit symmetry of the original runtime,
// even though Go's GC makes it a no-op beyond dropping the references.
func (t *Task) deinit() {
	t.callStack = nil
	t.dataStack = nil
}

func (t *Task) pushData(v int32) error {
	if t.sp >= len(t.dataStack) {
		return ErrStackOverflow
	}
	t.dataStack[t.sp] = v
	t.sp++
	return nil
}

func (t *Task) popData() (int32, error) {
	if t.sp < 1 {
		return 0, ErrStackUnderflow
	}
	t.sp--
	return t.dataStack[t.sp], nil
}

// hasDataRoom reports whether count more values fit on the data stack, so
// a range push can be checked before writing any of them and a push that
// can't fit leaves the stack untouched.
func (t *Task) hasDataRoom(count int) bool {
	return t.sp+count <= len(t.dataStack)
}

func (t *Task) hasDataDepth(count int) bool {
	return t.sp >= count
}

func (t *Task) pushCall(pc uint32) error {
	if t.rpc >= len(t.callStack) {
		return ErrCallStackOverflow
	}
	t.callStack[t.rpc] = int32(pc)
	t.rpc++
	return nil
}

func (t *Task) popCall() (uint32, error) {
	if t.rpc < 1 {
		return 0, ErrCallStackUnderflow
	}
	t.rpc--
	return uint32(t.callStack[t.rpc]), nil
}
