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

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pack(op Opcode, ext Ext, arg1, arg2 ArgType) int32 {
	return int32(uint32(op) | uint32(ext)<<8 | uint32(arg1)<<16 | uint32(arg2)<<24)
}

func newTestVM(t *testing.T, words []int32) *VM {
	t.Helper()
	machine, err := NewVM(nil, DefaultAllocator{}, nil)
	require.NoError(t, err)
	require.NoError(t, machine.Load(&Image{Words: words}))
	return machine
}

func runToEnd(t *testing.T, machine *VM, maxCycles int) {
	t.Helper()
	for i := 0; i < maxCycles; i++ {
		if !machine.Running() {
			return
		}
		require.NoError(t, machine.Cycle())
	}
	t.Fatalf("program did not END within %d cycles", maxCycles)
}

func TestCycleMovImmediate(t *testing.T) {
	words := []int32{
		pack(OpMOV, ExtNONE, ArgR0, ArgIMM), 42,
		pack(OpEND, ExtNONE, ArgNONE, ArgNONE),
	}
	machine := newTestVM(t, words)
	runToEnd(t, machine, 10)

	task, err := machine.CurrentTask()
	require.NoError(t, err)
	assert.Equal(t, int32(42), task.Registers[0])
}

func TestCycleArithmeticSetsResultFlags(t *testing.T) {
	words := []int32{
		pack(OpMOV, ExtNONE, ArgR0, ArgIMM), 5,
		pack(OpSUB, ExtNONE, ArgR0, ArgIMM), 5,
		pack(OpEND, ExtNONE, ArgNONE, ArgNONE),
	}
	machine := newTestVM(t, words)
	runToEnd(t, machine, 10)

	task, err := machine.CurrentTask()
	require.NoError(t, err)
	assert.Equal(t, int32(0), task.Registers[0])
	assert.True(t, task.Flags.Z)
	// NZ was set by the earlier "mov r0 5" and is sticky until CLF.
	assert.True(t, task.Flags.NZ)
}

func TestCyclePredicateSuppressesWriteButConsumesImmediate(t *testing.T) {
	// r0 starts at 0, EQ is false, so "mov.eq r0 99" must not write r0,
	// but must still advance past its immediate word to reach END.
	words := []int32{
		pack(OpMOV, ExtEQ, ArgR0, ArgIMM), 99,
		pack(OpEND, ExtNONE, ArgNONE, ArgNONE),
	}
	machine := newTestVM(t, words)
	runToEnd(t, machine, 10)

	task, err := machine.CurrentTask()
	require.NoError(t, err)
	assert.Equal(t, int32(0), task.Registers[0])
}

func TestCycleCmpFlagsAreSticky(t *testing.T) {
	words := []int32{
		pack(OpMOV, ExtNONE, ArgR0, ArgIMM), 1,
		pack(OpMOV, ExtNONE, ArgR1, ArgIMM), 2,
		pack(OpCMP, ExtNONE, ArgR0, ArgR1),
		pack(OpMOV, ExtNONE, ArgR0, ArgIMM), 2,
		pack(OpCMP, ExtNONE, ArgR0, ArgR1),
		pack(OpEND, ExtNONE, ArgNONE, ArgNONE),
	}
	machine := newTestVM(t, words)
	runToEnd(t, machine, 20)

	task, err := machine.CurrentTask()
	require.NoError(t, err)
	// First CMP set LT; nothing clears it before the second CMP sets EQ.
	assert.True(t, task.Flags.LT)
	assert.True(t, task.Flags.EQ)
}

func TestCycleClfClearsOneFlag(t *testing.T) {
	words := []int32{
		pack(OpMOV, ExtNONE, ArgR0, ArgIMM), 1,
		pack(OpCMP, ExtNONE, ArgR0, ArgR0),
		pack(OpCLF, ExtEQ, ArgNONE, ArgNONE),
		pack(OpEND, ExtNONE, ArgNONE, ArgNONE),
	}
	machine := newTestVM(t, words)
	runToEnd(t, machine, 10)

	task, err := machine.CurrentTask()
	require.NoError(t, err)
	assert.False(t, task.Flags.EQ)
	assert.True(t, task.Flags.LE) // CMP set LE too; CLF.eq only touched EQ
}

func TestCycleClfWithNoExtClearsAll(t *testing.T) {
	words := []int32{
		pack(OpMOV, ExtNONE, ArgR0, ArgIMM), 1,
		pack(OpCMP, ExtNONE, ArgR0, ArgR0),
		pack(OpCLF, ExtNONE, ArgNONE, ArgNONE),
		pack(OpEND, ExtNONE, ArgNONE, ArgNONE),
	}
	machine := newTestVM(t, words)
	runToEnd(t, machine, 10)

	task, err := machine.CurrentTask()
	require.NoError(t, err)
	assert.Equal(t, Flags{}, task.Flags)
}

func TestCyclePushPopRegisterRangeRoundTrip(t *testing.T) {
	words := []int32{
		pack(OpMOV, ExtNONE, ArgR0, ArgIMM), 1,
		pack(OpMOV, ExtNONE, ArgR1, ArgIMM), 2,
		pack(OpMOV, ExtNONE, ArgR2, ArgIMM), 3,
		pack(OpPUSH, ExtNONE, ArgR0, ArgR2),
		pack(OpMOV, ExtNONE, ArgR0, ArgIMM), 0,
		pack(OpMOV, ExtNONE, ArgR1, ArgIMM), 0,
		pack(OpMOV, ExtNONE, ArgR2, ArgIMM), 0,
		pack(OpPOP, ExtNONE, ArgR0, ArgR2),
		pack(OpEND, ExtNONE, ArgNONE, ArgNONE),
	}
	machine := newTestVM(t, words)
	runToEnd(t, machine, 30)

	task, err := machine.CurrentTask()
	require.NoError(t, err)
	assert.Equal(t, int32(1), task.Registers[0])
	assert.Equal(t, int32(2), task.Registers[1])
	assert.Equal(t, int32(3), task.Registers[2])
	assert.Equal(t, 0, task.sp)
}

func TestCyclePushImmediatePopSingle(t *testing.T) {
	words := []int32{
		pack(OpPUSH, ExtNONE, ArgIMM, ArgNONE), 7,
		pack(OpPOP, ExtNONE, ArgR5, ArgNONE),
		pack(OpEND, ExtNONE, ArgNONE, ArgNONE),
	}
	machine := newTestVM(t, words)
	runToEnd(t, machine, 10)

	task, err := machine.CurrentTask()
	require.NoError(t, err)
	assert.Equal(t, int32(7), task.Registers[5])
	assert.Equal(t, 0, task.sp)
}

func TestCyclePushDescendingRangeIsBadOrder(t *testing.T) {
	words := []int32{
		pack(OpPUSH, ExtNONE, ArgR2, ArgR0),
		pack(OpEND, ExtNONE, ArgNONE, ArgNONE),
	}
	machine := newTestVM(t, words)
	require.ErrorIs(t, machine.Cycle(), ErrPushArgBadOrder)
}

func TestCyclePopUnderflow(t *testing.T) {
	words := []int32{
		pack(OpPOP, ExtNONE, ArgR0, ArgNONE),
		pack(OpEND, ExtNONE, ArgNONE, ArgNONE),
	}
	machine := newTestVM(t, words)
	require.ErrorIs(t, machine.Cycle(), ErrStackUnderflow)
}

func TestCycleJmpAndInvAndRet(t *testing.T) {
	// words[0..1]: inv -> word index 3 (call)
	// words[2]:    end
	// words[3..4]: mov r0 1
	// words[5]:    ret
	words := []int32{
		pack(OpINV, ExtNONE, ArgIMM, ArgNONE), 3,
		pack(OpEND, ExtNONE, ArgNONE, ArgNONE),
		pack(OpMOV, ExtNONE, ArgR0, ArgIMM), 1,
		pack(OpRET, ExtNONE, ArgNONE, ArgNONE),
	}
	machine := newTestVM(t, words)
	runToEnd(t, machine, 20)

	task, err := machine.CurrentTask()
	require.NoError(t, err)
	assert.Equal(t, int32(1), task.Registers[0])
}

func TestCycleJmpOverflow(t *testing.T) {
	words := []int32{
		pack(OpJMP, ExtNONE, ArgIMM, ArgNONE), 999,
	}
	machine := newTestVM(t, words)
	require.ErrorIs(t, machine.Cycle(), ErrJmpOverflow)
}

func TestCycleRetUnderflow(t *testing.T) {
	words := []int32{
		pack(OpRET, ExtNONE, ArgNONE, ArgNONE),
	}
	machine := newTestVM(t, words)
	require.ErrorIs(t, machine.Cycle(), ErrCallStackUnderflow)
}

func TestCycleUnknownInstructionStopsTheVM(t *testing.T) {
	words := []int32{
		int32(uint32(200)),
	}
	machine := newTestVM(t, words)
	require.ErrorIs(t, machine.Cycle(), ErrUnknownInstruction)
	assert.False(t, machine.Running())
}

func TestCycleSysInvokesPort(t *testing.T) {
	var gotNum int32
	var gotCtx any
	port := func(ctx any, registers *[NumRegisters]int32, num int32) {
		gotCtx = ctx
		gotNum = num
		registers[0] = 123
	}

	machine, err := NewVM("host", DefaultAllocator{}, port)
	require.NoError(t, err)
	require.NoError(t, machine.Load(&Image{Words: []int32{
		pack(OpSYS, ExtNONE, ArgIMM, ArgNONE), 3,
		pack(OpEND, ExtNONE, ArgNONE, ArgNONE),
	}}))
	runToEnd(t, machine, 10)

	assert.Equal(t, int32(3), gotNum)
	assert.Equal(t, "host", gotCtx)

	task, err := machine.CurrentTask()
	require.NoError(t, err)
	assert.Equal(t, int32(123), task.Registers[0])
}

func TestCycleSysWithNilPortIsNoop(t *testing.T) {
	machine := newTestVM(t, []int32{
		pack(OpSYS, ExtNONE, ArgIMM, ArgNONE), 1,
		pack(OpEND, ExtNONE, ArgNONE, ArgNONE),
	})
	runToEnd(t, machine, 10)
	assert.False(t, machine.Running())
}

func TestCycleNotRunningAfterEnd(t *testing.T) {
	machine := newTestVM(t, []int32{pack(OpEND, ExtNONE, ArgNONE, ArgNONE)})
	require.NoError(t, machine.Cycle())
	assert.False(t, machine.Running())
	require.ErrorIs(t, machine.Cycle(), ErrNotRunning)
}

type failingAllocator struct{}

func (failingAllocator) AllocInt32(n int) ([]int32, error) {
	return nil, ErrBadAlloc
}

func TestLoadPropagatesAllocatorFailure(t *testing.T) {
	machine, err := NewVM(nil, failingAllocator{}, nil)
	require.NoError(t, err)
	err = machine.Load(&Image{Words: []int32{pack(OpEND, ExtNONE, ArgNONE, ArgNONE)}})
	require.ErrorIs(t, err, ErrBadAlloc)
}

func TestNewVMRejectsNilAllocator(t *testing.T) {
	_, err := NewVM(nil, nil, nil)
	require.ErrorIs(t, err, ErrNullArg)
}

func TestLoadRejectsNilImage(t *testing.T) {
	machine, err := NewVM(nil, DefaultAllocator{}, nil)
	require.NoError(t, err)
	require.ErrorIs(t, machine.Load(nil), ErrNullArg)
}

func TestTaskLifecycleCreateRemoveSwitch(t *testing.T) {
	machine := newTestVM(t, []int32{pack(OpEND, ExtNONE, ArgNONE, ArgNONE)})

	second, err := machine.CreateTask(0, [NumRegisters]int32{})
	require.NoError(t, err)

	first, err := machine.CurrentTask()
	require.NoError(t, err)
	require.NotEqual(t, first, second)

	require.NoError(t, machine.SwitchTask())
	current, err := machine.CurrentTask()
	require.NoError(t, err)
	assert.Same(t, second, current)

	require.NoError(t, machine.SwitchTask())
	current, err = machine.CurrentTask()
	require.NoError(t, err)
	assert.Same(t, first, current)

	require.NoError(t, machine.RemoveTask(second))
	require.NoError(t, machine.SwitchTask())
	current, err = machine.CurrentTask()
	require.NoError(t, err)
	assert.Same(t, first, current)
}

func TestBlockTaskSwitchRejectsSwitch(t *testing.T) {
	machine := newTestVM(t, []int32{pack(OpEND, ExtNONE, ArgNONE, ArgNONE)})
	machine.BlockTaskSwitch(true)
	require.ErrorIs(t, machine.SwitchTask(), ErrTaskSwitchBlocked)
}
