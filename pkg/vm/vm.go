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

import "github.com/svmlang/svm/pkg/encoding"

// VM is the runtime for one loaded program: a code image, a scheduler
// full of tasks, and a pluggable syscall port. Callers drive it one
// Cycle at a time; there is no internal run loop.
type VM struct {
	ctx   any
	image *Image

	alloc     Allocator
	scheduler *Scheduler
	port      SyscallPort

	running bool
}

// NewVM constructs a VM bound to ctx (an opaque value forwarded to the
// syscall port verbatim) and alloc (the stack allocator for new tasks).
// port may be nil for a VM with no syscalls wired in. alloc must not be
// nil.
func NewVM(ctx any, alloc Allocator, port SyscallPort) (*VM, error) {
	if alloc == nil {
		return nil, ErrNullArg
	}
	return &VM{
		ctx:       ctx,
		alloc:     alloc,
		port:      port,
		scheduler: newScheduler(),
	}, nil
}

// Load installs img as the running program, creates its first task at
// pc 0 with a zeroed register file, and marks the VM running.
func (vm *VM) Load(img *Image) error {
	if img == nil {
		return ErrNullArg
	}
	vm.image = img

	var seed [NumRegisters]int32
	if _, err := vm.scheduler.Create(vm.alloc, 0, seed, img.Meta); err != nil {
		return err
	}
	vm.running = true
	return vm.scheduler.Switch()
}

// Running reports whether the VM will still execute a Cycle.
func (vm *VM) Running() bool {
	return vm.running
}

// CreateTask spawns an additional task at pc with the given seed
// registers, joining the scheduler's ring.
func (vm *VM) CreateTask(pc uint32, seed [NumRegisters]int32) (*Task, error) {
	if vm.image == nil {
		return nil, ErrNullArg
	}
	return vm.scheduler.Create(vm.alloc, pc, seed, vm.image.Meta)
}

// fetchOperand resolves one argument slot to a value: a register read,
// or an immediate literal consumed from the code stream (always
// advancing pc, even when the caller ends up discarding the value).
// PUSH/POP use it only for PUSH's immediate form; their register slots
// name register indices or ranges rather than plain values.
func (vm *VM) fetchOperand(t *Task, arg ArgType) (int32, error) {
	switch {
	case arg == ArgNONE:
		return 0, nil
	case arg.IsRegister():
		idx, _ := arg.RegisterIndex()
		return t.Registers[idx], nil
	case arg == ArgIMM:
		if t.PC >= vm.image.Size() {
			return 0, ErrCodeOverflow
		}
		v := vm.image.Words[t.PC]
		t.PC++
		return v, nil
	default:
		return 0, nil
	}
}

// destRegister resolves arg1 to the register index a writing opcode
// must target.
func destRegister(arg ArgType) (int, error) {
	idx, ok := arg.RegisterIndex()
	if !ok {
		return 0, ErrArgNotReg
	}
	return idx, nil
}

// Cycle executes exactly one instruction of the current task: fetch,
// decode, resolve operands (consuming any IMM words regardless of the
// predicate), check the predicate, then apply the opcode's effect.
//
// DIV by a zero divisor is not trapped; it panics with Go's native
// integer-division semantics, matching the non-goal that arithmetic
// faults are host-defined rather than reported through the VM error
// taxonomy.
func (vm *VM) Cycle() error {
	if !vm.running {
		return ErrNotRunning
	}

	task, err := vm.scheduler.Current()
	if err != nil {
		return err
	}

	if task.PC >= vm.image.Size() {
		vm.running = false
		return ErrCodeOverflow
	}

	word := uint32(vm.image.Words[task.PC])
	task.PC++

	opByte, extByte, arg1Byte, arg2Byte := encoding.Unpack(word)
	op := Opcode(opByte)
	ext := normalizeExt(extByte)
	arg1 := normalizeArgType(arg1Byte)
	arg2 := normalizeArgType(arg2Byte)

	switch op {
	case OpNOP:
		return nil

	case OpEND:
		vm.running = false
		return nil

	case OpMOV:
		return vm.execWrite(task, ext, arg1, arg2, func(_, b int32) int32 { return b })

	case OpADD:
		return vm.execWrite(task, ext, arg1, arg2, func(a, b int32) int32 { return a + b })

	case OpSUB:
		return vm.execWrite(task, ext, arg1, arg2, func(a, b int32) int32 { return a - b })

	case OpMUL:
		return vm.execWrite(task, ext, arg1, arg2, func(a, b int32) int32 { return a * b })

	case OpDIV:
		return vm.execWrite(task, ext, arg1, arg2, func(a, b int32) int32 { return a / b })

	case OpAND:
		return vm.execWrite(task, ext, arg1, arg2, func(a, b int32) int32 { return a & b })

	case OpOR:
		return vm.execWrite(task, ext, arg1, arg2, func(a, b int32) int32 { return a | b })

	case OpXOR:
		return vm.execWrite(task, ext, arg1, arg2, func(a, b int32) int32 { return a ^ b })

	case OpSHL:
		return vm.execWrite(task, ext, arg1, arg2, func(a, b int32) int32 { return a << uint32(b) })

	case OpSHR:
		return vm.execWrite(task, ext, arg1, arg2, func(a, b int32) int32 { return a >> uint32(b) })

	case OpCMP:
		a, err := vm.fetchOperand(task, arg1)
		if err != nil {
			return err
		}
		b, err := vm.fetchOperand(task, arg2)
		if err != nil {
			return err
		}
		task.Flags.SetComparison(a, b)
		return nil

	case OpCLF:
		task.Flags.Clear(ext)
		return nil

	case OpJMP:
		return vm.execJump(task, ext, arg1, false)

	case OpINV:
		return vm.execJump(task, ext, arg1, true)

	case OpRET:
		pc, err := task.popCall()
		if err != nil {
			return err
		}
		task.PC = pc
		return nil

	case OpPUSH:
		return vm.execPush(task, ext, arg1, arg2)

	case OpPOP:
		return vm.execPop(task, ext, arg1, arg2)

	case OpSYS:
		v, err := vm.fetchOperand(task, arg1)
		if err != nil {
			return err
		}
		if vm.port != nil {
			vm.port(vm.ctx, &task.Registers, v)
		}
		return nil

	default:
		vm.running = false
		return ErrUnknownInstruction
	}
}

// execWrite implements every Rd,src ALU-style opcode: arg1 then arg2 are
// always resolved first (consuming any IMM words, per the uniform
// operand-fetch invariant), then the predicate gates whether arg1's
// register is written.
func (vm *VM) execWrite(task *Task, ext Ext, arg1, arg2 ArgType, f func(dst, src int32) int32) error {
	dstVal, err := vm.fetchOperand(task, arg1)
	if err != nil {
		return err
	}
	src, err := vm.fetchOperand(task, arg2)
	if err != nil {
		return err
	}
	if !task.Flags.Check(ext) {
		return nil
	}

	idx, err := destRegister(arg1)
	if err != nil {
		return err
	}
	result := f(dstVal, src)
	task.Registers[idx] = result
	task.Flags.SetResult(result)
	return nil
}

func (vm *VM) execJump(task *Task, ext Ext, arg1 ArgType, isCall bool) error {
	target, err := vm.fetchOperand(task, arg1)
	if err != nil {
		return err
	}
	if !task.Flags.Check(ext) {
		return nil
	}
	if target < 0 || uint32(target) >= vm.image.Size() {
		return ErrJmpOverflow
	}
	if isCall {
		if err := task.pushCall(task.PC); err != nil {
			return err
		}
	}
	task.PC = uint32(target)
	return nil
}

func (vm *VM) execPush(task *Task, ext Ext, arg1, arg2 ArgType) error {
	var immVal int32
	if arg1 == ArgIMM {
		v, err := vm.fetchOperand(task, arg1)
		if err != nil {
			return err
		}
		immVal = v
	}
	if !task.Flags.Check(ext) {
		return nil
	}

	if arg1 == ArgIMM {
		return task.pushData(immVal)
	}

	idx1, ok := arg1.RegisterIndex()
	if !ok {
		return ErrArgNotReg
	}

	if arg2 == ArgNONE {
		return task.pushData(task.Registers[idx1])
	}

	idx2, ok := arg2.RegisterIndex()
	if !ok {
		return ErrArgNotReg
	}
	if idx1 >= idx2 {
		return ErrPushArgBadOrder
	}
	count := idx2 - idx1 + 1
	if !task.hasDataRoom(count) {
		return ErrStackOverflow
	}
	for r := idx1; r <= idx2; r++ {
		_ = task.pushData(task.Registers[r])
	}
	return nil
}

func (vm *VM) execPop(task *Task, ext Ext, arg1, arg2 ArgType) error {
	if !task.Flags.Check(ext) {
		return nil
	}

	if arg1.IsRegister() && arg2 == ArgNONE {
		idx, _ := arg1.RegisterIndex()
		v, err := task.popData()
		if err != nil {
			return err
		}
		task.Registers[idx] = v
		return nil
	}

	idx1, ok := arg1.RegisterIndex()
	if !ok {
		return ErrArgNotReg
	}
	idx2, ok := arg2.RegisterIndex()
	if !ok {
		return ErrArgNotReg
	}
	if idx1 >= idx2 {
		return ErrPushArgBadOrder
	}
	count := idx2 - idx1 + 1
	if !task.hasDataDepth(count) {
		return ErrStackUnderflow
	}
	for r := idx2; r >= idx1; r-- {
		v, _ := task.popData()
		task.Registers[r] = v
	}
	return nil
}

// SwitchTask advances the scheduler to the next task in ring order.
func (vm *VM) SwitchTask() error {
	return vm.scheduler.Switch()
}

// BlockTaskSwitch toggles whether SwitchTask is permitted to run.
func (vm *VM) BlockTaskSwitch(block bool) {
	vm.scheduler.Block(block)
}

// RemoveTask takes t out of the scheduler's ring. The caller must switch
// away from t first if it is the current task.
func (vm *VM) RemoveTask(t *Task) error {
	return vm.scheduler.Remove(t)
}

// CurrentTask returns the task the scheduler is presently pointing at.
func (vm *VM) CurrentTask() (*Task, error) {
	return vm.scheduler.Current()
}
