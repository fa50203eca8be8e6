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

package assembler

import "github.com/svmlang/svm/pkg/vm"

// argConstraint is one operand slot's shape requirement.
type argConstraint int

const (
	argcNone argConstraint = iota
	argcAny
	argcRegOnly
	argcImmOnly
)

type opcodeMeta struct {
	op       vm.Opcode
	argCount int
	arg1     argConstraint
	arg2     argConstraint

	// optionalSecond marks PUSH/POP: arg2 is read only if the token that
	// follows arg1 turns out to be a register mnemonic, never forced.
	optionalSecond bool
}

// mnemonics maps the assembler's exact lowercase mnemonics to their
// opcode metadata. PUSH/POP are present here even though the reference
// implementation's own table omits them; spec requires the Go assembler
// to accept their documented shapes.
var mnemonics = map[string]opcodeMeta{
	"nop":  {op: vm.OpNOP, argCount: 0, arg1: argcNone, arg2: argcNone},
	"end":  {op: vm.OpEND, argCount: 0, arg1: argcNone, arg2: argcNone},
	"mov":  {op: vm.OpMOV, argCount: 2, arg1: argcAny, arg2: argcAny},
	"push": {op: vm.OpPUSH, argCount: 1, arg1: argcAny, arg2: argcRegOnly, optionalSecond: true},
	"pop":  {op: vm.OpPOP, argCount: 1, arg1: argcRegOnly, arg2: argcRegOnly, optionalSecond: true},
	"add":  {op: vm.OpADD, argCount: 2, arg1: argcAny, arg2: argcAny},
	"sub":  {op: vm.OpSUB, argCount: 2, arg1: argcAny, arg2: argcAny},
	"mul":  {op: vm.OpMUL, argCount: 2, arg1: argcAny, arg2: argcAny},
	"div":  {op: vm.OpDIV, argCount: 2, arg1: argcAny, arg2: argcAny},
	"and":  {op: vm.OpAND, argCount: 2, arg1: argcAny, arg2: argcAny},
	"or":   {op: vm.OpOR, argCount: 2, arg1: argcAny, arg2: argcAny},
	"xor":  {op: vm.OpXOR, argCount: 2, arg1: argcAny, arg2: argcAny},
	"shl":  {op: vm.OpSHL, argCount: 2, arg1: argcAny, arg2: argcAny},
	"shr":  {op: vm.OpSHR, argCount: 2, arg1: argcAny, arg2: argcAny},
	"cmp":  {op: vm.OpCMP, argCount: 2, arg1: argcAny, arg2: argcAny},
	"clf":  {op: vm.OpCLF, argCount: 0, arg1: argcNone, arg2: argcNone},
	"jmp":  {op: vm.OpJMP, argCount: 1, arg1: argcAny, arg2: argcNone},
	"inv":  {op: vm.OpINV, argCount: 1, arg1: argcAny, arg2: argcNone},
	"ret":  {op: vm.OpRET, argCount: 0, arg1: argcNone, arg2: argcNone},
	"sys":  {op: vm.OpSYS, argCount: 1, arg1: argcAny, arg2: argcNone},
}

var extMnemonics = map[string]vm.Ext{
	"eq": vm.ExtEQ,
	"ne": vm.ExtNE,
	"lt": vm.ExtLT,
	"le": vm.ExtLE,
	"gt": vm.ExtGT,
	"ge": vm.ExtGE,
	"nz": vm.ExtNZ,
	"z":  vm.ExtZ,
}

var registerMnemonics = func() map[string]vm.ArgType {
	m := make(map[string]vm.ArgType, vm.NumRegisters)
	names := []string{
		"r0", "r1", "r2", "r3", "r4", "r5", "r6", "r7",
		"r8", "r9", "r10", "r11", "r12", "r13", "r14", "r15",
	}
	for i, name := range names {
		m[name] = vm.ArgR0 + vm.ArgType(i)
	}
	return m
}()

// checkConstraint reports whether arg satisfies c. PUSH/POP's second
// slot is validated separately (it legitimately may be absent), so argc
// here always describes "a single operand is present and well formed."
func checkConstraint(c argConstraint, arg vm.ArgType, present bool) bool {
	switch c {
	case argcNone:
		return !present
	case argcImmOnly:
		return present && arg == vm.ArgIMM
	case argcRegOnly:
		return present && arg.IsRegister()
	case argcAny:
		return present && arg != vm.ArgNONE
	default:
		return false
	}
}
