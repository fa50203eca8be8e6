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

// Package vm implements the SVM register machine: task contexts, the
// cooperative scheduler, and the per-cycle instruction dispatch.
package vm

// Opcode identifies an instruction. Numeric values are part of the wire
// format and must not be reassigned.
type Opcode uint8

const (
	OpNOP Opcode = iota
	OpEND
	OpMOV
	OpPUSH
	OpPOP
	OpADD
	OpSUB
	OpMUL
	OpDIV
	OpAND
	OpOR
	OpXOR
	OpSHL
	OpSHR
	OpCMP
	OpCLF
	OpJMP
	OpINV
	OpRET
	OpSYS
)

// Ext is the predicate suffix carried by every instruction word. For CLF
// the same byte selects which flag to clear instead of guarding execution.
type Ext uint8

const (
	ExtNONE Ext = iota
	ExtEQ
	ExtNE
	ExtLT
	ExtLE
	ExtGT
	ExtGE
	ExtNZ
	ExtZ

	extMax
)

// ArgType tags an operand slot: no operand, one of the 16 registers, or an
// immediate whose value follows in the next code word.
type ArgType uint8

const (
	ArgNONE ArgType = iota
	ArgR0
	ArgR1
	ArgR2
	ArgR3
	ArgR4
	ArgR5
	ArgR6
	ArgR7
	ArgR8
	ArgR9
	ArgR10
	ArgR11
	ArgR12
	ArgR13
	ArgR14
	ArgR15
	ArgIMM

	argMax
)

// NumRegisters is the fixed general-purpose register count (R0..R15).
const NumRegisters = 16

// IsRegister reports whether a matches one of R0..R15.
func (a ArgType) IsRegister() bool {
	return a >= ArgR0 && a <= ArgR15
}

// RegisterIndex returns the register slot a addresses. ok is false when a
// is not a register operand.
func (a ArgType) RegisterIndex() (int, bool) {
	if !a.IsRegister() {
		return 0, false
	}
	return int(a - ArgR0), true
}

// normalizeExt maps any byte outside the known range to ExtNONE, matching
// the tolerant decode spec.md requires for invalid extension bytes.
func normalizeExt(b uint8) Ext {
	if Ext(b) >= extMax {
		return ExtNONE
	}
	return Ext(b)
}

// normalizeArgType maps any byte outside the known range to ArgNONE.
func normalizeArgType(b uint8) ArgType {
	if ArgType(b) >= argMax {
		return ArgNONE
	}
	return ArgType(b)
}

// Flags holds the eight independent, sticky condition flags: the six
// comparison flags set by CMP and the register-write NZ/Z pair. None of
// them are cleared by anything other than CLF.
type Flags struct {
	EQ, NE, LT, LE, GT, GE bool
	NZ, Z                  bool
}

// Check reports whether ext's guard condition currently holds.
// ExtNONE always holds.
func (f *Flags) Check(ext Ext) bool {
	switch ext {
	case ExtNONE:
		return true
	case ExtEQ:
		return f.EQ
	case ExtNE:
		return f.NE
	case ExtLT:
		return f.LT
	case ExtLE:
		return f.LE
	case ExtGT:
		return f.GT
	case ExtGE:
		return f.GE
	case ExtNZ:
		return f.NZ
	case ExtZ:
		return f.Z
	default:
		return false
	}
}

// SetComparison sets EQ/NE/LT/LE/GT/GE for a two-operand comparison. Every
// applicable flag is set independently; nothing is cleared first, so
// repeated CMPs accumulate until CLF runs.
func (f *Flags) SetComparison(a, b int32) {
	if a == b {
		f.EQ = true
	}
	if a != b {
		f.NE = true
	}
	if a > b {
		f.GT = true
	}
	if a >= b {
		f.GE = true
	}
	if a < b {
		f.LT = true
	}
	if a <= b {
		f.LE = true
	}
}

// SetResult sets NZ or Z after a register-writing arithmetic/logic op.
func (f *Flags) SetResult(value int32) {
	if value != 0 {
		f.NZ = true
	} else {
		f.Z = true
	}
}

// Clear resets a single flag, or all eight when ext is ExtNONE. This is
// CLF's effect; the ext byte here is a selector, never a guard.
func (f *Flags) Clear(ext Ext) {
	switch ext {
	case ExtNONE:
		*f = Flags{}
	case ExtEQ:
		f.EQ = false
	case ExtNE:
		f.NE = false
	case ExtLT:
		f.LT = false
	case ExtLE:
		f.LE = false
	case ExtGT:
		f.GT = false
	case ExtGE:
		f.GE = false
	case ExtNZ:
		f.NZ = false
	case ExtZ:
		f.Z = false
	}
}
