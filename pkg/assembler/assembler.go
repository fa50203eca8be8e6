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

// Package assembler implements the two-pass textual assembler: tokenize
// and emit in one pass, patch forward label references in a second.
package assembler

import (
	"github.com/svmlang/svm/pkg/encoding"
	"github.com/svmlang/svm/pkg/vm"
)

type patch struct {
	label    string
	location int
	position Cursor
}

// SymbolTable records where every label in a source file resolved to,
// for hosts that want to map addresses back to names (disassembly,
// debugging front ends).
type SymbolTable struct {
	Labels map[string]int32
}

// Assemble runs the full two-pass assembly of source, returning the
// resulting code words and, optionally, the label table (pass nil to
// skip building one).
func Assemble(source []byte, symtab *SymbolTable) ([]int32, error) {
	l := newLexer(source)

	var words []int32
	labels := make(map[string]int32)
	var patches []patch

	for {
		opTok, ok := l.Next()
		if !ok {
			break
		}

		meta, isOp := mnemonics[opTok.Value]
		if !isOp {
			if _, exists := labels[opTok.Value]; exists {
				return nil, &RedeclaredLabelError{Position: opTok.Position, Label: opTok.Value}
			}
			labels[opTok.Value] = int32(len(words))
			continue
		}

		ext := vm.ExtNONE
		var arg1Tok, arg2Tok Token
		haveArg1, haveArg2 := false, false

		lookTok, lookOk := l.Next()
		if lookOk {
			if e, isExt := extMnemonics[lookTok.Value]; isExt {
				ext = e
				if meta.argCount > 0 {
					tok, ok := l.Next()
					if !ok {
						return nil, &ExpectedTokenError{Position: lookTok.Position, Mnemonic: opTok.Value}
					}
					arg1Tok, haveArg1 = tok, true
				}
			} else if meta.argCount == 0 {
				l.PushBack(lookTok)
			} else {
				arg1Tok, haveArg1 = lookTok, true
			}
		}

		var arg1, arg2 vm.ArgType
		if haveArg1 {
			a, err := resolveArgToken(arg1Tok)
			if err != nil {
				return nil, err
			}
			arg1 = a
		}
		if !checkConstraint(meta.arg1, arg1, haveArg1) {
			return nil, &ArgConstraintError{Position: opTok.Position, Mnemonic: opTok.Value, Slot: 1, Want: constraintText(meta.arg1)}
		}

		if meta.argCount > 1 {
			tok, ok := l.Next()
			if !ok {
				return nil, &ExpectedTokenError{Position: opTok.Position, Mnemonic: opTok.Value}
			}
			arg2Tok, haveArg2 = tok, true
			a, err := resolveArgToken(arg2Tok)
			if err != nil {
				return nil, err
			}
			arg2 = a
			if !checkConstraint(meta.arg2, arg2, haveArg2) {
				return nil, &ArgConstraintError{Position: opTok.Position, Mnemonic: opTok.Value, Slot: 2, Want: constraintText(meta.arg2)}
			}
		} else if meta.optionalSecond && haveArg1 && arg1 != vm.ArgIMM {
			// PUSH/POP: a register-shaped token right after arg1 forms
			// the range; anything else (including end of input) belongs
			// to the next statement and is pushed back.
			if tok, ok := l.Next(); ok {
				if regArg, isReg := registerMnemonics[tok.Value]; isReg {
					arg2Tok, haveArg2 = tok, true
					arg2 = regArg
					if !checkConstraint(meta.arg2, arg2, haveArg2) {
						return nil, &ArgConstraintError{Position: opTok.Position, Mnemonic: opTok.Value, Slot: 2, Want: constraintText(meta.arg2)}
					}
				} else {
					l.PushBack(tok)
				}
			}
		}

		words = append(words, int32(encoding.Pack(uint8(meta.op), uint8(ext), uint8(arg1), uint8(arg2))))

		if arg1 == vm.ArgIMM {
			v, err := resolveImmediate(arg1Tok, labels, &patches, len(words))
			if err != nil {
				return nil, err
			}
			words = append(words, v)
		}
		if arg2 == vm.ArgIMM {
			v, err := resolveImmediate(arg2Tok, labels, &patches, len(words))
			if err != nil {
				return nil, err
			}
			words = append(words, v)
		}
	}

	for _, p := range patches {
		v, ok := labels[p.label]
		if !ok {
			return nil, &UndefinedLabelError{Position: p.position, Label: p.label}
		}
		words[p.location] = v
	}

	if symtab != nil {
		symtab.Labels = labels
	}

	return words, nil
}

// resolveArgToken classifies a token as a register or an immediate.
// Register mnemonics are exact, case-sensitive matches against r0..r15;
// everything else is an immediate, whose value (literal, label, or
// forward patch) is resolved later once we know it will actually be
// emitted.
func resolveArgToken(tok Token) (vm.ArgType, error) {
	if arg, ok := registerMnemonics[tok.Value]; ok {
		return arg, nil
	}
	return vm.ArgIMM, nil
}

// resolveImmediate produces the literal word for an IMM operand: a
// parsed number, an already-defined label's address, or (if neither) a
// patch entry pointing at the word just reserved for it. A token that
// starts like a numeric literal but fails to parse is reported
// immediately rather than treated as a label forward-reference.
func resolveImmediate(tok Token, labels map[string]int32, patches *[]patch, location int) (int32, error) {
	if v, ok := encoding.ParseLiteral(tok.Value); ok {
		return v, nil
	}
	if looksNumeric(tok.Value) {
		return 0, &InvalidLiteralError{Position: tok.Position, Value: tok.Value}
	}
	if v, ok := labels[tok.Value]; ok {
		return v, nil
	}
	*patches = append(*patches, patch{label: tok.Value, location: location, position: tok.Position})
	return 0, nil
}

// looksNumeric reports whether tok was clearly intended as a numeric
// literal (leading digit, or a "0x"/"0b" prefix) rather than a label
// name, so ParseLiteral failing on it is a real error and not a
// forward reference.
func looksNumeric(tok string) bool {
	return len(tok) > 0 && tok[0] >= '0' && tok[0] <= '9'
}

func constraintText(c argConstraint) string {
	switch c {
	case argcNone:
		return "must be absent"
	case argcImmOnly:
		return "must be an immediate"
	case argcRegOnly:
		return "must be a register"
	default:
		return "must be present"
	}
}
