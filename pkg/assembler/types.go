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

import "fmt"

// Cursor locates a token in the source text for diagnostics.
type Cursor struct {
	Line   int
	Column int
}

// Token is one lexical unit: a mnemonic, predicate suffix, register
// name, numeric literal, or label reference.
type Token struct {
	Value    string
	Position Cursor
}

// TokenError is implemented by every assembler diagnostic that can point
// at a source location.
type TokenError interface {
	error
	GetPosition() Cursor
}

type ArgConstraintError struct {
	Position Cursor
	Mnemonic string
	Slot     int
	Want     string
}

func (err *ArgConstraintError) GetPosition() Cursor { return err.Position }

func (err *ArgConstraintError) Error() string {
	return fmt.Sprintf(
		"%02d:%02d: argument %d to '%s' %s",
		err.Position.Line, err.Position.Column, err.Slot, err.Mnemonic, err.Want,
	)
}

type UndefinedLabelError struct {
	Position Cursor
	Label    string
}

func (err *UndefinedLabelError) GetPosition() Cursor { return err.Position }

func (err *UndefinedLabelError) Error() string {
	return fmt.Sprintf("%02d:%02d: undefined label '%s'", err.Position.Line, err.Position.Column, err.Label)
}

type RedeclaredLabelError struct {
	Position Cursor
	Label    string
}

func (err *RedeclaredLabelError) GetPosition() Cursor { return err.Position }

func (err *RedeclaredLabelError) Error() string {
	return fmt.Sprintf("%02d:%02d: redeclaration of label '%s'", err.Position.Line, err.Position.Column, err.Label)
}

type ExpectedTokenError struct {
	Position Cursor
	Mnemonic string
}

func (err *ExpectedTokenError) GetPosition() Cursor { return err.Position }

func (err *ExpectedTokenError) Error() string {
	return fmt.Sprintf("%02d:%02d: expected another argument to '%s'", err.Position.Line, err.Position.Column, err.Mnemonic)
}

type InvalidLiteralError struct {
	Position Cursor
	Value    string
}

func (err *InvalidLiteralError) GetPosition() Cursor { return err.Position }

func (err *InvalidLiteralError) Error() string {
	return fmt.Sprintf("%02d:%02d: invalid numeric literal '%s'", err.Position.Line, err.Position.Column, err.Value)
}
