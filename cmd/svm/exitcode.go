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

package main

import (
	"errors"

	"github.com/svmlang/svm/pkg/assembler"
	"github.com/svmlang/svm/pkg/vm"
)

// errorOrdinal maps an error back to its position in the VM or
// assembler error taxonomy (spec: exit 0 on success, a positive ordinal
// otherwise). Errors outside either taxonomy (file I/O, flag parsing)
// fall back to 1, the taxonomies' shared GENERIC/NULL_ARG slot.
func errorOrdinal(err error) int {
	switch {
	case errors.Is(err, vm.ErrNullArg):
		return 2
	case errors.Is(err, vm.ErrBadAlloc):
		return 3
	case errors.Is(err, vm.ErrNotRunning):
		return 4
	case errors.Is(err, vm.ErrCodeOverflow):
		return 5
	case errors.Is(err, vm.ErrArgNotReg):
		return 6
	case errors.Is(err, vm.ErrPushArgBadOrder):
		return 7
	case errors.Is(err, vm.ErrJmpOverflow):
		return 8
	case errors.Is(err, vm.ErrCallStackOverflow):
		return 9
	case errors.Is(err, vm.ErrCallStackUnderflow):
		return 10
	case errors.Is(err, vm.ErrStackOverflow):
		return 11
	case errors.Is(err, vm.ErrStackUnderflow):
		return 12
	case errors.Is(err, vm.ErrTaskNotFound):
		return 13
	case errors.Is(err, vm.ErrTaskSwitchBlocked):
		return 14
	case errors.Is(err, vm.ErrUnknownInstruction):
		return 15
	}

	var tokErr assembler.TokenError
	if errors.As(err, &tokErr) {
		switch tokErr.(type) {
		case *assembler.ArgConstraintError:
			return 3
		case *assembler.UndefinedLabelError:
			return 4
		case *assembler.ExpectedTokenError:
			return 6
		case *assembler.RedeclaredLabelError, *assembler.InvalidLiteralError:
			return 6
		}
	}

	return 1
}
