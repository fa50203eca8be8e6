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

package syshost

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/svmlang/svm/internal/screen"
)

func TestPortScreenSetAndOut(t *testing.T) {
	var buf strings.Builder
	host := &Host{Screen: screen.New(1), Out: &buf, Color: false}

	registers := [16]int32{0: 2, 1: 3, 2: 1}
	host.Port(nil, &registers, SysScreenSet)
	host.Port(nil, &registers, SysScreenOut)

	assert.NotEmpty(t, buf.String())
}

func TestPortSleepHonorsRegisterZero(t *testing.T) {
	host := &Host{Screen: screen.New(1)}
	registers := [16]int32{0: 1}

	start := time.Now()
	host.Port(nil, &registers, SysSleep)
	assert.GreaterOrEqual(t, time.Since(start), time.Millisecond)
}

func TestPortUnknownSyscallIsNoop(t *testing.T) {
	host := &Host{Screen: screen.New(1)}
	registers := [16]int32{}
	host.Port(nil, &registers, 99)
}
