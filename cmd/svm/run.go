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
	"flag"
	"fmt"
	"os"

	"github.com/svmlang/svm/internal/screen"
	"github.com/svmlang/svm/internal/syshost"
	"github.com/svmlang/svm/pkg/assembler"
	"github.com/svmlang/svm/pkg/vm"
)

func runRun(args []string) error {
	fs := flag.NewFlagSet("run", flag.ContinueOnError)
	devices := fs.Int("devices", 4, "number of 8-column tiles the demo screen device renders")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() < 1 {
		return fmt.Errorf("run: missing FILE argument")
	}

	src, err := os.ReadFile(fs.Arg(0))
	if err != nil {
		return fmt.Errorf("run: %w", err)
	}

	words, err := assembler.Assemble(src, nil)
	if err != nil {
		return fmt.Errorf("run: %w", err)
	}

	tiles := *devices
	if w, ok := terminalTileWidth(); ok {
		tiles = w
	}
	host := &syshost.Host{
		Screen: screen.New(tiles),
		Out:    os.Stdout,
		Color:  isTerminal(os.Stdout),
	}

	machine, err := vm.NewVM(nil, vm.DefaultAllocator{}, host.Port)
	if err != nil {
		return fmt.Errorf("run: %w", err)
	}

	if err := machine.Load(&vm.Image{Words: words}); err != nil {
		return fmt.Errorf("run: %w", err)
	}

	budget, err := maxCycles()
	if err != nil {
		return fmt.Errorf("run: %w", err)
	}

	for cycles := 0; budget == 0 || cycles < budget; cycles++ {
		if err := machine.Cycle(); err != nil {
			if errors.Is(err, vm.ErrNotRunning) {
				return nil
			}
			return fmt.Errorf("run: %w", err)
		}
		if !machine.Running() {
			return nil
		}
	}

	return fmt.Errorf("run: exceeded MAX_CYCLES (%d)", budget)
}
