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
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/svmlang/svm/pkg/assembler"
)

const defaultMaxCycles = 128

func main() {
	log.SetFlags(0)
	log.SetPrefix("svm: ")

	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	var err error
	switch os.Args[1] {
	case "help":
		usage()
		return
	case "asm":
		err = runAsm(os.Args[2:])
	case "run":
		err = runRun(os.Args[2:])
	default:
		usage()
		os.Exit(1)
	}

	if err != nil {
		log.Println(err)
		os.Exit(errorOrdinal(err))
	}
}

func usage() {
	fmt.Println("usage:")
	fmt.Println("  svm help          show this message")
	fmt.Println("  svm asm FILE      assemble FILE, print bytecode words to stdout")
	fmt.Println("  svm run FILE      assemble and execute FILE")
	fmt.Println()
	fmt.Println("the MAX_CYCLES environment variable caps the cycles 'run' executes (default 128, 0 = unlimited)")
}

func runAsm(args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("asm: missing FILE argument")
	}
	src, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("asm: %w", err)
	}
	words, err := assembler.Assemble(src, nil)
	if err != nil {
		return fmt.Errorf("asm: %w", err)
	}
	for _, w := range words {
		fmt.Printf("0x%08x\n", uint32(w))
	}
	return nil
}

func maxCycles() (int, error) {
	v := os.Getenv("MAX_CYCLES")
	if v == "" {
		return defaultMaxCycles, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("MAX_CYCLES: %w", err)
	}
	return n, nil
}
