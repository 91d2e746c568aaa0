//go:build mage

package main

import (
	"fmt"

	"github.com/magefile/mage/mg"
)

type Run mg.Namespace

// Runs the LOD viewer on the test file.
func (Run) Viewer() error {
	fmt.Println("Run viewer...")
	return goTool("examples/lodviewer", "run", ".", "-debug")
}

// Prints the level plans resolved for the test file.
func (Run) Dump() error {
	return goTool("examples/lodviewer", "run", ".", "-dump")
}
