//go:build mage

package main

import (
	"github.com/magefile/mage/mg"
)

type Check mg.Namespace

// Runs every test of the module with the race detector.
func (Check) Test() error {
	return goTool("", "test", "-race", "-count=1", "./...")
}

// Runs go vet on every package of the module.
func (Check) Vet() error {
	return goTool("", "vet", "./...")
}

// Runs the loader benchmarks.
func (Check) Bench() error {
	return goTool("", "test", "-run", "^$", "-bench", ".", "-benchmem", ".")
}

// Runs vet, then the tests.
func (Check) All() {
	mg.SerialDeps(Check.Vet, Check.Test)
}
