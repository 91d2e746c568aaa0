//go:build mage

package main

import (
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/magefile/mage/mg"
	"github.com/pkg/errors"
)

// goTool runs the go command with args in dir (the module root when empty), streaming its output.
func goTool(dir string, args ...string) error {

	if mg.Verbose() {
		fmt.Printf("Executing: go %s\n", strings.Join(args, " "))
	}

	cmd := exec.Command(mg.GoCmd(), args...)
	cmd.Dir = dir
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Run(); err != nil {
		return errors.Wrapf(err, "go %s failed", args[0])
	}

	return nil

}
