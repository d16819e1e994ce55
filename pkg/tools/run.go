// Package tools wraps the external commands the provisioner drives: conda,
// pip, git, python, wandb and plain shell scripts. Each wrapper builds an
// argv, echoes it at debug level, and wires the child's output straight
// through so the tool's own progress reporting stays visible.
package tools

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/speechlab/fastenv/pkg/errors"
	"github.com/speechlab/fastenv/pkg/util/console"
)

// Invocation describes one external command run.
type Invocation struct {
	Name string
	Args []string
	Dir  string
	Env  []string

	// Interactive attaches the operator's stdin, for installers and login
	// flows that prompt.
	Interactive bool
}

func run(ctx context.Context, inv Invocation) error {
	cmd := exec.CommandContext(ctx, inv.Name, inv.Args...)
	cmd.Dir = inv.Dir
	cmd.Env = inv.Env
	if cmd.Env == nil {
		cmd.Env = os.Environ()
	}
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if inv.Interactive {
		cmd.Stdin = os.Stdin
	}

	console.Debug("$ " + strings.Join(cmd.Args, " "))

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%s failed: %w", inv.Name, err)
	}
	return nil
}

// Require checks that an executable is available, either as an absolute path
// or on PATH.
func Require(name string) error {
	if strings.ContainsRune(name, os.PathSeparator) {
		if _, err := os.Stat(name); err != nil {
			return errors.ToolMissing(fmt.Sprintf("%s not found. Has the previous step run?", name))
		}
		return nil
	}
	if _, err := exec.LookPath(name); err != nil {
		return errors.ToolMissing(fmt.Sprintf("%s not found on PATH", name))
	}
	return nil
}
