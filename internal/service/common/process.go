//nolint:revive,nolintlint // Package name "common" is intentional for shared helpers.
package common

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mitchellh/go-ps"

	"github.com/oshokin/morse-beacon/internal/logger"
)

// ErrAlreadyRunning is returned when another instance owns the device.
var ErrAlreadyRunning = errors.New("another instance is already running")

// ProcessLister lists running processes. ps.Processes satisfies it.
type ProcessLister func() ([]ps.Process, error)

// Killer terminates a process by ID.
type Killer func(pid int) error

// InstanceGuard finds other processes running the same executable.
type InstanceGuard struct {
	// name is the executable name to look for.
	name string
	// self is this process ID, always skipped.
	self int
	// list enumerates processes.
	list ProcessLister
	// kill terminates a process.
	kill Killer
}

// NewInstanceGuard returns a guard for the current executable.
func NewInstanceGuard() *InstanceGuard {
	return &InstanceGuard{
		name: filepath.Base(os.Args[0]),
		self: os.Getpid(),
		list: ps.Processes,
		kill: killProcess,
	}
}

// Others returns the IDs of other processes with the same executable name.
func (g *InstanceGuard) Others() ([]int, error) {
	processList, err := g.list()
	if err != nil {
		return nil, fmt.Errorf("list processes: %w", err)
	}

	var others []int

	for _, process := range processList {
		if process.Pid() == g.self {
			continue
		}

		if !strings.EqualFold(process.Executable(), g.name) {
			continue
		}

		others = append(others, process.Pid())
	}

	return others, nil
}

// Ensure fails with ErrAlreadyRunning when another instance exists, unless
// replace is set, in which case the other instances are terminated.
func (g *InstanceGuard) Ensure(ctx context.Context, replace bool) error {
	others, err := g.Others()
	if err != nil {
		return err
	}

	if len(others) == 0 {
		return nil
	}

	if !replace {
		return fmt.Errorf("%w: %s (pid %v)", ErrAlreadyRunning, g.name, others)
	}

	for _, pid := range others {
		logger.WarnKV(ctx, "Terminating previous instance", "executable", g.name, "pid", pid)

		if err = g.kill(pid); err != nil {
			return fmt.Errorf("terminate pid %d: %w", pid, err)
		}
	}

	return nil
}

func killProcess(pid int) error {
	process, err := os.FindProcess(pid)
	if err != nil {
		return err
	}

	return process.Kill()
}
