// Package probe wraps file reads and subprocess execution as fallible,
// side-effect-free queries. Every failure is reported as an error wrapping
// ErrAbsent so rule checks can map it to an "unknown" status.
package probe

import (
	"errors"
	"io/fs"
)

// ErrAbsent marks a probe that could not produce a value: missing file,
// missing binary, unreadable path, timed-out command.
var ErrAbsent = errors.New("probe unavailable")

// ErrNotAllowed marks a command rejected by the read-only allowlist.
var ErrNotAllowed = errors.New("command not allowed")

// Error describes a failed probe. It always matches ErrAbsent via errors.Is.
type Error struct {
	// Op is the probe operation ("read", "stat", "run", ...).
	Op string

	// Target is the path or command the probe was aimed at.
	Target string

	// Err is the underlying cause.
	Err error
}

func (e *Error) Error() string {
	return e.Op + " " + e.Target + ": " + e.Err.Error()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports every probe error as an absent result.
func (e *Error) Is(target error) bool {
	return target == ErrAbsent
}

// CommandResult holds the captured output of a finished process.
// A nonzero ExitCode is a result, not an error.
type CommandResult struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// Success reports whether the process exited with status zero.
func (r CommandResult) Success() bool {
	return r.ExitCode == 0
}

// Prober is the read-only view of the host used by rule checks.
type Prober interface {
	// ReadTextFile returns the whole content of a text file.
	ReadTextFile(path string) (string, error)

	// RunCommand runs a read-only command and captures its output.
	// Spawn failures (binary not found) return an error; nonzero exits do not.
	RunCommand(argv ...string) (CommandResult, error)

	// FileMode returns the permission and special bits of a path (follows symlinks).
	FileMode(path string) (fs.FileMode, error)

	// ReadDir returns the sorted entry names of a directory.
	ReadDir(path string) ([]string, error)

	// LookPath resolves a binary name against PATH.
	LookPath(name string) (string, error)
}
