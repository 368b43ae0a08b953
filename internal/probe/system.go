package probe

import (
	"context"
	"io/fs"
	"os"
	"os/exec"
)

// System is the production Prober backed by the local filesystem and
// allowlisted read-only commands. Each probe is a single attempt.
type System struct {
	runner    Runner
	allowlist *Allowlist
}

// NewSystem creates a System prober. A nil runner selects ExecRunner.
func NewSystem(runner Runner) *System {
	if runner == nil {
		runner = ExecRunner{}
	}
	return &System{
		runner:    runner,
		allowlist: NewAllowlist(),
	}
}

// ReadTextFile reads a bounded text file.
func (s *System) ReadTextFile(path string) (string, error) {
	data, err := readFileLimited(path)
	if err != nil {
		return "", &Error{Op: "read", Target: path, Err: err}
	}
	return string(data), nil
}

// RunCommand runs an allowlisted command under its per-command timeout.
// The binary path is the one resolved when the allowlist was built.
func (s *System) RunCommand(argv ...string) (CommandResult, error) {
	target := "<empty>"
	if len(argv) > 0 {
		target = argv[0]
	}

	spec, err := s.allowlist.Resolve(argv)
	if err != nil {
		return CommandResult{}, &Error{Op: "run", Target: target, Err: err}
	}

	ctx, cancel := context.WithTimeout(context.Background(), spec.Timeout)
	defer cancel()

	resolved := append([]string{spec.Path}, argv[1:]...)
	return s.runner.Run(ctx, resolved, nil)
}

// FileMode returns the permission and special bits of path.
func (s *System) FileMode(path string) (fs.FileMode, error) {
	cleaned, err := ValidatePath(path)
	if err != nil {
		return 0, &Error{Op: "stat", Target: path, Err: err}
	}

	info, err := os.Stat(cleaned)
	if err != nil {
		return 0, &Error{Op: "stat", Target: path, Err: err}
	}

	return info.Mode() & (fs.ModePerm | fs.ModeSetuid | fs.ModeSetgid | fs.ModeSticky), nil
}

// ReadDir lists directory entry names in sorted order.
func (s *System) ReadDir(path string) ([]string, error) {
	cleaned, err := ValidatePath(path)
	if err != nil {
		return nil, &Error{Op: "readdir", Target: path, Err: err}
	}

	entries, err := os.ReadDir(cleaned)
	if err != nil {
		return nil, &Error{Op: "readdir", Target: path, Err: err}
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names, nil
}

// LookPath resolves a binary against PATH.
func (s *System) LookPath(name string) (string, error) {
	path, err := exec.LookPath(name)
	if err != nil {
		return "", &Error{Op: "lookpath", Target: name, Err: err}
	}
	return path, nil
}
