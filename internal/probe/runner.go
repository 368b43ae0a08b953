package probe

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
)

// Runner starts a process and waits for it to finish.
// It is shared by the read-only probes and the privilege executor.
type Runner interface {
	Run(ctx context.Context, argv []string, stdin []byte) (CommandResult, error)
}

// ExecRunner runs processes with os/exec. Never uses shell invocation.
type ExecRunner struct{}

// Run executes argv, feeding stdin when non-nil.
// A nonzero exit is returned as a CommandResult; spawn failures and
// context expiry are returned as *Error.
func (ExecRunner) Run(ctx context.Context, argv []string, stdin []byte) (CommandResult, error) {
	if len(argv) == 0 {
		return CommandResult{}, &Error{Op: "run", Target: "<empty>", Err: errors.New("empty command")}
	}

	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if stdin != nil {
		cmd.Stdin = bytes.NewReader(stdin)
	}

	err := cmd.Run()
	res := CommandResult{Stdout: stdout.String(), Stderr: stderr.String()}

	if ctxErr := ctx.Err(); ctxErr != nil {
		return res, &Error{Op: "run", Target: argv[0], Err: fmt.Errorf("command did not finish: %w", ctxErr)}
	}

	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			res.ExitCode = exitErr.ExitCode()
			return res, nil
		}
		return res, &Error{Op: "run", Target: argv[0], Err: err}
	}

	return res, nil
}
