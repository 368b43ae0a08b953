// Package privilege runs mutating commands through a non-interactive
// elevation helper and classifies the outcome for display.
package privilege

import (
	"context"
	"fmt"
	"strings"

	"github.com/ancients-collective/harden/internal/log"
	"github.com/ancients-collective/harden/internal/probe"
	"github.com/ancients-collective/harden/internal/types"
)

// DefaultCommand is the elevation helper used when none is configured.
const DefaultCommand = "sudo"

// MsgElevationRequired is reported when the helper needs interactive credentials.
const MsgElevationRequired = "elevated privilege required — re-run as administrator"

// MsgApplied is reported for a successful command with nothing to show.
const MsgApplied = "applied"

// DefaultArgs makes sudo fail instead of prompting.
var DefaultArgs = []string{"-n"}

// passwordMarkers are stderr fragments sudo prints when it would have prompted.
var passwordMarkers = []string{
	"password is required",
	"a password",
	"a terminal is required",
	"askpass",
}

// Executor runs commands with elevated privilege. It never prompts and
// never retries; privileged commands run without a timeout.
type Executor struct {
	runner  probe.Runner
	command string
	args    []string
}

// New creates an Executor. An empty command selects sudo -n.
func New(runner probe.Runner, command string, args []string) *Executor {
	if runner == nil {
		runner = probe.ExecRunner{}
	}
	if command == "" {
		command = DefaultCommand
		args = DefaultArgs
	}
	return &Executor{
		runner:  runner,
		command: command,
		args:    append([]string(nil), args...),
	}
}

// Run executes argv with elevated privilege.
func (e *Executor) Run(argv ...string) types.FixOutcome {
	return e.run(argv, nil)
}

// Write replaces the content of path with content, as root.
func (e *Executor) Write(path, content string) types.FixOutcome {
	if _, err := probe.ValidatePath(path); err != nil {
		return types.Failed(err.Error())
	}
	out := e.run([]string{"tee", path}, []byte(content))
	if out.OK {
		// tee echoes the written content on stdout.
		return types.Applied(MsgApplied)
	}
	return out
}

// Read returns the content of path as root. Used when a configuration file
// exists but is not readable by the invoking user.
func (e *Executor) Read(path string) (string, types.FixOutcome) {
	if _, err := probe.ValidatePath(path); err != nil {
		return "", types.Failed(err.Error())
	}

	full := e.argv([]string{"cat", path})
	log.Debugf("elevated: %s", strings.Join(full, " "))

	res, err := e.runner.Run(context.Background(), full, nil)
	if err != nil {
		return "", types.Failed(fmt.Sprintf("%s not available: %v", e.command, err))
	}
	if res.ExitCode != 0 {
		return "", Classify(res)
	}
	return res.Stdout, types.Applied("read")
}

func (e *Executor) argv(argv []string) []string {
	full := make([]string, 0, 1+len(e.args)+len(argv))
	full = append(full, e.command)
	full = append(full, e.args...)
	return append(full, argv...)
}

func (e *Executor) run(argv []string, stdin []byte) types.FixOutcome {
	if len(argv) == 0 {
		return types.Failed("no command given")
	}

	full := e.argv(argv)
	log.Debugf("elevated: %s", strings.Join(full, " "))

	res, err := e.runner.Run(context.Background(), full, stdin)
	if err != nil {
		log.Debugf("elevated %s failed to start: %v", argv[0], err)
		return types.Failed(fmt.Sprintf("%s not available: %v", e.command, err))
	}

	out := Classify(res)
	if !out.OK {
		log.Debugf("elevated %s: %s", argv[0], out.Message)
	}
	return out
}

// Classify maps a finished elevated command to an outcome. A successful
// command reports its trimmed stdout, or MsgApplied when it printed nothing.
func Classify(res probe.CommandResult) types.FixOutcome {
	stdout := strings.TrimSpace(res.Stdout)
	stderr := strings.TrimSpace(res.Stderr)

	if res.ExitCode == 0 {
		if stdout == "" {
			return types.Applied(MsgApplied)
		}
		return types.Applied(stdout)
	}

	lower := strings.ToLower(stderr)
	for _, marker := range passwordMarkers {
		if strings.Contains(lower, marker) {
			return types.Failed(MsgElevationRequired)
		}
	}

	switch {
	case stderr != "":
		return types.Failed(stderr)
	case stdout != "":
		return types.Failed(stdout)
	default:
		return types.Failed(fmt.Sprintf("exit %d", res.ExitCode))
	}
}
