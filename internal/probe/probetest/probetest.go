// Package probetest provides an in-memory host for testing rule checks and
// fixes without touching the real system.
package probetest

import (
	"context"
	"io/fs"
	"os/exec"
	"path"
	"sort"
	"strconv"
	"strings"

	"github.com/ancients-collective/harden/internal/probe"
)

// PasswordRequiredStderr is what sudo -n prints when credentials are needed.
const PasswordRequiredStderr = "sudo: a password is required\n"

// Write records one privileged file write.
type Write struct {
	Path    string
	Content string
}

// Host is an in-memory host. It implements probe.Prober for checks and
// probe.Runner for the privilege executor. Privileged "tee", "sysctl -w"
// and "chmod" calls mutate the in-memory state so rechecks observe them;
// privileged "cat" reads Files even when Unreadable hides them from probes.
type Host struct {
	// Files maps absolute paths to their content.
	Files map[string]string

	// Modes maps paths to permission bits. Files without an entry report 0644.
	Modes map[string]fs.FileMode

	// Unreadable marks files that exist but fail ReadTextFile with a
	// permission error, as root-only files do for an ordinary user.
	Unreadable map[string]bool

	// Dirs marks directories that exist even when empty.
	Dirs map[string]bool

	// Commands maps a space-joined argv to its result. Unlisted commands
	// behave as a missing binary.
	Commands map[string]probe.CommandResult

	// Binaries lists names LookPath can resolve.
	Binaries map[string]bool

	// DenyElevation makes every elevated command fail as sudo -n does without credentials.
	DenyElevation bool

	// Privileged maps a space-joined elevated argv (without the sudo prefix)
	// to a forced result, bypassing the built-in behaviors.
	Privileged map[string]probe.CommandResult

	// OnPrivileged runs after a successful elevated command; use it to model
	// side effects such as a service becoming active.
	OnPrivileged func(h *Host, argv []string)

	// Writes records every privileged file write in order.
	Writes []Write

	// Elevated records every elevated argv (without the sudo prefix).
	Elevated [][]string

	// Probed records every read-only command.
	Probed [][]string
}

// NewHost returns an empty host.
func NewHost() *Host {
	return &Host{
		Files:      make(map[string]string),
		Modes:      make(map[string]fs.FileMode),
		Unreadable: make(map[string]bool),
		Dirs:       make(map[string]bool),
		Commands:   make(map[string]probe.CommandResult),
		Binaries:   make(map[string]bool),
		Privileged: make(map[string]probe.CommandResult),
	}
}

// SetCommand registers the result of a read-only command.
func (h *Host) SetCommand(result probe.CommandResult, argv ...string) {
	h.Commands[strings.Join(argv, " ")] = result
}

// ServiceActive makes "systemctl is-active --quiet <name>" report the given state.
func (h *Host) ServiceActive(name string, active bool) {
	code := 0
	if !active {
		code = 3
	}
	h.SetCommand(probe.CommandResult{ExitCode: code}, "systemctl", "is-active", "--quiet", name)
}

// ServiceEnabled makes "systemctl is-enabled --quiet <name>" report the given state.
func (h *Host) ServiceEnabled(name string, enabled bool) {
	code := 0
	if !enabled {
		code = 1
	}
	h.SetCommand(probe.CommandResult{ExitCode: code}, "systemctl", "is-enabled", "--quiet", name)
}

// FirewallRunning makes "firewall-cmd --state" report the given state.
func (h *Host) FirewallRunning(running bool) {
	if running {
		h.SetCommand(probe.CommandResult{Stdout: "running\n"}, "firewall-cmd", "--state")
		return
	}
	h.SetCommand(probe.CommandResult{ExitCode: 252, Stdout: "not running\n"}, "firewall-cmd", "--state")
}

// SetSysctl sets the live value of a sysctl key.
func (h *Host) SetSysctl(key, value string) {
	h.Files[probe.SysctlPath(key)] = value + "\n"
}

// ReadTextFile implements probe.Prober.
func (h *Host) ReadTextFile(p string) (string, error) {
	if h.Unreadable[p] {
		return "", &probe.Error{Op: "read", Target: p, Err: fs.ErrPermission}
	}
	content, ok := h.Files[p]
	if !ok {
		return "", &probe.Error{Op: "read", Target: p, Err: fs.ErrNotExist}
	}
	return content, nil
}

// RunCommand implements probe.Prober.
func (h *Host) RunCommand(argv ...string) (probe.CommandResult, error) {
	h.Probed = append(h.Probed, argv)
	res, ok := h.Commands[strings.Join(argv, " ")]
	if !ok {
		target := ""
		if len(argv) > 0 {
			target = argv[0]
		}
		return probe.CommandResult{}, &probe.Error{Op: "run", Target: target, Err: exec.ErrNotFound}
	}
	return res, nil
}

// FileMode implements probe.Prober.
func (h *Host) FileMode(p string) (fs.FileMode, error) {
	if mode, ok := h.Modes[p]; ok {
		return mode, nil
	}
	if _, ok := h.Files[p]; ok {
		return 0o644, nil
	}
	return 0, &probe.Error{Op: "stat", Target: p, Err: fs.ErrNotExist}
}

// ReadDir implements probe.Prober.
func (h *Host) ReadDir(dir string) ([]string, error) {
	prefix := strings.TrimSuffix(dir, "/") + "/"
	seen := make(map[string]bool)
	for p := range h.Files {
		if !strings.HasPrefix(p, prefix) {
			continue
		}
		rest := strings.TrimPrefix(p, prefix)
		if name, _, _ := strings.Cut(rest, "/"); name != "" {
			seen[name] = true
		}
	}
	if len(seen) == 0 && !h.Dirs[dir] {
		return nil, &probe.Error{Op: "readdir", Target: dir, Err: fs.ErrNotExist}
	}

	names := make([]string, 0, len(seen))
	for n := range seen {
		names = append(names, n)
	}
	sort.Strings(names)
	return names, nil
}

// LookPath implements probe.Prober.
func (h *Host) LookPath(name string) (string, error) {
	if h.Binaries[name] {
		return path.Join("/usr/bin", name), nil
	}
	return "", &probe.Error{Op: "lookpath", Target: name, Err: exec.ErrNotFound}
}

// Run implements probe.Runner. Commands starting with "sudo" are treated
// as elevated; anything else is answered like RunCommand.
func (h *Host) Run(_ context.Context, argv []string, stdin []byte) (probe.CommandResult, error) {
	if len(argv) == 0 || argv[0] != "sudo" {
		return h.RunCommand(argv...)
	}

	inner := argv[1:]
	for len(inner) > 0 && strings.HasPrefix(inner[0], "-") {
		inner = inner[1:]
	}
	h.Elevated = append(h.Elevated, inner)

	if h.DenyElevation {
		return probe.CommandResult{ExitCode: 1, Stderr: PasswordRequiredStderr}, nil
	}

	if res, ok := h.Privileged[strings.Join(inner, " ")]; ok {
		return res, nil
	}

	res := h.elevated(inner, stdin)
	if res.ExitCode == 0 && h.OnPrivileged != nil {
		h.OnPrivileged(h, inner)
	}
	return res, nil
}

// elevated applies the built-in side effects of common privileged commands.
func (h *Host) elevated(argv []string, stdin []byte) probe.CommandResult {
	if len(argv) == 0 {
		return probe.CommandResult{ExitCode: 1, Stderr: "usage: sudo command"}
	}

	switch argv[0] {
	case "tee":
		if len(argv) != 2 {
			return probe.CommandResult{ExitCode: 1, Stderr: "tee: missing operand"}
		}
		content := string(stdin)
		h.Files[argv[1]] = content
		h.Writes = append(h.Writes, Write{Path: argv[1], Content: content})
		return probe.CommandResult{Stdout: content}

	case "cat":
		if len(argv) == 2 {
			content, ok := h.Files[argv[1]]
			if !ok {
				return probe.CommandResult{ExitCode: 1, Stderr: "cat: " + argv[1] + ": No such file or directory"}
			}
			return probe.CommandResult{Stdout: content}
		}

	case "sysctl":
		if len(argv) == 3 && argv[1] == "-w" {
			key, value, ok := strings.Cut(argv[2], "=")
			if !ok {
				return probe.CommandResult{ExitCode: 255, Stderr: "sysctl: malformed setting"}
			}
			h.SetSysctl(key, value)
			return probe.CommandResult{Stdout: key + " = " + value + "\n"}
		}

	case "chmod":
		if len(argv) == 3 {
			mode, err := strconv.ParseUint(argv[1], 8, 32)
			if err != nil {
				return probe.CommandResult{ExitCode: 1, Stderr: "chmod: invalid mode: " + argv[1]}
			}
			h.Modes[argv[2]] = fs.FileMode(mode)
			return probe.CommandResult{}
		}
	}

	return probe.CommandResult{}
}
