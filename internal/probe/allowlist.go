package probe

import (
	"fmt"
	"os/exec"
	"strings"
	"time"
)

// CommandSpec defines the constraints for an allowlisted read-only command.
type CommandSpec struct {
	// Path is the resolved absolute path to the command binary.
	// Resolved at construction time via exec.LookPath, with a hardcoded fallback.
	Path string

	// FallbackPath is the hardcoded path used when LookPath fails.
	FallbackPath string

	// AllowedFlags are the flags/subcommands that can be passed.
	AllowedFlags []string

	// MaxArgs is the maximum number of positional (non-flag) arguments allowed.
	MaxArgs int

	// Timeout is the maximum execution time for this command.
	Timeout time.Duration
}

// Allowlist holds the read-only commands rule checks may run.
// Mutating commands never go through here; they go through the privilege executor.
type Allowlist struct {
	commands map[string]CommandSpec
}

// resolveCommandPath attempts to find the command using exec.LookPath.
// Falls back to the provided default path if LookPath fails.
func resolveCommandPath(name, fallbackPath string) string {
	if path, err := exec.LookPath(name); err == nil {
		return path
	}
	return fallbackPath
}

// NewAllowlist creates the default allowlist of probe commands.
func NewAllowlist() *Allowlist {
	type entry struct {
		name         string
		fallbackPath string
		allowedFlags []string
		maxArgs      int
		timeout      time.Duration
	}

	entries := []entry{
		{"systemctl", "/usr/bin/systemctl", []string{"is-active", "is-enabled", "--quiet"}, 1, 5 * time.Second},
		{"getenforce", "/usr/sbin/getenforce", nil, 0, 2 * time.Second},
		{"rpm", "/usr/bin/rpm", []string{"-q"}, 1, 10 * time.Second},
		{"auditctl", "/usr/sbin/auditctl", []string{"-l"}, 0, 2 * time.Second},
		{"firewall-cmd", "/usr/bin/firewall-cmd", []string{"--state"}, 0, 5 * time.Second},
	}

	commands := make(map[string]CommandSpec, len(entries))
	for _, e := range entries {
		commands[e.name] = CommandSpec{
			Path:         resolveCommandPath(e.name, e.fallbackPath),
			FallbackPath: e.fallbackPath,
			AllowedFlags: e.allowedFlags,
			MaxArgs:      e.maxArgs,
			Timeout:      e.timeout,
		}
	}

	return &Allowlist{commands: commands}
}

// IsAllowed checks whether a command is in the allowlist.
func (a *Allowlist) IsAllowed(cmd string) bool {
	_, ok := a.commands[cmd]
	return ok
}

// Resolve validates argv against the allowlist and returns the spec to run it with.
func (a *Allowlist) Resolve(argv []string) (CommandSpec, error) {
	if len(argv) == 0 {
		return CommandSpec{}, fmt.Errorf("%w: empty command", ErrNotAllowed)
	}

	spec, ok := a.commands[argv[0]]
	if !ok {
		return CommandSpec{}, fmt.Errorf("%w: %q not in allowlist", ErrNotAllowed, argv[0])
	}

	if err := validateArgs(spec, argv[1:]); err != nil {
		return CommandSpec{}, fmt.Errorf("%w: %v", ErrNotAllowed, err)
	}

	return spec, nil
}

// validateArgs checks that all arguments comply with the CommandSpec constraints.
// Allowed subcommands (e.g. "is-active") do not count as positional arguments.
func validateArgs(spec CommandSpec, args []string) error {
	positionalCount := 0

	for _, arg := range args {
		switch {
		case strings.HasPrefix(arg, "-"):
			if !isAllowedFlag(spec.AllowedFlags, arg) {
				return fmt.Errorf("flag %q not allowed for this command (allowed: %s)",
					arg, strings.Join(spec.AllowedFlags, ", "))
			}
		case isAllowedFlag(spec.AllowedFlags, arg):
		default:
			positionalCount++
		}
	}

	if positionalCount > spec.MaxArgs {
		return fmt.Errorf("too many positional arguments: got %d, max %d",
			positionalCount, spec.MaxArgs)
	}

	return nil
}

// isAllowedFlag checks if a flag is in the allowed list.
func isAllowedFlag(allowed []string, flag string) bool {
	for _, f := range allowed {
		if f == flag {
			return true
		}
	}
	return false
}
