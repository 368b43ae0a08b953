// Package patch edits single-line configuration directives idempotently and
// applies kernel parameters at runtime and persistently.
package patch

import (
	"errors"
	"fmt"
	"io/fs"
	"regexp"
	"strings"

	"github.com/ancients-collective/harden/internal/log"
	"github.com/ancients-collective/harden/internal/privilege"
	"github.com/ancients-collective/harden/internal/probe"
	"github.com/ancients-collective/harden/internal/types"
)

// MsgAlreadyConfigured is returned when a patch would not change the file.
const MsgAlreadyConfigured = "already configured"

// Patcher reads files through a Prober and writes them with elevated privilege.
type Patcher struct {
	probe probe.Prober
	priv  *privilege.Executor
}

// New creates a Patcher.
func New(p probe.Prober, priv *privilege.Executor) *Patcher {
	return &Patcher{probe: p, priv: priv}
}

// KeyValuePattern matches a "Key value" directive, commented out or not.
func KeyValuePattern(key string) *regexp.Regexp {
	return regexp.MustCompile(`(?i)^\s*#*\s*` + regexp.QuoteMeta(key) + `\s`)
}

// AssignPattern matches a "key = value" directive, commented out or not.
func AssignPattern(key string) *regexp.Regexp {
	return regexp.MustCompile(`(?i)^\s*#*\s*` + regexp.QuoteMeta(key) + `\s*=`)
}

// Edit computes the new content of a file: the first line matching pattern
// is replaced by newLine, otherwise newLine is appended.
func Edit(content string, pattern *regexp.Regexp, newLine string) string {
	lines := strings.Split(content, "\n")
	for i, l := range lines {
		if pattern.MatchString(l) {
			lines[i] = newLine
			return strings.Join(lines, "\n")
		}
	}

	trimmed := strings.TrimRight(content, " \t\r\n")
	if trimmed == "" {
		return newLine + "\n"
	}
	return trimmed + "\n" + newLine + "\n"
}

// Directive ensures path contains newLine in place of the first line
// matching pattern. A missing file is treated as empty. Applying the same
// directive twice writes at most once.
func (p *Patcher) Directive(path string, pattern *regexp.Regexp, newLine string) types.FixOutcome {
	if strings.Contains(newLine, "\n") {
		return types.Failed(fmt.Sprintf("directive for %s must be a single line", path))
	}
	if !pattern.MatchString(newLine) {
		return types.Failed(fmt.Sprintf("pattern %q does not match %q; refusing to patch %s", pattern, newLine, path))
	}

	current, out := p.read(path)
	if !out.OK {
		return out
	}

	updated := Edit(current, pattern, newLine)
	if updated == current {
		log.Debugf("patch %s: %q already present", path, newLine)
		return types.Applied(MsgAlreadyConfigured)
	}

	log.Debugf("patch %s: writing %q", path, newLine)
	res := p.priv.Write(path, updated)
	if !res.OK {
		return res
	}
	return types.Applied(newLine)
}

// read returns the current content of path. Files the invoking user cannot
// read are read again with elevated privilege so they are never clobbered.
func (p *Patcher) read(path string) (string, types.FixOutcome) {
	content, err := p.probe.ReadTextFile(path)
	if err == nil {
		return content, types.Applied("")
	}
	if errors.Is(err, fs.ErrNotExist) {
		return "", types.Applied("")
	}

	log.Debugf("patch %s: unprivileged read failed: %v", path, err)
	content, out := p.priv.Read(path)
	if !out.OK {
		return "", types.Failed(fmt.Sprintf("cannot read %s: %s", path, out.Message))
	}
	return content, types.Applied("")
}

// Pair is one kernel parameter assignment.
type Pair struct {
	Key   string
	Value string
}

// Sysctl sets a kernel parameter at runtime, then persists it to persistPath.
// A persistence failure after a successful runtime change is still reported
// as success, with the reason appended.
func (p *Patcher) Sysctl(key, value, persistPath string) types.FixOutcome {
	if err := probe.ValidateSysctlKey(key); err != nil {
		return types.Failed(err.Error())
	}
	if value == "" || strings.ContainsAny(value, "\n=") {
		return types.Failed(fmt.Sprintf("invalid value %q for %s", value, key))
	}

	if out := p.priv.Run("sysctl", "-w", key+"="+value); !out.OK {
		return out
	}

	line := key + " = " + value
	if out := p.Directive(persistPath, AssignPattern(key), line); !out.OK {
		log.Debugf("sysctl %s applied but not persisted: %s", key, out.Message)
		return types.Applied(fmt.Sprintf("%s (applied at runtime; persistence failed: %s)", line, out.Message))
	}
	return types.Applied(line)
}

// SysctlAll applies every pair in order. The merged outcome is OK only when
// every pair succeeded; messages are joined one per line.
func (p *Patcher) SysctlAll(persistPath string, pairs ...Pair) types.FixOutcome {
	outcomes := make([]types.FixOutcome, 0, len(pairs))
	for _, kv := range pairs {
		outcomes = append(outcomes, p.Sysctl(kv.Key, kv.Value, persistPath))
	}
	return Combine(outcomes...)
}

// Combine merges the outcomes of a multi-step remediation.
func Combine(outcomes ...types.FixOutcome) types.FixOutcome {
	ok := true
	var msgs []string
	for _, out := range outcomes {
		ok = ok && out.OK
		if out.Message != "" {
			msgs = append(msgs, out.Message)
		}
	}
	if len(msgs) == 0 {
		if ok {
			return types.Applied("applied")
		}
		return types.Failed("remediation failed")
	}
	return types.FixOutcome{OK: ok, Message: strings.Join(msgs, "\n")}
}
