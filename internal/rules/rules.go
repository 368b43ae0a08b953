// Package rules holds the built-in rule catalogues. Every rule carries a pure
// check built on a probe.Prober and, where remediation is safe to automate,
// a fix that goes through the privilege executor.
package rules

import (
	"fmt"
	"strings"

	"github.com/ancients-collective/harden/internal/patch"
	"github.com/ancients-collective/harden/internal/privilege"
	"github.com/ancients-collective/harden/internal/probe"
	"github.com/ancients-collective/harden/internal/types"
)

// Profile names a rule catalogue.
type Profile string

const (
	// ProfileHardening is the general host hardening set.
	ProfileHardening Profile = "hardening"

	// ProfileBaseline is the CIS baseline for RedOS and RHEL family hosts.
	ProfileBaseline Profile = "baseline"

	// ProfileAll is hardening followed by baseline.
	ProfileAll Profile = "all"
)

// Profiles lists every profile in display order.
var Profiles = []Profile{ProfileHardening, ProfileBaseline, ProfileAll}

// Default sysctl persistence files per catalogue.
const (
	HardeningSysctlFile = "/etc/sysctl.conf"
	BaselineSysctlFile  = "/etc/sysctl.d/99-baseline.conf"
)

// ParseProfile validates a profile name. The empty string selects hardening.
func ParseProfile(name string) (Profile, error) {
	if name == "" {
		return ProfileHardening, nil
	}
	for _, p := range Profiles {
		if string(p) == strings.ToLower(name) {
			return p, nil
		}
	}
	return "", fmt.Errorf("unknown profile %q (expected one of: hardening, baseline, all)", name)
}

// Title returns the report title for a profile.
func Title(profile Profile) string {
	switch profile {
	case ProfileBaseline:
		return "CIS Baseline — РедОС / RHEL"
	case ProfileAll:
		return "Отчёт харденинга Linux + CIS Baseline"
	default:
		return "Отчёт харденинга Linux"
	}
}

// Env is what rules need to probe and remediate the host.
type Env struct {
	Probe probe.Prober
	Priv  *privilege.Executor
	Patch *patch.Patcher

	// SysctlFile overrides the persistence file of every catalogue when set.
	SysctlFile string
}

// NewEnv wires a patcher on top of the given prober and executor.
func NewEnv(p probe.Prober, priv *privilege.Executor) Env {
	return Env{
		Probe: p,
		Priv:  priv,
		Patch: patch.New(p, priv),
	}
}

// Build returns the ordered rule catalogue for profile. It performs no I/O.
// An unknown profile yields nil.
func Build(profile Profile, env Env) []types.Rule {
	switch profile {
	case ProfileHardening:
		return newCatalog(env, HardeningSysctlFile).hardening()
	case ProfileBaseline:
		return newCatalog(env, BaselineSysctlFile).baseline()
	case ProfileAll:
		rules := newCatalog(env, HardeningSysctlFile).hardening()
		return append(rules, newCatalog(env, BaselineSysctlFile).baseline()...)
	default:
		return nil
	}
}

// Filter drops rules whose id is in disabled and, when categories is not
// empty, keeps only rules in those categories. Order is preserved.
func Filter(rules []types.Rule, disabled, categories []string) []types.Rule {
	skip := make(map[string]bool, len(disabled))
	for _, id := range disabled {
		skip[id] = true
	}
	keep := make(map[string]bool, len(categories))
	for _, c := range categories {
		keep[strings.ToLower(c)] = true
	}

	var out []types.Rule
	for _, r := range rules {
		if skip[r.ID] {
			continue
		}
		if len(keep) > 0 && !keep[strings.ToLower(r.Category)] {
			continue
		}
		out = append(out, r)
	}
	return out
}

// Find returns the rule with the given id.
func Find(rules []types.Rule, id string) (types.Rule, bool) {
	for _, r := range rules {
		if r.ID == id {
			return r, true
		}
	}
	return types.Rule{}, false
}

// IDs returns rule ids in registry order.
func IDs(rules []types.Rule) []string {
	ids := make([]string, len(rules))
	for i, r := range rules {
		ids[i] = r.ID
	}
	return ids
}

// Categories returns category names in order of first appearance.
func Categories(rules []types.Rule) []string {
	seen := make(map[string]bool)
	var cats []string
	for _, r := range rules {
		if !seen[r.Category] {
			seen[r.Category] = true
			cats = append(cats, r.Category)
		}
	}
	return cats
}
