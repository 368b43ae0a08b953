// Package context detects facts about the audited host for the report
// header: OS, distribution, execution environment and hostname.
package context

import (
	"fmt"
	"os"
	"strings"

	"github.com/ancients-collective/harden/internal/types"
)

// OSDetector abstracts platform-specific system detection.
// Each supported OS provides an implementation via build tags.
type OSDetector interface {
	// DetectOS returns operating system information.
	DetectOS() (types.OSInfo, error)

	// DetectDistro returns Linux distribution information.
	// Returns empty DistroInfo on non-Linux systems.
	DetectDistro() (types.DistroInfo, error)

	// DetectEnvironment returns execution environment information
	// (container, VM, or bare-metal) and the host identity.
	DetectEnvironment() (types.EnvInfo, error)
}

// DetectSystemContext runs the detector layer by layer. OS detection must
// succeed; distro and environment failures become warnings.
func DetectSystemContext(detector OSDetector) (types.SystemContext, []string, error) {
	var ctx types.SystemContext
	var warnings []string

	osInfo, err := detector.DetectOS()
	if err != nil {
		return ctx, nil, fmt.Errorf("OS detection failed: %w", err)
	}
	ctx.OS = osInfo

	if distro, err := detector.DetectDistro(); err != nil {
		warnings = append(warnings, fmt.Sprintf("distro detection failed: %v", err))
	} else {
		ctx.Distro = normalizeDistro(distro)
	}

	if env, err := detector.DetectEnvironment(); err != nil {
		warnings = append(warnings, fmt.Sprintf("environment detection failed: %v", err))
	} else {
		ctx.Environment = env
	}

	return ctx, warnings, nil
}

// Hostname returns the name shown in report headers: the detected
// hostname, then $HOSTNAME, then empty (rendered as unknown).
func Hostname(ctx types.SystemContext) string {
	if h := strings.TrimSpace(ctx.Environment.Hostname); h != "" {
		return h
	}
	return strings.TrimSpace(os.Getenv("HOSTNAME"))
}

// IsRoot reports whether the process runs with effective uid 0.
func IsRoot() bool {
	return os.Geteuid() == 0
}

// rhelLike lists distribution ids that gopsutil may not map to a family.
var rhelLike = map[string]bool{
	"redos":     true,
	"rhel":      true,
	"centos":    true,
	"rocky":     true,
	"almalinux": true,
	"ol":        true,
	"fedora":    true,
}

// normalizeDistro lowercases ids and fills the family for RHEL derivatives.
func normalizeDistro(d types.DistroInfo) types.DistroInfo {
	d.ID = strings.ToLower(strings.TrimSpace(d.ID))
	d.Family = strings.ToLower(strings.TrimSpace(d.Family))
	if d.Family == "" && rhelLike[d.ID] {
		d.Family = "rhel"
	}
	return d
}

// IsRHELFamily reports whether the distro belongs to the RHEL family,
// which includes RED OS.
func IsRHELFamily(d types.DistroInfo) bool {
	return d.Family == "rhel" || rhelLike[d.ID]
}
