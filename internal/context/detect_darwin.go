//go:build darwin

package context

import (
	"os"
	"runtime"

	"github.com/shirou/gopsutil/v4/host"

	"github.com/ancients-collective/harden/internal/types"
)

// DarwinDetector implements OSDetector for macOS, where only the report
// header is meaningful.
type DarwinDetector struct{}

// NewOSDetector returns a DarwinDetector for macOS systems.
func NewOSDetector() OSDetector {
	return &DarwinDetector{}
}

// DetectOS returns macOS OS information.
func (d *DarwinDetector) DetectOS() (types.OSInfo, error) {
	osInfo := types.OSInfo{Name: runtime.GOOS, Arch: runtime.GOARCH}
	if info, err := host.Info(); err == nil {
		osInfo.Version = info.KernelVersion
	}
	return osInfo, nil
}

// DetectDistro returns empty DistroInfo.
func (d *DarwinDetector) DetectDistro() (types.DistroInfo, error) {
	return types.DistroInfo{}, nil
}

// DetectEnvironment returns bare-metal with the hostname populated.
func (d *DarwinDetector) DetectEnvironment() (types.EnvInfo, error) {
	env := types.EnvInfo{Type: types.EnvBareMetal}
	if h, err := os.Hostname(); err == nil {
		env.Hostname = h
	}
	return env, nil
}
