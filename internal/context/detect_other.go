//go:build !linux && !darwin

package context

import (
	"os"
	"runtime"

	"github.com/ancients-collective/harden/internal/types"
)

type genericDetector struct{}

// NewOSDetector returns a detector that reports only what the Go runtime knows.
func NewOSDetector() OSDetector {
	return genericDetector{}
}

func (genericDetector) DetectOS() (types.OSInfo, error) {
	return types.OSInfo{Name: runtime.GOOS, Arch: runtime.GOARCH}, nil
}

func (genericDetector) DetectDistro() (types.DistroInfo, error) {
	return types.DistroInfo{}, nil
}

func (genericDetector) DetectEnvironment() (types.EnvInfo, error) {
	env := types.EnvInfo{Type: types.EnvBareMetal}
	if h, err := os.Hostname(); err == nil {
		env.Hostname = h
	}
	return env, nil
}
