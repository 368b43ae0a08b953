package probe

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// Security constants for input validation and resource limits.
const (
	// MaxFileReadBytes is the maximum number of bytes we'll read from any file (10 MB).
	MaxFileReadBytes int64 = 10 * 1024 * 1024

	// MaxServiceNameLength is the maximum allowed length for service/module names.
	MaxServiceNameLength = 256
)

// Validation patterns for security-sensitive inputs.
var (
	sysctlKeyPattern   = regexp.MustCompile(`^[a-zA-Z0-9_.]+$`)
	serviceNamePattern = regexp.MustCompile(`^[a-zA-Z0-9_@.\-]+$`)
)

// pseudoRoots are kernel filesystems whose entries report size 0 and are
// not regular files in the usual sense.
var pseudoRoots = []string{"/proc/", "/sys/"}

// ValidatePath checks that a file path is safe to operate on.
// Rejects empty and non-absolute paths and returns the cleaned path.
func ValidatePath(path string) (string, error) {
	if path == "" {
		return "", fmt.Errorf("path must not be empty")
	}

	if !filepath.IsAbs(path) {
		return "", fmt.Errorf("path must be absolute, got %q", path)
	}

	cleaned := filepath.Clean(path)
	for _, part := range strings.Split(cleaned, string(filepath.Separator)) {
		if part == ".." {
			return "", fmt.Errorf("path traversal (..) not allowed in %q", path)
		}
	}

	return cleaned, nil
}

// isPseudoPath reports whether a cleaned path lives under /proc or /sys.
func isPseudoPath(cleaned string) bool {
	for _, root := range pseudoRoots {
		if strings.HasPrefix(cleaned, root) {
			return true
		}
	}
	return false
}

// readFileLimited reads a file with safety checks:
//   - path traversal prevention
//   - follows symlinks (system files like /etc/os-release are commonly symlinks)
//   - regular-file-only after resolution, except for /proc and /sys entries
//   - bounded read (MaxFileReadBytes)
//
// Uses open-then-fstat to avoid TOCTOU races between stat and open.
func readFileLimited(path string) ([]byte, error) {
	cleaned, err := ValidatePath(path)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(cleaned)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("file not found: %w", err)
		}
		return nil, fmt.Errorf("cannot open file %q: %w", cleaned, err)
	}
	defer f.Close()

	if !isPseudoPath(cleaned) {
		info, err := f.Stat()
		if err != nil {
			return nil, fmt.Errorf("cannot stat file %q: %w", cleaned, err)
		}

		if !info.Mode().IsRegular() {
			return nil, fmt.Errorf("refusing to read non-regular file %q (mode: %s)", cleaned, info.Mode().Type())
		}

		if info.Size() > MaxFileReadBytes {
			return nil, fmt.Errorf("file %q too large: %d bytes (max: %d)", cleaned, info.Size(), MaxFileReadBytes)
		}
	}

	limited := io.LimitReader(f, MaxFileReadBytes+1)
	data, err := io.ReadAll(limited)
	if err != nil {
		return nil, fmt.Errorf("error reading file %q: %w", cleaned, err)
	}

	if int64(len(data)) > MaxFileReadBytes {
		return nil, fmt.Errorf("file %q exceeded size limit during read", cleaned)
	}

	return data, nil
}

// ValidateSysctlKey checks that a sysctl key contains only safe characters.
func ValidateSysctlKey(key string) error {
	if key == "" {
		return fmt.Errorf("sysctl key must not be empty")
	}

	if !sysctlKeyPattern.MatchString(key) {
		return fmt.Errorf("invalid sysctl key %q: must contain only alphanumeric, dots, and underscores", key)
	}

	if strings.Contains(key, "..") {
		return fmt.Errorf("sysctl key %q contains '..', which is not allowed", key)
	}

	return nil
}

// SysctlPath maps a dotted sysctl key to its /proc/sys path.
func SysctlPath(key string) string {
	return "/proc/sys/" + strings.ReplaceAll(key, ".", "/")
}

// ValidateServiceName checks that a service or kernel module name contains only safe characters.
func ValidateServiceName(name string) error {
	if name == "" {
		return fmt.Errorf("service name must not be empty")
	}

	if len(name) > MaxServiceNameLength {
		return fmt.Errorf("service name too long: %d chars (max: %d)", len(name), MaxServiceNameLength)
	}

	if strings.HasPrefix(name, "-") {
		return fmt.Errorf("service name %q must not start with '-'", name)
	}

	if !serviceNamePattern.MatchString(name) {
		return fmt.Errorf("invalid service name %q: only alphanumeric, underscores, dots, hyphens, @ allowed", name)
	}

	return nil
}
