package rules

import (
	"errors"
	"fmt"
	"io/fs"
	"path"
	"regexp"
	"strconv"
	"strings"

	"github.com/ancients-collective/harden/internal/probe"
	"github.com/ancients-collective/harden/internal/types"
)

const (
	sshdConfig     = "/etc/ssh/sshd_config"
	pwqualityConf  = "/etc/security/pwquality.conf"
	commonPassword = "/etc/pam.d/common-password"
	systemAuth     = "/etc/pam.d/system-auth"
	passwordAuth   = "/etc/pam.d/password-auth"
	modprobeDir    = "/etc/modprobe.d"
	procMounts     = "/proc/mounts"
	procModules    = "/proc/modules"
)

// catalog builds rules bound to one environment and persistence file.
type catalog struct {
	env        Env
	sysctlFile string
}

func newCatalog(env Env, sysctlFile string) *catalog {
	if env.SysctlFile != "" {
		sysctlFile = env.SysctlFile
	}
	return &catalog{env: env, sysctlFile: sysctlFile}
}

// readOrEmpty returns the file content, or "" when it cannot be read.
func (c *catalog) readOrEmpty(p string) string {
	content, err := c.env.Probe.ReadTextFile(p)
	if err != nil {
		return ""
	}
	return content
}

// directiveValue finds a "Key Value" directive (case-insensitive) and
// returns its lowercased value.
func directiveValue(content, key string) (string, bool) {
	re := regexp.MustCompile(`(?im)^\s*` + regexp.QuoteMeta(key) + `\s+(\S+)`)
	m := re.FindStringSubmatch(content)
	if m == nil {
		return "", false
	}
	return strings.ToLower(m[1]), true
}

// assignInt finds a "key = N" directive and returns N.
func assignInt(content, key string) (int, bool) {
	re := regexp.MustCompile(`(?im)^\s*` + regexp.QuoteMeta(key) + `\s*=\s*(\d+)`)
	m := re.FindStringSubmatch(content)
	if m == nil {
		return 0, false
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}
	return n, true
}

// sysctl reads the live value of a kernel parameter from /proc/sys.
func (c *catalog) sysctl(key string) (string, error) {
	if err := probe.ValidateSysctlKey(key); err != nil {
		return "", err
	}
	v, err := c.env.Probe.ReadTextFile(probe.SysctlPath(key))
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(v), nil
}

// sysctlOrEmpty returns "" when the parameter cannot be read.
func (c *catalog) sysctlOrEmpty(key string) string {
	v, err := c.sysctl(key)
	if err != nil {
		return ""
	}
	return v
}

// serviceActive reports whether systemd considers the unit active.
// A missing systemctl is an error.
func (c *catalog) serviceActive(name string) (bool, error) {
	if err := probe.ValidateServiceName(name); err != nil {
		return false, err
	}
	res, err := c.env.Probe.RunCommand("systemctl", "is-active", "--quiet", name)
	if err != nil {
		return false, err
	}
	return res.Success(), nil
}

// isActive is serviceActive with errors read as inactive.
func (c *catalog) isActive(name string) bool {
	ok, _ := c.serviceActive(name)
	return ok
}

func (c *catalog) serviceEnabled(name string) bool {
	if probe.ValidateServiceName(name) != nil {
		return false
	}
	res, err := c.env.Probe.RunCommand("systemctl", "is-enabled", "--quiet", name)
	return err == nil && res.Success()
}

func (c *catalog) rpmInstalled(pkg string) bool {
	if probe.ValidateServiceName(pkg) != nil {
		return false
	}
	res, err := c.env.Probe.RunCommand("rpm", "-q", pkg)
	return err == nil && res.Success()
}

// unixPerms returns the classic octal permission bits of p.
func (c *catalog) unixPerms(p string) (uint32, error) {
	mode, err := c.env.Probe.FileMode(p)
	if err != nil {
		return 0, err
	}
	return octal(mode), nil
}

func octal(mode fs.FileMode) uint32 {
	perm := uint32(mode.Perm())
	if mode&fs.ModeSetuid != 0 {
		perm |= 0o4000
	}
	if mode&fs.ModeSetgid != 0 {
		perm |= 0o2000
	}
	if mode&fs.ModeSticky != 0 {
		perm |= 0o1000
	}
	return perm
}

func (c *catalog) exists(p string) bool {
	_, err := c.env.Probe.FileMode(p)
	return err == nil
}

// mountOptions returns the options of mountpoint from /proc/mounts.
func (c *catalog) mountOptions(mountpoint string) ([]string, bool) {
	for _, line := range strings.Split(c.readOrEmpty(procMounts), "\n") {
		fields := strings.Fields(line)
		if len(fields) < 4 || fields[1] != mountpoint {
			continue
		}
		return strings.Split(fields[3], ","), true
	}
	return nil, false
}

// moduleLoaded reports whether a kernel module appears in /proc/modules.
func (c *catalog) moduleLoaded(name string) bool {
	for _, line := range strings.Split(c.readOrEmpty(procModules), "\n") {
		if strings.HasPrefix(line, name+" ") {
			return true
		}
	}
	return false
}

// modprobeMatches reports whether any file in /etc/modprobe.d matches re.
func (c *catalog) modprobeMatches(re *regexp.Regexp) bool {
	names, err := c.env.Probe.ReadDir(modprobeDir)
	if err != nil {
		return false
	}
	for _, name := range names {
		if re.MatchString(c.readOrEmpty(path.Join(modprobeDir, name))) {
			return true
		}
	}
	return false
}

func blockedModulePattern(name string) *regexp.Regexp {
	return regexp.MustCompile(`(?im)^(blacklist|install)\s+` + regexp.QuoteMeta(name) + `\b`)
}

// unknownIfAbsent passes probe failures through as errors and treats an
// empty file the same way, so both surface as unknown.
func unknownIfAbsent(p, content string, err error) error {
	if err != nil {
		return err
	}
	if strings.TrimSpace(content) == "" {
		return &probe.Error{Op: "read", Target: p, Err: errors.New("empty file")}
	}
	return nil
}

func (c *catalog) enableService(name string) types.FixOutcome {
	out := c.env.Priv.Run("systemctl", "enable", "--now", name)
	if out.OK {
		return types.Applied(fmt.Sprintf("%s enabled and started", name))
	}
	return out
}

func (c *catalog) disableService(name string) types.FixOutcome {
	out := c.env.Priv.Run("systemctl", "disable", "--now", name)
	if out.OK {
		return types.Applied(fmt.Sprintf("%s stopped and disabled", name))
	}
	return out
}
