package rules

import (
	"fmt"

	"github.com/ancients-collective/harden/internal/patch"
	"github.com/ancients-collective/harden/internal/types"
)

const catPerms = "Права файлов"

// cronDirs are checked only when present.
var cronDirs = []string{"/etc/cron.d", "/etc/cron.daily", "/etc/cron.hourly", "/etc/cron.monthly", "/etc/cron.weekly"}

// fileLimit is an upper bound on a file's octal permissions.
type fileLimit struct {
	path string
	max  uint32
	fix  string
}

// permsRule passes when every file's mode is at most its limit.
// A missing file is unknown.
func (c *catalog) permsRule(id, title, hint string, limits ...fileLimit) types.Rule {
	return types.Rule{
		ID:       id,
		Category: catPerms,
		Title:    title,
		Hint:     hint,
		Check: func() (types.Status, error) {
			ok := true
			for _, l := range limits {
				perm, err := c.unixPerms(l.path)
				if err != nil {
					return types.StatusUnknown, err
				}
				ok = ok && perm <= l.max
			}
			return passIf(ok), nil
		},
		Fix: func() types.FixOutcome {
			outcomes := make([]types.FixOutcome, 0, len(limits))
			for _, l := range limits {
				outcomes = append(outcomes, c.chmod(l.fix, l.path))
			}
			return patch.Combine(outcomes...)
		},
	}
}

func (c *catalog) chmod(mode, p string) types.FixOutcome {
	out := c.env.Priv.Run("chmod", mode, p)
	if out.OK {
		return types.Applied(fmt.Sprintf("chmod %s %s", mode, p))
	}
	return out
}

func (c *catalog) permsPasswd() types.Rule {
	return c.permsRule("perms-passwd",
		"/etc/passwd — 644, /etc/shadow — 000 или 640",
		"chmod 644 /etc/passwd; chmod 000 /etc/shadow",
		fileLimit{"/etc/passwd", 0o644, "644"},
		fileLimit{"/etc/shadow", 0o640, "000"},
	)
}

func (c *catalog) permsGroup() types.Rule {
	return c.permsRule("perms-group",
		"/etc/group — 644, /etc/gshadow — 000 или 640",
		"chmod 644 /etc/group; chmod 000 /etc/gshadow",
		fileLimit{"/etc/group", 0o644, "644"},
		fileLimit{"/etc/gshadow", 0o640, "000"},
	)
}

func (c *catalog) permsSSHDConfig() types.Rule {
	return c.permsRule("perms-sshd-config",
		"/etc/ssh/sshd_config — 600",
		"chmod 600 /etc/ssh/sshd_config",
		fileLimit{sshdConfig, 0o600, "600"},
	)
}

func (c *catalog) permsCrontab() types.Rule {
	return types.Rule{
		ID:       "perms-crontab",
		Category: catPerms,
		Title:    "/etc/crontab — 600, cron-директории — 700",
		Hint:     "chmod 600 /etc/crontab; chmod 700 /etc/cron.*",
		Check: func() (types.Status, error) {
			perm, err := c.unixPerms("/etc/crontab")
			if err != nil {
				return types.StatusUnknown, err
			}
			if perm > 0o600 {
				return types.StatusFail, nil
			}
			for _, d := range cronDirs {
				if p, err := c.unixPerms(d); err == nil && p > 0o700 {
					return types.StatusFail, nil
				}
			}
			return types.StatusPass, nil
		},
		Fix: func() types.FixOutcome {
			outcomes := []types.FixOutcome{c.chmod("600", "/etc/crontab")}
			for _, d := range cronDirs {
				if c.exists(d) {
					outcomes = append(outcomes, c.chmod("700", d))
				}
			}
			return patch.Combine(outcomes...)
		},
	}
}
