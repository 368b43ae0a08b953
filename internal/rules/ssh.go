package rules

import (
	"fmt"
	"strconv"

	"github.com/ancients-collective/harden/internal/patch"
	"github.com/ancients-collective/harden/internal/types"
)

const catSSH = "SSH"

func (c *catalog) sshRoot() types.Rule {
	return types.Rule{
		ID:       "ssh-root",
		Category: catSSH,
		Title:    "PermitRootLogin = no / prohibit-password",
		Hint:     "Установите: PermitRootLogin no  в /etc/ssh/sshd_config",
		Check: c.sshdCheck("PermitRootLogin", func(v string) types.Status {
			if v == "no" || v == "prohibit-password" {
				return types.StatusPass
			}
			return types.StatusFail
		}),
		Fix: func() types.FixOutcome {
			return c.fixSSHDirective("PermitRootLogin", "no")
		},
	}
}

func (c *catalog) sshPasswordAuth() types.Rule {
	return types.Rule{
		ID:       "ssh-passauth",
		Category: catSSH,
		Title:    "PasswordAuthentication = no",
		Hint:     "Установите: PasswordAuthentication no  в /etc/ssh/sshd_config",
		Check: c.sshdCheck("PasswordAuthentication", func(v string) types.Status {
			if v == "no" {
				return types.StatusPass
			}
			return types.StatusFail
		}),
		Fix: func() types.FixOutcome {
			out := c.fixSSHDirective("PasswordAuthentication", "no")
			if !out.OK {
				return out
			}
			return types.Applied(out.Message + "\n⚠ ensure SSH keys are configured before closing this session")
		},
	}
}

func (c *catalog) sshMaxAuthTries() types.Rule {
	return types.Rule{
		ID:       "ssh-maxauth",
		Category: catSSH,
		Title:    "MaxAuthTries ≤ 5",
		Hint:     "Установите: MaxAuthTries 3  в /etc/ssh/sshd_config",
		Check: c.sshdCheck("MaxAuthTries", func(v string) types.Status {
			n, err := strconv.Atoi(v)
			if err != nil {
				return types.StatusUnknown
			}
			if n <= 5 {
				return types.StatusPass
			}
			return types.StatusFail
		}),
		Fix: func() types.FixOutcome {
			return c.fixSSHDirective("MaxAuthTries", "3")
		},
	}
}

// sshdCheck reads a directive from sshd_config. An unreadable or empty file
// is unknown; a missing directive is warn since the compiled-in default
// differs between OpenSSH releases.
func (c *catalog) sshdCheck(key string, judge func(value string) types.Status) types.CheckFunc {
	return func() (types.Status, error) {
		content, err := c.env.Probe.ReadTextFile(sshdConfig)
		if err := unknownIfAbsent(sshdConfig, content, err); err != nil {
			return types.StatusUnknown, err
		}
		v, ok := directiveValue(content, key)
		if !ok {
			return types.StatusWarn, nil
		}
		return judge(v), nil
	}
}

// fixSSHDirective patches sshd_config, validates it, and restarts the daemon.
func (c *catalog) fixSSHDirective(key, value string) types.FixOutcome {
	line := key + " " + value
	out := c.env.Patch.Directive(sshdConfig, patch.KeyValuePattern(key), line)
	if !out.OK {
		return out
	}

	if test := c.env.Priv.Run("sshd", "-t"); !test.OK {
		return types.Failed(fmt.Sprintf("%s written but sshd -t rejected the configuration: %s", line, test.Message))
	}

	restart := c.restartSSHD()
	if !restart.OK {
		return types.Failed(fmt.Sprintf("%s written; %s", line, restart.Message))
	}
	return types.Applied(fmt.Sprintf("%s; %s", line, restart.Message))
}

// restartSSHD tries the RHEL unit name first, then the Debian one.
func (c *catalog) restartSSHD() types.FixOutcome {
	for _, unit := range []string{"sshd", "ssh"} {
		if out := c.env.Priv.Run("systemctl", "restart", unit); out.OK {
			return types.Applied(unit + " restarted")
		}
	}
	return types.Failed("restart SSH manually")
}
