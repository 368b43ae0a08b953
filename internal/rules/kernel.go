package rules

import (
	"github.com/ancients-collective/harden/internal/patch"
	"github.com/ancients-collective/harden/internal/types"
)

const (
	catKernel  = "Ядро"
	catNetwork = "Сеть"
)

func (c *catalog) kernelASLR() types.Rule {
	return types.Rule{
		ID:       "kernel-aslr",
		Category: catKernel,
		Title:    "ASLR включён (randomize_va_space = 2)",
		Hint:     "Добавьте в /etc/sysctl.conf: kernel.randomize_va_space = 2",
		Check: func() (types.Status, error) {
			v, err := c.sysctl("kernel.randomize_va_space")
			if err != nil {
				return types.StatusUnknown, err
			}
			switch v {
			case "":
				return types.StatusUnknown, nil
			case "2":
				return types.StatusPass, nil
			case "1":
				return types.StatusWarn, nil
			default:
				return types.StatusFail, nil
			}
		},
		Fix: func() types.FixOutcome {
			return c.env.Patch.Sysctl("kernel.randomize_va_space", "2", c.sysctlFile)
		},
	}
}

func (c *catalog) kernelSyncookies() types.Rule {
	return types.Rule{
		ID:       "kernel-syncookies",
		Category: catKernel,
		Title:    "SYN-cookies включены (tcp_syncookies = 1)",
		Hint:     "Добавьте в /etc/sysctl.conf: net.ipv4.tcp_syncookies = 1",
		Check: func() (types.Status, error) {
			v, err := c.sysctl("net.ipv4.tcp_syncookies")
			if err != nil {
				return types.StatusUnknown, err
			}
			if v == "" {
				return types.StatusUnknown, nil
			}
			return passIf(v == "1"), nil
		},
		Fix: func() types.FixOutcome {
			return c.env.Patch.Sysctl("net.ipv4.tcp_syncookies", "1", c.sysctlFile)
		},
	}
}

// sysctlRule builds a baseline network rule: every key must hold its
// wanted value. Unreadable keys count as non-compliant.
func (c *catalog) sysctlRule(id, title, hint string, want ...patch.Pair) types.Rule {
	return types.Rule{
		ID:       id,
		Category: catNetwork,
		Title:    title,
		Hint:     hint,
		Check: func() (types.Status, error) {
			for _, kv := range want {
				if c.sysctlOrEmpty(kv.Key) != kv.Value {
					return types.StatusFail, nil
				}
			}
			return types.StatusPass, nil
		},
		Fix: func() types.FixOutcome {
			return c.env.Patch.SysctlAll(c.sysctlFile, want...)
		},
	}
}

func (c *catalog) netIPForward() types.Rule {
	return c.sysctlRule("net-ipforward",
		"IP forwarding отключён",
		"Установите: net.ipv4.ip_forward = 0 в sysctl",
		patch.Pair{Key: "net.ipv4.ip_forward", Value: "0"},
	)
}

func (c *catalog) netICMPRedirect() types.Rule {
	return c.sysctlRule("net-icmp-redirect",
		"ICMP redirects отключены",
		"Установите: net.ipv4.conf.all.accept_redirects = 0",
		patch.Pair{Key: "net.ipv4.conf.all.accept_redirects", Value: "0"},
		patch.Pair{Key: "net.ipv4.conf.default.accept_redirects", Value: "0"},
	)
}

func (c *catalog) netSourceRoute() types.Rule {
	return c.sysctlRule("net-source-route",
		"Source routing отключён",
		"Установите: net.ipv4.conf.all.accept_source_route = 0",
		patch.Pair{Key: "net.ipv4.conf.all.accept_source_route", Value: "0"},
		patch.Pair{Key: "net.ipv4.conf.default.accept_source_route", Value: "0"},
	)
}

func (c *catalog) netSyncookies() types.Rule {
	return c.sysctlRule("net-syncookies",
		"TCP SYN cookies включены",
		"Установите: net.ipv4.tcp_syncookies = 1",
		patch.Pair{Key: "net.ipv4.tcp_syncookies", Value: "1"},
	)
}
