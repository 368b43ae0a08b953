package rules

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/ancients-collective/harden/internal/types"
)

const (
	catFirewall = "Firewall"
	catSELinux  = "SELinux"
	catAuditd   = "auditd"
	catServices = "Сервисы"
	catAudit    = "Аудит"
)

const (
	selinuxConfig  = "/etc/selinux/config"
	auditdPidFile  = "/var/run/auditd.pid"
	identityRules  = "/etc/audit/rules.d/identity.rules"
	identityRuleKw = "identity"
)

// selinuxModeLine matches the active SELINUX= assignment only. The stock file
// mentions "SELINUX=" in its comment header, which must stay untouched.
var selinuxModeLine = regexp.MustCompile(`^\s*SELINUX\s*=`)

// identityWatched are the account databases whose changes must be audited.
var identityWatched = []string{"/etc/passwd", "/etc/shadow", "/etc/group", "/etc/gshadow"}

// unnecessaryServices are network daemons rarely needed on a hardened host.
var unnecessaryServices = []string{"dhcpd", "named", "vsftpd", "httpd", "dovecot", "smb", "squid"}

func (c *catalog) firewall() types.Rule {
	return types.Rule{
		ID:       "firewall",
		Category: catFirewall,
		Title:    "firewalld активен",
		Hint:     "Запустите: sudo systemctl enable --now firewalld",
		Check: func() (types.Status, error) {
			if _, err := c.env.Probe.LookPath("firewall-cmd"); err != nil {
				return types.StatusUnknown, err
			}
			// exits 0 with "running", 252 with "not running"
			res, err := c.env.Probe.RunCommand("firewall-cmd", "--state")
			if err != nil {
				return types.StatusUnknown, err
			}
			return passIf(res.ExitCode == 0), nil
		},
		Fix: func() types.FixOutcome {
			return c.enableService("firewalld")
		},
	}
}

func (c *catalog) selinuxEnforcing() types.Rule {
	return types.Rule{
		ID:       "selinux-enforcing",
		Category: catSELinux,
		Title:    "SELinux в режиме Enforcing",
		Hint:     "Установите SELINUX=enforcing в /etc/selinux/config и выполните: setenforce 1",
		Check: func() (types.Status, error) {
			res, err := c.env.Probe.RunCommand("getenforce")
			if err != nil {
				return types.StatusUnknown, err
			}
			switch strings.ToLower(strings.TrimSpace(res.Stdout)) {
			case "enforcing":
				return types.StatusPass, nil
			case "permissive":
				return types.StatusWarn, nil
			case "disabled":
				return types.StatusFail, nil
			default:
				return types.StatusUnknown, nil
			}
		},
		Fix: func() types.FixOutcome {
			persist := c.env.Patch.Directive(selinuxConfig, selinuxModeLine, "SELINUX=enforcing")
			if !persist.OK {
				return persist
			}
			if out := c.env.Priv.Run("setenforce", "1"); !out.OK {
				return types.Failed(fmt.Sprintf("SELINUX=enforcing written; setenforce failed (%s), a relabel and reboot may be required", out.Message))
			}
			return types.Applied("SELINUX=enforcing; enforcing mode enabled")
		},
	}
}

func (c *catalog) auditd() types.Rule {
	return types.Rule{
		ID:       "auditd",
		Category: catAuditd,
		Title:    "Служба auditd запущена",
		Hint:     "Установите и запустите: apt install auditd && systemctl enable --now auditd",
		Check: func() (types.Status, error) {
			if c.exists(auditdPidFile) {
				return types.StatusPass, nil
			}
			if _, err := c.env.Probe.LookPath("systemctl"); err != nil {
				return types.StatusUnknown, err
			}
			active, err := c.serviceActive("auditd")
			if err != nil {
				return types.StatusUnknown, err
			}
			return passIf(active), nil
		},
		Fix: func() types.FixOutcome {
			return c.enableService("auditd")
		},
	}
}

func (c *catalog) svcXinetd() types.Rule {
	return types.Rule{
		ID:       "svc-xinetd",
		Category: catServices,
		Title:    "xinetd не установлен",
		Hint:     "Удалите: dnf remove xinetd",
		Check: func() (types.Status, error) {
			return passIf(!c.rpmInstalled("xinetd")), nil
		},
	}
}

func (c *catalog) svcChrony() types.Rule {
	return types.Rule{
		ID:       "svc-chrony",
		Category: catServices,
		Title:    "chronyd настроен (синхронизация времени)",
		Hint:     "Установите и запустите: dnf install chrony && systemctl enable --now chronyd",
		Check: func() (types.Status, error) {
			return passIf(c.isActive("chronyd") || c.isActive("ntpd")), nil
		},
		Fix: func() types.FixOutcome {
			return c.enableService("chronyd")
		},
	}
}

func (c *catalog) svcAvahi() types.Rule {
	return types.Rule{
		ID:       "svc-avahi",
		Category: catServices,
		Title:    "avahi-daemon отключён",
		Hint:     "Отключите: systemctl disable --now avahi-daemon",
		Check: func() (types.Status, error) {
			return passIf(!c.isActive("avahi-daemon")), nil
		},
		Fix: func() types.FixOutcome {
			return c.disableService("avahi-daemon")
		},
	}
}

// svcCups is only a warning: print servers are legitimate on some hosts.
func (c *catalog) svcCups() types.Rule {
	return types.Rule{
		ID:       "svc-cups",
		Category: catServices,
		Title:    "cups отключён (если не нужен)",
		Hint:     "Отключите: systemctl disable --now cups",
		Check: func() (types.Status, error) {
			if c.isActive("cups") {
				return types.StatusWarn, nil
			}
			return types.StatusPass, nil
		},
		Fix: func() types.FixOutcome {
			return c.disableService("cups")
		},
	}
}

func (c *catalog) svcUnnecessary() types.Rule {
	return types.Rule{
		ID:       "svc-unnecessary",
		Category: catServices,
		Title:    "Ненужные сетевые сервисы отключены",
		Hint:     "Проверьте: " + strings.Join(unnecessaryServices, ", "),
		Check: func() (types.Status, error) {
			for _, s := range unnecessaryServices {
				if c.isActive(s) {
					return types.StatusWarn, nil
				}
			}
			return types.StatusPass, nil
		},
	}
}

func (c *catalog) auditAuditd() types.Rule {
	return types.Rule{
		ID:       "audit-auditd",
		Category: catAudit,
		Title:    "auditd запущен и включён",
		Hint:     "Запустите: systemctl enable --now auditd",
		Check: func() (types.Status, error) {
			if !c.isActive("auditd") {
				return types.StatusFail, nil
			}
			if c.serviceEnabled("auditd") {
				return types.StatusPass, nil
			}
			return types.StatusWarn, nil
		},
		Fix: func() types.FixOutcome {
			return c.enableService("auditd")
		},
	}
}

func (c *catalog) auditIdentityRules() types.Rule {
	return types.Rule{
		ID:       "audit-rules-identity",
		Category: catAudit,
		Title:    "Аудит изменений /etc/passwd, /etc/shadow, /etc/group",
		Hint:     "Добавьте правила в /etc/audit/rules.d/identity.rules",
		Check: func() (types.Status, error) {
			res, err := c.env.Probe.RunCommand("auditctl", "-l")
			if err != nil {
				return types.StatusUnknown, err
			}
			loaded := strings.TrimSpace(res.Stdout)
			if loaded == "" {
				return types.StatusUnknown, nil
			}
			covered := 0
			for _, f := range identityWatched {
				if strings.Contains(loaded, f) {
					covered++
				}
			}
			switch {
			case covered == len(identityWatched):
				return types.StatusPass, nil
			case covered > 0:
				return types.StatusWarn, nil
			default:
				return types.StatusFail, nil
			}
		},
		Fix: func() types.FixOutcome {
			var b strings.Builder
			for _, f := range identityWatched {
				fmt.Fprintf(&b, "-w %s -p wa -k %s\n", f, identityRuleKw)
			}
			if out := c.env.Priv.Write(identityRules, b.String()); !out.OK {
				return out
			}
			if out := c.env.Priv.Run("augenrules", "--load"); !out.OK {
				return types.Applied(fmt.Sprintf("identity rules written to %s; augenrules --load failed: %s", identityRules, out.Message))
			}
			return types.Applied("identity audit rules loaded")
		},
	}
}

func (c *catalog) auditRsyslog() types.Rule {
	return types.Rule{
		ID:       "audit-rsyslog",
		Category: catAudit,
		Title:    "rsyslog запущен",
		Hint:     "Запустите: systemctl enable --now rsyslog",
		Check: func() (types.Status, error) {
			return passIf(c.isActive("rsyslog")), nil
		},
		Fix: func() types.FixOutcome {
			return c.enableService("rsyslog")
		},
	}
}

func passIf(ok bool) types.Status {
	if ok {
		return types.StatusPass
	}
	return types.StatusFail
}
