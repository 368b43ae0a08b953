package rules

import (
	"io/fs"
	"maps"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ancients-collective/harden/internal/engine"
	"github.com/ancients-collective/harden/internal/probe"
	"github.com/ancients-collective/harden/internal/probe/probetest"
	"github.com/ancients-collective/harden/internal/types"
)

func failed(stderr string) probe.CommandResult {
	return probe.CommandResult{ExitCode: 1, Stderr: stderr}
}

type hostState struct {
	files map[string]string
	modes map[string]fs.FileMode
}

func snapshot(h *probetest.Host) hostState {
	return hostState{files: maps.Clone(h.Files), modes: maps.Clone(h.Modes)}
}

// richHost is a mostly compliant RHEL-like host.
func richHost() *probetest.Host {
	h := probetest.NewHost()
	h.Files[sshdConfig] = "PermitRootLogin no\nPasswordAuthentication no\nMaxAuthTries 3\n"
	h.Files[pwqualityConf] = "minlen = 12\nminclass = 3\n"
	h.Files[systemAuth] = "auth required pam_faillock.so preauth\npassword requisite pam_pwquality.so\n"
	h.Files["/etc/modprobe.d/usb-block.conf"] = "blacklist usb-storage\n"
	h.Files["/etc/profile.d/tmout.sh"] = "readonly TMOUT=900\n"
	h.Files["/etc/bashrc"] = "umask 027\n"
	h.Files[procMounts] = "tmpfs /tmp tmpfs rw,nosuid,nodev,noexec 0 0\n/dev/sda3 /var/tmp xfs rw 0 0\n"
	h.Files[procModules] = "ext4 1 0 - Live 0x0\n"
	h.Files["/etc/passwd"] = ""
	h.Files["/etc/shadow"] = ""
	h.Files["/etc/group"] = ""
	h.Files["/etc/gshadow"] = ""
	h.Files["/etc/crontab"] = ""
	h.Modes["/etc/shadow"] = 0
	h.Modes["/etc/gshadow"] = 0
	h.Modes["/etc/crontab"] = 0o600
	h.Modes[sshdConfig] = 0o600
	h.SetSysctl("kernel.randomize_va_space", "2")
	h.SetSysctl("net.ipv4.tcp_syncookies", "1")
	h.SetSysctl("net.ipv4.ip_forward", "0")
	h.Binaries["firewall-cmd"] = true
	h.Binaries["systemctl"] = true
	h.FirewallRunning(true)
	h.ServiceActive("auditd", true)
	h.ServiceEnabled("auditd", true)
	h.ServiceActive("chronyd", true)
	h.ServiceActive("rsyslog", true)
	h.SetCommand(probe.CommandResult{Stdout: "Enforcing\n"}, "getenforce")
	h.SetCommand(probe.CommandResult{ExitCode: 1, Stdout: "package xinetd is not installed\n"}, "rpm", "-q", "xinetd")
	h.SetCommand(probe.CommandResult{Stdout: "-w /etc/passwd -p wa -k identity\n"}, "auditctl", "-l")
	return h
}

func TestRichHost_MostlyPasses(t *testing.T) {
	host := richHost()
	s := engine.Evaluate(Build(ProfileHardening, testEnv(host)))
	sum := s.Summary()
	assert.Equal(t, sum.Total, sum.Passed, "every hardening rule passes on the rich host")
}

func TestHardeningChecks(t *testing.T) {
	tests := []struct {
		name  string
		id    string
		setup func(h *probetest.Host)
		want  types.Status
	}{
		{"ssh-root prohibit-password", "ssh-root", func(h *probetest.Host) { h.Files[sshdConfig] = "permitrootlogin Prohibit-Password\n" }, types.StatusPass},
		{"ssh-root commented out", "ssh-root", func(h *probetest.Host) { h.Files[sshdConfig] = "#PermitRootLogin no\nPort 22\n" }, types.StatusWarn},
		{"ssh-root no file", "ssh-root", func(h *probetest.Host) {}, types.StatusUnknown},
		{"ssh-root empty file", "ssh-root", func(h *probetest.Host) { h.Files[sshdConfig] = "\n" }, types.StatusUnknown},
		{"ssh-passauth yes", "ssh-passauth", func(h *probetest.Host) { h.Files[sshdConfig] = "PasswordAuthentication yes\n" }, types.StatusFail},
		{"ssh-maxauth 5", "ssh-maxauth", func(h *probetest.Host) { h.Files[sshdConfig] = "MaxAuthTries 5\n" }, types.StatusPass},
		{"ssh-maxauth 6", "ssh-maxauth", func(h *probetest.Host) { h.Files[sshdConfig] = "MaxAuthTries 6\n" }, types.StatusFail},
		{"ssh-maxauth garbage", "ssh-maxauth", func(h *probetest.Host) { h.Files[sshdConfig] = "MaxAuthTries many\n" }, types.StatusUnknown},
		{"pam-minlen pwquality", "pam-minlen", func(h *probetest.Host) { h.Files[pwqualityConf] = "minlen = 7\n" }, types.StatusFail},
		{"pam-minlen common-password", "pam-minlen", func(h *probetest.Host) {
			h.Files[commonPassword] = "password requisite pam_pwquality.so retry=3 minlen=10\n"
		}, types.StatusPass},
		{"pam-minlen nowhere", "pam-minlen", func(h *probetest.Host) {}, types.StatusUnknown},
		{"pam-pwquality cracklib", "pam-pwquality", func(h *probetest.Host) { h.Files[commonPassword] = "password requisite pam_cracklib.so\n" }, types.StatusPass},
		{"pam-pwquality missing module", "pam-pwquality", func(h *probetest.Host) { h.Files[commonPassword] = "password required pam_unix.so\n" }, types.StatusFail},
		{"pam-pwquality no files", "pam-pwquality", func(h *probetest.Host) {}, types.StatusUnknown},
		{"firewall no firewall-cmd", "firewall", func(h *probetest.Host) {}, types.StatusUnknown},
		{"firewall not running", "firewall", func(h *probetest.Host) {
			h.Binaries["firewall-cmd"] = true
			h.FirewallRunning(false)
		}, types.StatusFail},
		{"firewall running", "firewall", func(h *probetest.Host) {
			h.Binaries["firewall-cmd"] = true
			h.FirewallRunning(true)
		}, types.StatusPass},
		{"firewall state unavailable", "firewall", func(h *probetest.Host) {
			h.Binaries["firewall-cmd"] = true
		}, types.StatusUnknown},
		{"selinux permissive", "selinux-enforcing", func(h *probetest.Host) {
			h.SetCommand(probe.CommandResult{Stdout: "Permissive\n"}, "getenforce")
		}, types.StatusWarn},
		{"selinux disabled", "selinux-enforcing", func(h *probetest.Host) {
			h.SetCommand(probe.CommandResult{Stdout: "Disabled\n"}, "getenforce")
		}, types.StatusFail},
		{"auditd pid file", "auditd", func(h *probetest.Host) { h.Files[auditdPidFile] = "812\n" }, types.StatusPass},
		{"auditd no systemctl", "auditd", func(h *probetest.Host) {}, types.StatusUnknown},
		{"auditd inactive", "auditd", func(h *probetest.Host) {
			h.Binaries["systemctl"] = true
			h.ServiceActive("auditd", false)
		}, types.StatusFail},
		{"usb install line", "usb-blocked", func(h *probetest.Host) {
			h.Files["/etc/modprobe.d/local.conf"] = "# usb\ninstall usb_storage /bin/true\n"
		}, types.StatusPass},
		{"usb not blocked", "usb-blocked", func(h *probetest.Host) {
			h.Files["/etc/modprobe.d/local.conf"] = "options snd slots=1\n"
		}, types.StatusFail},
		{"usb no modprobe.d", "usb-blocked", func(h *probetest.Host) {}, types.StatusFail},
		{"aslr partial", "kernel-aslr", func(h *probetest.Host) { h.SetSysctl("kernel.randomize_va_space", "1") }, types.StatusWarn},
		{"aslr off", "kernel-aslr", func(h *probetest.Host) { h.SetSysctl("kernel.randomize_va_space", "0") }, types.StatusFail},
		{"aslr unreadable", "kernel-aslr", func(h *probetest.Host) {}, types.StatusUnknown},
		{"syncookies off", "kernel-syncookies", func(h *probetest.Host) { h.SetSysctl("net.ipv4.tcp_syncookies", "0") }, types.StatusFail},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			host := probetest.NewHost()
			tt.setup(host)
			assert.Equal(t, tt.want, check(t, mustRule(t, ProfileHardening, host, tt.id)))
		})
	}
}

func TestBaselineChecks(t *testing.T) {
	tests := []struct {
		name  string
		id    string
		setup func(h *probetest.Host)
		want  types.Status
	}{
		{"tmp not separate", "fs-tmp-separate", func(h *probetest.Host) {
			h.Files[procMounts] = "/dev/sda1 / xfs rw 0 0\n"
		}, types.StatusFail},
		{"tmp missing noexec", "fs-tmp-separate", func(h *probetest.Host) {
			h.Files[procMounts] = "tmpfs /tmp tmpfs rw,nosuid,nodev 0 0\n"
		}, types.StatusWarn},
		{"tmp hardened", "fs-tmp-separate", func(h *probetest.Host) {
			h.Files[procMounts] = "tmpfs /tmp tmpfs rw,nosuid,nodev,noexec 0 0\n"
		}, types.StatusPass},
		{"vartmp absent", "fs-vartmp", func(h *probetest.Host) { h.Files[procMounts] = "" }, types.StatusWarn},
		{"cramfs loaded", "fs-cramfs", func(h *probetest.Host) {
			h.Files[procModules] = "squashfs 61440 0 - Live 0x0\n"
		}, types.StatusFail},
		{"cramfs partly blocked", "fs-cramfs", func(h *probetest.Host) {
			h.Files["/etc/modprobe.d/cis.conf"] = "install cramfs /bin/false\n"
		}, types.StatusWarn},
		{"cramfs blocked", "fs-cramfs", func(h *probetest.Host) {
			h.Files["/etc/modprobe.d/cis.conf"] = "install cramfs /bin/false\nblacklist squashfs\nblacklist udf\n"
		}, types.StatusPass},
		{"xinetd installed", "svc-xinetd", func(h *probetest.Host) {
			h.SetCommand(probe.CommandResult{Stdout: "xinetd-2.3.15-24.el8\n"}, "rpm", "-q", "xinetd")
		}, types.StatusFail},
		{"xinetd no rpm", "svc-xinetd", func(h *probetest.Host) {}, types.StatusPass},
		{"ntpd counts as time sync", "svc-chrony", func(h *probetest.Host) { h.ServiceActive("ntpd", true) }, types.StatusPass},
		{"no time sync", "svc-chrony", func(h *probetest.Host) {}, types.StatusFail},
		{"avahi running", "svc-avahi", func(h *probetest.Host) { h.ServiceActive("avahi-daemon", true) }, types.StatusFail},
		{"cups running", "svc-cups", func(h *probetest.Host) { h.ServiceActive("cups", true) }, types.StatusWarn},
		{"httpd running", "svc-unnecessary", func(h *probetest.Host) { h.ServiceActive("httpd", true) }, types.StatusWarn},
		{"nothing running", "svc-unnecessary", func(h *probetest.Host) {}, types.StatusPass},
		{"ip forward on", "net-ipforward", func(h *probetest.Host) { h.SetSysctl("net.ipv4.ip_forward", "1") }, types.StatusFail},
		{"ip forward unreadable", "net-ipforward", func(h *probetest.Host) {}, types.StatusFail},
		{"redirects half off", "net-icmp-redirect", func(h *probetest.Host) {
			h.SetSysctl("net.ipv4.conf.all.accept_redirects", "0")
			h.SetSysctl("net.ipv4.conf.default.accept_redirects", "1")
		}, types.StatusFail},
		{"redirects off", "net-icmp-redirect", func(h *probetest.Host) {
			h.SetSysctl("net.ipv4.conf.all.accept_redirects", "0")
			h.SetSysctl("net.ipv4.conf.default.accept_redirects", "0")
		}, types.StatusPass},
		{"auditd active not enabled", "audit-auditd", func(h *probetest.Host) {
			h.ServiceActive("auditd", true)
			h.ServiceEnabled("auditd", false)
		}, types.StatusWarn},
		{"identity rules partial", "audit-rules-identity", func(h *probetest.Host) {
			h.SetCommand(probe.CommandResult{Stdout: "-w /etc/passwd -p wa -k identity\n"}, "auditctl", "-l")
		}, types.StatusWarn},
		{"identity rules none", "audit-rules-identity", func(h *probetest.Host) {
			h.SetCommand(probe.CommandResult{Stdout: "-w /var/log/lastlog -p wa -k logins\n"}, "auditctl", "-l")
		}, types.StatusFail},
		{"identity rules empty", "audit-rules-identity", func(h *probetest.Host) {
			h.SetCommand(probe.CommandResult{Stdout: "No rules\n"}, "auditctl", "-l")
		}, types.StatusFail},
		{"auditctl missing", "audit-rules-identity", func(h *probetest.Host) {}, types.StatusUnknown},
		{"pwquality len only", "auth-pwquality", func(h *probetest.Host) { h.Files[pwqualityConf] = "minlen = 8\n" }, types.StatusWarn},
		{"pwquality weak", "auth-pwquality", func(h *probetest.Host) { h.Files[pwqualityConf] = "minlen = 6\nminclass = 1\n" }, types.StatusFail},
		{"pwquality missing", "auth-pwquality", func(h *probetest.Host) {}, types.StatusUnknown},
		{"faillock in password-auth", "auth-faillock", func(h *probetest.Host) {
			h.Files[passwordAuth] = "auth required pam_faillock.so preauth silent\n"
		}, types.StatusPass},
		{"faillock absent", "auth-faillock", func(h *probetest.Host) {}, types.StatusFail},
		{"tmout too long", "auth-tmout", func(h *probetest.Host) { h.Files["/etc/profile"] = "export TMOUT=3600\n" }, types.StatusFail},
		{"tmout in profile.d", "auth-tmout", func(h *probetest.Host) { h.Files["/etc/profile.d/z.sh"] = "TMOUT=600\n" }, types.StatusPass},
		{"umask loose", "auth-umask", func(h *probetest.Host) { h.Files["/etc/profile"] = "    umask 022\n" }, types.StatusFail},
		{"umask strict", "auth-umask", func(h *probetest.Host) { h.Files["/etc/bashrc"] = "umask 077\n" }, types.StatusPass},
		{"umask unset", "auth-umask", func(h *probetest.Host) {}, types.StatusWarn},
		{"shadow readable", "perms-passwd", func(h *probetest.Host) {
			h.Modes["/etc/passwd"] = 0o644
			h.Modes["/etc/shadow"] = 0o644
		}, types.StatusFail},
		{"shadow missing", "perms-passwd", func(h *probetest.Host) { h.Modes["/etc/passwd"] = 0o644 }, types.StatusUnknown},
		{"gshadow 640", "perms-group", func(h *probetest.Host) {
			h.Modes["/etc/group"] = 0o644
			h.Modes["/etc/gshadow"] = 0o640
		}, types.StatusPass},
		{"sshd_config 644", "perms-sshd-config", func(h *probetest.Host) { h.Modes[sshdConfig] = 0o644 }, types.StatusFail},
		{"setuid counts", "perms-sshd-config", func(h *probetest.Host) { h.Modes[sshdConfig] = fs.ModeSetuid | 0o600 }, types.StatusFail},
		{"cron dir open", "perms-crontab", func(h *probetest.Host) {
			h.Modes["/etc/crontab"] = 0o600
			h.Modes["/etc/cron.d"] = 0o755
		}, types.StatusFail},
		{"cron tidy", "perms-crontab", func(h *probetest.Host) {
			h.Modes["/etc/crontab"] = 0o600
			h.Modes["/etc/cron.daily"] = 0o700
		}, types.StatusPass},
		{"crontab missing", "perms-crontab", func(h *probetest.Host) {}, types.StatusUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			host := probetest.NewHost()
			tt.setup(host)
			assert.Equal(t, tt.want, check(t, mustRule(t, ProfileBaseline, host, tt.id)))
		})
	}
}

func TestFixes_ReachPass(t *testing.T) {
	tests := []struct {
		profile Profile
		id      string
		setup   func(h *probetest.Host)
	}{
		{ProfileHardening, "pam-minlen", func(h *probetest.Host) { h.Files[pwqualityConf] = "# minlen = 9\n" }},
		{ProfileHardening, "usb-blocked", func(h *probetest.Host) { h.Dirs[modprobeDir] = true }},
		{ProfileHardening, "kernel-aslr", func(h *probetest.Host) { h.SetSysctl("kernel.randomize_va_space", "0") }},
		{ProfileHardening, "kernel-syncookies", func(h *probetest.Host) { h.SetSysctl("net.ipv4.tcp_syncookies", "0") }},
		{ProfileBaseline, "fs-cramfs", func(h *probetest.Host) {}},
		{ProfileBaseline, "net-icmp-redirect", func(h *probetest.Host) {}},
		{ProfileBaseline, "net-source-route", func(h *probetest.Host) {}},
		{ProfileBaseline, "auth-pwquality", func(h *probetest.Host) { h.Files[pwqualityConf] = "minlen = 6\n" }},
		{ProfileBaseline, "auth-tmout", func(h *probetest.Host) {}},
		{ProfileBaseline, "perms-passwd", func(h *probetest.Host) {
			h.Modes["/etc/passwd"] = 0o666
			h.Modes["/etc/shadow"] = 0o644
		}},
		{ProfileBaseline, "perms-crontab", func(h *probetest.Host) {
			h.Modes["/etc/crontab"] = 0o644
			h.Modes["/etc/cron.d"] = 0o755
		}},
	}

	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			host := probetest.NewHost()
			tt.setup(host)
			r := mustRule(t, tt.profile, host, tt.id)
			s := engine.Evaluate([]types.Rule{r})

			out := engine.ApplyFix(r, s)

			require.True(t, out.OK, out.Message)
			st, _ := s.Status(tt.id)
			assert.Equal(t, types.StatusPass, st)
		})
	}
}

func TestFixes_ServiceRulesUseSystemctl(t *testing.T) {
	host := probetest.NewHost()
	host.Binaries["firewall-cmd"] = true
	host.FirewallRunning(false)
	host.OnPrivileged = func(h *probetest.Host, argv []string) {
		if len(argv) == 4 && argv[0] == "systemctl" && argv[1] == "enable" && argv[3] == "firewalld" {
			h.FirewallRunning(true)
		}
	}
	r := mustRule(t, ProfileHardening, host, "firewall")
	s := engine.Evaluate([]types.Rule{r})

	out := engine.ApplyFix(r, s)

	require.True(t, out.OK, out.Message)
	assert.Equal(t, []string{"systemctl", "enable", "--now", "firewalld"}, host.Elevated[0])
	st, _ := s.Status("firewall")
	assert.Equal(t, types.StatusPass, st)
}

func TestFixes_ServiceThatDoesNotStartIsDowngraded(t *testing.T) {
	host := probetest.NewHost()
	host.Binaries["systemctl"] = true
	host.ServiceActive("auditd", false)
	r := mustRule(t, ProfileHardening, host, "auditd")
	s := engine.Evaluate([]types.Rule{r})

	out := engine.ApplyFix(r, s)

	assert.False(t, out.OK)
	assert.Contains(t, out.Message, engine.MsgStillFailing)
}

func TestFixes_SysctlPersistenceFile(t *testing.T) {
	host := probetest.NewHost()
	host.SetSysctl("net.ipv4.ip_forward", "1")
	r := mustRule(t, ProfileBaseline, host, "net-ipforward")

	out := engine.ApplyFix(r, engine.Evaluate([]types.Rule{r}))

	require.True(t, out.OK, out.Message)
	assert.Equal(t, "net.ipv4.ip_forward = 0\n", host.Files[BaselineSysctlFile])
	_, touched := host.Files[HardeningSysctlFile]
	assert.False(t, touched)
}

func TestFixes_SysctlFileOverride(t *testing.T) {
	host := probetest.NewHost()
	host.SetSysctl("kernel.randomize_va_space", "0")
	env := testEnv(host)
	env.SysctlFile = "/etc/sysctl.d/50-harden.conf"
	r, ok := Find(Build(ProfileHardening, env), "kernel-aslr")
	require.True(t, ok)

	out := engine.ApplyFix(r, engine.Evaluate([]types.Rule{r}))

	require.True(t, out.OK, out.Message)
	assert.Equal(t, "kernel.randomize_va_space = 2\n", host.Files["/etc/sysctl.d/50-harden.conf"])
}

func TestFixes_SELinux(t *testing.T) {
	host := probetest.NewHost()
	host.SetCommand(probe.CommandResult{Stdout: "Permissive\n"}, "getenforce")
	host.Files[selinuxConfig] = "SELINUX=permissive\nSELINUXTYPE=targeted\n"
	host.OnPrivileged = func(h *probetest.Host, argv []string) {
		if argv[0] == "setenforce" {
			h.SetCommand(probe.CommandResult{Stdout: "Enforcing\n"}, "getenforce")
		}
	}
	r := mustRule(t, ProfileHardening, host, "selinux-enforcing")
	s := engine.Evaluate([]types.Rule{r})

	out := engine.ApplyFix(r, s)

	require.True(t, out.OK, out.Message)
	assert.Equal(t, "SELINUX=enforcing\nSELINUXTYPE=targeted\n", host.Files[selinuxConfig])
	st, _ := s.Status("selinux-enforcing")
	assert.Equal(t, types.StatusPass, st)
}

// stockSELinuxConfig is /etc/selinux/config as shipped by RHEL-family distributions.
const stockSELinuxConfig = `
# This file controls the state of SELinux on the system.
# SELINUX= can take one of these three values:
#     enforcing - SELinux security policy is enforced.
#     permissive - SELinux prints warnings instead of enforcing.
#     disabled - No SELinux policy is loaded.
SELINUX=permissive
# SELINUXTYPE= can take one of these three values:
#     targeted - Targeted processes are protected,
#     minimum - Modification of targeted policy. Only selected processes are protected.
#     mls - Multi Level Security protection.
SELINUXTYPE=targeted
`

func activeSELinuxLines(content string) []string {
	var lines []string
	for _, l := range strings.Split(content, "\n") {
		if strings.HasPrefix(strings.TrimSpace(l), "SELINUX=") {
			lines = append(lines, l)
		}
	}
	return lines
}

func TestFixes_SELinuxStockConfigKeepsCommentHeader(t *testing.T) {
	host := probetest.NewHost()
	host.SetCommand(probe.CommandResult{Stdout: "Permissive\n"}, "getenforce")
	host.Files[selinuxConfig] = stockSELinuxConfig
	r := mustRule(t, ProfileHardening, host, "selinux-enforcing")

	out := engine.ApplyFix(r, engine.Evaluate([]types.Rule{r}))

	require.True(t, out.OK, out.Message)
	got := host.Files[selinuxConfig]
	assert.Equal(t, []string{"SELINUX=enforcing"}, activeSELinuxLines(got))
	assert.Contains(t, got, "# SELINUX= can take one of these three values:\n")
	assert.Contains(t, got, "SELINUXTYPE=targeted\n")
	assert.Equal(t, strings.Replace(stockSELinuxConfig, "SELINUX=permissive", "SELINUX=enforcing", 1), got)
}

func TestFixes_SELinuxCommentedOnlyAppends(t *testing.T) {
	host := probetest.NewHost()
	host.SetCommand(probe.CommandResult{Stdout: "Disabled\n"}, "getenforce")
	host.Files[selinuxConfig] = "# SELINUX= can take one of these three values:\n#SELINUX=disabled\n"
	r := mustRule(t, ProfileHardening, host, "selinux-enforcing")

	engine.ApplyFix(r, engine.Evaluate([]types.Rule{r}))

	got := host.Files[selinuxConfig]
	assert.Equal(t, []string{"SELINUX=enforcing"}, activeSELinuxLines(got))
	assert.True(t, strings.HasPrefix(got, "# SELINUX= can take one of these three values:\n#SELINUX=disabled\n"))
}

func TestFixes_IdentityRulesLoadFailureStillWritten(t *testing.T) {
	host := probetest.NewHost()
	host.SetCommand(probe.CommandResult{Stdout: "No rules\n"}, "auditctl", "-l")
	host.Privileged["augenrules --load"] = failed("augenrules: No change")
	r := mustRule(t, ProfileBaseline, host, "audit-rules-identity")
	s := engine.Evaluate([]types.Rule{r})

	out := engine.ApplyFix(r, s)

	assert.Contains(t, host.Files[identityRules], "-w /etc/gshadow -p wa -k identity\n")
	assert.False(t, out.OK, "auditctl still reports no rules, so the re-check downgrades")
	assert.Contains(t, out.Message, "augenrules --load failed")
}
