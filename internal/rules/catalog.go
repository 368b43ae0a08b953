package rules

import "github.com/ancients-collective/harden/internal/types"

// hardening is the general host hardening catalogue.
func (c *catalog) hardening() []types.Rule {
	return []types.Rule{
		c.sshRoot(),
		c.sshPasswordAuth(),
		c.sshMaxAuthTries(),
		c.pamMinLen(),
		c.pamPwquality(),
		c.firewall(),
		c.selinuxEnforcing(),
		c.auditd(),
		c.usbBlocked(),
		c.kernelASLR(),
		c.kernelSyncookies(),
	}
}

// baseline is the CIS benchmark subset for RedOS and RHEL family hosts.
func (c *catalog) baseline() []types.Rule {
	return []types.Rule{
		c.fsTmpSeparate(),
		c.fsVarTmp(),
		c.fsCramfs(),

		c.svcXinetd(),
		c.svcChrony(),
		c.svcAvahi(),
		c.svcCups(),
		c.svcUnnecessary(),

		c.netIPForward(),
		c.netICMPRedirect(),
		c.netSourceRoute(),
		c.netSyncookies(),

		c.auditAuditd(),
		c.auditIdentityRules(),
		c.auditRsyslog(),

		c.authPwquality(),
		c.authFaillock(),
		c.authTmout(),
		c.authUmask(),

		c.permsPasswd(),
		c.permsGroup(),
		c.permsSSHDConfig(),
		c.permsCrontab(),
	}
}
