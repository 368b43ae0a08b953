package rules

import (
	"errors"
	"path"
	"regexp"
	"strconv"
	"strings"

	"github.com/ancients-collective/harden/internal/patch"
	"github.com/ancients-collective/harden/internal/probe"
	"github.com/ancients-collective/harden/internal/types"
)

const (
	catPAM  = "PAM / Пароли"
	catAuth = "Аутентификация"
)

var (
	pamMinlenArg   = regexp.MustCompile(`(?i)minlen=(\d+)`)
	pamQualityMod  = regexp.MustCompile(`pam_pwquality|pam_cracklib`)
	tmoutAssign    = regexp.MustCompile(`(?im)^\s*(?:readonly\s+|export\s+)?TMOUT\s*=\s*(\d+)`)
	umaskDirective = regexp.MustCompile(`(?im)^\s*umask\s+(\d+)`)
)

func (c *catalog) pamMinLen() types.Rule {
	return types.Rule{
		ID:       "pam-minlen",
		Category: catPAM,
		Title:    "Минимальная длина пароля ≥ 8",
		Hint:     "Установите minlen = 8  в /etc/security/pwquality.conf",
		Check: func() (types.Status, error) {
			if n, ok := assignInt(c.readOrEmpty(pwqualityConf), "minlen"); ok {
				return atLeast(n, 8), nil
			}
			if m := pamMinlenArg.FindStringSubmatch(c.readOrEmpty(commonPassword)); m != nil {
				n, err := strconv.Atoi(m[1])
				if err != nil {
					return types.StatusUnknown, err
				}
				return atLeast(n, 8), nil
			}
			return types.StatusUnknown, nil
		},
		Fix: func() types.FixOutcome {
			return c.env.Patch.Directive(pwqualityConf, patch.AssignPattern("minlen"), "minlen = 8")
		},
	}
}

// pamPwquality has no fix: a broken PAM stack can lock every user out.
func (c *catalog) pamPwquality() types.Rule {
	return types.Rule{
		ID:       "pam-pwquality",
		Category: catPAM,
		Title:    "pam_pwquality или pam_cracklib подключён",
		Hint:     "Добавьте в /etc/pam.d/common-password: password requisite pam_pwquality.so",
		Check: func() (types.Status, error) {
			var lastErr error
			for _, p := range []string{commonPassword, systemAuth} {
				content, err := c.env.Probe.ReadTextFile(p)
				if err := unknownIfAbsent(p, content, err); err != nil {
					lastErr = err
					continue
				}
				if pamQualityMod.MatchString(content) {
					return types.StatusPass, nil
				}
				return types.StatusFail, nil
			}
			return types.StatusUnknown, lastErr
		},
	}
}

func (c *catalog) authPwquality() types.Rule {
	return types.Rule{
		ID:       "auth-pwquality",
		Category: catAuth,
		Title:    "Парольная политика: minlen ≥ 8, minclass ≥ 3",
		Hint:     "Настройте /etc/security/pwquality.conf: minlen = 8, minclass = 3",
		Check: func() (types.Status, error) {
			content, err := c.env.Probe.ReadTextFile(pwqualityConf)
			if err := unknownIfAbsent(pwqualityConf, content, err); err != nil {
				return types.StatusUnknown, err
			}
			minlen, ok := assignInt(content, "minlen")
			lenOK := ok && minlen >= 8
			minclass, ok := assignInt(content, "minclass")
			classOK := ok && minclass >= 3

			switch {
			case lenOK && classOK:
				return types.StatusPass, nil
			case lenOK || classOK:
				return types.StatusWarn, nil
			default:
				return types.StatusFail, nil
			}
		},
		Fix: func() types.FixOutcome {
			return patch.Combine(
				c.env.Patch.Directive(pwqualityConf, patch.AssignPattern("minlen"), "minlen = 8"),
				c.env.Patch.Directive(pwqualityConf, patch.AssignPattern("minclass"), "minclass = 3"),
			)
		},
	}
}

func (c *catalog) authFaillock() types.Rule {
	return types.Rule{
		ID:       "auth-faillock",
		Category: catAuth,
		Title:    "Блокировка после неудачных попыток (pam_faillock)",
		Hint:     "Настройте faillock: deny = 5, unlock_time = 900",
		Check: func() (types.Status, error) {
			content := c.readOrEmpty(systemAuth) + c.readOrEmpty(passwordAuth)
			if strings.Contains(content, "pam_faillock") {
				return types.StatusPass, nil
			}
			return types.StatusFail, nil
		},
	}
}

func (c *catalog) authTmout() types.Rule {
	return types.Rule{
		ID:       "auth-tmout",
		Category: catAuth,
		Title:    "Таймаут сессии (TMOUT ≤ 900)",
		Hint:     "Добавьте TMOUT=900 в /etc/profile.d/tmout.sh",
		Check: func() (types.Status, error) {
			files := []string{"/etc/profile", "/etc/bashrc"}
			if names, err := c.env.Probe.ReadDir("/etc/profile.d"); err == nil {
				for _, n := range names {
					files = append(files, path.Join("/etc/profile.d", n))
				}
			}
			for _, f := range files {
				m := tmoutAssign.FindStringSubmatch(c.readOrEmpty(f))
				if m == nil {
					continue
				}
				if n, err := strconv.Atoi(m[1]); err == nil && n <= 900 {
					return types.StatusPass, nil
				}
			}
			return types.StatusFail, nil
		},
		Fix: func() types.FixOutcome {
			return c.env.Priv.Write("/etc/profile.d/tmout.sh", "readonly TMOUT=900\nexport TMOUT\n")
		},
	}
}

func (c *catalog) authUmask() types.Rule {
	return types.Rule{
		ID:       "auth-umask",
		Category: catAuth,
		Title:    "Umask ≥ 027",
		Hint:     "Установите umask 027 в /etc/bashrc и /etc/profile",
		Check: func() (types.Status, error) {
			m := umaskDirective.FindStringSubmatch(c.readOrEmpty("/etc/bashrc") + c.readOrEmpty("/etc/profile"))
			if m == nil {
				return types.StatusWarn, nil
			}
			v, err := strconv.ParseUint(m[1], 8, 32)
			if err != nil {
				return types.StatusUnknown, &probe.Error{Op: "parse", Target: "umask", Err: errors.New("not an octal value: " + m[1])}
			}
			if v >= 0o027 {
				return types.StatusPass, nil
			}
			return types.StatusFail, nil
		},
	}
}

func atLeast(n, want int) types.Status {
	if n >= want {
		return types.StatusPass
	}
	return types.StatusFail
}
