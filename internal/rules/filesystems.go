package rules

import (
	"regexp"
	"slices"
	"strings"

	"github.com/ancients-collective/harden/internal/types"
)

const (
	catUSB         = "USB"
	catFilesystems = "Файловые системы"
)

const (
	usbBlockConf = "/etc/modprobe.d/usb-block.conf"
	cisFSConf    = "/etc/modprobe.d/cis-filesystem.conf"
)

var usbStorageBlocked = regexp.MustCompile(`(?im)^(blacklist|install)\s+usb[-_]storage`)

// rareFilesystems are kernel filesystem modules with no place on a server.
var rareFilesystems = []string{"cramfs", "squashfs", "udf"}

func (c *catalog) usbBlocked() types.Rule {
	return types.Rule{
		ID:       "usb-blocked",
		Category: catUSB,
		Title:    "usb-storage заблокирован в modprobe",
		Hint:     "Добавьте в /etc/modprobe.d/usb-block.conf: blacklist usb-storage",
		Check: func() (types.Status, error) {
			return passIf(c.modprobeMatches(usbStorageBlocked)), nil
		},
		Fix: func() types.FixOutcome {
			return c.env.Priv.Write(usbBlockConf, "blacklist usb-storage\ninstall usb-storage /bin/false\n")
		},
	}
}

// fsTmpSeparate has no fix: repartitioning cannot be automated safely.
func (c *catalog) fsTmpSeparate() types.Rule {
	return types.Rule{
		ID:       "fs-tmp-separate",
		Category: catFilesystems,
		Title:    "/tmp — отдельный раздел с noexec,nosuid,nodev",
		Hint:     "Выделите /tmp в отдельный раздел. Добавьте noexec,nosuid,nodev в /etc/fstab",
		Check: func() (types.Status, error) {
			opts, ok := c.mountOptions("/tmp")
			if !ok {
				return types.StatusFail, nil
			}
			for _, want := range []string{"noexec", "nosuid", "nodev"} {
				if !slices.Contains(opts, want) {
					return types.StatusWarn, nil
				}
			}
			return types.StatusPass, nil
		},
	}
}

func (c *catalog) fsVarTmp() types.Rule {
	return types.Rule{
		ID:       "fs-vartmp",
		Category: catFilesystems,
		Title:    "/var/tmp — отдельный раздел или bind-mount",
		Hint:     "Выделите /var/tmp в отдельный раздел или смонтируйте bind к /tmp",
		Check: func() (types.Status, error) {
			if _, ok := c.mountOptions("/var/tmp"); ok {
				return types.StatusPass, nil
			}
			return types.StatusWarn, nil
		},
	}
}

func (c *catalog) fsCramfs() types.Rule {
	return types.Rule{
		ID:       "fs-cramfs",
		Category: catFilesystems,
		Title:    "cramfs, squashfs, udf заблокированы",
		Hint:     "Добавьте blacklist в /etc/modprobe.d/ и install <mod> /bin/false",
		Check: func() (types.Status, error) {
			for _, m := range rareFilesystems {
				if c.moduleLoaded(m) {
					return types.StatusFail, nil
				}
			}
			for _, m := range rareFilesystems {
				if !c.modprobeMatches(blockedModulePattern(m)) {
					return types.StatusWarn, nil
				}
			}
			return types.StatusPass, nil
		},
		Fix: func() types.FixOutcome {
			var b strings.Builder
			for _, m := range rareFilesystems {
				b.WriteString("blacklist " + m + "\n")
				b.WriteString("install " + m + " /bin/false\n")
			}
			return c.env.Priv.Write(cisFSConf, b.String())
		},
	}
}
