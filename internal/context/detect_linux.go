//go:build linux

package context

import (
	"bytes"
	"os"
	"runtime"
	"strings"

	"github.com/shirou/gopsutil/v4/host"

	"github.com/ancients-collective/harden/internal/log"
	"github.com/ancients-collective/harden/internal/types"
)

// Replaced in tests.
var (
	hostInfo       = host.Info
	virtualization = host.Virtualization
)

// linuxPaths are the files consulted for environment detection.
type linuxPaths struct {
	dockerenv    string
	containerenv string
	cgroup       string
	machineID    string
	sysVendor    string
	productName  string
	cpuinfo      string
	deviceTree   string
}

var defaultPaths = linuxPaths{
	dockerenv:    "/.dockerenv",
	containerenv: "/run/.containerenv",
	cgroup:       "/proc/self/cgroup",
	machineID:    "/etc/machine-id",
	sysVendor:    "/sys/class/dmi/id/sys_vendor",
	productName:  "/sys/class/dmi/id/product_name",
	cpuinfo:      "/proc/cpuinfo",
	deviceTree:   "/proc/device-tree/hypervisor/compatible",
}

// LinuxDetector implements OSDetector for Linux systems using gopsutil.
type LinuxDetector struct {
	paths linuxPaths
}

// NewOSDetector returns a LinuxDetector for Linux systems.
func NewOSDetector() OSDetector {
	return &LinuxDetector{paths: defaultPaths}
}

// DetectOS returns Linux OS information. gopsutil failures only lose the
// kernel version.
func (d *LinuxDetector) DetectOS() (types.OSInfo, error) {
	osInfo := types.OSInfo{Name: runtime.GOOS, Arch: runtime.GOARCH}
	if info, err := hostInfo(); err == nil {
		osInfo.Version = info.KernelVersion
	}
	return osInfo, nil
}

// DetectDistro returns distribution information parsed by gopsutil from
// /etc/os-release.
func (d *LinuxDetector) DetectDistro() (types.DistroInfo, error) {
	info, err := hostInfo()
	if err != nil {
		return types.DistroInfo{}, err
	}
	return types.DistroInfo{
		ID:      info.Platform,
		Version: info.PlatformVersion,
		Family:  info.PlatformFamily,
	}, nil
}

// DetectEnvironment classifies the host as container, VM or bare-metal,
// in that priority order, and collects its identity.
func (d *LinuxDetector) DetectEnvironment() (types.EnvInfo, error) {
	env := types.EnvInfo{Type: types.EnvBareMetal}

	if info, err := hostInfo(); err == nil && info.Hostname != "" {
		env.Hostname = info.Hostname
	} else if h, err := os.Hostname(); err == nil {
		env.Hostname = h
	}

	if data, err := os.ReadFile(d.paths.machineID); err == nil {
		env.MachineID = strings.TrimSpace(string(data))
	}

	if rt, ok := d.container(); ok {
		env.Type = types.EnvContainer
		env.Runtime = rt
	} else if hv, ok := d.vm(); ok {
		env.Type = types.EnvVM
		env.Runtime = hv
	}

	return env, nil
}

var containerRuntimes = map[string]bool{
	"docker":         true,
	"lxc":            true,
	"podman":         true,
	"systemd-nspawn": true,
}

// container checks gopsutil first, then marker files and cgroup contents.
func (d *LinuxDetector) container() (string, bool) {
	if role, virt, err := virtualization(); err == nil && role == "guest" && containerRuntimes[virt] {
		return virt, true
	}

	if _, err := os.Lstat(d.paths.dockerenv); err == nil {
		return "docker", true
	}
	if _, err := os.Lstat(d.paths.containerenv); err == nil {
		return "podman", true
	}

	if data, err := os.ReadFile(d.paths.cgroup); err == nil {
		for _, m := range []struct{ marker, runtime string }{
			{"docker", "docker"},
			{"kubepods", "kubernetes"},
			{"lxc", "lxc"},
		} {
			if bytes.Contains(data, []byte(m.marker)) {
				return m.runtime, true
			}
		}
	}

	return "", false
}

// vendorHypervisors maps DMI sys_vendor substrings to hypervisor names.
var vendorHypervisors = []struct{ substr, hv string }{
	{"qemu", "kvm"},
	{"bochs", "kvm"},
	{"innotek gmbh", "virtualbox"},
	{"vmware, inc.", "vmware"},
	{"microsoft corporation", "hyper-v"},
	{"xen", "xen"},
	{"amazon ec2", "aws-nitro"},
	{"google", "gce"},
	{"yandex", "yandex-cloud"},
}

// productHypervisors maps DMI product_name substrings to hypervisor names.
var productHypervisors = []struct{ substr, hv string }{
	{"kvm", "kvm"},
	{"virtualbox", "virtualbox"},
	{"vmware", "vmware"},
	{"standard pc", "kvm"},
	{"bhyve", "bhyve"},
	{"virtual machine", "hyper-v"},
}

// vm checks gopsutil first, then DMI, cpuinfo and device-tree.
func (d *LinuxDetector) vm() (string, bool) {
	if role, virt, err := virtualization(); err == nil && role == "guest" && virt != "" && !containerRuntimes[virt] {
		return virt, true
	}

	if hv, ok := matchFile(d.paths.sysVendor, vendorHypervisors); ok {
		return hv, true
	}
	if hv, ok := matchFile(d.paths.productName, productHypervisors); ok {
		return hv, true
	}

	if data, err := os.ReadFile(d.paths.cpuinfo); err == nil {
		for _, line := range strings.Split(string(data), "\n") {
			if strings.HasPrefix(line, "flags") && strings.Contains(line, " hypervisor") {
				return "unknown", true
			}
		}
	}

	if data, err := os.ReadFile(d.paths.deviceTree); err == nil {
		dt := strings.ReplaceAll(strings.TrimSpace(strings.ToLower(string(data))), "\x00", "")
		switch {
		case strings.Contains(dt, "kvm"):
			return "kvm", true
		case strings.Contains(dt, "xen"):
			return "xen", true
		default:
			return dt, true
		}
	}

	log.Debugf("VM detection: no hypervisor indicators found")
	return "", false
}

func matchFile(path string, table []struct{ substr, hv string }) (string, bool) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", false
	}
	v := strings.TrimSpace(strings.ToLower(string(data)))
	for _, m := range table {
		if strings.Contains(v, m.substr) {
			return m.hv, true
		}
	}
	return "", false
}
