package types

// Valid environment types.
const (
	EnvContainer = "container"
	EnvVM        = "vm"
	EnvBareMetal = "bare-metal"
)

// SystemContext holds information about the host being audited.
// It is populated by the context detection package and feeds the report header.
type SystemContext struct {
	// OS contains operating system information.
	OS OSInfo

	// Distro contains Linux distribution information.
	Distro DistroInfo

	// Environment contains execution environment information.
	Environment EnvInfo
}

// OSInfo holds operating system details.
type OSInfo struct {
	// Name is the OS identifier (e.g., "linux", "darwin").
	Name string

	// Version is the kernel version string.
	Version string

	// Arch is the CPU architecture (e.g., "amd64", "arm64").
	Arch string
}

// DistroInfo holds Linux distribution details.
// Empty on non-Linux systems.
type DistroInfo struct {
	// ID is the distribution identifier (e.g., "redos", "rhel", "ubuntu").
	ID string

	// Version is the distribution version (e.g., "7.3", "9", "22.04").
	Version string

	// Family is the distribution family (e.g., "rhel", "debian").
	Family string
}

// EnvInfo holds execution environment details.
type EnvInfo struct {
	// Type is the environment category: "container", "vm", or "bare-metal".
	Type string

	// Runtime is the specific runtime (e.g., "docker", "podman", "kvm").
	Runtime string

	// Hostname is the system hostname.
	Hostname string

	// MachineID is the stable machine identifier (from /etc/machine-id on Linux).
	MachineID string
}

// ReportSystem projects the context into its report representation.
func (c SystemContext) ReportSystem(isRoot bool) *ReportSystem {
	return &ReportSystem{
		OS:            c.OS.Name,
		OSVersion:     c.OS.Version,
		Arch:          c.OS.Arch,
		DistroID:      c.Distro.ID,
		DistroVersion: c.Distro.Version,
		DistroFamily:  c.Distro.Family,
		EnvType:       c.Environment.Type,
		EnvRuntime:    c.Environment.Runtime,
		MachineID:     c.Environment.MachineID,
		IsRoot:        isRoot,
	}
}
