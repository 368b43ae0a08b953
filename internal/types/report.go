package types

// Section is one category-grouped slice of a report.
// Lines holds the rendered rule lines (icon line plus optional hint line).
type Section struct {
	// Title is the category label.
	Title string `json:"title"`

	// Lines are the rendered rule lines, in registry order.
	Lines []string `json:"lines"`

	// Results carries the structured rule results behind Lines.
	Results []RuleResult `json:"results"`
}

// RuleResult is the structured view of one evaluated rule.
type RuleResult struct {
	ID       string `json:"id"`
	Category string `json:"category"`
	Title    string `json:"title"`
	Hint     string `json:"hint,omitempty"`
	Status   Status `json:"status"`
	Fixable  bool   `json:"fixable"`

	// Reason explains an unknown status when the probe reported a cause.
	Reason string `json:"reason,omitempty"`

	// LastFix is the outcome of the most recent fix attempt in this session.
	LastFix *FixOutcome `json:"last_fix,omitempty"`
}

// Summary provides aggregate statistics for a report.
// Unknown is excluded from the headline tally but still counted here.
type Summary struct {
	Total   int `json:"total"`
	Passed  int `json:"passed"`
	Failed  int `json:"failed"`
	Warned  int `json:"warned"`
	Unknown int `json:"unknown"`
}

// Report is the complete, render-ready projection of an evaluation session.
// Timestamp and Host are injected by the caller so rendering stays pure.
type Report struct {
	// Title is the report headline (e.g., "CIS Baseline — РедОС / RHEL").
	Title string `json:"title"`

	// Timestamp is the already-formatted local timestamp.
	Timestamp string `json:"timestamp"`

	// Host is the hostname; empty renders as "неизвестно".
	Host string `json:"host"`

	// SessionID identifies the evaluation session that produced the report.
	SessionID string `json:"session_id,omitempty"`

	// System describes the audited host (optional).
	System *ReportSystem `json:"system,omitempty"`

	Sections []Section `json:"sections"`
	Summary  Summary   `json:"summary"`
}

// ReportSystem describes the audited system.
type ReportSystem struct {
	OS            string `json:"os"`
	OSVersion     string `json:"os_version,omitempty"`
	Arch          string `json:"arch"`
	DistroID      string `json:"distro_id,omitempty"`
	DistroVersion string `json:"distro_version,omitempty"`
	DistroFamily  string `json:"distro_family,omitempty"`
	EnvType       string `json:"env_type,omitempty"`
	EnvRuntime    string `json:"env_runtime,omitempty"`
	MachineID     string `json:"machine_id,omitempty"`
	IsRoot        bool   `json:"is_root"`
}
