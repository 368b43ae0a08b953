package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/ancients-collective/harden/internal/config"
	sysdetect "github.com/ancients-collective/harden/internal/context"
	"github.com/ancients-collective/harden/internal/engine"
	"github.com/ancients-collective/harden/internal/log"
	"github.com/ancients-collective/harden/internal/output"
	"github.com/ancients-collective/harden/internal/privilege"
	"github.com/ancients-collective/harden/internal/probe"
	"github.com/ancients-collective/harden/internal/rules"
	"github.com/ancients-collective/harden/internal/types"
)

// Exit codes.
const (
	exitClean   = 0
	exitError   = 1
	exitUnknown = 2
)

// timestampLayout renders report dates the way ru-RU locales do.
const timestampLayout = "02.01.2006, 15:04:05"

// app carries global flags, loaded configuration and the host adapters.
// Tests replace the adapters with in-memory doubles.
type app struct {
	stdout io.Writer
	stderr io.Writer

	// Global flags.
	configPath string
	profile    string
	noColor    bool
	logLevel   string

	cfg config.Config

	runner   probe.Runner
	prober   probe.Prober
	detector sysdetect.OSDetector
	now      func() time.Time
	isRoot   func() bool

	exitCode int
}

func newApp(stdout, stderr io.Writer) *app {
	return &app{
		stdout:   stdout,
		stderr:   stderr,
		cfg:      config.Default(),
		detector: sysdetect.NewOSDetector(),
		now:      time.Now,
		isRoot:   sysdetect.IsRoot,
	}
}

// setup loads configuration and applies global flags. Flags win over the file.
func (a *app) setup(cmd *cobra.Command) error {
	loader := config.New(knownIDs())

	var (
		cfg config.Config
		err error
	)
	if a.configPath != "" {
		cfg, err = loader.Load(a.configPath)
	} else {
		cfg, err = loader.LoadOptional(config.DefaultPath)
	}
	if err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	a.cfg = cfg

	if cmd.Flags().Changed("profile") {
		a.cfg.Profile = a.profile
	}

	level := a.cfg.Log.Level
	if a.logLevel != "" {
		level = a.logLevel
	}
	if level != "" {
		if err := log.SetLevelString(level); err != nil {
			return fmt.Errorf("invalid log level %q: %w", level, err)
		}
	}
	log.SetOutput(a.stderr)

	if a.noColor || output.IsDumbTerm() || !a.terminal() {
		color.NoColor = true
	}
	return nil
}

// knownIDs lists every rule id across all catalogues.
func knownIDs() []string {
	return rules.IDs(rules.Build(rules.ProfileAll, rules.Env{}))
}

func (a *app) selectedProfile() (rules.Profile, error) {
	return rules.ParseProfile(a.cfg.Profile)
}

func (a *app) hostRunner() probe.Runner {
	if a.runner == nil {
		a.runner = probe.ExecRunner{}
	}
	return a.runner
}

func (a *app) hostProber() probe.Prober {
	if a.prober == nil {
		a.prober = probe.NewSystem(a.hostRunner())
	}
	return a.prober
}

// catalogue builds the rule set for the selected profile with the
// configured elevation command and filters applied.
func (a *app) catalogue() (rules.Profile, []types.Rule, error) {
	profile, err := a.selectedProfile()
	if err != nil {
		return "", nil, err
	}

	priv := privilege.New(a.hostRunner(), a.cfg.Elevation.Command, a.cfg.Elevation.Args)
	env := rules.NewEnv(a.hostProber(), priv)
	env.SysctlFile = a.cfg.SysctlFile

	all := rules.Build(profile, env)
	return profile, rules.Filter(all, a.cfg.Disabled, a.cfg.Categories), nil
}

// report evaluates rules into a report with host details attached.
func (a *app) report(profile rules.Profile, rs []types.Rule, s *engine.Session) *types.Report {
	ctx, warnings, err := sysdetect.DetectSystemContext(a.detector)
	if err != nil {
		log.Warnf("system detection failed: %v", err)
	}
	for _, w := range warnings {
		log.Warnf("%s", w)
	}

	title := rules.Title(profile)
	if a.cfg.Report.Title != "" {
		title = a.cfg.Report.Title
	}

	r := output.NewReport(title, a.now().Format(timestampLayout), sysdetect.Hostname(ctx), rs, s)
	if err == nil {
		r.System = ctx.ReportSystem(a.isRoot())
	}
	return r
}

// terminal reports whether stdout is an interactive terminal.
func (a *app) terminal() bool {
	f, ok := a.stdout.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// width returns the terminal width, or 0 when unknown.
func (a *app) width() int {
	f, ok := a.stdout.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		return 0
	}
	if w, _, err := term.GetSize(int(f.Fd())); err == nil && w > 0 {
		return w
	}
	return 0
}

func (a *app) errorf(format string, args ...interface{}) {
	fmt.Fprintf(a.stderr, "  ✗ "+format+"\n", args...)
}

func (a *app) warnf(format string, args ...interface{}) {
	fmt.Fprintf(a.stderr, "  ⚠ "+format+"\n", args...)
}

// exitCodeFor maps a summary to the process exit code.
func exitCodeFor(s types.Summary) int {
	if s.Failed > 0 {
		return exitError
	}
	if s.Unknown > 0 {
		return exitUnknown
	}
	return exitClean
}
