// Package config reads and validates the optional harden YAML configuration.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// DefaultPath is read when --config is not given and the file exists.
const DefaultPath = "/etc/harden/config.yaml"

// ruleIDPattern matches rule identifiers such as "ssh-root" or "perms-passwd".
var ruleIDPattern = regexp.MustCompile(`^[a-z0-9][a-z0-9_-]*$`)

// commandPattern matches an elevation command name or absolute path.
var commandPattern = regexp.MustCompile(`^/?[A-Za-z0-9_./-]+$`)

// nonInteractiveFlag makes the elevation helper fail instead of prompting.
const nonInteractiveFlag = "-n"

// promptingHelpers ask for a password unless nonInteractiveFlag is given.
var promptingHelpers = map[string]bool{"sudo": true, "doas": true}

// Config is the on-disk configuration. Zero values mean "use the default".
type Config struct {
	Profile    string    `yaml:"profile" validate:"omitempty,oneof=hardening baseline all"`
	Disabled   []string  `yaml:"disabled" validate:"dive,rule_id"`
	Categories []string  `yaml:"categories" validate:"dive,required"`
	Elevation  Elevation `yaml:"elevation"`
	SysctlFile string    `yaml:"sysctl_file" validate:"omitempty,startswith=/"`
	Report     Report    `yaml:"report"`
	Log        Log       `yaml:"log"`
}

// Elevation selects the non-interactive privilege command.
type Elevation struct {
	Command string   `yaml:"command" validate:"omitempty,command"`
	Args    []string `yaml:"args" validate:"dive,required,startswith=-"`
}

// Report configures report rendering.
type Report struct {
	Title  string `yaml:"title" validate:"max=200"`
	Format string `yaml:"format" validate:"omitempty,oneof=text console json jsonl"`
}

// Log configures the logger.
type Log struct {
	Level string `yaml:"level" validate:"omitempty,oneof=debug info warn error"`
}

// Default returns the configuration used when no file is present.
func Default() Config {
	return Config{
		Profile: "hardening",
		Elevation: Elevation{
			Command: "sudo",
			Args:    []string{"-n"},
		},
		Log: Log{Level: "warn"},
	}
}

// Loader parses configuration files and checks disabled rule ids against
// the known catalogue.
type Loader struct {
	validate *validator.Validate
	knownIDs map[string]struct{}
}

// New creates a Loader. An empty knownIDs skips the catalogue check.
func New(knownIDs []string) *Loader {
	v := validator.New()

	_ = v.RegisterValidation("rule_id", func(fl validator.FieldLevel) bool {
		return ruleIDPattern.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("command", func(fl validator.FieldLevel) bool {
		return commandPattern.MatchString(fl.Field().String())
	})

	v.RegisterStructValidation(validateElevation, Elevation{})

	ids := make(map[string]struct{}, len(knownIDs))
	for _, id := range knownIDs {
		ids[id] = struct{}{}
	}

	return &Loader{validate: v, knownIDs: ids}
}

// Load reads and validates a configuration file. Values missing from the
// file keep their defaults.
func (l *Loader) Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read %q: %w", path, err)
	}

	cfg, err := l.Parse(data)
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// LoadOptional behaves like Load but returns Default when path does not exist.
func (l *Loader) LoadOptional(path string) (Config, error) {
	cfg, err := l.Load(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Default(), nil
	}
	return cfg, err
}

// Parse decodes YAML over the defaults. Unknown keys are rejected.
func (l *Loader) Parse(data []byte) (Config, error) {
	cfg := Default()

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := l.Validate(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate runs the struct-tag rules and the catalogue check.
func (l *Loader) Validate(cfg Config) error {
	if err := l.validate.Struct(cfg); err != nil {
		return formatValidationErrors(err)
	}

	if len(l.knownIDs) == 0 {
		return nil
	}
	for _, id := range cfg.Disabled {
		if _, ok := l.knownIDs[id]; !ok {
			return fmt.Errorf("disabled: unknown rule id %q (known ids: %s)", id, l.knownIDList())
		}
	}
	return nil
}

// validateElevation requires -n for helpers that would otherwise block on a
// password prompt.
func validateElevation(sl validator.StructLevel) {
	e := sl.Current().Interface().(Elevation)
	if !promptingHelpers[filepath.Base(e.Command)] {
		return
	}
	if !slices.Contains(e.Args, nonInteractiveFlag) {
		sl.ReportError(e.Args, "Args", "Args", "non_interactive", filepath.Base(e.Command))
	}
}

// formatValidationErrors converts validator errors into user-friendly messages.
func formatValidationErrors(err error) error {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return err
	}

	messages := make([]string, 0, len(validationErrors))
	for _, fe := range validationErrors {
		messages = append(messages, formatFieldError(fe))
	}
	return fmt.Errorf("validation failed: %s", strings.Join(messages, "; "))
}

func formatFieldError(fe validator.FieldError) string {
	field := fe.Namespace()
	if i := strings.Index(field, "."); i >= 0 {
		field = field[i+1:]
	}

	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s must not be empty", field)
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, fe.Param())
	case "startswith":
		return fmt.Sprintf("%s must start with %q", field, fe.Param())
	case "rule_id":
		return fmt.Sprintf("%s must be a lowercase rule id (letters, digits, '-' and '_')", field)
	case "command":
		return fmt.Sprintf("%s must be a command name or absolute path without spaces", field)
	case "non_interactive":
		return fmt.Sprintf("%s must include %q so %s never prompts for a password", field, nonInteractiveFlag, fe.Param())
	default:
		return fmt.Sprintf("%s failed validation: %s", field, fe.Tag())
	}
}

func (l *Loader) knownIDList() string {
	names := make([]string, 0, len(l.knownIDs))
	for id := range l.knownIDs {
		names = append(names, id)
	}
	sort.Strings(names)
	return strings.Join(names, ", ")
}
