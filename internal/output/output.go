// Package output aggregates an evaluation session into report sections and
// renders reports as plain text, colored console output, JSON or JSONL.
package output

import (
	"fmt"
	"io"

	"github.com/ancients-collective/harden/internal/types"
)

// Formatter writes a report to the given writer.
type Formatter interface {
	Write(w io.Writer, report *types.Report) error
}

// Format names accepted by ForName.
const (
	FormatText    = "text"
	FormatConsole = "console"
	FormatJSON    = "json"
	FormatJSONL   = "jsonl"
)

// Formats lists every supported format.
var Formats = []string{FormatText, FormatConsole, FormatJSON, FormatJSONL}

// ForName returns the formatter for a format name. console configures the
// console formatter when that format is chosen.
func ForName(name string, console ConsoleFormatter) (Formatter, error) {
	switch name {
	case FormatText, "":
		return &TextFormatter{}, nil
	case FormatConsole:
		return &console, nil
	case FormatJSON:
		return &JSONFormatter{}, nil
	case FormatJSONL:
		return &JSONLFormatter{}, nil
	default:
		return nil, fmt.Errorf("unknown format %q (expected one of: text, console, json, jsonl)", name)
	}
}
