package output

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/halentin/FMI-Viewer/internal/models"
	"golang.org/x/term"
)

// Formatter defines output formatting interface
type Formatter interface {
	Format(result *models.ParseResult, w io.Writer) error
}

// VerbosityLevel determines output detail
type VerbosityLevel int

const (
	VerbosityQuiet    VerbosityLevel = iota // One-line summary
	VerbosityStandard                       // Metadata, interfaces, variables
	VerbosityExplain                        // Standard plus types, units, entries
	VerbosityJSON                           // Machine-readable JSON
	VerbosityYAML                           // Machine-readable YAML
)

// NewFormatter creates appropriate formatter based on level
func NewFormatter(level VerbosityLevel) Formatter {
	switch level {
	case VerbosityQuiet:
		return &QuietFormatter{}
	case VerbosityStandard:
		return &StandardFormatter{}
	case VerbosityExplain:
		return &ExplainFormatter{}
	case VerbosityJSON:
		return &JSONFormatter{Indent: true}
	case VerbosityYAML:
		return &YAMLFormatter{}
	default:
		return &StandardFormatter{}
	}
}

// ParseVerbosity maps a format name from flags or config to a level.
// "auto" and "" pick the environment default for out.
func ParseVerbosity(name string, out *os.File) (VerbosityLevel, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "auto":
		return GetDefaultVerbosity(out), nil
	case "quiet":
		return VerbosityQuiet, nil
	case "standard", "text":
		return VerbosityStandard, nil
	case "explain", "verbose":
		return VerbosityExplain, nil
	case "json":
		return VerbosityJSON, nil
	case "yaml", "yml":
		return VerbosityYAML, nil
	default:
		return VerbosityStandard, fmt.Errorf("unknown output format %q (want quiet, standard, explain, json or yaml)", name)
	}
}

// GetDefaultVerbosity returns appropriate default based on environment:
// human-readable text on a terminal, JSON when piped.
func GetDefaultVerbosity(out *os.File) VerbosityLevel {
	// CI/CD context
	if os.Getenv("CI") == "true" {
		return VerbosityStandard
	}

	if out != nil && term.IsTerminal(int(out.Fd())) {
		return VerbosityStandard
	}
	return VerbosityJSON
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func modelLabel(r *models.ParseResult) string {
	if r.ModelName == "" {
		return "<unnamed model>"
	}
	return r.ModelName
}
