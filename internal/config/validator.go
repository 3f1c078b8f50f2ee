package config

import (
	"fmt"
	"net/url"
	"strings"

	fmierrors "github.com/halentin/FMI-Viewer/internal/errors"
	"github.com/sirupsen/logrus"
)

// ValidationContext specifies what configuration is required
type ValidationContext string

const (
	// ValidationContextInspect - inspect/entries/platforms need output and cache settings
	ValidationContextInspect ValidationContext = "inspect"
	// ValidationContextBatch - batch additionally needs a sane worker count
	ValidationContextBatch ValidationContext = "batch"
	// ValidationContextCatalog - catalog commands need a reachable backend definition
	ValidationContextCatalog ValidationContext = "catalog"
	// ValidationContextServe - the tool server uses the cache only
	ValidationContextServe ValidationContext = "serve"
	// ValidationContextAll - validate all configuration
	ValidationContextAll ValidationContext = "all"
)

var validFormats = map[string]bool{
	"auto": true, "quiet": true, "standard": true, "text": true,
	"explain": true, "verbose": true, "json": true, "yaml": true, "yml": true,
}

// ValidationResult holds validation results
type ValidationResult struct {
	Valid    bool
	Errors   []string
	Warnings []string
}

// AddError adds an error to the validation result
func (vr *ValidationResult) AddError(format string, args ...interface{}) {
	vr.Valid = false
	vr.Errors = append(vr.Errors, fmt.Sprintf(format, args...))
}

// AddWarning adds a warning to the validation result
func (vr *ValidationResult) AddWarning(format string, args ...interface{}) {
	vr.Warnings = append(vr.Warnings, fmt.Sprintf(format, args...))
}

// HasErrors returns true if there are any errors
func (vr *ValidationResult) HasErrors() bool {
	return !vr.Valid || len(vr.Errors) > 0
}

// Error returns a formatted error message
func (vr *ValidationResult) Error() string {
	if !vr.HasErrors() {
		return ""
	}

	var sb strings.Builder
	sb.WriteString("Configuration validation failed:\n")
	for _, err := range vr.Errors {
		sb.WriteString(fmt.Sprintf("  ❌ %s\n", err))
	}

	if len(vr.Warnings) > 0 {
		sb.WriteString("\nWarnings:\n")
		for _, warn := range vr.Warnings {
			sb.WriteString(fmt.Sprintf("  ⚠️  %s\n", warn))
		}
	}

	return sb.String()
}

// Validate validates configuration for the given context
func (c *Config) Validate(ctx ValidationContext) *ValidationResult {
	result := &ValidationResult{Valid: true}

	switch ctx {
	case ValidationContextInspect:
		c.validateOutput(result)
		c.validateCache(result)
	case ValidationContextBatch:
		c.validateOutput(result)
		c.validateCache(result)
		c.validateBatch(result)
	case ValidationContextCatalog:
		c.validateCatalog(result)
		c.validateCache(result)
	case ValidationContextServe:
		c.validateCache(result)
	case ValidationContextAll:
		c.validateOutput(result)
		c.validateCache(result)
		c.validateCatalog(result)
		c.validateBatch(result)
		c.validateLog(result)
	}

	return result
}

// ValidateOrError validates and returns a config error when invalid. Warnings
// are passed to warn, which may be nil.
func (c *Config) ValidateOrError(ctx ValidationContext, warn func(string)) error {
	result := c.Validate(ctx)
	if result.HasErrors() {
		return fmierrors.ConfigError(strings.TrimSpace(result.Error()))
	}
	if warn != nil {
		for _, w := range result.Warnings {
			warn(w)
		}
	}
	return nil
}

func (c *Config) validateOutput(result *ValidationResult) {
	if !validFormats[strings.ToLower(c.Output.Format)] {
		result.AddError("output.format %q is not one of auto, quiet, standard, explain, json, yaml", c.Output.Format)
	}
}

func (c *Config) validateCache(result *ValidationResult) {
	if c.Cache.Enabled && c.Cache.Path == "" {
		result.AddError("cache.path is required when the cache is enabled")
	}
}

func (c *Config) validateBatch(result *ValidationResult) {
	if c.Batch.Workers < 0 {
		result.AddError("batch.workers must be >= 0 (got %d)", c.Batch.Workers)
	} else if c.Batch.Workers > 64 {
		result.AddWarning("batch.workers=%d is unusually high; archives are read from local disk", c.Batch.Workers)
	}
}

func (c *Config) validateCatalog(result *ValidationResult) {
	switch c.Catalog.Driver {
	case "sqlite":
		if c.Catalog.SQLitePath == "" {
			result.AddError("catalog.sqlite_path is required for the sqlite driver")
		}
	case "postgres":
		if c.Catalog.PostgresDSN == "" {
			result.AddError("catalog.postgres_dsn (or DATABASE_URL) is required for the postgres driver")
			return
		}
		if strings.Contains(c.Catalog.PostgresDSN, "://") {
			u, err := url.Parse(c.Catalog.PostgresDSN)
			if err != nil {
				result.AddError("catalog.postgres_dsn is not a valid URL: %v", err)
				return
			}
			if u.Scheme != "postgres" && u.Scheme != "postgresql" {
				result.AddError("catalog.postgres_dsn scheme must be postgres or postgresql (got %q)", u.Scheme)
			}
			if u.Query().Get("sslmode") == "disable" && u.Hostname() != "localhost" && u.Hostname() != "127.0.0.1" {
				result.AddWarning("catalog.postgres_dsn disables TLS for remote host %s", u.Hostname())
			}
		}
	default:
		result.AddError("catalog.driver %q is not one of sqlite, postgres", c.Catalog.Driver)
	}
}

func (c *Config) validateLog(result *ValidationResult) {
	if _, err := logrus.ParseLevel(c.Log.Level); err != nil {
		result.AddError("log.level: %v", err)
	}
	if c.Log.File != "" && c.Log.MaxSizeMB <= 0 {
		result.AddWarning("log.max_size_mb <= 0 disables rotation for %s", c.Log.File)
	}
}
