package config

import (
	"fmt"
	"net/url"
	"slices"
	"strings"

	"github.com/Iron-Ham/jdiff/internal/version"
)

// ValidationError represents a single validation failure
type ValidationError struct {
	Field   string // The config field path (e.g., "repository.cache_size")
	Value   any    // The invalid value
	Message string // Human-readable error description
}

// Error implements the error interface for ValidationError
func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s (got: %v)", e.Field, e.Message, e.Value)
}

// ValidationErrors is a collection of validation errors
type ValidationErrors []ValidationError

// Error implements the error interface for ValidationErrors
func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return ""
	}
	if len(e) == 1 {
		return e[0].Error()
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%d validation errors:\n", len(e)))
	for i, err := range e {
		sb.WriteString(fmt.Sprintf("  %d. %s\n", i+1, err.Error()))
	}
	return sb.String()
}

// ValidLogLevels returns the list of valid log levels
func ValidLogLevels() []string {
	return []string{"debug", "info", "warn", "error"}
}

// ValidLogFormats returns the list of valid log formats
func ValidLogFormats() []string {
	return []string{"json", "text"}
}

// ValidVariants returns the list of valid report variants
func ValidVariants() []string {
	return []string{"main", "test"}
}

// ValidProviders returns the list of supported SCM provider ids
func ValidProviders() []string {
	return []string{"git", "svn"}
}

// SplitCoordinates splits "groupId:artifactId:version" into its parts.
func SplitCoordinates(s string) (groupID, artifactID, ver string, err error) {
	parts := strings.Split(s, ":")
	if len(parts) != 3 || slices.Contains(parts, "") {
		return "", "", "", fmt.Errorf("expected groupId:artifactId:version, got %q", s)
	}
	return parts[0], parts[1], parts[2], nil
}

// Validate checks the Config for invalid values and returns all validation errors found
func (c *Config) Validate() []ValidationError {
	var errors []ValidationError

	errors = append(errors, c.validateReport()...)
	errors = append(errors, c.validateVersions()...)
	errors = append(errors, c.validateJavadoc()...)
	errors = append(errors, c.validateSCM()...)
	errors = append(errors, c.validateRepository()...)
	errors = append(errors, c.validateLogging()...)

	return errors
}

// validateReport validates the ReportConfig
func (c *Config) validateReport() []ValidationError {
	var errors []ValidationError

	if c.Report.Variant != "" && !slices.Contains(ValidVariants(), c.Report.Variant) {
		errors = append(errors, ValidationError{
			Field:   "report.variant",
			Value:   c.Report.Variant,
			Message: fmt.Sprintf("must be one of: %s", strings.Join(ValidVariants(), ", ")),
		})
	}

	// The summary file is written next to the report directory
	if strings.ContainsAny(c.Report.SummaryFile, `/\`) {
		errors = append(errors, ValidationError{
			Field:   "report.summary_file",
			Value:   c.Report.SummaryFile,
			Message: "must be a file name, not a path",
		})
	}

	paths := []struct{ field, value string }{
		{"report.output_dir", c.Report.OutputDir},
		{"report.dest_dir", c.Report.DestDir},
		{"report.working_dir", c.Report.WorkingDir},
	}
	for _, p := range paths {
		if strings.ContainsRune(p.value, '\x00') {
			errors = append(errors, ValidationError{
				Field:   p.field,
				Value:   p.value,
				Message: "path contains invalid null character",
			})
		}
	}

	return errors
}

// validateVersions validates the VersionsConfig
func (c *Config) validateVersions() []ValidationError {
	var errors []ValidationError

	if c.Versions.Comparison != "" {
		if _, err := version.ParseRange(c.Versions.Comparison); err != nil {
			errors = append(errors, ValidationError{
				Field:   "versions.comparison",
				Value:   c.Versions.Comparison,
				Message: "is not a valid version range",
			})
		}
	}
	if c.Versions.Base != "" {
		if _, err := version.ParseRange(c.Versions.Base); err != nil {
			errors = append(errors, ValidationError{
				Field:   "versions.base",
				Value:   c.Versions.Base,
				Message: "is not a valid version range",
			})
		}
	}

	return errors
}

// validateJavadoc validates the JavadocConfig
func (c *Config) validateJavadoc() []ValidationError {
	var errors []ValidationError

	// Coordinates are only needed when the doclet path is not given
	if len(c.Javadoc.DocletPath) > 0 {
		return errors
	}
	if _, _, _, err := SplitCoordinates(c.Javadoc.Doclet); err != nil {
		errors = append(errors, ValidationError{
			Field:   "javadoc.doclet",
			Value:   c.Javadoc.Doclet,
			Message: "must be groupId:artifactId:version",
		})
	}
	if _, _, _, err := SplitCoordinates(c.Javadoc.Xerces); err != nil {
		errors = append(errors, ValidationError{
			Field:   "javadoc.xerces",
			Value:   c.Javadoc.Xerces,
			Message: "must be groupId:artifactId:version",
		})
	}

	return errors
}

// validateSCM validates the SCMConfig
func (c *Config) validateSCM() []ValidationError {
	var errors []ValidationError

	if len(c.SCM.Providers) == 0 {
		errors = append(errors, ValidationError{
			Field:   "scm.providers",
			Value:   c.SCM.Providers,
			Message: "at least one provider must be enabled",
		})
	}
	for _, p := range c.SCM.Providers {
		if !slices.Contains(ValidProviders(), p) {
			errors = append(errors, ValidationError{
				Field:   "scm.providers",
				Value:   p,
				Message: fmt.Sprintf("must be one of: %s", strings.Join(ValidProviders(), ", ")),
			})
		}
	}

	return errors
}

// validateRepository validates the RepositoryConfig
func (c *Config) validateRepository() []ValidationError {
	var errors []ValidationError

	if !c.Repository.Offline {
		u, err := url.Parse(c.Repository.RemoteURL)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			errors = append(errors, ValidationError{
				Field:   "repository.remote_url",
				Value:   c.Repository.RemoteURL,
				Message: "must be an http or https URL",
			})
		}
	}

	const maxTimeoutSeconds = 600
	if c.Repository.TimeoutSeconds <= 0 {
		errors = append(errors, ValidationError{
			Field:   "repository.timeout_seconds",
			Value:   c.Repository.TimeoutSeconds,
			Message: "must be positive",
		})
	}
	if c.Repository.TimeoutSeconds > maxTimeoutSeconds {
		errors = append(errors, ValidationError{
			Field:   "repository.timeout_seconds",
			Value:   c.Repository.TimeoutSeconds,
			Message: fmt.Sprintf("exceeds maximum of %d seconds", maxTimeoutSeconds),
		})
	}

	// 0 disables the metadata cache
	if c.Repository.CacheSize < 0 {
		errors = append(errors, ValidationError{
			Field:   "repository.cache_size",
			Value:   c.Repository.CacheSize,
			Message: "must be non-negative",
		})
	}

	return errors
}

// validateLogging validates the LoggingConfig
func (c *Config) validateLogging() []ValidationError {
	var errors []ValidationError

	if c.Logging.Level != "" && !slices.Contains(ValidLogLevels(), c.Logging.Level) {
		errors = append(errors, ValidationError{
			Field:   "logging.level",
			Value:   c.Logging.Level,
			Message: fmt.Sprintf("must be one of: %s", strings.Join(ValidLogLevels(), ", ")),
		})
	}

	if c.Logging.Format != "" && !slices.Contains(ValidLogFormats(), c.Logging.Format) {
		errors = append(errors, ValidationError{
			Field:   "logging.format",
			Value:   c.Logging.Format,
			Message: fmt.Sprintf("must be one of: %s", strings.Join(ValidLogFormats(), ", ")),
		})
	}

	return errors
}
