// Package errors provides centralized error definitions and error handling utilities
// for jdiff. It defines domain-specific errors, semantic error types,
// error constructors with context wrapping, and error classification helpers.
//
// # Error Types
//
// Domain-specific errors represent errors from specific subsystems:
//   - ConfigError: invalid configuration, detected before any external process runs
//   - RepositoryError: artifact metadata could not be retrieved
//   - ScmError: a source-control checkout or update failed
//   - ToolError: the javadoc executable failed or exited non-zero
//   - ReportError: the single failure type returned by a report run
//
// Semantic errors represent common error conditions:
//   - NotFoundError: resource not found
//   - ValidationError: invalid input or state
//
// # Usage
//
//	err := errors.NewScmError("checkout failed", errors.ErrScmFailure).
//	    WithConnection("scm:git:https://example.com/repo.git").
//	    WithCommandOutput(string(out))
//
//	if errors.Is(err, errors.ErrScmFailure) { ... }
//
//	var reportErr *errors.ReportError
//	if errors.As(err, &reportErr) { ... }
//
// # Error Classification
//
//   - IsConfigError: configuration problems that abort before any work
//   - IsSoftFailure: informational conditions the caller should log, not fail on
//   - IsUserFacing: errors safe to display to users (vs internal errors)
//   - Severity: Debug, Info, Warning, Error, Critical
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Re-export standard library functions for convenience.
// This allows callers to import only this package for all error handling.
var (
	Is     = errors.Is
	As     = errors.As
	Unwrap = errors.Unwrap
	New    = errors.New
	Join   = errors.Join
)

// Severity represents the severity level of an error.
type Severity int

const (
	// SeverityDebug is for errors that are useful for debugging but not critical.
	SeverityDebug Severity = iota
	// SeverityInfo is for informational errors that don't indicate a problem.
	SeverityInfo
	// SeverityWarning is for errors that might indicate a problem but aren't critical.
	SeverityWarning
	// SeverityError is for errors that indicate a real problem.
	SeverityError
	// SeverityCritical is for errors that require immediate attention.
	SeverityCritical
)

// String returns the string representation of the severity level.
func (s Severity) String() string {
	switch s {
	case SeverityDebug:
		return "debug"
	case SeverityInfo:
		return "info"
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	case SeverityCritical:
		return "critical"
	default:
		return "unknown"
	}
}

// -----------------------------------------------------------------------------
// Sentinel Errors
// -----------------------------------------------------------------------------

// Configuration sentinel errors
var (
	// ErrInvalidVersionSpec indicates a malformed version or version range.
	ErrInvalidVersionSpec = New("invalid version specification")
	// ErrMissingScmConnection indicates the project declares no usable SCM connection.
	ErrMissingScmConnection = New("SCM connection is not set in the project model")
	// ErrUnsupportedScm indicates an SCM provider with no registered implementation.
	ErrUnsupportedScm = New("unsupported SCM provider")
	// ErrExecutableNotFound indicates the javadoc executable could not be located.
	ErrExecutableNotFound = New("javadoc executable not found")
)

// Resolution sentinel errors
var (
	// ErrProjectNotFound indicates a project model could not be loaded.
	ErrProjectNotFound = New("project not found")
	// ErrMetadataUnavailable indicates artifact metadata could not be retrieved.
	ErrMetadataUnavailable = New("artifact metadata unavailable")
	// ErrNoMatchingVersion indicates no available version satisfied a range.
	// It is informational: resolution still returns an unversioned artifact.
	ErrNoMatchingVersion = New("no matching previous version")
	// ErrCheckoutNotInitialized indicates a module asked for the shared checkout
	// before the session initialized it.
	ErrCheckoutNotInitialized = New("checkout not initialized for this session")
)

// External process sentinel errors
var (
	// ErrScmFailure indicates a source-control client reported failure.
	ErrScmFailure = New("source control operation failed")
	// ErrToolFailed indicates the javadoc tool exited with a non-zero status.
	ErrToolFailed = New("javadoc execution failed")
)

// General sentinel errors
var (
	// ErrCanceled indicates that an operation was canceled.
	ErrCanceled = New("operation canceled")
	// ErrInvalidInput indicates that input validation failed.
	ErrInvalidInput = New("invalid input")
	// ErrOperationFailed indicates a general operation failure.
	ErrOperationFailed = New("operation failed")
)

// -----------------------------------------------------------------------------
// Base Error Interface
// -----------------------------------------------------------------------------

// JDiffError is the base interface for all jdiff errors.
type JDiffError interface {
	error

	// Unwrap returns the underlying error, if any.
	Unwrap() error

	// Is reports whether this error matches the target error.
	Is(target error) bool

	// Severity returns the severity level of this error.
	Severity() Severity

	// IsUserFacing returns true if the error message is safe to display
	// to end users.
	IsUserFacing() bool
}

// baseError provides common functionality for all error types.
type baseError struct {
	message    string
	cause      error
	severity   Severity
	userFacing bool
}

// Error returns the error message.
func (e *baseError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.message, e.cause)
	}
	return e.message
}

// Unwrap returns the underlying error.
func (e *baseError) Unwrap() error {
	return e.cause
}

// Is checks if this error matches the target.
func (e *baseError) Is(target error) bool {
	if e.cause != nil {
		return errors.Is(e.cause, target)
	}
	return false
}

// Severity returns the error severity.
func (e *baseError) Severity() Severity {
	return e.severity
}

// IsUserFacing returns whether the error is safe to show users.
func (e *baseError) IsUserFacing() bool {
	return e.userFacing
}

// format renders "<kind> [k=v, ...]: message: cause".
func (e *baseError) format(kind string, parts []string) string {
	prefix := kind
	if len(parts) > 0 {
		prefix = fmt.Sprintf("%s [%s]", kind, strings.Join(parts, ", "))
	}
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", prefix, e.message, e.cause)
	}
	return fmt.Sprintf("%s: %s", prefix, e.message)
}

// -----------------------------------------------------------------------------
// Domain-Specific Errors
// -----------------------------------------------------------------------------

// ConfigError represents a configuration problem detected before any
// external process is started.
//
// Example:
//
//	err := errors.NewConfigError("invalid comparison version", errors.ErrInvalidVersionSpec).
//	    WithField("versions.comparison").WithValue("[1.0")
type ConfigError struct {
	baseError
	Field string
	Value string
}

// NewConfigError creates a new ConfigError.
func NewConfigError(message string, cause error) *ConfigError {
	return &ConfigError{
		baseError: baseError{
			message:    message,
			cause:      cause,
			severity:   SeverityError,
			userFacing: true,
		},
	}
}

// WithField adds the offending configuration key.
func (e *ConfigError) WithField(field string) *ConfigError {
	e.Field = field
	return e
}

// WithValue adds the offending value.
func (e *ConfigError) WithValue(value string) *ConfigError {
	e.Value = value
	return e
}

// Error returns the formatted error message.
func (e *ConfigError) Error() string {
	var parts []string
	if e.Field != "" {
		parts = append(parts, fmt.Sprintf("field=%s", e.Field))
	}
	if e.Value != "" {
		parts = append(parts, fmt.Sprintf("value=%s", e.Value))
	}
	return e.format("config error", parts)
}

// Is checks if this error matches the target.
func (e *ConfigError) Is(target error) bool {
	if _, ok := target.(*ConfigError); ok {
		return true
	}
	return e.baseError.Is(target)
}

// RepositoryError represents a failure to read artifact metadata or a
// project model from a repository.
type RepositoryError struct {
	baseError
	Coordinates string
	Repository  string
}

// NewRepositoryError creates a new RepositoryError.
func NewRepositoryError(message string, cause error) *RepositoryError {
	return &RepositoryError{
		baseError: baseError{
			message:    message,
			cause:      cause,
			severity:   SeverityError,
			userFacing: true,
		},
	}
}

// WithCoordinates adds groupId:artifactId[:version] to the error context.
func (e *RepositoryError) WithCoordinates(coords string) *RepositoryError {
	e.Coordinates = coords
	return e
}

// WithRepository adds the repository location to the error context.
func (e *RepositoryError) WithRepository(repo string) *RepositoryError {
	e.Repository = repo
	return e
}

// Error returns the formatted error message.
func (e *RepositoryError) Error() string {
	var parts []string
	if e.Coordinates != "" {
		parts = append(parts, fmt.Sprintf("artifact=%s", e.Coordinates))
	}
	if e.Repository != "" {
		parts = append(parts, fmt.Sprintf("repo=%s", e.Repository))
	}
	return e.format("repository error", parts)
}

// Is checks if this error matches the target.
func (e *RepositoryError) Is(target error) bool {
	if _, ok := target.(*RepositoryError); ok {
		return true
	}
	if target == ErrMetadataUnavailable {
		return true
	}
	return e.baseError.Is(target)
}

// ScmError represents a failed checkout or update.
//
// Example:
//
//	err := errors.NewScmError("checkout failed", errors.ErrScmFailure).
//	    WithConnection(conn).WithDirectory(dir).WithCommandOutput(out)
type ScmError struct {
	baseError
	Connection      string
	Directory       string
	ProviderMessage string
	CommandOutput   string // Captured client output
}

// NewScmError creates a new ScmError.
func NewScmError(message string, cause error) *ScmError {
	return &ScmError{
		baseError: baseError{
			message:    message,
			cause:      cause,
			severity:   SeverityError,
			userFacing: true,
		},
	}
}

// WithConnection adds the SCM connection URL to the error context.
func (e *ScmError) WithConnection(conn string) *ScmError {
	e.Connection = conn
	return e
}

// WithDirectory adds the working copy directory to the error context.
func (e *ScmError) WithDirectory(dir string) *ScmError {
	e.Directory = dir
	return e
}

// WithProviderMessage adds the provider's diagnostic message.
func (e *ScmError) WithProviderMessage(msg string) *ScmError {
	e.ProviderMessage = msg
	return e
}

// WithCommandOutput adds client command output to the error context.
func (e *ScmError) WithCommandOutput(output string) *ScmError {
	e.CommandOutput = output
	return e
}

// Error returns the formatted error message.
func (e *ScmError) Error() string {
	var parts []string
	if e.Connection != "" {
		parts = append(parts, fmt.Sprintf("connection=%s", e.Connection))
	}
	if e.Directory != "" {
		parts = append(parts, fmt.Sprintf("dir=%s", e.Directory))
	}
	msg := e.format("scm error", parts)
	if e.ProviderMessage != "" {
		msg = fmt.Sprintf("%s\nprovider message: %s", msg, e.ProviderMessage)
	}
	if e.CommandOutput != "" {
		msg = fmt.Sprintf("%s\ncommand output: %s", msg, e.CommandOutput)
	}
	return msg
}

// Is checks if this error matches the target.
func (e *ScmError) Is(target error) bool {
	if _, ok := target.(*ScmError); ok {
		return true
	}
	if errors.Is(target, ErrScmFailure) {
		return true
	}
	return e.baseError.Is(target)
}

// ToolError represents a failed javadoc invocation.
type ToolError struct {
	baseError
	Executable string
	WorkDir    string
	ExitCode   int
}

// NewToolError creates a new ToolError.
func NewToolError(message string, cause error) *ToolError {
	return &ToolError{
		baseError: baseError{
			message:    message,
			cause:      cause,
			severity:   SeverityError,
			userFacing: true,
		},
		ExitCode: -1, // -1 indicates the process did not report an exit status
	}
}

// WithExecutable adds the executable path to the error context.
func (e *ToolError) WithExecutable(path string) *ToolError {
	e.Executable = path
	return e
}

// WithWorkDir adds the working directory to the error context.
func (e *ToolError) WithWorkDir(dir string) *ToolError {
	e.WorkDir = dir
	return e
}

// WithExitCode adds the process exit code to the error context.
func (e *ToolError) WithExitCode(code int) *ToolError {
	e.ExitCode = code
	return e
}

// Error returns the formatted error message.
func (e *ToolError) Error() string {
	var parts []string
	if e.Executable != "" {
		parts = append(parts, fmt.Sprintf("exe=%s", e.Executable))
	}
	if e.ExitCode >= 0 {
		parts = append(parts, fmt.Sprintf("exit=%d", e.ExitCode))
	}
	if e.WorkDir != "" {
		parts = append(parts, fmt.Sprintf("dir=%s", e.WorkDir))
	}
	return e.format("tool error", parts)
}

// Is checks if this error matches the target.
func (e *ToolError) Is(target error) bool {
	if _, ok := target.(*ToolError); ok {
		return true
	}
	if errors.Is(target, ErrToolFailed) {
		return true
	}
	return e.baseError.Is(target)
}

// ReportError is the single failure type returned by a report run. It
// records which module was being processed and the state that failed.
//
// Example:
//
//	err := errors.NewReportError("report generation failed", cause).
//	    WithModule("core").WithState("SNAPSHOT_LHS")
type ReportError struct {
	baseError
	Module string
	State  string
}

// NewReportError creates a new ReportError.
func NewReportError(message string, cause error) *ReportError {
	return &ReportError{
		baseError: baseError{
			message:    message,
			cause:      cause,
			severity:   SeverityError,
			userFacing: true,
		},
	}
}

// WithModule adds the module name to the error context.
func (e *ReportError) WithModule(module string) *ReportError {
	e.Module = module
	return e
}

// WithState adds the failing orchestration state to the error context.
func (e *ReportError) WithState(state string) *ReportError {
	e.State = state
	return e
}

// Error returns the formatted error message.
func (e *ReportError) Error() string {
	var parts []string
	if e.Module != "" {
		parts = append(parts, fmt.Sprintf("module=%s", e.Module))
	}
	if e.State != "" {
		parts = append(parts, fmt.Sprintf("state=%s", e.State))
	}
	return e.format("report error", parts)
}

// Is checks if this error matches the target.
func (e *ReportError) Is(target error) bool {
	if _, ok := target.(*ReportError); ok {
		return true
	}
	return e.baseError.Is(target)
}

// -----------------------------------------------------------------------------
// Semantic Errors
// -----------------------------------------------------------------------------

// NotFoundError represents a resource that could not be found.
//
// Example:
//
//	err := errors.NewNotFoundError("pom", "/work/core/pom.xml")
//	fmt.Println(err) // "pom '/work/core/pom.xml' not found"
type NotFoundError struct {
	baseError
	ResourceType string
	ResourceID   string
}

// NewNotFoundError creates a new NotFoundError.
func NewNotFoundError(resourceType, resourceID string) *NotFoundError {
	return &NotFoundError{
		baseError: baseError{
			message:    fmt.Sprintf("%s '%s' not found", resourceType, resourceID),
			severity:   SeverityWarning,
			userFacing: true,
		},
		ResourceType: resourceType,
		ResourceID:   resourceID,
	}
}

// WithCause adds a cause to the error.
func (e *NotFoundError) WithCause(cause error) *NotFoundError {
	e.cause = cause
	return e
}

// Error returns the formatted error message.
func (e *NotFoundError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s '%s' not found: %v", e.ResourceType, e.ResourceID, e.cause)
	}
	return fmt.Sprintf("%s '%s' not found", e.ResourceType, e.ResourceID)
}

// Is checks if this error matches the target.
func (e *NotFoundError) Is(target error) bool {
	if _, ok := target.(*NotFoundError); ok {
		return true
	}
	return e.baseError.Is(target)
}

// ValidationError represents invalid input or state.
//
// Example:
//
//	err := errors.NewValidationError("version range bounds are reversed")
//	err = err.WithField("comparison").WithValue("[2.0,1.0]")
type ValidationError struct {
	baseError
	Field string
	Value any
}

// NewValidationError creates a new ValidationError.
func NewValidationError(message string) *ValidationError {
	return &ValidationError{
		baseError: baseError{
			message:    message,
			severity:   SeverityWarning,
			userFacing: true,
		},
	}
}

// WithField adds a field name to the error context.
func (e *ValidationError) WithField(field string) *ValidationError {
	e.Field = field
	return e
}

// WithValue adds the invalid value to the error context.
func (e *ValidationError) WithValue(value any) *ValidationError {
	e.Value = value
	return e
}

// WithCause adds a cause to the error.
func (e *ValidationError) WithCause(cause error) *ValidationError {
	e.cause = cause
	return e
}

// Error returns the formatted error message.
func (e *ValidationError) Error() string {
	var parts []string
	if e.Field != "" {
		parts = append(parts, fmt.Sprintf("field=%s", e.Field))
	}
	if e.Value != nil {
		parts = append(parts, fmt.Sprintf("value=%v", e.Value))
	}
	return e.format("validation error", parts)
}

// Is checks if this error matches the target.
func (e *ValidationError) Is(target error) bool {
	if _, ok := target.(*ValidationError); ok {
		return true
	}
	if errors.Is(target, ErrInvalidInput) {
		return true
	}
	return e.baseError.Is(target)
}

// -----------------------------------------------------------------------------
// Error Classification Helpers
// -----------------------------------------------------------------------------

// IsConfigError reports whether err is a configuration problem: a
// ConfigError, or one of the configuration sentinels.
func IsConfigError(err error) bool {
	if err == nil {
		return false
	}
	var cfgErr *ConfigError
	if As(err, &cfgErr) {
		return true
	}
	return Is(err, ErrInvalidVersionSpec) || Is(err, ErrMissingScmConnection) ||
		Is(err, ErrUnsupportedScm) || Is(err, ErrExecutableNotFound)
}

// IsSoftFailure reports whether err is informational only. Callers log
// these and carry on.
func IsSoftFailure(err error) bool {
	if err == nil {
		return false
	}
	return Is(err, ErrNoMatchingVersion)
}

// IsUserFacing returns true if the error message is safe to display to end users.
func IsUserFacing(err error) bool {
	if err == nil {
		return false
	}

	var jerr JDiffError
	if As(err, &jerr) {
		return jerr.IsUserFacing()
	}

	return false
}

// GetSeverity returns the severity level of the error.
// Returns SeverityError for errors that don't implement JDiffError.
func GetSeverity(err error) Severity {
	if err == nil {
		return SeverityDebug
	}

	var jerr JDiffError
	if As(err, &jerr) {
		return jerr.Severity()
	}

	return SeverityError
}

// -----------------------------------------------------------------------------
// Convenience Constructors
// -----------------------------------------------------------------------------

// Wrap wraps an error with additional context message.
//
// Example:
//
//	err := errors.Wrap(baseErr, "failed to parse pom")
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Wrapf wraps an error with a formatted context message.
func Wrapf(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}
