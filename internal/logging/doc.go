// Package logging provides structured logging for jdiff runs.
//
// This package wraps Go's log/slog. A report run touches three external
// systems (the artifact repository, the SCM client and javadoc) and the
// log is the only record of what each step did, so every entry carries
// the module, phase and version it belongs to.
//
// # Basic Usage
//
//	logger, err := logging.NewLogger("/path/to/target/jdiff", "INFO")
//	if err != nil {
//	    return err
//	}
//	defer logger.Close()
//
//	logger.Info("performing checkout", "dir", dir)
//
// # Context Propagation
//
//	moduleLogger := logger.WithModule("core")
//	phaseLogger := moduleLogger.WithPhase("SNAPSHOT_LHS").WithVersion("1.0")
//	phaseLogger.Info("javadoc finished", "packages", 12)
//
// Output:
//
//	{"time":"...","level":"INFO","msg":"javadoc finished","module":"core","phase":"SNAPSHOT_LHS","version":"1.0","packages":12}
//
// # Console Output
//
// [NewWriterLogger] builds a logger over any writer; the CLI uses the
// text format on stderr when file logging is disabled.
//
// # Testing
//
// Use [NopLogger] to discard all log output.
package logging
