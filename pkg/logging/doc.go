// Package logging provides the subsystem-tagged logger used across toolprobe.
//
// It wraps log/slog with a text handler and a tiny printf-style API so call
// sites stay short:
//
//	logging.InitForCLI(logging.LevelForVerbosity(verbose), os.Stderr)
//
//	logging.Info("Discovery", "Connecting to %s", url)
//	logging.Debug("Runner", "Invoking %s with %v", tool, args)
//	logging.Warn("Config", "No servers.yaml found at %s, using defaults", path)
//	logging.Error("Discovery", err, "Failed to reach %s", server)
//
// Every entry carries a "subsystem" attribute. Error entries add an "error"
// attribute holding err.Error().
//
// Log output goes to stderr by default so that reports written to stdout
// stay machine readable.
package logging
