// Package logging provides structured logging with per-module log level configuration.
//
// # Overview
//
// The logging system uses Go's slog package with automatic output routing:
//   - Logs to systemd journal when available (Linux systems with journald)
//   - Logs to stdout when a terminal, pipe, or file is connected
//   - Logs to both when both are available
//
// # Usage
//
// Initialize the logging system once at startup:
//
//	logging.Initialize(logging.Config{
//		Level:  "info",      // Global log level: debug, info, warn, error
//		Format: "text",      // Output format: text or json
//		Modules: map[string]string{
//			"render": "debug",   // Per-module overrides
//			"api":    "warn",
//		},
//	})
//
// Get a logger for your module:
//
//	logger := logging.GetLogger("palette")
//	logger.Info("Palette loaded", "entries", n)
//
// Module levels can be changed at runtime via [Reconfigure]; handed-out
// loggers pick up the new level through their shared LevelVar.
//
// # Viewing Logs
//
// When running as a systemd service or on a system with journald:
//
//	journalctl -t lednode              # All lednode logs
//	journalctl -t lednode -f           # Follow live
//	journalctl -t lednode -p err       # Errors only
//
// Filter by structured fields:
//
//	journalctl -t lednode MODULE=render
//
// # Configuration
//
// Log levels can be set globally or per-module. Module-specific levels
// override the global level for that module only.
//
// Example TOML configuration:
//
//	[logging]
//	level = "info"
//	format = "text"
//
//	[logging.modules]
//	render = "debug"
//	nats = "warn"
package logging
