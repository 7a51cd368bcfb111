// Package logging provides structured logging for Wayfinder Core.
//
// It wraps log/slog so every entry carries the service name and build
// version. JSON output is the production default; text is available for
// local development.
//
//	logging:
//	  level: "info"      # debug, info, warn, error
//	  format: "json"     # json, text
//	  output: "stdout"   # stdout, stderr
//
// Never log secrets or bearer tokens.
package logging
