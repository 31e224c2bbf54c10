// Package logging builds the slog loggers used by the progress CLI.
//
// Two formats are supported: a compact single-line console format, coloured
// when the destination is a terminal, and JSON for log shippers.
package logging
