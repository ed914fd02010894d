// Package logging wraps log/slog with the attribute helpers, context-derived
// fields, and console/JSON handlers used across nomadtool.
package logging
