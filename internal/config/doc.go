// Package config loads, normalizes, and validates nomadtool configuration.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// OMDB_API_KEY. The Config type centralizes every knob the CLI needs:
// staging directories, metadata credentials, destination priorities, and
// transcoder settings arrive sanitized in one pass.
package config
