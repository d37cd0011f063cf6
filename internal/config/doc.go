// Package config loads, normalizes, and validates cloudproxy configuration.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and layers environment overrides on top the
// same way the gateway deployment expects: file values first, then
// environment variables, then command-line flags applied by the CLI.
//
// Per-invocation request values (correlation id, input and output paths) are
// never read from the file; they arrive through the environment or flags and
// are checked separately by Request.Validate.
package config
