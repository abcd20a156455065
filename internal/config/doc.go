// SPDX-License-Identifier: MPL-2.0

// Package config assembles the host configuration from, in increasing
// precedence: built-in defaults, an optional config file, MODSERVER_*
// environment variables, command-line flags and positional key=value
// options.
//
// Config files ending in .cue are validated against the embedded schema
// before they are merged; other extensions (toml, yaml, json) are read by
// viper directly. Invalid settings are reported as errors wrapping
// ErrConfiguration.
package config
