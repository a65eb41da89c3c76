// Package config loads, validates, and normalizes gamedex configuration from
// TOML. All pipeline components receive an explicit *Config; there is no
// process-wide mutable configuration state.
package config
