// Package config loads charlimit settings.
//
// Settings are layered, lowest precedence first: Default, a config file
// (TOML or YAML, chosen by extension), then CHARLIMIT_* environment
// variables. Command-line flags are applied on top by the caller.
//
// Example TOML:
//
//	max_characters = 280
//	measure = "graphemes"
//	segmentation = "grapheme"
//
//	[log]
//	level = "debug"
//
// Watch reloads a config file whenever it changes on disk.
package config
