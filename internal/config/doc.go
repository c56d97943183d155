// Package config loads timekeep's TOML configuration.
//
// # Configuration Discovery
//
// Load resolves the file in this order:
//
//  1. If a path is explicitly provided (--config), use it
//  2. Otherwise, use ~/.config/timekeep/config.toml
//  3. If the file doesn't exist, fall back to defaults
//  4. If the file exists but a field is missing or blank, use its default
//
// # Fields
//
//	api_url = "http://127.0.0.1:3000"           # service base URL, path is ignored
//	poll_seconds = 30                           # background refresh, 0 disables
//	request_timeout_seconds = 5                 # per HTTP request
//	log_file = "~/.local/state/timekeep/timekeep.log"
//	log_level = "info"                          # debug, info, warn, error
//
// Paths starting with ~ are expanded against the user's home directory and
// made absolute. Invalid values (malformed TOML, negative poll interval,
// unknown log level) are errors; the caller decides whether they are fatal.
package config
