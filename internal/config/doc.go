// Package config provides the configuration of the phasebench console
// launcher: command-line options with their defaults and validation, the
// optional YAML configuration file with per-benchmark setting overrides,
// and the XDG directories used for the run history.
package config
