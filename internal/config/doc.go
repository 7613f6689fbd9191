// Package config defines the settings shared by the morse-beacon binaries and
// provides helpers to load, validate and save them in YAML format.
//
// Validate fills defaults in place, so a freshly loaded Config is ready to use.
package config
