// Package config holds the CLI configuration (~/.moneygrowth/config.yaml).
//
// Values are layered by confloader: flags over MONEYGROWTH_* environment
// variables over the file over Defaults.
package config
