// Package confloader layers configuration sources with koanf.
//
// Priority, highest first:
//
//  1. Overrides (command-line flags that were set)
//  2. Environment variables with the MONEYGROWTH_ prefix
//  3. The YAML configuration file, when it exists
//  4. Defaults
//
// Watcher reports edits to the configuration file so a long-running
// process can reload it.
package confloader
