// Package app provides the probe runner behind the reqcheck command.
// It builds a reporting session from the configuration, probes every target,
// applies the expected status with the configured check mode and prints a summary.
package app
