// Package config resolves the kernel's runtime configuration from four
// layered sources: command-line options, the optional spark-defaults file,
// the connection profile, and built-in defaults. Layers merge by strict
// per-key fallback; a higher-precedence layer always wins.
package config
