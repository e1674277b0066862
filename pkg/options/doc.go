// Package options defines the kernel's command-line option schema and
// parses process arguments against it. Parsing is lenient by default:
// unrecognized options are tolerated so that frontends can pass through
// launcher-specific flags without breaking kernel startup.
package options
