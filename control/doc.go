// Package control
// Author: momentics <momentics@gmail.com>
//
// Static configuration and monitoring surface for primkit.
// Configuration is a TOML file describing pools and channels, loaded once
// and materialized into live components; there is no dynamic
// reconfiguration of the core. MetricsRegistry and Reporter form the
// monitoring collaborator: periodic read-only stats snapshots rendered to
// a structured log.
package control
