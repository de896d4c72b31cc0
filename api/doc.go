// Package api
// Author: momentics <momentics@gmail.com>
//
// Shared contracts for the primkit library: error taxonomy, timeout
// conventions, readiness signaling for selectors, and stats snapshot types.
// Implementation packages (pool, channel, selector) depend on api only;
// api depends on nothing outside the standard library.
package api
