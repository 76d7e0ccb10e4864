// Package processor wires the configured collaborators into the desktop
// session and the web form handler. It is the only place that knows
// which concrete backends a configuration selects.
package processor
