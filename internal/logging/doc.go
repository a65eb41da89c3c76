// Package logging builds the shared slog logger: a pretty console handler for
// interactive use (with ANSI color when attached to a terminal) and a JSON
// handler for machine consumption. Components attach themselves with
// NewComponentLogger so every line carries a component attribute.
package logging
