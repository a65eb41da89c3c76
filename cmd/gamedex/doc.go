// Package main hosts the gamedex CLI entrypoint and command graph.
//
// The Cobra-based command tree resolves configuration once, then dispatches
// into the pipeline packages: cleaning the library export, refreshing
// playtime data, and matching against the catalog mirror. Keep this package
// lean: add new functionality to the internal packages first, then surface it
// through dedicated commands or flags here.
package main
