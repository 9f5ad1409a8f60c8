// Package main hosts the multishot CLI entrypoint and command graph.
//
// The Cobra-based command tree operates on a script document: switching
// shots, assigning per-shot node versions, scanning the project hierarchy,
// approving versions, and submitting renders to the farm. It centralizes
// configuration resolution, document loading, and structured logging setup
// so subcommands can focus on user experience instead of wiring.
//
// Keep this package lean: add new functionality by extending the internal
// packages first, then surface it through dedicated commands or flags here.
package main
