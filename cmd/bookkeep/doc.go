// Package main hosts the bookkeep CLI entrypoint and command graph.
//
// The Cobra command tree maps terminal invocations onto the entity store:
// creating and editing reviews, goals and TTS books, managing covers and the
// profile, exporting the library, and checking the storage root. It resolves
// configuration and the structured logger once so subcommands only deal with
// presentation.
//
// New behaviour belongs in the internal packages first; commands here stay
// thin wrappers over internal/store and internal/collection.
package main
