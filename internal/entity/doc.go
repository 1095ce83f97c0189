// Package entity defines bookkeep's data model and its on-disk encoding.
//
// Reviews, goals and TTS books each live in their own directory holding a
// cover image, a JSON sidecar and, for TTS books, a content file. The
// profile is a singleton directory with the same shape. Layout reproduces the
// file naming of existing libraries exactly so directories written by older
// clients stay visible.
//
// Decoding is tolerant: every Decode function returns a usable entity even
// when the sidecar is empty or garbage, alongside an error wrapping ErrDecode
// that callers log. Derived values such as goal progress are recomputed by
// ComputeProgress and never persisted.
package entity
