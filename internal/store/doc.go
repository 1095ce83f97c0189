// Package store implements bookkeep's directory-backed entity store.
//
// Each goal, review and TTS book is a directory under its collection inside
// the storage root; the profile is a singleton directory. Open validates the
// root and optionally takes an advisory lock so only one process writes at a
// time. EnsureStorageInitialized bootstraps the layout and is safe to call on
// every start.
//
// Reads are tolerant: a missing cover falls back to the placeholder, and a
// missing or corrupt sidecar falls back to defaults, so ListEntities never
// fails because of one damaged entity. Writes are strict: sidecars are
// replaced atomically, new entities are assembled in a hidden staging
// directory and renamed into place, and every write error is returned.
//
// Profile counters follow review creation and first-time goal completion.
// Those updates are fire-and-forget: a failure is logged and the primary
// write stands. ReconcileProfile recomputes both counters from disk.
package store
