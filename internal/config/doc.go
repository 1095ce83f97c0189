// Package config loads, normalizes, and validates bookkeep configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// BOOKKEEP_ROOT. The Config type centralizes the storage root, profile
// defaults and logging knobs so the CLI and the store agree on one layout.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config
