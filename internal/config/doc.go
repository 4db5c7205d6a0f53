// Package config loads, normalizes, and validates corpusprep configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, loads an optional .env file, and honours
// CORPUSPREP_* environment overrides. The Config type centralizes every knob
// the sharder and vocabulary builder need so both commands resolve output
// paths, seeds, locking, and log settings the same way.
//
// Always obtain settings through this package so downstream code receives
// absolute paths, canonical log formats, and clear validation errors.
package config
