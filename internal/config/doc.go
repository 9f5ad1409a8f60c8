// Package config loads, normalizes, and validates multishot configuration.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), and reads TOML files. The Config type centralizes every
// setting the CLI needs: filesystem roots, scanner patterns and cache
// expiry, the default version label, fallback frame range, farm submission
// settings, and path templates.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config
