// Package database owns the on-device relational store: connection
// lifecycle, ordered additive schema migrations, and the shared settings
// table. Per-family repositories live in the subpackages (catalog,
// placements, adjustments).
package database
