// Package classifier infers category, title, year, and season/episode
// numbers from a raw filesystem path. It is deterministic and makes no
// external calls.
package classifier
