// Package media defines the core item model shared by every pipeline stage:
// categories, per-item state, encoding presets, probed tracks, destination
// targets, and the progress events stages emit while they work.
package media
