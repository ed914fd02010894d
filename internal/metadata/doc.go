// Package metadata enriches classified media items with canonical titles,
// years, and poster artwork from OMDb.
//
// Enrichment is advisory. Lookups run in a bounded worker pool with
// per-item timeouts, misses fall through a query chain (season dropped,
// then year dropped, then free-text search), and a show result is only
// applied when its title survives the similarity acceptance check. A batch
// never fails because metadata could not be resolved.
package metadata
