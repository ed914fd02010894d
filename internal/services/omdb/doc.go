// Package omdb provides the minimal OMDb API client used during metadata
// enrichment.
//
// It exposes exact-title lookups with year, season, and type hints plus a
// free-text search fallback. OMDb signals misses inside a 200 response, so
// the client folds the Response/Error wrapper into a nil result that callers
// can treat as "no match" rather than a fault. Options allow tests to supply
// custom HTTP clients without modifying production code.
package omdb
