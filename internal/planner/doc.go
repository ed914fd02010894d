// Package planner maps classified media items to canonical library paths:
// movie folders with year suffixes, zero-padded show season trees, and
// flat per-category folders for everything else. It also decides poster
// placement and performs the pre-flight duplicate existence check.
package planner
