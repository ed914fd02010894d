// Package textutil provides title cleaning, normalization, and similarity
// helpers shared by the classifier, metadata enricher, and planner.
package textutil
