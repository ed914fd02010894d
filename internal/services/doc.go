// Package services holds the cross-stage error taxonomy and the context keys
// used to correlate log records with batch items.
package services
