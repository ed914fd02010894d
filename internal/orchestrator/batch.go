package orchestrator

import (
	"fmt"
	"strconv"

	"github.com/google/uuid"

	"nomadtool/internal/classifier"
	"nomadtool/internal/media"
)

// Batch holds the items of one run. Batches are in-memory only; nothing
// survives the process.
type Batch struct {
	ID    string
	Items []*media.Item
	State media.BatchState

	// Destination is fixed by the once-per-batch failover decision before
	// the first transfer begins.
	Destination media.Target
	FailedOver  bool
}

// NewBatch stats and classifies the dropped paths into a pending batch.
// Paths that cannot be read are reported as errors; a batch needs at least
// one usable item.
func NewBatch(paths []string) (*Batch, error) {
	if len(paths) == 0 {
		return nil, fmt.Errorf("no input paths")
	}
	batch := &Batch{
		ID:    uuid.NewString(),
		State: media.BatchIdle,
	}
	var firstErr error
	for _, path := range paths {
		item, err := media.NewItem(uuid.NewString(), path)
		if err != nil {
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		result := classifier.Classify(path)
		item.Category = result.Category
		item.Title = result.Title
		item.Year = result.Year
		if result.HasEpisode() {
			item.Season = strconv.Itoa(result.Season)
			item.Episode = strconv.Itoa(result.Episode)
		}
		batch.Items = append(batch.Items, item)
	}
	if len(batch.Items) == 0 {
		if firstErr != nil {
			return nil, fmt.Errorf("no usable inputs: %w", firstErr)
		}
		return nil, fmt.Errorf("no usable inputs")
	}
	return batch, nil
}

// SuccessCount returns the number of completed, non-duplicate items.
func (b *Batch) SuccessCount() int {
	count := 0
	for _, item := range b.Items {
		if item.State == media.StateComplete && !item.IsDuplicate {
			count++
		}
	}
	return count
}

// Percent returns aggregate batch progress from settled items.
func (b *Batch) Percent() float64 {
	if len(b.Items) == 0 {
		return 0
	}
	settled := 0
	for _, item := range b.Items {
		switch item.State {
		case media.StateComplete, media.StateError, media.StateCancelled:
			settled++
		}
	}
	return float64(settled) / float64(len(b.Items)) * 100
}
