package transfer

import (
	"log/slog"

	"github.com/shirou/gopsutil/v4/disk"

	"nomadtool/internal/logging"
	"nomadtool/internal/media"
)

// UsageFunc reports free and total bytes for the volume holding path.
// The default implementation queries the OS; tests inject fixed values.
type UsageFunc func(path string) (free, total uint64, err error)

// DiskUsage is the production UsageFunc.
func DiskUsage(path string) (uint64, uint64, error) {
	usage, err := disk.Usage(path)
	if err != nil {
		return 0, 0, err
	}
	return usage.Free, usage.Total, nil
}

// SpacePlanner makes the once-per-batch destination decision: stay on the
// primary target, or fail over to an alternative local target when the
// primary is low on space.
type SpacePlanner struct {
	usage            UsageFunc
	freePercentFloor float64
	logger           *slog.Logger
}

// NewSpacePlanner creates a planner. freePercentFloor is the minimum free
// percentage a primary must keep to stay eligible (default 10).
func NewSpacePlanner(usage UsageFunc, freePercentFloor float64, logger *slog.Logger) *SpacePlanner {
	if usage == nil {
		usage = DiskUsage
	}
	if freePercentFloor <= 0 {
		freePercentFloor = 10
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	return &SpacePlanner{usage: usage, freePercentFloor: freePercentFloor, logger: logger}
}

// EstimateItemBytes returns the bytes an item will occupy at the
// destination: the projected transcode size when a transcode is planned,
// the raw file size otherwise.
func EstimateItemBytes(item *media.Item) int64 {
	if item.WillTranscode() && item.DurationSeconds > 0 {
		preset := item.SelectedPreset
		estimated := float64(preset.BitrateKbps) * 1024 * item.DurationSeconds / 8 * 1.1
		return int64(estimated)
	}
	return item.FileSize
}

// EstimateBatchBytes sums the destination estimates for every item still
// in play.
func EstimateBatchBytes(items []*media.Item) int64 {
	var total int64
	for _, item := range items {
		if item.IsDuplicate || item.State == media.StateComplete || item.State == media.StateError {
			continue
		}
		total += EstimateItemBytes(item)
	}
	return total
}

// Choose returns the destination for the batch. The first target is the
// primary; a fail over happens only when the primary's volume is below the
// free-space floor and another local target can hold the whole batch.
// The returned bool reports whether a failover occurred.
func (p *SpacePlanner) Choose(targets []media.Target, requiredBytes int64) (media.Target, bool) {
	primary := targets[0]
	free, total, err := p.usage(primary.Path)
	if err != nil {
		p.logger.Warn("free space query failed, keeping primary",
			logging.String("target", primary.Name),
			logging.Error(err))
		return primary, false
	}
	if total == 0 || float64(free)/float64(total)*100 >= p.freePercentFloor {
		return primary, false
	}

	for _, candidate := range targets[1:] {
		if candidate.IsShare() {
			continue
		}
		candFree, _, err := p.usage(candidate.Path)
		if err != nil {
			continue
		}
		if candFree >= uint64(requiredBytes) {
			p.logger.Info("destination failover: primary low on space",
				logging.String("from", primary.Name),
				logging.String("to", candidate.Name),
				logging.Int64("required_bytes", requiredBytes))
			return candidate, true
		}
	}
	return primary, false
}
