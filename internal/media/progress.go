package media

// ProgressEvent is emitted by pipeline stages as an item advances. Consumers
// (CLI, GUI drivers) receive events through a ProgressFunc; stages never talk
// to a UI directly.
type ProgressEvent struct {
	ItemID  string
	Stage   string
	Percent float64
	Message string
}

// ProgressFunc consumes progress events. A nil ProgressFunc is always safe to
// call through Emit.
type ProgressFunc func(ProgressEvent)

// Emit invokes the callback when non-nil.
func (f ProgressFunc) Emit(event ProgressEvent) {
	if f != nil {
		f(event)
	}
}

// BatchState tracks the batch as a whole.
type BatchState string

const (
	BatchIdle      BatchState = "idle"
	BatchRunning   BatchState = "running"
	BatchFinished  BatchState = "finished"
	BatchCancelled BatchState = "cancelled"
)
