package convert

import "time"

// Phase is the observable state of a request.
type Phase string

const (
	PhaseStarted   Phase = "started"
	PhaseCompleted Phase = "completed"
	PhaseFailed    Phase = "failed"
)

// Event is emitted for every phase change of a request.
type Event struct {
	RequestID string
	Path      string
	Phase     Phase
	// Output is set on completion.
	Output string
	// Message carries the failure text on PhaseFailed.
	Message string
	Time    time.Time
}

// Reporter receives request events. Implementations must be safe for
// concurrent use when the service runs batches.
type Reporter interface {
	Report(Event)
}

// ReporterFunc adapts a function to the Reporter interface.
type ReporterFunc func(Event)

// Report calls f(ev).
func (f ReporterFunc) Report(ev Event) { f(ev) }

type discardReporter struct{}

func (discardReporter) Report(Event) {}
