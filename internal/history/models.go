package history

import (
	"strings"
	"time"
)

// Status represents the lifecycle of a conversion request.
type Status string

const (
	StatusStarted   Status = "started"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
	// StatusRejected marks inputs that were never convertible (not a
	// container, missing file).
	StatusRejected Status = "rejected"
)

var allStatuses = []Status{StatusStarted, StatusCompleted, StatusFailed, StatusRejected}

// AllStatuses returns every known status in lifecycle order.
func AllStatuses() []Status {
	return append([]Status(nil), allStatuses...)
}

// ParseStatus converts a string into a Status value.
func ParseStatus(value string) (Status, bool) {
	normalized := strings.ToLower(strings.TrimSpace(value))
	for _, status := range allStatuses {
		if string(status) == normalized {
			return status, true
		}
	}
	return "", false
}

// IsTerminal reports whether the status ends a request.
func (s Status) IsTerminal() bool {
	return s != StatusStarted
}

// Entry is one conversion request.
type Entry struct {
	ID         int64
	RequestID  string
	SourcePath string
	OutputPath string
	Format     string
	Status     Status
	Message    string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Duration returns how long the request ran, or zero while it is running.
func (e Entry) Duration() time.Duration {
	if !e.Status.IsTerminal() || e.UpdatedAt.Before(e.CreatedAt) {
		return 0
	}
	return e.UpdatedAt.Sub(e.CreatedAt)
}

// HealthSummary aggregates entry counts by status.
type HealthSummary struct {
	Total     int
	Started   int
	Completed int
	Failed    int
	Rejected  int
}
