// Package domain holds the appointment status set and the business-rule
// errors of the scheduling workflow.
package domain

// Status is the lifecycle state of an appointment. Unlike quotes there is no
// transition table: a scheduled appointment can be completed or cancelled and
// both outcomes are final.
type Status string

const (
	// StatusScheduled is the initial state of every booking.
	StatusScheduled Status = "Scheduled"
	// StatusCompleted means the visit happened.
	StatusCompleted Status = "Completed"
	// StatusCancelled means the booking was called off.
	StatusCancelled Status = "Cancelled"
)

// ParseStatus validates a raw status label from storage or transport.
func ParseStatus(raw string) (Status, bool) {
	switch s := Status(raw); s {
	case StatusScheduled, StatusCompleted, StatusCancelled:
		return s, true
	default:
		return "", false
	}
}

// String returns the status label.
func (s Status) String() string { return string(s) }
