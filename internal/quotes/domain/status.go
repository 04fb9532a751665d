// Package domain holds the quote lifecycle rules: the status state machine
// and the business-rule errors the quote workflow can produce.
package domain

// Status is the lifecycle state of a quote. The set is closed: values are
// only ever produced by this package and validated on the way in from
// storage or transport.
type Status string

const (
	// StatusDraft is the initial state. Line items may only be mutated here.
	StatusDraft Status = "Draft"
	// StatusSubmitted means the item set is frozen and awaiting a decision.
	StatusSubmitted Status = "Submitted"
	// StatusApproved means the quote was accepted and may be converted.
	StatusApproved Status = "Approved"
	// StatusRejected is terminal.
	StatusRejected Status = "Rejected"
	// StatusSettled is terminal, reached only by conversion into a sale.
	StatusSettled Status = "Settled"
)

// transitions is the explicit transition table. Approved -> Settled is listed
// here but the sale converter is the only caller allowed to perform it;
// SetDecision rejects Settled as a target.
var transitions = map[Status][]Status{
	StatusDraft:     {StatusSubmitted},
	StatusSubmitted: {StatusApproved, StatusRejected},
	StatusApproved:  {StatusSettled},
	StatusRejected:  {},
	StatusSettled:   {},
}

// ParseStatus validates a raw status label from storage or transport.
func ParseStatus(raw string) (Status, bool) {
	s := Status(raw)
	_, ok := transitions[s]
	return s, ok
}

// String returns the status label.
func (s Status) String() string { return string(s) }

// IsMutable reports whether line items may be changed in this state.
func (s Status) IsMutable() bool { return s == StatusDraft }

// IsTerminal reports whether no transition leaves this state.
func (s Status) IsTerminal() bool { return len(transitions[s]) == 0 }

// CanTransition reports whether the state machine allows moving to target.
func (s Status) CanTransition(target Status) bool {
	for _, allowed := range transitions[s] {
		if allowed == target {
			return true
		}
	}
	return false
}

// IsDecision reports whether the status is a valid outcome of a decision on
// a submitted quote.
func (s Status) IsDecision() bool {
	return s == StatusApproved || s == StatusRejected
}

// EnsureMutable returns ErrQuoteNotMutable unless the quote is in Draft.
func (s Status) EnsureMutable() error {
	if !s.IsMutable() {
		return ErrQuoteNotMutable
	}
	return nil
}

// Finalize validates the Draft -> Submitted transition.
// A quote with no line items cannot be finalized.
func (s Status) Finalize(itemCount int) (Status, error) {
	if !s.CanTransition(StatusSubmitted) {
		return s, ErrIllegalTransition
	}
	if itemCount == 0 {
		return s, ErrEmptyQuote
	}
	return StatusSubmitted, nil
}

// Decide validates the Submitted -> Approved|Rejected transition.
func (s Status) Decide(target Status) (Status, error) {
	if !target.IsDecision() {
		return s, ErrIllegalTransition
	}
	if !s.CanTransition(target) {
		return s, ErrIllegalTransition
	}
	return target, nil
}

// Settle validates the Approved -> Settled transition performed by the
// sale converter.
func (s Status) Settle() (Status, error) {
	if s != StatusApproved {
		return s, ErrQuoteNotApproved
	}
	return StatusSettled, nil
}
