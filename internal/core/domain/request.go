package domain

import (
	"fmt"
	"slices"
	"time"
)

type Status string

const (
	StatusAwaitingPayment Status = "awaiting_payment"
	StatusUnderReview     Status = "under_review"
	StatusApproved        Status = "approved"
	StatusRejected        Status = "rejected"
)

// Statuses lists every status a service request can hold.
var Statuses = []Status{StatusAwaitingPayment, StatusUnderReview, StatusApproved, StatusRejected}

func ParseStatus(s string) (Status, error) {
	st := Status(s)
	if !slices.Contains(Statuses, st) {
		return "", Validationf("unknown request status %q", s)
	}
	return st, nil
}

func (s Status) Terminal() bool {
	return s == StatusApproved || s == StatusRejected
}

// ParseOfficerFilter maps the officer-facing list name to the stored status.
// Officers see paid requests awaiting a decision as "pending".
func ParseOfficerFilter(s string) (Status, error) {
	switch s {
	case "pending":
		return StatusUnderReview, nil
	case "approved":
		return StatusApproved, nil
	case "rejected":
		return StatusRejected, nil
	default:
		return "", Validationf("invalid status filter %q", s)
	}
}

type Action string

const (
	ActionSubmitPayment Action = "submit_payment"
	ActionApprove       Action = "approve"
	ActionReject        Action = "reject"
)

// ParseDecision accepts only the officer outcomes.
func ParseDecision(s string) (Action, error) {
	switch Action(s) {
	case ActionApprove, ActionReject:
		return Action(s), nil
	default:
		return "", Validationf("invalid action %q", s)
	}
}

type Transition struct {
	From []Status
	To   Status
}

// TransitionTable lists, per action, the source states it may fire from.
type TransitionTable map[Action]Transition

// NewTransitionTable builds the lifecycle table. When allowDecideUnpaid is set
// officers may also decide requests still awaiting payment.
func NewTransitionTable(allowDecideUnpaid bool) TransitionTable {
	decideFrom := []Status{StatusUnderReview}
	if allowDecideUnpaid {
		decideFrom = append(decideFrom, StatusAwaitingPayment)
	}
	return TransitionTable{
		ActionSubmitPayment: {From: []Status{StatusAwaitingPayment}, To: StatusUnderReview},
		ActionApprove:       {From: decideFrom, To: StatusApproved},
		ActionReject:        {From: slices.Clone(decideFrom), To: StatusRejected},
	}
}

// Apply returns the status reached by firing action from current. changed is
// false when a decision is re-applied to a request already in that terminal
// state; any other move out of a terminal state is ErrInvalidTransition.
func (t TransitionTable) Apply(current Status, action Action) (next Status, changed bool, err error) {
	rule, ok := t[action]
	if !ok {
		return current, false, fmt.Errorf("%w: unknown action %q", ErrValidation, action)
	}
	if current.Terminal() {
		if current == rule.To {
			return current, false, nil
		}
		return current, false, fmt.Errorf("%w: request is already %s", ErrInvalidTransition, current)
	}
	if !slices.Contains(rule.From, current) {
		return current, false, fmt.Errorf("%w: cannot %s a request that is %s", ErrInvalidTransition, action, current)
	}
	return rule.To, true, nil
}

type ServiceRequest struct {
	ID          int64     `json:"id"`
	CitizenID   int64     `json:"citizen_id"`
	ServiceID   int64     `json:"service_id"`
	ServiceName string    `json:"service_name,omitempty"`
	Description string    `json:"description"`
	Status      Status    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
}

// RequestScope is the locked view of a request a transition is decided on.
type RequestScope struct {
	RequestID    int64
	CitizenID    int64
	ServiceID    int64
	DepartmentID int64
	Status       Status
	ServiceFee   *float64
}

// OfficerRequest is a row of an officer's scoped request list.
type OfficerRequest struct {
	ID          int64     `json:"id"`
	Description string    `json:"description"`
	Status      Status    `json:"status"`
	CitizenName string    `json:"citizen_name"`
	ServiceName string    `json:"service_name"`
	CreatedAt   time.Time `json:"created_at"`
}

type Document struct {
	ID         int64     `json:"id"`
	RequestID  int64     `json:"request_id"`
	FilePath   string    `json:"file_path"`
	FileType   string    `json:"file_type"`
	UploadedAt time.Time `json:"uploaded_at"`
}

const PaymentPending = "pending"

type Payment struct {
	ID        int64     `json:"id"`
	RequestID int64     `json:"request_id"`
	Amount    float64   `json:"amount"`
	Status    string    `json:"status"`
	ProofFile string    `json:"proof_file"`
	PaidAt    time.Time `json:"paid_at"`
}

// RequestDetail is the officer's full view of one request.
type RequestDetail struct {
	ID             int64      `json:"id"`
	Description    string     `json:"description"`
	Status         Status     `json:"status"`
	CreatedAt      time.Time  `json:"created_at"`
	CitizenName    string     `json:"citizen_name"`
	CitizenEmail   string     `json:"citizen_email"`
	CitizenContact string     `json:"citizen_contact"`
	NationalID     string     `json:"national_id"`
	ServiceName    string     `json:"service_name"`
	Documents      []Document `json:"documents"`
	Payment        *Payment   `json:"payment,omitempty"`
}

// StatusEvent records one lifecycle transition; it is written to the outbox
// in the same transaction as the status change.
type StatusEvent struct {
	EventID    string    `json:"event_id"`
	RequestID  int64     `json:"request_id"`
	CitizenID  int64     `json:"citizen_id"`
	ServiceID  int64     `json:"service_id"`
	From       Status    `json:"from,omitempty"`
	To         Status    `json:"to"`
	OccurredAt time.Time `json:"occurred_at"`
}

const StatusChangedEvent = "request.status_changed"
