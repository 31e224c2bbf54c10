package domain

import "fmt"

// Action names the workflow that produced an Outcome.
type Action string

const (
	ActionAdd    Action = "add"
	ActionRemove Action = "remove"
)

// OutcomeKind classifies how a workflow ended.
type OutcomeKind int

const (
	OutcomeFailed OutcomeKind = iota
	OutcomeCreated
	OutcomeDuplicate
	OutcomeDeleted
	OutcomeNotFound
	OutcomeUsageError
)

func (k OutcomeKind) String() string {
	switch k {
	case OutcomeCreated:
		return "created"
	case OutcomeDuplicate:
		return "duplicate"
	case OutcomeDeleted:
		return "deleted"
	case OutcomeNotFound:
		return "not_found"
	case OutcomeUsageError:
		return "usage_error"
	default:
		return "failed"
	}
}

// Outcome is the result of a mutating workflow. Notification delivery and
// console reporting are driven from it.
type Outcome struct {
	Kind   OutcomeKind
	Action Action
	// Identifier describes the key the workflow acted on, e.g. "week_number 3".
	Identifier string
	// Record is the stored record for OutcomeCreated.
	Record *ProgressRecord
	// Existing is the conflicting record for OutcomeDuplicate.
	Existing *ProgressRecord
	// Affected is the number of rows a delete removed.
	Affected int
	Err      error
}

// Success reports whether the workflow completed without an error. Duplicate
// and not-found outcomes are successful no-ops.
func (o Outcome) Success() bool {
	return o.Kind != OutcomeFailed && o.Kind != OutcomeUsageError
}

// WeekIdentifier formats a business key for reports.
func WeekIdentifier(week int) string {
	return fmt.Sprintf("week_number %d", week)
}

// IDIdentifier formats a surrogate key for reports.
func IDIdentifier(id string) string {
	return "ID " + id
}
