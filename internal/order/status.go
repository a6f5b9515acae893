package order

import "fmt"

// Status is the closed set of order states.
type Status string

const (
	StatusPending   Status = "pending"
	StatusPreparing Status = "preparing"
	StatusReady     Status = "ready"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

func ParseStatus(s string) (Status, error) {
	switch Status(s) {
	case StatusPending, StatusPreparing, StatusReady, StatusCompleted, StatusCancelled:
		return Status(s), nil
	default:
		return "", fmt.Errorf("invalid status %q", s)
	}
}

// transitions is the authoritative forward-only state graph.
var transitions = map[Status][]Status{
	StatusPending:   {StatusPreparing, StatusCancelled},
	StatusPreparing: {StatusReady, StatusCancelled},
	StatusReady:     {StatusCompleted},
	StatusCompleted: {},
	StatusCancelled: {},
}

// ValidateTransition reports whether cur -> next is allowed.
func ValidateTransition(cur, next Status) error {
	for _, s := range transitions[cur] {
		if s == next {
			return nil
		}
	}
	return fmt.Errorf("Invalid status transition from %s to %s", cur, next)
}
