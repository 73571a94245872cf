package domain

// EventKind identifies which read model a mutation refreshed.
type EventKind string

// Event kinds published after committed mutations.
const (
	EventProfileUpdated EventKind = "profile.updated"
	EventDayUpdated     EventKind = "daylog.updated"
	EventWeightUpdated  EventKind = "weight.updated"
)

// Event tells subscribers that a read model changed. Date is set for
// date-scoped events.
type Event struct {
	Kind EventKind `json:"kind"`
	Date string    `json:"date,omitempty"`
}

// EventPublisher is the port the aggregation services notify after each
// committed mutation so the presentation layer can refresh its read models.
type EventPublisher interface {
	Publish(e Event)
}
