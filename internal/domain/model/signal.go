// Package model contains domain models passed between layers.
package model

// Signal represents a task-completion event submitted by the task service.
// SignalID exists only for transport-level deduplication; the award ledger
// remains the authority on idempotency.
type Signal struct {
	SignalID  string // unique id for idempotency
	UserID    uint   // acting user
	TeamID    uint   // team the completed task belongs to
	ProjectID uint   // project the completed task belongs to
}
