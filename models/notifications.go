package models

// EntityKind identifies which entity a change notification is about.
type EntityKind string

const (
	EntityKindWorkflowRun EntityKind = "workflow_run"
	EntityKindWorkflowJob EntityKind = "workflow_job"
)

// ChangeNotification is published after every successful entity write.
// Entity is the full post-write record, not a diff, so subscribers never
// need to reconstruct state from deltas.
type ChangeNotification struct {
	EntityKind EntityKind `json:"entity_kind"`
	EventLabel string     `json:"event_label"`
	Entity     any        `json:"entity"`
}
