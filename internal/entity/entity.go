// Package entity defines the tracked entity value types.
//
// Issues, milestones, and projects are plain records. Identity is the
// remote-assigned ID once one exists; an empty ID means the entity only
// exists in a note so far. Equality is field-by-field.
package entity

// Status is the open/closed state of a tracked entity.
type Status string

const (
	StatusOpen   Status = "open"
	StatusClosed Status = "closed"
)

// StatusReason qualifies a closed status.
type StatusReason string

const (
	ReasonCompleted  StatusReason = "completed"
	ReasonNotPlanned StatusReason = "not_planned"
	ReasonReopened   StatusReason = "reopened"
)

// Issue is one remote issue (or a note-local issue awaiting creation).
type Issue struct {
	ID           string
	Title        string
	Description  string
	Status       Status
	StatusReason StatusReason
	MilestoneID  string
	ProjectID    string
}

// Equal reports full field equality.
func (i Issue) Equal(other Issue) bool {
	return i == other
}

// Milestone is a remote milestone a note can track.
type Milestone struct {
	ID          string
	Title       string
	Description string
	Status      Status
}

// Equal reports full field equality.
func (m Milestone) Equal(other Milestone) bool {
	return m == other
}

// Project is a remote project a note can track.
type Project struct {
	ID          string
	Number      int
	Title       string
	Description string
	Status      Status
}

// Equal reports full field equality.
func (p Project) Equal(other Project) bool {
	return p == other
}
