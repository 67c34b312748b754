package events

import "time"

const EmployeeLifecycleTopic = "ems.employee.lifecycle.v1"

// EmployeeDeletedEvent lets the skills service drop skills that point at
// a removed employee. Skill.EmployeeID is a soft reference, so this event
// is the cleanup path keeping the two stores consistent.
type EmployeeDeletedEvent struct {
	EventType  string    `json:"event_type"`
	RequestID  string    `json:"request_id,omitempty"`
	EmployeeID int64     `json:"employee_id"`
	OccurredAt time.Time `json:"occurred_at"`
}
