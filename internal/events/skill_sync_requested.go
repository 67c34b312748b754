package events

import "time"

const SkillSyncTopic = "ems.employee.skills.v1"

// SkillPayload mirrors the skills-service wire DTO.
type SkillPayload struct {
	EmployeeID int64  `json:"employeeId"`
	SkillName  string `json:"skillName"`
}

// SkillSyncRequestedEvent asks the skills service to persist a batch of
// skills for an employee that has just been committed.
type SkillSyncRequestedEvent struct {
	EventType  string         `json:"event_type"`
	RequestID  string         `json:"request_id,omitempty"`
	EmployeeID int64          `json:"employee_id"`
	Skills     []SkillPayload `json:"skills"`
	OccurredAt time.Time      `json:"occurred_at"`
}
