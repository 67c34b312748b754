package timesheet

import (
	"time"

	"go-ems/internal/task"
)

// Timesheet owns a set of tasks through the timesheet_id back-reference
// on the task row. CreatedDate is set once at creation; UpdatedDate moves
// on every mutation.
type Timesheet struct {
	ID          int64 `gorm:"primaryKey;autoIncrement"`
	Description string
	Hours       float64
	WorkStatus  string
	CreatedBy   string
	UpdatedBy   string
	CreatedDate time.Time
	UpdatedDate time.Time
	EmployeeID  *int64 `gorm:"index"`

	Tasks []task.Task `gorm:"foreignKey:TimesheetID"`
}
