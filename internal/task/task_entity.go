package task

import "time"

// DateLayout is the wire format for all date fields.
const DateLayout = "2006-01-02"

// Task may be unassigned (no employee) and is lazily associated with a
// timesheet. Both references live on the task row.
type Task struct {
	ID           int64 `gorm:"primaryKey;autoIncrement"`
	Descriptions string
	DueDate      *time.Time `gorm:"type:date"`
	Status       string
	EmployeeID   *int64 `gorm:"index"`
	TimesheetID  *int64 `gorm:"index"`
}
