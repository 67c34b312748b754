package timesheet

import (
	"time"

	"go-ems/internal/task"
)

type TimesheetDTO struct {
	ID          int64          `json:"id,omitempty"`
	Description string         `json:"description"`
	Hours       float64        `json:"hours"`
	WorkStatus  string         `json:"workStatus"`
	CreatedBy   string         `json:"createdBy"`
	UpdatedBy   string         `json:"updatedBy"`
	CreatedDate *time.Time     `json:"createdDate,omitempty"`
	UpdatedDate *time.Time     `json:"updatedDate,omitempty"`
	EmployeeID  int64          `json:"employeeId,omitempty"`
	TaskIDs     []int64        `json:"taskIds"`
	Tasks       []task.TaskDTO `json:"tasks,omitempty"`
}

func mapToResponse(t Timesheet) TimesheetDTO {
	created := t.CreatedDate
	updated := t.UpdatedDate

	resp := TimesheetDTO{
		ID:          t.ID,
		Description: t.Description,
		Hours:       t.Hours,
		WorkStatus:  t.WorkStatus,
		CreatedBy:   t.CreatedBy,
		UpdatedBy:   t.UpdatedBy,
		CreatedDate: &created,
		UpdatedDate: &updated,
		Tasks:       task.FromEntities(t.Tasks),
	}
	if t.EmployeeID != nil {
		resp.EmployeeID = *t.EmployeeID
	}

	resp.TaskIDs = make([]int64, len(t.Tasks))
	for i, tk := range t.Tasks {
		resp.TaskIDs[i] = tk.ID
	}
	return resp
}

func mapToListResponse(timesheets []Timesheet) []TimesheetDTO {
	res := make([]TimesheetDTO, len(timesheets))
	for i, t := range timesheets {
		res[i] = mapToResponse(t)
	}
	return res
}
