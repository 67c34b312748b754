package task

import "time"

type TaskDTO struct {
	ID           int64  `json:"id,omitempty"`
	Descriptions string `json:"descriptions"`
	DueDate      string `json:"dueDate,omitempty"`
	Status       string `json:"status"`
}

// ToEntity maps the DTO onto a fresh Task. A malformed due date is treated
// as absent, matching the lazy parse of the original wire format.
func (d TaskDTO) ToEntity() Task {
	t := Task{
		ID:           d.ID,
		Descriptions: d.Descriptions,
		Status:       d.Status,
	}
	t.DueDate = parseDate(d.DueDate)
	return t
}

// ApplyTo overwrites the mutable fields of an existing task in place.
func (d TaskDTO) ApplyTo(t *Task) {
	t.Descriptions = d.Descriptions
	t.Status = d.Status
	t.DueDate = parseDate(d.DueDate)
}

func FromEntity(t Task) TaskDTO {
	d := TaskDTO{
		ID:           t.ID,
		Descriptions: t.Descriptions,
		Status:       t.Status,
	}
	if t.DueDate != nil {
		d.DueDate = t.DueDate.Format(DateLayout)
	}
	return d
}

func FromEntities(tasks []Task) []TaskDTO {
	res := make([]TaskDTO, len(tasks))
	for i, t := range tasks {
		res[i] = FromEntity(t)
	}
	return res
}

func parseDate(s string) *time.Time {
	if s == "" {
		return nil
	}
	d, err := time.Parse(DateLayout, s)
	if err != nil {
		return nil
	}
	return &d
}
