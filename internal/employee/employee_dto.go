package employee

import (
	"time"

	"go-ems/internal/task"
)

type EmployeeDTO struct {
	ID          int64          `json:"id,omitempty"`
	Name        string         `json:"name"`
	Designation string         `json:"designation"`
	Email       string         `json:"email"`
	Department  string         `json:"department"`
	HireDate    string         `json:"hireDate,omitempty"`
	FileName    string         `json:"fileName,omitempty"`
	FileType    string         `json:"fileType,omitempty"`
	Tasks       []task.TaskDTO `json:"tasks"`
}

// EmployeeDTOWithoutTasks is the listing projection that drops the task
// sub-list. Same query, different wire shape.
type EmployeeDTOWithoutTasks struct {
	ID          int64  `json:"id,omitempty"`
	Name        string `json:"name"`
	Designation string `json:"designation"`
	Email       string `json:"email"`
	Department  string `json:"department"`
	HireDate    string `json:"hireDate,omitempty"`
	FileName    string `json:"fileName,omitempty"`
	FileType    string `json:"fileType,omitempty"`
}

// Document is the uploaded file blob with its metadata, passed through
// opaque.
type Document struct {
	Content  []byte
	FileName string
	FileType string
}

func toEntity(d EmployeeDTO) Employee {
	e := Employee{
		ID:          d.ID,
		Name:        d.Name,
		Designation: d.Designation,
		Email:       d.Email,
		Department:  d.Department,
	}
	if d.HireDate != "" {
		if parsed, err := time.Parse(task.DateLayout, d.HireDate); err == nil {
			e.HireDate = &parsed
		}
	}
	for _, t := range d.Tasks {
		e.Tasks = append(e.Tasks, t.ToEntity())
	}
	return e
}

func mapToResponse(e Employee) EmployeeDTO {
	resp := EmployeeDTO{
		ID:          e.ID,
		Name:        e.Name,
		Designation: e.Designation,
		Email:       e.Email,
		Department:  e.Department,
		FileName:    e.FileName,
		FileType:    e.FileType,
		Tasks:       task.FromEntities(e.Tasks),
	}
	if e.HireDate != nil {
		resp.HireDate = e.HireDate.Format(task.DateLayout)
	}
	return resp
}

func mapToResponseWithoutTasks(e Employee) EmployeeDTOWithoutTasks {
	resp := EmployeeDTOWithoutTasks{
		ID:          e.ID,
		Name:        e.Name,
		Designation: e.Designation,
		Email:       e.Email,
		Department:  e.Department,
		FileName:    e.FileName,
		FileType:    e.FileType,
	}
	if e.HireDate != nil {
		resp.HireDate = e.HireDate.Format(task.DateLayout)
	}
	return resp
}

func mapToListResponse(employees []Employee) []EmployeeDTO {
	res := make([]EmployeeDTO, len(employees))
	for i, e := range employees {
		res[i] = mapToResponse(e)
	}
	return res
}
