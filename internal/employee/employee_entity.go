package employee

import (
	"time"

	"go-ems/internal/task"
)

type Employee struct {
	ID          int64 `gorm:"primaryKey;autoIncrement"`
	Name        string
	Designation string
	Email       string `gorm:"index"`
	Department  string
	HireDate    *time.Time `gorm:"type:date"`

	// Uploaded document stored alongside its metadata.
	UploadDocument []byte `gorm:"type:bytea"`
	FileName       string
	FileType       string

	Tasks []task.Task `gorm:"foreignKey:EmployeeID"`
}
