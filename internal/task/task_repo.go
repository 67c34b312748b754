package task

import (
	"context"
	"database/sql"

	"go-ems/internal/shared/connection"

	"gorm.io/gorm"
)

//go:generate mockgen -source=task_repo.go -destination=mock/task_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, t *Task) error
	Save(ctx context.Context, t *Task) error
	FindByID(ctx context.Context, id int64) (*Task, error)
	FindAllByEmployee(ctx context.Context, employeeID int64) ([]Task, error)
	FindPageByEmployee(ctx context.Context, employeeID int64, page, pageSize int) ([]Task, int64, error)
	DeleteAllByEmployee(ctx context.Context, employeeID int64) error
	FindAllByTimesheet(ctx context.Context, timesheetID int64) ([]Task, error)
	AssignTimesheet(ctx context.Context, taskIDs []int64, timesheetID int64) error
	ClearTimesheet(ctx context.Context, taskIDs []int64) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *sql.Tx) Repository {
	db, err := connection.GormFromTx(tx)
	if err != nil {
		return r
	}
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, t *Task) error {
	return r.db.WithContext(ctx).Create(t).Error
}

func (r *repository) Save(ctx context.Context, t *Task) error {
	return r.db.WithContext(ctx).Save(t).Error
}

func (r *repository) FindByID(ctx context.Context, id int64) (*Task, error) {
	var t Task
	err := r.db.WithContext(ctx).First(&t, "id = ?", id).Error
	return &t, err
}

func (r *repository) FindAllByEmployee(ctx context.Context, employeeID int64) ([]Task, error) {
	var tasks []Task
	err := r.db.WithContext(ctx).
		Where("employee_id = ?", employeeID).
		Order("id ASC").
		Find(&tasks).Error
	return tasks, err
}

func (r *repository) FindPageByEmployee(ctx context.Context, employeeID int64, page, pageSize int) ([]Task, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).
		Model(&Task{}).
		Where("employee_id = ?", employeeID).
		Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var tasks []Task
	err := r.db.WithContext(ctx).
		Where("employee_id = ?", employeeID).
		Order("id ASC").
		Offset(page * pageSize).
		Limit(pageSize).
		Find(&tasks).Error
	return tasks, total, err
}

func (r *repository) DeleteAllByEmployee(ctx context.Context, employeeID int64) error {
	return r.db.WithContext(ctx).
		Where("employee_id = ?", employeeID).
		Delete(&Task{}).Error
}

func (r *repository) FindAllByTimesheet(ctx context.Context, timesheetID int64) ([]Task, error) {
	var tasks []Task
	err := r.db.WithContext(ctx).
		Where("timesheet_id = ?", timesheetID).
		Order("id ASC").
		Find(&tasks).Error
	return tasks, err
}

func (r *repository) AssignTimesheet(ctx context.Context, taskIDs []int64, timesheetID int64) error {
	if len(taskIDs) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Model(&Task{}).
		Where("id IN ?", taskIDs).
		Update("timesheet_id", timesheetID).Error
}

func (r *repository) ClearTimesheet(ctx context.Context, taskIDs []int64) error {
	if len(taskIDs) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Model(&Task{}).
		Where("id IN ?", taskIDs).
		Update("timesheet_id", nil).Error
}
