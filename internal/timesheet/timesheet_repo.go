package timesheet

import (
	"context"
	"database/sql"
	"time"

	"go-ems/internal/shared/connection"

	"gorm.io/gorm"
)

//go:generate mockgen -source=timesheet_repo.go -destination=mock/timesheet_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, t *Timesheet) error
	Save(ctx context.Context, t *Timesheet) error
	FindByID(ctx context.Context, id int64) (*Timesheet, error)
	FindPage(ctx context.Context, page, pageSize int) ([]Timesheet, int64, error)
	FindByCreatedDateBetween(ctx context.Context, from, to time.Time, page, pageSize int) ([]Timesheet, int64, error)
	FindAllByEmployee(ctx context.Context, employeeID int64) ([]Timesheet, error)
	Delete(ctx context.Context, id int64) error
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

func (r *repository) Create(ctx context.Context, t *Timesheet) error {
	return r.db.WithContext(ctx).Create(t).Error
}

func (r *repository) Save(ctx context.Context, t *Timesheet) error {
	return r.db.WithContext(ctx).Save(t).Error
}

func (r *repository) FindByID(ctx context.Context, id int64) (*Timesheet, error) {
	var t Timesheet
	err := r.db.WithContext(ctx).
		Preload("Tasks").
		First(&t, "id = ?", id).Error
	return &t, err
}

func (r *repository) FindPage(ctx context.Context, page, pageSize int) ([]Timesheet, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&Timesheet{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var timesheets []Timesheet
	err := r.db.WithContext(ctx).
		Preload("Tasks").
		Order("id ASC").
		Offset(page * pageSize).
		Limit(pageSize).
		Find(&timesheets).Error
	return timesheets, total, err
}

func (r *repository) FindByCreatedDateBetween(ctx context.Context, from, to time.Time, page, pageSize int) ([]Timesheet, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&Timesheet{}).
		Where("created_date BETWEEN ? AND ?", from, to).
		Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var timesheets []Timesheet
	err := r.db.WithContext(ctx).
		Preload("Tasks").
		Where("created_date BETWEEN ? AND ?", from, to).
		Order("created_date ASC").
		Offset(page * pageSize).
		Limit(pageSize).
		Find(&timesheets).Error
	return timesheets, total, err
}

func (r *repository) FindAllByEmployee(ctx context.Context, employeeID int64) ([]Timesheet, error) {
	var timesheets []Timesheet
	err := r.db.WithContext(ctx).
		Preload("Tasks").
		Where("employee_id = ?", employeeID).
		Order("id ASC").
		Find(&timesheets).Error
	return timesheets, err
}

func (r *repository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Delete(&Timesheet{}, "id = ?", id).Error
}
