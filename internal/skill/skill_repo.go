package skill

import (
	"context"
	"database/sql"

	"go-ems/internal/shared/connection"

	"gorm.io/gorm"
)

//go:generate mockgen -source=skill_repo.go -destination=mock/skill_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, s *Skill) error
	Save(ctx context.Context, s *Skill) error
	FindByID(ctx context.Context, id int64) (*Skill, error)
	FindAll(ctx context.Context) ([]Skill, error)
	FindAllByEmployee(ctx context.Context, employeeID int64) ([]Skill, error)
	DeleteByID(ctx context.Context, id int64) error
	DeleteAllByEmployee(ctx context.Context, employeeID int64) error
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

func (r *repository) Create(ctx context.Context, s *Skill) error {
	return r.db.WithContext(ctx).Create(s).Error
}

func (r *repository) Save(ctx context.Context, s *Skill) error {
	return r.db.WithContext(ctx).Save(s).Error
}

func (r *repository) FindByID(ctx context.Context, id int64) (*Skill, error) {
	var s Skill
	err := r.db.WithContext(ctx).First(&s, "id = ?", id).Error
	return &s, err
}

func (r *repository) FindAll(ctx context.Context) ([]Skill, error) {
	var skills []Skill
	err := r.db.WithContext(ctx).Order("id ASC").Find(&skills).Error
	return skills, err
}

func (r *repository) FindAllByEmployee(ctx context.Context, employeeID int64) ([]Skill, error) {
	var skills []Skill
	err := r.db.WithContext(ctx).
		Where("employee_id = ?", employeeID).
		Order("id ASC").
		Find(&skills).Error
	return skills, err
}

func (r *repository) DeleteByID(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Delete(&Skill{}, "id = ?", id).Error
}

func (r *repository) DeleteAllByEmployee(ctx context.Context, employeeID int64) error {
	return r.db.WithContext(ctx).
		Where("employee_id = ?", employeeID).
		Delete(&Skill{}).Error
}
