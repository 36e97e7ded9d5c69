package repository

import (
	"context"
	"errors"
	"fmt"

	"PulseSync/internal/interfaces"
	"PulseSync/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type updateRepository struct {
	db *gorm.DB
}

func NewUpdateRepository(db *gorm.DB) interfaces.UpdateRepository {
	return &updateRepository{db: db}
}

func (r *updateRepository) Create(ctx context.Context, u *model.Update) error {
	if u.ID == "" {
		u.ID = uuid.NewString() // 生成全局唯一ID
	}
	if err := r.db.WithContext(ctx).Create(u).Error; err != nil {
		return fmt.Errorf("保存周报失败: %w", err)
	}
	return nil
}

// LatestByProjectID 取项目最新一条周报，健康度判定只看这一条
func (r *updateRepository) LatestByProjectID(ctx context.Context, projectID string) (*model.Update, error) {
	var u model.Update
	err := r.db.WithContext(ctx).
		Where("project_id = ?", projectID).
		Order("created_at DESC").
		First(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("查询最新周报失败: %w", err)
	}
	return &u, nil
}

func (r *updateRepository) ListByProjectID(ctx context.Context, projectID string) ([]*model.Update, error) {
	var updates []*model.Update
	err := r.db.WithContext(ctx).
		Where("project_id = ?", projectID).
		Order("created_at DESC").
		Find(&updates).Error
	if err != nil {
		return nil, fmt.Errorf("查询周报列表失败: %w", err)
	}
	return updates, nil
}
