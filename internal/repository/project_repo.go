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

type projectRepository struct {
	db *gorm.DB
}

func NewProjectRepository(db *gorm.DB) interfaces.ProjectRepository {
	return &projectRepository{db: db}
}

// FindByChannelID 按频道ID查项目。频道未绑定项目是常态而非错误，返回 (nil, nil)
func (r *projectRepository) FindByChannelID(ctx context.Context, channelID string) (*model.Project, error) {
	var p model.Project
	err := r.db.WithContext(ctx).Where("channel_id = ?", channelID).First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("按频道ID查询项目失败: %w", err)
	}
	return &p, nil
}

func (r *projectRepository) Create(ctx context.Context, p *model.Project) error {
	if p.ID == "" {
		p.ID = uuid.NewString() // 生成全局唯一ID
	}
	if err := r.db.WithContext(ctx).Create(p).Error; err != nil {
		return fmt.Errorf("创建项目失败: %w", err)
	}
	return nil
}

// Delete 删除项目，外键级联删除其全部Update
func (r *projectRepository) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Project{})
	if res.Error != nil {
		return fmt.Errorf("删除项目失败: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// GetByID 查项目详情，预加载全部周报（按事件源时间倒序）
func (r *projectRepository) GetByID(ctx context.Context, id string) (*model.Project, error) {
	var p model.Project
	err := r.db.WithContext(ctx).
		Preload("Updates", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at DESC")
		}).
		Where("id = ?", id).First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("查询项目详情失败: %w", err)
	}
	return &p, nil
}

func (r *projectRepository) List(ctx context.Context) ([]*model.Project, error) {
	var projects []*model.Project
	if err := r.db.WithContext(ctx).Order("created_at DESC").Find(&projects).Error; err != nil {
		return nil, fmt.Errorf("查询项目列表失败: %w", err)
	}
	return projects, nil
}
