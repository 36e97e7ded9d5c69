package repository

import (
	"context"
	"fmt"

	"PulseSync/internal/interfaces"
	"PulseSync/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type userRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) interfaces.UserRepository {
	return &userRepository{db: db}
}

// UpsertByExternalID 按 external_user_id 幂等创建用户。
// ON CONFLICT DO NOTHING：已存在时保留首见的名字/头像，不做覆盖更新；
// 并发摄入同一新用户时由唯一约束保证只落一行，随后统一回读落库行
func (r *userRepository) UpsertByExternalID(ctx context.Context, u *model.User) (*model.User, error) {
	if u.ID == "" {
		u.ID = uuid.NewString() // 生成全局唯一ID
	}
	if err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "external_user_id"}},
		DoNothing: true,
	}).Create(u).Error; err != nil {
		return nil, fmt.Errorf("用户幂等创建失败: %w", err)
	}

	// 冲突时Create不回填已有行，统一按外部ID回读
	var stored model.User
	if err := r.db.WithContext(ctx).Where("external_user_id = ?", u.ExternalUserID).First(&stored).Error; err != nil {
		return nil, fmt.Errorf("回读用户失败: %w", err)
	}
	return &stored, nil
}
