package repository

import (
	"context"
	"fmt"

	"PulseSync/internal/interfaces"
	"PulseSync/internal/model"

	"gorm.io/gorm"
)

type ingestLogRepository struct {
	db *gorm.DB
}

func NewIngestLogRepository(db *gorm.DB) interfaces.IngestLogRepository {
	return &ingestLogRepository{db: db}
}

func (r *ingestLogRepository) Create(ctx context.Context, l *model.IngestLog) error {
	if err := r.db.WithContext(ctx).Create(l).Error; err != nil {
		return fmt.Errorf("写入摄入流水失败: %w", err)
	}
	return nil
}
