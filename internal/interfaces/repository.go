package interfaces

import (
	"context"

	"PulseSync/internal/model"
)

// ProjectRepository 项目仓储接口
type ProjectRepository interface {
	// FindByChannelID 按频道ID精确查找项目；未绑定返回 (nil, nil)，不算错误
	FindByChannelID(ctx context.Context, channelID string) (*model.Project, error)
	Create(ctx context.Context, p *model.Project) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*model.Project, error)
	List(ctx context.Context) ([]*model.Project, error)
}

// UserRepository 用户仓储接口
type UserRepository interface {
	// UpsertByExternalID 按外部用户ID幂等创建：已存在则保留首次写入的名字/头像。
	// 并发下靠唯一约束+ON CONFLICT保证只有一行
	UpsertByExternalID(ctx context.Context, u *model.User) (*model.User, error)
}

// UpdateRepository 周报仓储接口
type UpdateRepository interface {
	Create(ctx context.Context, u *model.Update) error
	// LatestByProjectID 取项目最新一条周报（按事件源时间倒序）；无记录返回 (nil, nil)
	LatestByProjectID(ctx context.Context, projectID string) (*model.Update, error)
	ListByProjectID(ctx context.Context, projectID string) ([]*model.Update, error)
}

// IngestLogRepository 摄入流水仓储接口
type IngestLogRepository interface {
	Create(ctx context.Context, l *model.IngestLog) error
}
