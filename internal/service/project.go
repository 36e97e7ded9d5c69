package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"PulseSync/internal/interfaces"
	"PulseSync/internal/model"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var (
	// ErrInvalidProject 项目入参校验失败
	ErrInvalidProject = errors.New("invalid project")
	// ErrChannelTaken 频道ID已被其他项目占用
	ErrChannelTaken = errors.New("channel id already in use")
	// ErrProjectNotFound 项目不存在
	ErrProjectNotFound = errors.New("project not found")
)

// CreateProjectInput 管理端建项目入参
type CreateProjectInput struct {
	Name        string `json:"name"`
	ChannelID   string `json:"channel_id"`
	Vertical    string `json:"vertical"`
	Description string `json:"description"`
}

// ProjectHealth 带健康度装饰的项目视图（给仪表盘读的薄查询面）
type ProjectHealth struct {
	*model.Project
	LatestUpdate        *model.Update      `json:"latest_update,omitempty"`
	HealthStatus        model.HealthStatus `json:"health_status"`
	DaysSinceLastUpdate *int               `json:"days_since_last_update,omitempty"` // 从未有周报时为空
}

// ProjectDetail 项目详情视图：全部周报历史+健康度
type ProjectDetail struct {
	ProjectHealth
	UpdateHistory []model.Update `json:"updates"`
}

// DashboardStats 仪表盘首页汇总
type DashboardStats struct {
	TotalProjects   int `json:"total_projects"`
	HealthyProjects int `json:"healthy_projects"`
	AtRiskProjects  int `json:"at_risk_projects"`
}

// ProjectService 项目管理与仪表盘查询
type ProjectService struct {
	projects interfaces.ProjectRepository
	updates  interfaces.UpdateRepository
	logger   *logrus.Logger
}

func NewProjectService(projects interfaces.ProjectRepository, updates interfaces.UpdateRepository, logger *logrus.Logger) *ProjectService {
	return &ProjectService{
		projects: projects,
		updates:  updates,
		logger:   logger,
	}
}

// Create 管理端显式建项目（项目只能由管理动作创建，事件永远不会自动建）
func (s *ProjectService) Create(ctx context.Context, input CreateProjectInput) (*model.Project, error) {
	name := strings.TrimSpace(input.Name)
	channelID := strings.TrimSpace(input.ChannelID)
	if name == "" {
		return nil, fmt.Errorf("%w: 项目名称必填", ErrInvalidProject)
	}
	if channelID == "" {
		return nil, fmt.Errorf("%w: 频道ID必填", ErrInvalidProject)
	}
	if !model.ValidVertical(input.Vertical) {
		return nil, fmt.Errorf("%w: 非法赛道 %q", ErrInvalidProject, input.Vertical)
	}

	// 频道ID全局唯一，先查重给出友好错误（唯一约束兜底并发窗口）
	existing, err := s.projects.FindByChannelID(ctx, channelID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrChannelTaken
	}

	p := &model.Project{
		Name:      name,
		ChannelID: channelID,
		Vertical:  model.Vertical(input.Vertical),
	}
	if desc := strings.TrimSpace(input.Description); desc != "" {
		p.Description = &desc
	}
	if err := s.projects.Create(ctx, p); err != nil {
		return nil, err
	}
	s.logger.Infof("新建项目: %s（频道%s）", p.Name, p.ChannelID)
	return p, nil
}

// Delete 删除项目并级联清掉其周报
func (s *ProjectService) Delete(ctx context.Context, id string) error {
	if err := s.projects.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrProjectNotFound
		}
		return err
	}
	s.logger.Infof("删除项目: %s", id)
	return nil
}

// ListWithHealth 项目列表+健康度，评估时刻取当前时间
func (s *ProjectService) ListWithHealth(ctx context.Context) ([]*ProjectHealth, error) {
	projects, err := s.projects.List(ctx)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	result := make([]*ProjectHealth, 0, len(projects))
	for _, p := range projects {
		ph, err := s.decorate(ctx, p, now)
		if err != nil {
			return nil, err
		}
		result = append(result, ph)
	}
	return result, nil
}

// GetDetail 项目详情：全部周报+健康度；不存在返回 ErrProjectNotFound
func (s *ProjectService) GetDetail(ctx context.Context, id string) (*ProjectDetail, error) {
	p, err := s.projects.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, ErrProjectNotFound
	}

	detail := &ProjectDetail{UpdateHistory: p.Updates}
	p.Updates = nil // 历史已单独放UpdateHistory，避免嵌套重复序列化
	ph, err := s.decorate(ctx, p, time.Now())
	if err != nil {
		return nil, err
	}
	detail.ProjectHealth = *ph
	return detail, nil
}

// Stats 仪表盘汇总：总数/健康数/风险数
func (s *ProjectService) Stats(ctx context.Context) (*DashboardStats, error) {
	list, err := s.ListWithHealth(ctx)
	if err != nil {
		return nil, err
	}
	stats := &DashboardStats{TotalProjects: len(list)}
	for _, ph := range list {
		switch ph.HealthStatus {
		case model.HealthGreen:
			stats.HealthyProjects++
		case model.HealthRed:
			stats.AtRiskProjects++
		}
	}
	return stats, nil
}

func (s *ProjectService) decorate(ctx context.Context, p *model.Project, now time.Time) (*ProjectHealth, error) {
	latest, err := s.updates.LatestByProjectID(ctx, p.ID)
	if err != nil {
		return nil, err
	}
	ph := &ProjectHealth{
		Project:      p,
		LatestUpdate: latest,
		HealthStatus: ClassifyHealth(latest, now),
	}
	if latest != nil {
		days := DaysBetween(latest.CreatedAt, now)
		ph.DaysSinceLastUpdate = &days
	}
	return ph, nil
}
