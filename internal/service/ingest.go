package service

import (
	"context"
	"errors"
	"fmt"

	"PulseSync/internal/interfaces"
	"PulseSync/internal/model"
	"PulseSync/internal/utils/normalize"

	"github.com/sirupsen/logrus"
	"gorm.io/datatypes"
)

// IngestRequest 一次事件摄入的归一化入参（两个入站端点共用）
type IngestRequest struct {
	Source          model.IngestSource // 事件来源
	ChannelID       string             // 外部频道ID
	ExternalUserID  string             // 外部用户ID
	DisplayName     string             // 展示名，可空
	AvatarURL       string             // 头像地址，可空
	Text            string             // 正文
	RawTimestamp    string             // 原始时间戳串（Unix秒或ISO-8601）
	RawProjectScore string             // 项目评分串，可空
	RawClientScore  string             // 客户评分串，可空
	RawPayload      []byte             // 原始请求报文，存流水表排障用
}

// IngestResult 摄入结果。Outcome 为 skipped/rejected 时不算错误，边界照常ACK
type IngestResult struct {
	Outcome  model.IngestOutcome `json:"outcome"`
	Reason   string              `json:"reason,omitempty"`
	UpdateID string              `json:"update_id,omitempty"`
}

// IngestService 事件摄入流水线：项目门禁 → 用户幂等创建 → 时间戳/评分归一 → 落库
type IngestService struct {
	projects interfaces.ProjectRepository
	users    interfaces.UserRepository
	updates  interfaces.UpdateRepository
	logs     interfaces.IngestLogRepository
	logger   *logrus.Logger
}

func NewIngestService(
	projects interfaces.ProjectRepository,
	users interfaces.UserRepository,
	updates interfaces.UpdateRepository,
	logs interfaces.IngestLogRepository,
	logger *logrus.Logger,
) *IngestService {
	return &IngestService{
		projects: projects,
		users:    users,
		updates:  updates,
		logs:     logs,
		logger:   logger,
	}
}

// Ingest 处理单条事件。只有存储层错误才返回error（请求级致命，端点回500）；
// 频道未绑定、时间戳非法均转化为结果里的Outcome，保证端点可持续ACK
func (s *IngestService) Ingest(ctx context.Context, req IngestRequest) (*IngestResult, error) {
	// 1. 项目门禁：频道未绑定项目则静默丢弃，绝不自动建项目
	project, err := s.projects.FindByChannelID(ctx, req.ChannelID)
	if err != nil {
		return nil, fmt.Errorf("摄入流水线查询项目失败: %w", err)
	}
	if project == nil {
		s.logger.Infof("频道%s未绑定项目，丢弃事件", req.ChannelID)
		res := &IngestResult{Outcome: model.OutcomeSkipped, Reason: "no project bound to channel"}
		s.writeLog(ctx, req, res)
		return res, nil
	}

	// 2. 用户幂等创建，无展示名时用确定性兜底名
	name := req.DisplayName
	if name == "" {
		name = fmt.Sprintf("User %s", req.ExternalUserID)
	}
	user := &model.User{
		ExternalUserID: req.ExternalUserID,
		Name:           name,
	}
	if req.AvatarURL != "" {
		user.AvatarURL = &req.AvatarURL
	}
	if _, err := s.users.UpsertByExternalID(ctx, user); err != nil {
		return nil, fmt.Errorf("摄入流水线创建用户失败: %w", err)
	}

	// 3. 时间戳归一：失败硬拒绝本条事件，零行落库
	createdAt, err := normalize.Timestamp(req.RawTimestamp)
	if err != nil {
		s.logger.Warnf("频道%s事件时间戳不可解析: %q", req.ChannelID, req.RawTimestamp)
		res := &IngestResult{Outcome: model.OutcomeRejected, Reason: "invalid timestamp"}
		s.writeLog(ctx, req, res)
		return res, nil
	}

	// 4. 评分归一：单字段失败只降级该字段为无评分，不影响整条
	projectScore := s.normalizeScore(req.RawProjectScore, "project_score", req.ChannelID)
	clientScore := s.normalizeScore(req.RawClientScore, "client_score", req.ChannelID)

	// 5. 落库：一条Update，作者名取本次事件的展示名快照
	update := &model.Update{
		ProjectID:        project.ID,
		AuthorExternalID: req.ExternalUserID,
		AuthorName:       name,
		Text:             req.Text,
		ClientScore:      clientScore,
		ProjectScore:     projectScore,
		CreatedAt:        createdAt,
	}
	if err := s.updates.Create(ctx, update); err != nil {
		res := &IngestResult{Outcome: model.OutcomeFailed, Reason: "storage error"}
		s.writeLog(ctx, req, res)
		return nil, fmt.Errorf("摄入流水线保存周报失败: %w", err)
	}

	s.logger.Infof("项目%s新增周报: %s", project.Name, update.ID)
	res := &IngestResult{Outcome: model.OutcomeStored, UpdateID: update.ID}
	s.writeLog(ctx, req, res)
	return res, nil
}

func (s *IngestService) normalizeScore(raw, field, channelID string) *int {
	score, err := normalize.Score(raw)
	if errors.Is(err, normalize.ErrInvalidScore) {
		s.logger.Warnf("频道%s事件%s非法: %q，按无评分处理", channelID, field, raw)
		return nil
	}
	return score
}

// writeLog 摄入流水尽力而为落库，失败只记日志不影响请求
func (s *IngestService) writeLog(ctx context.Context, req IngestRequest, res *IngestResult) {
	l := &model.IngestLog{
		Source:    req.Source,
		Outcome:   res.Outcome,
		Reason:    res.Reason,
		ChannelID: req.ChannelID,
	}
	if len(req.RawPayload) > 0 {
		l.Payload = datatypes.JSON(req.RawPayload)
	}
	if err := s.logs.Create(ctx, l); err != nil {
		s.logger.WithError(err).Warn("写入摄入流水失败")
	}
}
