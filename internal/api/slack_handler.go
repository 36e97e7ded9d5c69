package api

import (
	"encoding/json"
	"net/http"
	"strings"

	"PulseSync/internal/model"
	"PulseSync/internal/repository"
	"PulseSync/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// SlackHandler Slack事件回调入口
type SlackHandler struct {
	ingestService *service.IngestService
	logger        *logrus.Logger
}

func NewSlackHandler(db *gorm.DB, logger *logrus.Logger) *SlackHandler {
	svc := service.NewIngestService(
		repository.NewProjectRepository(db),
		repository.NewUserRepository(db),
		repository.NewUpdateRepository(db),
		repository.NewIngestLogRepository(db),
		logger,
	)
	return &SlackHandler{
		ingestService: svc,
		logger:        logger,
	}
}

// HandleEvent Slack事件回调
// @Summary 接收Slack事件（URL校验握手/消息事件）
// @Param body body model.SlackEnvelope true "Slack事件信封"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]string
// @Router /api/slack/events [post]
//
// 约定：凡是正常处理过的路径（包括频道未绑定的静默丢弃）一律回200，
// 避免触发Slack侧的重试/告警风暴；只有存储层错误才回500
func (h *SlackHandler) HandleEvent(c *gin.Context) {
	raw, err := c.GetRawData()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "malformed payload"})
		return
	}

	// 按 type 字段判别信封形态，未知形态在边界就拒掉，不让它漏进流水线
	var envelope model.SlackEnvelope
	if err := json.Unmarshal(raw, &envelope); err != nil {
		h.logger.WithError(err).Warn("Slack事件报文解析失败")
		c.JSON(http.StatusBadRequest, gin.H{"error": "malformed payload"})
		return
	}

	switch envelope.Type {
	case "url_verification":
		// 握手：原样回显challenge
		c.JSON(http.StatusOK, gin.H{"challenge": envelope.Challenge})
		return

	case "event_callback":
		// 只处理消息事件，机器人@提及（"<@"开头）直接过滤
		ev := envelope.Event
		if ev.Type != "message" || strings.HasPrefix(ev.Text, "<@") {
			c.JSON(http.StatusOK, gin.H{"ok": true})
			return
		}

		_, err := h.ingestService.Ingest(c.Request.Context(), service.IngestRequest{
			Source:         model.SourceSlack,
			ChannelID:      ev.Channel,
			ExternalUserID: ev.User,
			Text:           ev.Text,
			RawTimestamp:   ev.Ts,
			RawPayload:     raw,
		})
		if err != nil {
			h.logger.WithError(err).Error("Slack事件摄入失败")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"ok": true})
		return

	default:
		// 未知信封类型：ACK但不处理
		c.JSON(http.StatusOK, gin.H{"ok": true})
	}
}
