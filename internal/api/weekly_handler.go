package api

import (
	"crypto/subtle"
	"encoding/json"
	"net/http"

	"PulseSync/internal/config"
	"PulseSync/internal/model"
	"PulseSync/internal/repository"
	"PulseSync/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// WeeklyHandler 周报提交入口（外部表单工具回调，静态Bearer鉴权）
type WeeklyHandler struct {
	ingestService *service.IngestService
	logger        *logrus.Logger
	apiKey        string
}

func NewWeeklyHandler(db *gorm.DB, logger *logrus.Logger, cfg *config.Config) *WeeklyHandler {
	svc := service.NewIngestService(
		repository.NewProjectRepository(db),
		repository.NewUserRepository(db),
		repository.NewUpdateRepository(db),
		repository.NewIngestLogRepository(db),
		logger,
	)
	return &WeeklyHandler{
		ingestService: svc,
		logger:        logger,
		apiKey:        cfg.Auth.APIKey,
	}
}

// HandleWeeklyUpdate 接收周报提交
// @Summary 提交项目周报（含可选评分）
// @Param Authorization header string true "Bearer {SERVER_API_KEY}"
// @Param body body model.WeeklyUpdatePayload true "周报内容"
// @Success 200 {object} map[string]interface{}
// @Failure 401 {object} map[string]string
// @Router /api/weekly-updates [post]
func (h *WeeklyHandler) HandleWeeklyUpdate(c *gin.Context) {
	// 鉴权失败直接拒绝，不碰请求体
	expected := "Bearer " + h.apiKey
	got := c.GetHeader("Authorization")
	if h.apiKey == "" || subtle.ConstantTimeCompare([]byte(got), []byte(expected)) != 1 {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	raw, err := c.GetRawData()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "malformed payload"})
		return
	}
	var payload model.WeeklyUpdatePayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		h.logger.WithError(err).Warn("周报报文解析失败")
		c.JSON(http.StatusBadRequest, gin.H{"error": "malformed payload"})
		return
	}

	_, err = h.ingestService.Ingest(c.Request.Context(), service.IngestRequest{
		Source:          model.SourceWeekly,
		ChannelID:       payload.ChannelID,
		ExternalUserID:  payload.UserID,
		DisplayName:     payload.UserName,
		AvatarURL:       payload.ProfileImageURL,
		Text:            payload.WeeklyUpdates,
		RawTimestamp:    payload.Timestamp,
		RawProjectScore: payload.ProjectScore,
		RawClientScore:  payload.ClientScore,
		RawPayload:      raw,
	})
	if err != nil {
		h.logger.WithError(err).Error("周报摄入失败")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true})
}
