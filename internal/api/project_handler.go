package api

import (
	"errors"
	"net/http"

	"PulseSync/internal/repository"
	"PulseSync/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// ProjectHandler 管理端项目CRUD + 仪表盘查询（展示层在外部前端，这里只做薄查询面）
type ProjectHandler struct {
	projectService *service.ProjectService
	logger         *logrus.Logger
}

func NewProjectHandler(db *gorm.DB, logger *logrus.Logger) *ProjectHandler {
	svc := service.NewProjectService(
		repository.NewProjectRepository(db),
		repository.NewUpdateRepository(db),
		logger,
	)
	return &ProjectHandler{
		projectService: svc,
		logger:         logger,
	}
}

// ListProjects 项目列表（带健康度）
// @Summary 项目列表+红绿灯健康度
// @Success 200 {array} service.ProjectHealth
// @Router /api/projects [get]
func (h *ProjectHandler) ListProjects(c *gin.Context) {
	result, err := h.projectService.ListWithHealth(c.Request.Context())
	if err != nil {
		h.logger.WithError(err).Error("ListProjects failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, result)
}

// CreateProject 新建项目（项目只能在这里显式创建）
// @Summary 新建项目
// @Param body body service.CreateProjectInput true "项目信息"
// @Success 201 {object} model.Project
// @Failure 400 {object} map[string]string
// @Router /api/projects [post]
func (h *ProjectHandler) CreateProject(c *gin.Context) {
	var input service.CreateProjectInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "malformed payload"})
		return
	}

	project, err := h.projectService.Create(c.Request.Context(), input)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidProject):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, service.ErrChannelTaken):
			c.JSON(http.StatusConflict, gin.H{"error": "channel id already in use"})
		default:
			h.logger.WithError(err).Error("CreateProject failed")
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}
	c.JSON(http.StatusCreated, project)
}

// GetProjectDetail 项目详情（全部周报+健康度）
// @Summary 项目详情
// @Param id path string true "项目ID"
// @Success 200 {object} service.ProjectDetail
// @Failure 404 {object} map[string]string
// @Router /api/projects/{id} [get]
func (h *ProjectHandler) GetProjectDetail(c *gin.Context) {
	id := c.Param("id")
	detail, err := h.projectService.GetDetail(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrProjectNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "project not found"})
			return
		}
		h.logger.WithError(err).Error("GetProjectDetail failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, detail)
}

// DeleteProject 删除项目（级联删除周报）
// @Summary 删除项目
// @Param id path string true "项目ID"
// @Success 200 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /api/projects/{id} [delete]
func (h *ProjectHandler) DeleteProject(c *gin.Context) {
	id := c.Param("id")
	if err := h.projectService.Delete(c.Request.Context(), id); err != nil {
		if errors.Is(err, service.ErrProjectNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "project not found"})
			return
		}
		h.logger.WithError(err).Error("DeleteProject failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "project deleted"})
}

// GetStats 仪表盘汇总
// @Summary 项目总数/健康数/风险数
// @Success 200 {object} service.DashboardStats
// @Router /api/stats [get]
func (h *ProjectHandler) GetStats(c *gin.Context) {
	stats, err := h.projectService.Stats(c.Request.Context())
	if err != nil {
		h.logger.WithError(err).Error("GetStats failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, stats)
}
