package api

import (
	"bytes"
	"context"
	"io"
	"net/http/httptest"

	"PulseSync/internal/model"
	"PulseSync/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// ========== 仓储假实现（端点级测试不起数据库） ==========

type stubProjectRepo struct {
	byChannel map[string]*model.Project
}

func (s *stubProjectRepo) FindByChannelID(_ context.Context, channelID string) (*model.Project, error) {
	return s.byChannel[channelID], nil
}
func (s *stubProjectRepo) Create(context.Context, *model.Project) error { return nil }
func (s *stubProjectRepo) Delete(context.Context, string) error { return nil }
func (s *stubProjectRepo) GetByID(context.Context, string) (*model.Project, error) {
	return nil, nil
}
func (s *stubProjectRepo) List(context.Context) ([]*model.Project, error) { return nil, nil }

type stubUserRepo struct {
	byExternalID map[string]*model.User
}

func (s *stubUserRepo) UpsertByExternalID(_ context.Context, u *model.User) (*model.User, error) {
	if existing, ok := s.byExternalID[u.ExternalUserID]; ok {
		return existing, nil
	}
	if s.byExternalID == nil {
		s.byExternalID = map[string]*model.User{}
	}
	s.byExternalID[u.ExternalUserID] = u
	return u, nil
}

type stubUpdateRepo struct {
	created []*model.Update
}

func (s *stubUpdateRepo) Create(_ context.Context, u *model.Update) error {
	if u.ID == "" {
		u.ID = "stub-update-id"
	}
	s.created = append(s.created, u)
	return nil
}
func (s *stubUpdateRepo) LatestByProjectID(context.Context, string) (*model.Update, error) {
	return nil, nil
}
func (s *stubUpdateRepo) ListByProjectID(context.Context, string) ([]*model.Update, error) {
	return nil, nil
}

type stubLogRepo struct {
	logs []*model.IngestLog
}

func (s *stubLogRepo) Create(_ context.Context, l *model.IngestLog) error {
	s.logs = append(s.logs, l)
	return nil
}

// ========== 脚手架 ==========

type apiFixture struct {
	updates *stubUpdateRepo
	logs    *stubLogRepo
	ingest  *service.IngestService
	logger  *logrus.Logger
}

// newAPIFixture 预置一个绑定频道C001的项目
func newAPIFixture() *apiFixture {
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	projects := &stubProjectRepo{byChannel: map[string]*model.Project{
		"C001": {ID: "p-1", Name: "Coinbase Wallet", ChannelID: "C001", Vertical: model.VerticalCrypto},
	}}
	updates := &stubUpdateRepo{}
	logs := &stubLogRepo{}
	ingest := service.NewIngestService(projects, &stubUserRepo{}, updates, logs, logger)
	return &apiFixture{
		updates: updates,
		logs:    logs,
		ingest:  ingest,
		logger:  logger,
	}
}

func doJSON(handler gin.HandlerFunc, method, path, body string, headers map[string]string) *httptest.ResponseRecorder {
	r := gin.New()
	r.Handle(method, path, handler)

	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}
