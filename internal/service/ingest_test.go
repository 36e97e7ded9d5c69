package service

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"PulseSync/internal/model"

	"github.com/sirupsen/logrus"
)

// ========== 仓储假实现（只覆盖流水线用到的路径） ==========

type fakeProjectRepo struct {
	byChannel map[string]*model.Project
}

func (f *fakeProjectRepo) FindByChannelID(_ context.Context, channelID string) (*model.Project, error) {
	return f.byChannel[channelID], nil
}
func (f *fakeProjectRepo) Create(context.Context, *model.Project) error { return nil }
func (f *fakeProjectRepo) Delete(context.Context, string) error { return nil }
func (f *fakeProjectRepo) GetByID(context.Context, string) (*model.Project, error) {
	return nil, nil
}
func (f *fakeProjectRepo) List(context.Context) ([]*model.Project, error) { return nil, nil }

type fakeUserRepo struct {
	byExternalID map[string]*model.User
	upsertCalls  int
}

func (f *fakeUserRepo) UpsertByExternalID(_ context.Context, u *model.User) (*model.User, error) {
	f.upsertCalls++
	if existing, ok := f.byExternalID[u.ExternalUserID]; ok {
		return existing, nil // 已存在则首见属性胜出
	}
	if f.byExternalID == nil {
		f.byExternalID = map[string]*model.User{}
	}
	f.byExternalID[u.ExternalUserID] = u
	return u, nil
}

type fakeUpdateRepo struct {
	created   []*model.Update
	createErr error
}

func (f *fakeUpdateRepo) Create(_ context.Context, u *model.Update) error {
	if f.createErr != nil {
		return f.createErr
	}
	if u.ID == "" {
		u.ID = "fake-update-id"
	}
	f.created = append(f.created, u)
	return nil
}
func (f *fakeUpdateRepo) LatestByProjectID(context.Context, string) (*model.Update, error) {
	return nil, nil
}
func (f *fakeUpdateRepo) ListByProjectID(context.Context, string) ([]*model.Update, error) {
	return nil, nil
}

type fakeLogRepo struct {
	logs []*model.IngestLog
}

func (f *fakeLogRepo) Create(_ context.Context, l *model.IngestLog) error {
	f.logs = append(f.logs, l)
	return nil
}

// ========== 测试脚手架 ==========

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

type ingestFixture struct {
	svc      *IngestService
	projects *fakeProjectRepo
	users    *fakeUserRepo
	updates  *fakeUpdateRepo
	logs     *fakeLogRepo
}

func newIngestFixture() *ingestFixture {
	f := &ingestFixture{
		projects: &fakeProjectRepo{byChannel: map[string]*model.Project{
			"C001": {ID: "p-1", Name: "Coinbase Wallet", ChannelID: "C001", Vertical: model.VerticalCrypto},
		}},
		users:   &fakeUserRepo{},
		updates: &fakeUpdateRepo{},
		logs:    &fakeLogRepo{},
	}
	f.svc = NewIngestService(f.projects, f.users, f.updates, f.logs, quietLogger())
	return f
}

func validRequest() IngestRequest {
	return IngestRequest{
		Source:         model.SourceSlack,
		ChannelID:      "C001",
		ExternalUserID: "U123",
		Text:           "shipped the release",
		RawTimestamp:   "1700000000.5",
	}
}

// ========== 用例 ==========

func TestIngest_UnknownChannelSkips(t *testing.T) {
	f := newIngestFixture()
	req := validRequest()
	req.ChannelID = "C-unbound"

	res, err := f.svc.Ingest(context.Background(), req)
	if err != nil {
		t.Fatalf("未绑定频道不应返回error: %v", err)
	}
	if res.Outcome != model.OutcomeSkipped {
		t.Fatalf("outcome = %s, want skipped", res.Outcome)
	}
	if len(f.updates.created) != 0 {
		t.Fatalf("零行落库才对，实际落了%d行", len(f.updates.created))
	}
	if len(f.logs.logs) != 1 || f.logs.logs[0].Outcome != model.OutcomeSkipped {
		t.Fatalf("应写一条skipped流水")
	}
}

func TestIngest_InvalidTimestampRejects(t *testing.T) {
	f := newIngestFixture()
	req := validRequest()
	req.RawTimestamp = "not-a-date"

	res, err := f.svc.Ingest(context.Background(), req)
	if err != nil {
		t.Fatalf("时间戳非法是单条拒绝，不是请求级错误: %v", err)
	}
	if res.Outcome != model.OutcomeRejected {
		t.Fatalf("outcome = %s, want rejected", res.Outcome)
	}
	if len(f.updates.created) != 0 {
		t.Fatalf("拒绝路径不允许半截落库")
	}
}

func TestIngest_StoredWithSourceTimestamp(t *testing.T) {
	f := newIngestFixture()
	res, err := f.svc.Ingest(context.Background(), validRequest())
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if res.Outcome != model.OutcomeStored || res.UpdateID == "" {
		t.Fatalf("res = %+v, want stored with update id", res)
	}
	if len(f.updates.created) != 1 {
		t.Fatalf("应恰好落一行，实际%d行", len(f.updates.created))
	}
	u := f.updates.created[0]
	want := time.UnixMilli(1700000000500).UTC()
	if !u.CreatedAt.Equal(want) {
		t.Fatalf("created_at = %v, want 事件源时间 %v", u.CreatedAt, want)
	}
	if u.ProjectID != "p-1" {
		t.Fatalf("project linkage 错误: %s", u.ProjectID)
	}
}

func TestIngest_FallbackAuthorName(t *testing.T) {
	f := newIngestFixture()
	res, err := f.svc.Ingest(context.Background(), validRequest())
	if err != nil || res.Outcome != model.OutcomeStored {
		t.Fatalf("ingest failed: %v %+v", err, res)
	}
	if got := f.updates.created[0].AuthorName; got != "User U123" {
		t.Fatalf("AuthorName = %q, want 确定性兜底名 \"User U123\"", got)
	}
	if got := f.users.byExternalID["U123"].Name; got != "User U123" {
		t.Fatalf("用户名 = %q, want \"User U123\"", got)
	}
}

func TestIngest_BadScoreDegradesFieldOnly(t *testing.T) {
	f := newIngestFixture()
	req := validRequest()
	req.RawProjectScore = "9"     // 钳到5
	req.RawClientScore = "great!" // 非法，降级为无评分

	res, err := f.svc.Ingest(context.Background(), req)
	if err != nil || res.Outcome != model.OutcomeStored {
		t.Fatalf("评分问题不应影响整条: %v %+v", err, res)
	}
	u := f.updates.created[0]
	if u.ProjectScore == nil || *u.ProjectScore != 5 {
		t.Fatalf("ProjectScore = %v, want 5", u.ProjectScore)
	}
	if u.ClientScore != nil {
		t.Fatalf("ClientScore = %v, want nil", u.ClientScore)
	}
}

func TestIngest_RepeatedUserStaysSingle(t *testing.T) {
	f := newIngestFixture()
	req1 := validRequest()
	req2 := validRequest()
	req2.Source = model.SourceWeekly
	req2.DisplayName = "Alice Johnson" // 第二次带了名字也不覆盖首见属性

	if _, err := f.svc.Ingest(context.Background(), req1); err != nil {
		t.Fatal(err)
	}
	if _, err := f.svc.Ingest(context.Background(), req2); err != nil {
		t.Fatal(err)
	}
	if len(f.users.byExternalID) != 1 {
		t.Fatalf("同一外部ID应只有一个用户，实际%d个", len(f.users.byExternalID))
	}
	if f.users.byExternalID["U123"].Name != "User U123" {
		t.Fatalf("首见名字应保留，实际 %q", f.users.byExternalID["U123"].Name)
	}
	if f.users.upsertCalls != 2 {
		t.Fatalf("每次摄入都应走幂等upsert，调用了%d次", f.users.upsertCalls)
	}
}

func TestIngest_StorageErrorIsFatalToRequest(t *testing.T) {
	f := newIngestFixture()
	f.updates.createErr = errors.New("connection refused")

	_, err := f.svc.Ingest(context.Background(), validRequest())
	if err == nil {
		t.Fatal("存储层错误必须上抛为请求级错误")
	}
}
