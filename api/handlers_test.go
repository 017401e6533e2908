package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	log "github.com/sirupsen/logrus"

	"taskpulse-api/domain"
)

var testClock = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func fixedNow() time.Time { return testClock }

type failingHealth struct{}

func (failingHealth) Ping(context.Context) error { return errors.New("connection refused") }

type okHealth struct{}

func (okHealth) Ping(context.Context) error { return nil }

func newContext(e *echo.Echo, method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestPostTaskCreates(t *testing.T) {
	e := echo.New()
	store := domain.NewStore(nil)

	c, rec := newContext(e, http.MethodPost, "/api/tasks", `{"title":"write tests","priority":"high","tags":["dev"]}`)
	if err := postTask(store)(c); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if rec.Code != http.StatusAccepted {
		t.Fatalf("expected status 202 got %d", rec.Code)
	}

	state := store.State()
	if len(state.Tasks) != 1 {
		t.Fatalf("expected task in store, got %#v", state.Tasks)
	}
	task := state.Tasks[0]
	if task.Title != "write tests" || task.Priority != domain.PriorityHigh || task.ID == "" {
		t.Fatalf("unexpected task: %#v", task)
	}
}

func TestPostTaskWithoutTitleRejected(t *testing.T) {
	e := echo.New()
	store := domain.NewStore(nil)

	c, rec := newContext(e, http.MethodPost, "/api/tasks", `{"description":"no title"}`)
	if err := postTask(store)(c); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400 got %d", rec.Code)
	}
	if len(store.State().Tasks) != 0 {
		t.Fatalf("rejected request must not dispatch")
	}
}

func TestPostTaskUnknownFieldRejected(t *testing.T) {
	e := echo.New()
	store := domain.NewStore(nil)

	c, rec := newContext(e, http.MethodPost, "/api/tasks", `{"title":"x","id":"caller-supplied"}`)
	if err := postTask(store)(c); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400 got %d", rec.Code)
	}
}

func TestPatchTaskUnknownIDAccepted(t *testing.T) {
	e := echo.New()
	store := domain.NewStore(nil)
	store.Dispatch(context.Background(), domain.AddTask{Title: "keep"})

	c, rec := newContext(e, http.MethodPatch, "/api/tasks/missing", `{"title":"nope"}`)
	c.SetParamNames("id")
	c.SetParamValues("missing")
	if err := patchTask(store)(c); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if rec.Code != http.StatusAccepted {
		t.Fatalf("no-op patch is not an error, got %d", rec.Code)
	}
	if store.State().Tasks[0].Title != "keep" {
		t.Fatalf("unexpected task mutation: %#v", store.State().Tasks)
	}
}

func TestPutThemeValidates(t *testing.T) {
	e := echo.New()
	store := domain.NewStore(nil)

	c, rec := newContext(e, http.MethodPut, "/api/theme", `{"theme":"sepia"}`)
	if err := putTheme(store)(c); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400 got %d", rec.Code)
	}

	c, rec = newContext(e, http.MethodPut, "/api/theme", `{"theme":"dark"}`)
	if err := putTheme(store)(c); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if rec.Code != http.StatusAccepted {
		t.Fatalf("expected status 202 got %d", rec.Code)
	}
	if store.State().Theme != domain.ThemeDark {
		t.Fatalf("theme not applied: %s", store.State().Theme)
	}
}

func TestGetTasksFiltersByTier(t *testing.T) {
	e := echo.New()
	store := domain.NewStore(nil)
	ctx := context.Background()

	overdue := testClock.Add(-time.Hour)
	store.Dispatch(ctx, domain.ReplaceTasks{Tasks: []domain.Task{
		{ID: "1", Title: "late", Status: domain.StatusTodo, CreatedAt: testClock.Add(-2 * time.Hour), DueDate: &overdue, Tags: []string{}},
		{ID: "2", Title: "open-ended", Status: domain.StatusTodo, CreatedAt: testClock, Tags: []string{}},
	}})

	c, rec := newContext(e, http.MethodGet, "/api/tasks?tier=overdue", "")
	if err := getTasks(store, fixedNow)(c); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200 got %d", rec.Code)
	}

	var resp tasksResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(resp.Tasks) != 1 || resp.Tasks[0].Task.ID != "1" {
		t.Fatalf("unexpected filtered tasks: %#v", resp.Tasks)
	}
	if resp.Tasks[0].Urgency.Tier != domain.TierOverdue {
		t.Fatalf("unexpected urgency: %#v", resp.Tasks[0].Urgency)
	}
}

func TestGetSummary(t *testing.T) {
	e := echo.New()
	store := domain.NewStore(nil)
	ctx := context.Background()

	overdue := testClock.Add(-time.Minute)
	store.Dispatch(ctx, domain.ReplaceTasks{Tasks: []domain.Task{
		{ID: "1", Title: "late", Status: domain.StatusTodo, CreatedAt: testClock.Add(-time.Hour), DueDate: &overdue, Tags: []string{}},
		{ID: "2", Title: "done", Status: domain.StatusDone, CreatedAt: testClock, Tags: []string{}},
	}})

	c, rec := newContext(e, http.MethodGet, "/api/tasks/summary", "")
	if err := getSummary(store, fixedNow, log.New())(c); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200 got %d", rec.Code)
	}

	var sum domain.Summary
	if err := json.Unmarshal(rec.Body.Bytes(), &sum); err != nil {
		t.Fatalf("decode summary: %v", err)
	}
	if sum.Total != 2 || sum.Overdue != 1 {
		t.Fatalf("unexpected summary: %#v", sum)
	}
	if len(sum.Recent) != 2 || sum.Recent[0].Task.ID != "2" {
		t.Fatalf("unexpected recent ordering: %#v", sum.Recent)
	}
}

func TestFocusEndpoints(t *testing.T) {
	e := echo.New()
	store := domain.NewStore(nil)

	c, rec := newContext(e, http.MethodPost, "/api/focus", `{"taskId":"t1"}`)
	if err := postFocus(store)(c); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if rec.Code != http.StatusAccepted {
		t.Fatalf("expected status 202 got %d", rec.Code)
	}
	if store.State().FocusSession == nil {
		t.Fatalf("expected session started")
	}

	c, rec = newContext(e, http.MethodDelete, "/api/focus", "")
	if err := deleteFocus(store)(c); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if rec.Code != http.StatusAccepted {
		t.Fatalf("expected status 202 got %d", rec.Code)
	}
	if store.State().FocusSession != nil {
		t.Fatalf("expected session cleared")
	}

	// Ending again is a no-op, not an error.
	c, rec = newContext(e, http.MethodDelete, "/api/focus", "")
	if err := deleteFocus(store)(c); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if rec.Code != http.StatusAccepted {
		t.Fatalf("expected status 202 got %d", rec.Code)
	}
}

func TestJoinTeamEndpoint(t *testing.T) {
	e := echo.New()
	store := domain.NewStore(nil)
	store.Dispatch(context.Background(), domain.SetUser{User: domain.User{ID: "u1", Name: "Ada"}})

	c, rec := newContext(e, http.MethodPost, "/api/teams/join", `{"inviteCode":"XYZ789"}`)
	if err := postJoinTeam(store)(c); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if rec.Code != http.StatusAccepted {
		t.Fatalf("expected status 202 got %d", rec.Code)
	}
	state := store.State()
	if state.CurrentTeam == nil || state.CurrentTeam.InviteCode != "XYZ789" {
		t.Fatalf("join did not set current team: %#v", state.CurrentTeam)
	}
}

func TestHealthzReportsStorage(t *testing.T) {
	e := echo.New()

	c, rec := newContext(e, http.MethodGet, "/healthz", "")
	if err := healthz(okHealth{})(c); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"storage":"ok"`) {
		t.Fatalf("unexpected healthz response: %d %s", rec.Code, rec.Body.String())
	}

	c, rec = newContext(e, http.MethodGet, "/healthz", "")
	if err := healthz(failingHealth{})(c); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	// Persistence loss degrades, it does not fail liveness.
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"storage":"unavailable"`) {
		t.Fatalf("unexpected healthz response: %d %s", rec.Code, rec.Body.String())
	}
}
