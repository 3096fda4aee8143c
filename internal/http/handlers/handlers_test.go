package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"telegram_assistant/internal/service"

	"github.com/gin-gonic/gin"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type recordingUpdates struct {
	got []tgbotapi.Update
}

func (r *recordingUpdates) HandleUpdate(ctx context.Context, update tgbotapi.Update) {
	r.got = append(r.got, update)
}

type stubDelivery struct {
	result *service.DeliveryResult
	err    error
	calls  int
	ctxErr error
}

func (s *stubDelivery) Run(ctx context.Context) (*service.DeliveryResult, error) {
	s.calls++
	s.ctxErr = ctx.Err()
	return s.result, s.err
}

type stubPinger struct{ err error }

func (p stubPinger) Ping(ctx context.Context) error { return p.err }

var testSecrets = Secrets{Cron: "s3cret", Webhook: "hook"}

func newRouter(h *Handler) *gin.Engine {
	r := gin.New()
	r.POST("/api/webhook/:secret", h.Webhook)
	r.GET("/api/cron/reminders", h.DeliverReminders)
	r.POST("/api/cron/reminders", h.DeliverReminders)
	return r
}

func TestWebhookDispatchesUpdate(t *testing.T) {
	updates := &recordingUpdates{}
	r := newRouter(NewHandler(updates, &stubDelivery{}, testSecrets))

	body := `{"update_id": 7, "message": {"message_id": 1, "text": "/laporan", "chat": {"id": 42, "type": "private"}, "from": {"id": 42, "first_name": "Alfan"}}}`
	req := httptest.NewRequest(http.MethodPost, "/api/webhook/hook", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if len(updates.got) != 1 {
		t.Fatalf("expected one update, got %d", len(updates.got))
	}
	u := updates.got[0]
	if u.UpdateID != 7 || u.Message == nil || u.Message.Text != "/laporan" || u.Message.From.ID != 42 {
		t.Fatalf("unexpected update: %+v", u)
	}
}

func TestWebhookBadPayloadStillOK(t *testing.T) {
	updates := &recordingUpdates{}
	r := newRouter(NewHandler(updates, &stubDelivery{}, testSecrets))

	req := httptest.NewRequest(http.MethodPost, "/api/webhook/hook", strings.NewReader("{not json"))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if len(updates.got) != 0 {
		t.Fatalf("bad payload must not be dispatched")
	}
}

func TestWebhookRejectsWrongSecret(t *testing.T) {
	// a forged update claiming another user's id must never be dispatched
	body := `{"update_id": 8, "message": {"message_id": 1, "text": "/hapus_reminder 1", "chat": {"id": 666, "type": "private"}, "from": {"id": 42}}}`
	cases := []struct {
		name       string
		configured string
		path       string
	}{
		{"wrong secret", "hook", "/api/webhook/guess"},
		{"secret not configured", "", "/api/webhook/anything"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			updates := &recordingUpdates{}
			r := newRouter(NewHandler(updates, &stubDelivery{}, Secrets{Cron: "s3cret", Webhook: tc.configured}))

			req := httptest.NewRequest(http.MethodPost, tc.path, strings.NewReader(body))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			if w.Code != http.StatusNotFound {
				t.Fatalf("expected 404, got %d", w.Code)
			}
			if len(updates.got) != 0 {
				t.Fatalf("update dispatched without the secret")
			}
		})
	}

	// without a secret segment the route does not exist
	updates := &recordingUpdates{}
	r := newRouter(NewHandler(updates, &stubDelivery{}, testSecrets))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/webhook", strings.NewReader(body)))
	if w.Code == http.StatusOK || len(updates.got) != 0 {
		t.Fatalf("bare webhook path: code=%d dispatched=%d", w.Code, len(updates.got))
	}
}

func TestCronSurvivesCallerHangup(t *testing.T) {
	delivery := &stubDelivery{result: &service.DeliveryResult{Timestamp: time.Now()}}
	r := newRouter(NewHandler(&recordingUpdates{}, delivery, testSecrets))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	req := httptest.NewRequest(http.MethodPost, "/api/cron/reminders", nil).WithContext(ctx)
	req.Header.Set("Authorization", "Bearer s3cret")
	r.ServeHTTP(httptest.NewRecorder(), req)

	if delivery.calls != 1 {
		t.Fatalf("expected one run, got %d", delivery.calls)
	}
	if delivery.ctxErr != nil {
		t.Fatalf("delivery pass inherited the request cancellation: %v", delivery.ctxErr)
	}
}

func TestCronRequiresSecret(t *testing.T) {
	cases := []struct {
		name   string
		secret string
		header string
	}{
		{"missing header", "s3cret", ""},
		{"wrong secret", "s3cret", "Bearer nope"},
		{"no bearer prefix", "s3cret", "s3cret"},
		{"secret not configured", "", "Bearer "},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			delivery := &stubDelivery{result: &service.DeliveryResult{}}
			r := newRouter(NewHandler(&recordingUpdates{}, delivery, Secrets{Cron: tc.secret, Webhook: "hook"}))

			req := httptest.NewRequest(http.MethodGet, "/api/cron/reminders", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			if w.Code != http.StatusUnauthorized {
				t.Fatalf("expected 401, got %d", w.Code)
			}
			if delivery.calls != 0 {
				t.Fatalf("delivery must not run when unauthorized")
			}
		})
	}
}

func TestCronReportsCounts(t *testing.T) {
	ts := time.Date(2026, 10, 19, 3, 0, 0, 0, time.UTC)
	delivery := &stubDelivery{result: &service.DeliveryResult{
		RunID: "run-1", Checked: 3, Sent: 2, Failed: 1, Timestamp: ts,
	}}
	r := newRouter(NewHandler(&recordingUpdates{}, delivery, testSecrets))

	for _, method := range []string{http.MethodGet, http.MethodPost} {
		req := httptest.NewRequest(method, "/api/cron/reminders", nil)
		req.Header.Set("Authorization", "Bearer s3cret")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("%s: expected 200, got %d", method, w.Code)
		}
		var resp struct {
			OK        bool   `json:"ok"`
			Checked   int    `json:"checked"`
			Sent      int    `json:"sent"`
			Failed    int    `json:"failed"`
			Timestamp string `json:"timestamp"`
		}
		if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if !resp.OK || resp.Checked != 3 || resp.Sent != 2 || resp.Failed != 1 {
			t.Fatalf("unexpected response: %+v", resp)
		}
		if resp.Timestamp != "2026-10-19T03:00:00Z" {
			t.Fatalf("unexpected timestamp %q", resp.Timestamp)
		}
	}
	if delivery.calls != 2 {
		t.Fatalf("expected 2 runs, got %d", delivery.calls)
	}
}

func TestCronStorageFailure(t *testing.T) {
	delivery := &stubDelivery{err: errors.New("connection refused")}
	r := newRouter(NewHandler(&recordingUpdates{}, delivery, testSecrets))

	req := httptest.NewRequest(http.MethodPost, "/api/cron/reminders", nil)
	req.Header.Set("Authorization", "Bearer s3cret")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", w.Code)
	}
	if strings.Contains(w.Body.String(), "connection refused") {
		t.Fatalf("internal error leaked: %s", w.Body.String())
	}
	if !strings.Contains(w.Body.String(), `"error"`) {
		t.Fatalf("expected error field: %s", w.Body.String())
	}
}

func TestHealthEndpoints(t *testing.T) {
	cases := []struct {
		name     string
		db       error
		redis    error
		path     string
		wantCode int
	}{
		{"health ok", nil, nil, "/health", http.StatusOK},
		{"health db down", errors.New("down"), nil, "/health", http.StatusServiceUnavailable},
		{"liveness ignores db", errors.New("down"), nil, "/healthz", http.StatusOK},
		{"ready ok", nil, nil, "/readyz", http.StatusOK},
		{"ready redis degraded", nil, errors.New("no redis"), "/readyz", http.StatusOK},
		{"ready db down", errors.New("down"), nil, "/readyz", http.StatusServiceUnavailable},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			h := NewHealthHandler(stubPinger{err: tc.db}, "test")
			redisErr := tc.redis
			h.AddCheck("redis", func(context.Context) error { return redisErr })

			r := gin.New()
			r.GET("/health", h.Health)
			r.GET("/healthz", h.Liveness)
			r.GET("/readyz", h.Readiness)

			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, tc.path, nil))
			if w.Code != tc.wantCode {
				t.Fatalf("expected %d, got %d: %s", tc.wantCode, w.Code, w.Body.String())
			}
		})
	}
}
