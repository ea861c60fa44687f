package http

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/losol/eventuras-sub004/internal/app"
)

func TestRequestLogger_LogsStatusAndPath(t *testing.T) {
	t.Parallel()

	buf := &bytes.Buffer{}
	logger := slog.New(slog.NewTextHandler(buf, nil))

	handler := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusCreated)
	})

	req := httptest.NewRequest(http.MethodGet, "/registrations", nil)
	rec := httptest.NewRecorder()

	RequestLogger(logger)(handler).ServeHTTP(rec, req)

	out := buf.String()
	if !strings.Contains(out, "method=GET") {
		t.Fatalf("expected method in log, got %q", out)
	}
	if !strings.Contains(out, "path=/registrations") {
		t.Fatalf("expected path in log, got %q", out)
	}
	if !strings.Contains(out, "status=201") {
		t.Fatalf("expected status in log, got %q", out)
	}
}

func TestRequestLogger_DefaultsTo200(t *testing.T) {
	t.Parallel()

	buf := &bytes.Buffer{}
	logger := slog.New(slog.NewTextHandler(buf, nil))

	handler := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("ok"))
	})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()

	RequestLogger(logger)(handler).ServeHTTP(rec, req)

	if !strings.Contains(buf.String(), "status=200") {
		t.Fatalf("expected default status 200 in log, got %q", buf.String())
	}
}

func TestWithActor_ResolvesHeaders(t *testing.T) {
	t.Parallel()

	var got app.Actor
	handler := WithActor(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = actorFrom(r)
	}))

	req := httptest.NewRequest(http.MethodGet, "/registrations", nil)
	req.Header.Set("X-User-Id", "user-1")
	req.Header.Set("X-Admin", "true")
	req.Header.Set("X-Organization-Id", "org-1")
	handler.ServeHTTP(httptest.NewRecorder(), req)

	if got.ID != "user-1" || !got.Admin || got.PowerAdmin || got.OrganizationID != "org-1" {
		t.Fatalf("unexpected actor: %+v", got)
	}
	if got.Anonymous {
		t.Fatalf("expected authenticated actor, got anonymous")
	}
}

func TestWithActor_AnonymousWithoutUserHeader(t *testing.T) {
	t.Parallel()

	var got app.Actor
	handler := WithActor(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = actorFrom(r)
	}))

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/registrations", nil))

	if !got.Anonymous {
		t.Fatalf("expected anonymous actor, got %+v", got)
	}
}
