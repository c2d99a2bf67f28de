package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/applytrack-backend/internal/observability"
	"github.com/yungbote/applytrack-backend/internal/platform/ctxutil"
	"github.com/yungbote/applytrack-backend/internal/platform/logger"
)

func TestAttachTraceContextEchoesIDs(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(AttachTraceContext())
	var seen *ctxutil.TraceData
	r.GET("/x", func(c *gin.Context) {
		seen = ctxutil.GetTraceData(c.Request.Context())
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set(HeaderRequestID, "req-1")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if got := rec.Header().Get(HeaderRequestID); got != "req-1" {
		t.Fatalf("request id not echoed: %q", got)
	}
	if seen == nil || seen.RequestID != "req-1" || seen.TraceID == "" {
		t.Fatalf("unexpected trace data: %+v", seen)
	}
	if rec.Header().Get(HeaderTraceID) != seen.TraceID {
		t.Fatalf("trace id header mismatch")
	}
}

func TestAttachRequestUser(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(AttachRequestUser(42))
	var got uint
	r.GET("/x", func(c *gin.Context) {
		got = ctxutil.UserID(c.Request.Context())
		c.Status(http.StatusOK)
	})
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/x", nil))
	if got != 42 {
		t.Fatalf("user id: got %d want 42", got)
	}
}

func TestMetricsUsesRouteTemplate(t *testing.T) {
	gin.SetMode(gin.TestMode)
	m := observability.New()
	r := gin.New()
	r.Use(Metrics(m), RequestLogger(logger.Nop()))
	r.GET("/api/jobs/:id", func(c *gin.Context) { c.Status(http.StatusOK) })

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/jobs/7", nil))
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/nope", nil))

	var sb strings.Builder
	if err := m.WritePrometheus(&sb); err != nil {
		t.Fatalf("WritePrometheus: %v", err)
	}
	out := sb.String()
	for _, want := range []string{`route="/api/jobs/:id"`, `route="unmatched"`} {
		if !strings.Contains(out, want) {
			t.Fatalf("metrics missing %s:\n%s", want, out)
		}
	}
	if strings.Contains(out, `route="/api/jobs/7"`) {
		t.Fatalf("raw path leaked into labels")
	}
}
