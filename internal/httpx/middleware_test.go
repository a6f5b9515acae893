package httpx

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestRequestID_GeneratedAndEchoed(t *testing.T) {
	t.Parallel()

	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestID())
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	if w.Header().Get("X-Request-ID") == "" {
		t.Fatal("missing generated X-Request-ID")
	}

	w = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", "caller-chosen")
	r.ServeHTTP(w, req)
	if got := w.Header().Get("X-Request-ID"); got != "caller-chosen" {
		t.Fatalf("X-Request-ID=%q", got)
	}
}

func TestRecovery_MasksPanic(t *testing.T) {
	t.Parallel()

	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Recovery())
	r.GET("/boom", func(c *gin.Context) { panic("secret internals") })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/boom", nil))

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status=%d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "Internal server error") {
		t.Fatalf("body=%s", w.Body.String())
	}
	if strings.Contains(w.Body.String(), "secret internals") {
		t.Fatalf("panic detail leaked: %s", w.Body.String())
	}
}

func TestPageFromQuery_Bounds(t *testing.T) {
	t.Parallel()

	gin.SetMode(gin.TestMode)
	cases := []struct {
		query string
		want  Page
	}{
		{"", Page{Skip: 0, Limit: 100}},
		{"?skip=20&limit=10", Page{Skip: 20, Limit: 10}},
		{"?skip=-5&limit=0", Page{Skip: 0, Limit: 100}},
		{"?limit=500", Page{Skip: 0, Limit: 100}},
		{"?skip=abc&limit=xyz", Page{Skip: 0, Limit: 100}},
	}
	for _, tc := range cases {
		var got Page
		r := gin.New()
		r.GET("/", func(c *gin.Context) {
			got = PageFromQuery(c)
			c.Status(http.StatusNoContent)
		})
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/"+tc.query, nil))
		if got != tc.want {
			t.Errorf("query=%q got=%+v want=%+v", tc.query, got, tc.want)
		}
	}
}
