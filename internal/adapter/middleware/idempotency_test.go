package middleware

import (
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
)

func newTestRedis(t *testing.T) *redis.Client {
	t.Helper()
	mr := miniredis.RunT(t)
	return redis.NewClient(&redis.Options{Addr: mr.Addr()})
}

func newEchoWithIdemp(t *testing.T, rdb *redis.Client, calls *int) *echo.Echo {
	t.Helper()
	e := echo.New()
	e.Use(IdempotencyMiddleware(rdb, 5*time.Minute))
	e.POST("/loans", func(c echo.Context) error {
		*calls++
		return c.JSON(http.StatusCreated, map[string]any{"call": *calls})
	})
	e.GET("/loans", func(c echo.Context) error {
		*calls++
		return c.JSON(http.StatusOK, map[string]any{"call": *calls})
	})
	return e
}

func idempHeaders(req *http.Request, reqID string) {
	req.Header.Set("Ax-Request-Id", reqID)
	req.Header.Set("Ax-Request-At", strconv.FormatInt(time.Now().Unix(), 10))
	req.Header.Set("Ax-Actor-Id", strings.Repeat("a", 32))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
}

func TestIdempotency_ReplaysCompletedResponse(t *testing.T) {
	rdb := newTestRedis(t)
	calls := 0
	e := newEchoWithIdemp(t, rdb, &calls)

	reqID := strings.Repeat("1", 32)
	body := `{"amount":10000}`

	first := httptest.NewRecorder()
	req1 := httptest.NewRequest(http.MethodPost, "/loans", strings.NewReader(body))
	idempHeaders(req1, reqID)
	e.ServeHTTP(first, req1)
	if first.Code != http.StatusCreated {
		t.Fatalf("first: status = %d: %s", first.Code, first.Body)
	}

	second := httptest.NewRecorder()
	req2 := httptest.NewRequest(http.MethodPost, "/loans", strings.NewReader(body))
	idempHeaders(req2, reqID)
	e.ServeHTTP(second, req2)

	if second.Code != http.StatusCreated {
		t.Fatalf("replay: status = %d", second.Code)
	}
	if calls != 1 {
		t.Fatalf("handler ran %d times, want 1", calls)
	}
	if first.Body.String() != second.Body.String() {
		t.Fatalf("replayed body differs: %q vs %q", first.Body, second.Body)
	}
}

func TestIdempotency_RejectsReusedIDWithDifferentBody(t *testing.T) {
	rdb := newTestRedis(t)
	calls := 0
	e := newEchoWithIdemp(t, rdb, &calls)

	reqID := strings.Repeat("2", 32)

	first := httptest.NewRecorder()
	req1 := httptest.NewRequest(http.MethodPost, "/loans", strings.NewReader(`{"amount":10000}`))
	idempHeaders(req1, reqID)
	e.ServeHTTP(first, req1)

	second := httptest.NewRecorder()
	req2 := httptest.NewRequest(http.MethodPost, "/loans", strings.NewReader(`{"amount":99999}`))
	idempHeaders(req2, reqID)
	e.ServeHTTP(second, req2)

	if second.Code != http.StatusConflict {
		t.Fatalf("status = %d, want 409", second.Code)
	}
	if calls != 1 {
		t.Fatalf("handler ran %d times, want 1", calls)
	}
}

func TestIdempotency_MissingHeaders(t *testing.T) {
	rdb := newTestRedis(t)
	calls := 0
	e := newEchoWithIdemp(t, rdb, &calls)

	cases := []struct {
		name   string
		mutate func(*http.Request)
	}{
		{"no request id", func(r *http.Request) { r.Header.Del("Ax-Request-Id") }},
		{"bad request id", func(r *http.Request) { r.Header.Set("Ax-Request-Id", "nope") }},
		{"no request at", func(r *http.Request) { r.Header.Del("Ax-Request-At") }},
		{"naive timestamp", func(r *http.Request) { r.Header.Set("Ax-Request-At", "2025-09-05T10:00:00") }},
		{"skewed timestamp", func(r *http.Request) {
			r.Header.Set("Ax-Request-At", strconv.FormatInt(time.Now().Add(-time.Hour).Unix(), 10))
		}},
		{"no actor id", func(r *http.Request) { r.Header.Del("Ax-Actor-Id") }},
		{"bad actor id", func(r *http.Request) { r.Header.Set("Ax-Actor-Id", "XYZ") }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/loans", strings.NewReader(`{}`))
			idempHeaders(req, strings.Repeat("3", 32))
			tc.mutate(req)
			e.ServeHTTP(rec, req)
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400", rec.Code)
			}
		})
	}
	if calls != 0 {
		t.Fatalf("handler ran %d times, want 0", calls)
	}
}

func TestIdempotency_SkipsReads(t *testing.T) {
	rdb := newTestRedis(t)
	calls := 0
	e := newEchoWithIdemp(t, rdb, &calls)

	// GET goes straight through, no headers needed
	for i := 0; i < 2; i++ {
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/loans", nil))
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d", rec.Code)
		}
	}
	if calls != 2 {
		t.Fatalf("handler ran %d times, want 2", calls)
	}
}

func TestParseAxRequestAt(t *testing.T) {
	now := time.Now().UTC().Truncate(time.Second)

	got, err := parseAxRequestAt(strconv.FormatInt(now.Unix(), 10))
	if err != nil || !got.Equal(now) {
		t.Fatalf("epoch seconds: %v %v", got, err)
	}
	got, err = parseAxRequestAt(strconv.FormatInt(now.UnixMilli(), 10))
	if err != nil || !got.Equal(now) {
		t.Fatalf("epoch millis: %v %v", got, err)
	}
	got, err = parseAxRequestAt(now.Format(time.RFC3339))
	if err != nil || !got.Equal(now) {
		t.Fatalf("rfc3339: %v %v", got, err)
	}
	if _, err := parseAxRequestAt("2025-09-05T10:00:00"); err == nil {
		t.Fatal("naive timestamp accepted")
	}
	if _, err := parseAxRequestAt(""); err == nil {
		t.Fatal("empty accepted")
	}
}
