package router

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/cinema-booking-engine/internal/channel"
	"github.com/iliyamo/cinema-booking-engine/internal/config"
	"github.com/iliyamo/cinema-booking-engine/internal/engine"
	"github.com/iliyamo/cinema-booking-engine/internal/handler"
	"github.com/iliyamo/cinema-booking-engine/internal/model"
	"github.com/iliyamo/cinema-booking-engine/internal/utils"
)

type apiClient struct {
	t     *testing.T
	e     *echo.Echo
	token string
}

func newAPI(t *testing.T, pub channel.Publisher, secret string) *apiClient {
	return newAPIWith(t, pub, Deps{JWTSecret: secret})
}

func newAPIWith(t *testing.T, pub channel.Publisher, d Deps) *apiClient {
	t.Helper()
	eng, err := engine.New(engine.Options{Channel: pub, Logger: slog.New(slog.NewTextHandler(io.Discard, nil))})
	require.NoError(t, err)
	e := echo.New()
	RegisterRoutes(e, handler.New(eng), d)
	return &apiClient{t: t, e: e}
}

// get returns the status, the X-Cache header and the decoded body.
func (a *apiClient) get(path string) (int, string, map[string]any) {
	a.t.Helper()
	rec := httptest.NewRecorder()
	a.e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	out := map[string]any{}
	require.NoError(a.t, json.Unmarshal(rec.Body.Bytes(), &out))
	return rec.Code, rec.Header().Get("X-Cache"), out
}

func (a *apiClient) do(method, path, body string) (int, map[string]any) {
	a.t.Helper()
	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, rd)
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if a.token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+a.token)
	}
	rec := httptest.NewRecorder()
	a.e.ServeHTTP(rec, req)
	out := map[string]any{}
	if strings.HasPrefix(rec.Header().Get(echo.HeaderContentType), echo.MIMEApplicationJSON) {
		require.NoError(a.t, json.Unmarshal(rec.Body.Bytes(), &out))
	}
	return rec.Code, out
}

func TestHealth(t *testing.T) {
	api := newAPI(t, &channel.Memory{}, "")
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	api.e.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())
}

func TestBookingFlowOverHTTP(t *testing.T) {
	mem := &channel.Memory{}
	api := newAPI(t, mem, "")

	code, body := api.do(http.MethodGet, "/v1/theaters", "")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, []any{0.0, 1.0, 2.0, 3.0}, body["theaters"])

	code, body = api.do(http.MethodPost, "/v1/session/seat", `{"row":0,"col":0}`)
	assert.Equal(t, http.StatusConflict, code)
	assert.Equal(t, "no_theater_selected", body["error"])

	code, _ = api.do(http.MethodPut, "/v1/session/theater", `{"theater":0}`)
	require.Equal(t, http.StatusOK, code)

	code, body = api.do(http.MethodPost, "/v1/session/seat", `{"row":0,"col":0}`)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "EMPTY", body["status"])

	code, body = api.do(http.MethodPost, "/v1/session/book", "")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, 150.0, body["amount"])
	assert.Nil(t, body["warning"])

	code, _ = api.do(http.MethodPost, "/v1/session/seat", `{"row":7,"col":0}`)
	require.Equal(t, http.StatusOK, code)
	code, body = api.do(http.MethodPost, "/v1/session/book", "")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, 300.0, body["amount"])

	code, body = api.do(http.MethodPost, "/v1/session/seat", `{"row":0,"col":0}`)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "BOOKED", body["status"])
	code, body = api.do(http.MethodPost, "/v1/session/book", "")
	assert.Equal(t, http.StatusConflict, code)
	assert.Equal(t, "seat_already_booked", body["error"])
	code, body = api.do(http.MethodPost, "/v1/session/cancel", "")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, 150.0, body["amount"])

	code, body = api.do(http.MethodGet, "/v1/stats", "")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, 300.0, body["total_revenue"])

	code, body = api.do(http.MethodGet, "/v1/theaters/0", "")
	require.Equal(t, http.StatusOK, code)
	stats := body["stats"].(map[string]any)
	assert.Equal(t, 1.0, stats["booked"])
	assert.Equal(t, 63.0, stats["available"])
	assert.Equal(t, 300.0, stats["revenue"])

	assert.Equal(t, []model.Command{
		{Op: model.OpBook, Theater: 0, Row: 0, Col: 0, Category: model.CategoryStandard},
		{Op: model.OpBook, Theater: 0, Row: 7, Col: 0, Category: model.CategoryVIP},
		{Op: model.OpCancel, Theater: 0, Row: 0, Col: 0, Category: model.CategoryStandard},
	}, mem.Commands())
}

func TestRequestValidationAndContractErrors(t *testing.T) {
	api := newAPI(t, &channel.Memory{}, "")

	code, _ := api.do(http.MethodPut, "/v1/session/theater", `{}`)
	assert.Equal(t, http.StatusBadRequest, code)

	code, body := api.do(http.MethodPut, "/v1/session/theater", `{"theater":9}`)
	assert.Equal(t, http.StatusUnprocessableEntity, code)
	assert.Equal(t, "invalid_theater", body["error"])

	api.do(http.MethodPut, "/v1/session/theater", `{"theater":1}`)
	code, _ = api.do(http.MethodPost, "/v1/session/seat", `{"row":1}`)
	assert.Equal(t, http.StatusBadRequest, code)
	code, body = api.do(http.MethodPost, "/v1/session/seat", `{"row":1,"col":99}`)
	assert.Equal(t, http.StatusUnprocessableEntity, code)
	assert.Equal(t, "seat_out_of_range", body["error"])

	code, body = api.do(http.MethodPost, "/v1/session/cancel", "")
	assert.Equal(t, http.StatusConflict, code)
	assert.Equal(t, "no_seat_selected", body["error"])

	code, _ = api.do(http.MethodGet, "/v1/theaters/x", "")
	assert.Equal(t, http.StatusBadRequest, code)
	code, _ = api.do(http.MethodGet, "/v1/theaters/4", "")
	assert.Equal(t, http.StatusUnprocessableEntity, code)
}

func TestChannelWarningIsReported(t *testing.T) {
	api := newAPI(t, &channel.Memory{Err: errors.New("disk full")}, "")
	api.do(http.MethodPut, "/v1/session/theater", `{"theater":2}`)
	api.do(http.MethodPost, "/v1/session/seat", `{"row":4,"col":4}`)

	code, body := api.do(http.MethodPost, "/v1/session/book", "")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, 200.0, body["amount"])
	assert.Contains(t, body["warning"], "disk full")
}

func TestSessionRoutesRequireOperatorWhenSecretSet(t *testing.T) {
	api := newAPI(t, &channel.Memory{}, "s3cret")

	code, _ := api.do(http.MethodPut, "/v1/session/theater", `{"theater":0}`)
	assert.Equal(t, http.StatusUnauthorized, code)

	// browse routes stay open
	code, _ = api.do(http.MethodGet, "/v1/stats", "")
	assert.Equal(t, http.StatusOK, code)

	tok, err := utils.NewAccessToken("s3cret", "box-office-1", utils.RoleOperator, time.Hour)
	require.NoError(t, err)
	api.token = tok.Token
	code, _ = api.do(http.MethodPut, "/v1/session/theater", `{"theater":0}`)
	assert.Equal(t, http.StatusOK, code)
}

func seatAt(t *testing.T, snap map[string]any, row, col int) map[string]any {
	t.Helper()
	grid, ok := snap["grid"].([]any)
	require.True(t, ok)
	return grid[row].([]any)[col].(map[string]any)
}

func TestCachedSnapshotFollowsSelectionAndBookings(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	api := newAPIWith(t, &channel.Memory{}, Deps{
		Redis: rdb,
		Cache: config.CacheConfig{
			Enabled:      true,
			Methods:      map[string]bool{http.MethodGet: true},
			TTL:          time.Minute,
			KeyStrategy:  "route_query",
			Prefix:       "cache",
			MaxBodyBytes: 1 << 20,
		},
	})

	_, xc, _ := api.get("/v1/theaters/0")
	assert.Equal(t, "MISS", xc)
	code, xc, snap := api.get("/v1/theaters/0")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "HIT", xc)
	assert.Nil(t, seatAt(t, snap, 0, 0)["selected"])

	api.do(http.MethodPut, "/v1/session/theater", `{"theater":0}`)
	api.do(http.MethodPost, "/v1/session/seat", `{"row":0,"col":0}`)
	_, xc, snap = api.get("/v1/theaters/0")
	assert.Equal(t, "MISS", xc)
	assert.Equal(t, true, seatAt(t, snap, 0, 0)["selected"])

	_, xc, _ = api.get("/v1/theaters/0")
	assert.Equal(t, "HIT", xc)

	code, _ = api.do(http.MethodPost, "/v1/session/book", "")
	require.Equal(t, http.StatusOK, code)
	_, xc, snap = api.get("/v1/theaters/0")
	assert.Equal(t, "MISS", xc)
	assert.Equal(t, "BOOKED", seatAt(t, snap, 0, 0)["status"])
	assert.Equal(t, 150.0, snap["stats"].(map[string]any)["revenue"])

	_, xc, stats := api.get("/v1/stats")
	assert.Equal(t, "MISS", xc)
	assert.Equal(t, 150.0, stats["total_revenue"])
}
