package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"travian-planner/internal/auth"
	"travian-planner/internal/planner"
	serverHandlers "travian-planner/internal/server/handlers"
	"travian-planner/internal/shared/response"
	"travian-planner/internal/travel"
	"travian-planner/internal/village"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func newTestMux(t *testing.T) (*http.ServeMux, *village.Service) {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	villages := village.NewService(village.NewMemoryStore(), logger)
	require.NoError(t, villages.Load(context.Background(), []village.Village{
		{PlayerName: "Alice", VillageName: "Capital", X: 0, Y: 0},
		{PlayerName: "Bob", VillageName: "Border", X: 200, Y: -200},
	}))

	plans := planner.NewService(planner.NewMemoryCache(time.Minute, 16), planner.Options{
		Location: time.UTC,
		Workers:  2,
		MaxPairs: 100,
	}, logger)

	return NewRoutes(nil, nil, plans, villages, testSecret, logger).Setup(), villages
}

func do(t *testing.T, mux http.Handler, req *http.Request) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	mux, _ := newTestMux(t)

	rec := do(t, mux, httptest.NewRequest(http.MethodGet, "/api/server/health", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var body serverHandlers.HealthResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, "healthy", body.Status)
	assert.Equal(t, "disabled", body.Database)
	assert.Equal(t, "disabled", body.Redis)
	assert.Equal(t, 2, body.Villages)
}

func TestUnits(t *testing.T) {
	mux, _ := newTestMux(t)

	rec := do(t, mux, httptest.NewRequest(http.MethodGet, "/api/units", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var units []travel.Unit
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&units))
	assert.Len(t, units, 30)
}

func TestDistance(t *testing.T) {
	mux, _ := newTestMux(t)

	rec := do(t, mux, httptest.NewRequest(http.MethodGet, "/api/travel/distance?x1=0&y1=0&x2=3&y2=4", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"distance":5`)

	rec = do(t, mux, httptest.NewRequest(http.MethodGet, "/api/travel/distance?x1=0&y1=0&x2=201&y2=4", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, mux, httptest.NewRequest(http.MethodGet, "/api/travel/distance?x1=a", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, mux, httptest.NewRequest(http.MethodPost, "/api/travel/distance", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

const planBody = `{
	"date": "2024-03-10",
	"starts": [{"player_name": "Alice", "village_name": "Capital", "x": 0, "y": 0, "unit_speed": 10}],
	"targets": [{"player_name": "Bob", "village_name": "Outpost", "x": 20, "y": 0, "arrival": "00:30:00"}]
}`

func TestComputePlan(t *testing.T) {
	mux, _ := newTestMux(t)

	rec := do(t, mux, httptest.NewRequest(http.MethodPost, "/api/plans", strings.NewReader(planBody)))
	require.Equal(t, http.StatusOK, rec.Code)

	var plan planner.Plan
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&plan))
	require.Len(t, plan.Rows, 1)
	assert.Equal(t, "22:30:00", plan.Rows[0].Departure)
	assert.True(t, plan.Rows[0].PreviousDay)
	assert.Empty(t, plan.Warnings)
}

func TestComputePlanRejectsBadInput(t *testing.T) {
	mux, _ := newTestMux(t)

	cases := map[string]string{
		"malformed json": `{"starts": [`,
		"unknown field":  `{"starts": [], "targets": [], "speed": 3}`,
		"no starts":      `{"starts": [], "targets": [{"x": 1, "y": 1, "arrival": "12:00:00"}]}`,
	}

	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			rec := do(t, mux, httptest.NewRequest(http.MethodPost, "/api/plans", strings.NewReader(body)))
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}

	rec := do(t, mux, httptest.NewRequest(http.MethodGet, "/api/plans", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestExportPlan(t *testing.T) {
	mux, _ := newTestMux(t)

	body := strings.Replace(planBody, `"00:30:00"`, `"25:00"`, 1)
	rec := do(t, mux, httptest.NewRequest(http.MethodPost, "/api/plans/export", strings.NewReader(body)))
	require.Equal(t, http.StatusOK, rec.Code)

	assert.Equal(t, response.XLSXContentType, rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "travian_plan_2024-03-10.xlsx")
	assert.Len(t, rec.Header().Values("X-Plan-Warning"), 1)
	assert.True(t, bytes.HasPrefix(rec.Body.Bytes(), []byte("PK")), "xlsx is a zip archive")
}

func TestSearchVillages(t *testing.T) {
	mux, _ := newTestMux(t)

	rec := do(t, mux, httptest.NewRequest(http.MethodGet, "/api/villages?q=bord", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var found []village.Village
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&found))
	require.Len(t, found, 1)
	assert.Equal(t, "Border", found[0].VillageName)

	rec = do(t, mux, httptest.NewRequest(http.MethodGet, "/api/villages?limit=0", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestImportVillages(t *testing.T) {
	mux, villages := newTestMux(t)
	dump := `var p = [[7,"Carol","#fff","/x",/**/,1,/**/,0,[[10,-10,"North"],[11,-11,"South"]]]];`

	rec := do(t, mux, httptest.NewRequest(http.MethodPost, "/api/villages/import", strings.NewReader(dump)))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	token, err := auth.GenerateToken(testSecret, "ops", auth.RoleAdmin, time.Hour)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/villages/import", strings.NewReader(dump))
	req.Header.Set("Authorization", "Bearer "+token)
	rec = do(t, mux, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var result village.ImportResult
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&result))
	assert.Equal(t, 2, result.Imported)
	assert.Zero(t, result.Rejected)

	count, err := villages.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}
