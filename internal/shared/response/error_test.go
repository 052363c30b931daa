package response

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"travian-planner/internal/shared/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestErrorMapsTypeToStatus(t *testing.T) {
	cases := []struct {
		err  error
		code int
	}{
		{errors.Validation("bad speed"), http.StatusBadRequest},
		{errors.NotFoundf("village %d", 1), http.StatusNotFound},
		{errors.Unauthorized("token required"), http.StatusUnauthorized},
		{errors.Forbidden("admin only"), http.StatusForbidden},
		{errors.MethodNotAllowed("PUT"), http.StatusMethodNotAllowed},
		{errors.TooManyRequests("slow down"), http.StatusTooManyRequests},
		{errors.WrapExternal("redis", fmt.Errorf("down")), http.StatusServiceUnavailable},
	}

	for _, tc := range cases {
		req := httptest.NewRequest(http.MethodGet, "/api/plans", nil)
		rec := httptest.NewRecorder()

		Error(rec, req, discardLogger(), tc.err)

		assert.Equal(t, tc.code, rec.Code, tc.err.Error())
		var body ErrorResponse
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
		assert.Equal(t, tc.code, body.Code)
		assert.Equal(t, tc.err.Error(), body.Message)
	}
}

func TestErrorHidesInternalDetails(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/villages", nil)
	rec := httptest.NewRecorder()

	Error(rec, req, discardLogger(), fmt.Errorf("pq: password authentication failed"))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	var body ErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, "internal", body.Error)
	assert.Equal(t, "internal server error", body.Message)
}

func TestAttachment(t *testing.T) {
	rec := httptest.NewRecorder()
	Attachment(rec, XLSXContentType, "plan.xlsx", bytes.NewBufferString("PK"))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, `attachment; filename="plan.xlsx"`, rec.Header().Get("Content-Disposition"))
	assert.Equal(t, "2", rec.Header().Get("Content-Length"))
	assert.Equal(t, "PK", rec.Body.String())
}
