package cart

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/noah-isme/backend-grocer/internal/common"
	"github.com/noah-isme/backend-grocer/internal/coupon"
)

func TestWriteErrorTranslatesSentinels(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"coupon not found", coupon.ErrNotFound, http.StatusNotFound, "COUPON_NOT_FOUND"},
		{"invalid input", fmt.Errorf("qty must be positive: %w", ErrInvalidInput), http.StatusBadRequest, "INVALID_INPUT"},
		{"cart not found", ErrNotFound, http.StatusNotFound, "NOT_FOUND"},
		{"unexpected", fmt.Errorf("redis gone"), http.StatusInternalServerError, "INTERNAL"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			writeError(rec, tc.err)
			require.Equal(t, tc.status, rec.Code)

			var body struct {
				Error common.ErrorBody `json:"error"`
			}
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			require.Equal(t, tc.code, body.Error.Code)
		})
	}
}

func TestAppErrorWrapsSentinel(t *testing.T) {
	app := appError(ErrNotFound)
	require.True(t, common.IsAppError(app))
	require.ErrorIs(t, app, ErrNotFound)
	require.Equal(t, http.StatusNotFound, app.HTTPStatus)

	// an already translated error passes through unchanged
	again := appError(app)
	require.Same(t, app, again)
}
