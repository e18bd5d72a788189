package list

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/noah-isme/backend-grocer/internal/cart"
	"github.com/noah-isme/backend-grocer/internal/common"
)

func TestWriteErrorTranslatesSentinels(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"empty name", ErrEmptyName, http.StatusBadRequest, "EMPTY_NAME"},
		{"empty cart", ErrEmptyCart, http.StatusBadRequest, "EMPTY_CART"},
		{"list not found", ErrNotFound, http.StatusNotFound, "NOT_FOUND"},
		{"cart not found", cart.ErrNotFound, http.StatusNotFound, "NOT_FOUND"},
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
			require.True(t, common.IsAppError(appError(tc.err)))
		})
	}
}
