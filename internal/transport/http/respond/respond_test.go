package respond

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avolkov/shop-svc/internal/service/apperrors"
)

func TestErrorStatusMapping(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{
			name: "not found",
			err:  &apperrors.NotFoundError{Entity: "product", ID: 3},
			want: http.StatusNotFound,
		},
		{
			name: "wrapped not found",
			err:  fmt.Errorf("lookup: %w", &apperrors.NotFoundError{Entity: "order", ID: 1}),
			want: http.StatusNotFound,
		},
		{
			name: "insufficient stock",
			err:  &apperrors.InsufficientStockError{ProductName: "Mouse", Requested: 5, Available: 2},
			want: http.StatusBadRequest,
		},
		{
			name: "conflict",
			err:  &apperrors.ConflictError{ProductID: 1},
			want: http.StatusConflict,
		},
		{
			name: "no valid items",
			err:  apperrors.ErrNoValidItems,
			want: http.StatusBadRequest,
		},
		{
			name: "unknown error",
			err:  errors.New("boom"),
			want: http.StatusInternalServerError,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			Error(rec, tc.err)

			assert.Equal(t, tc.want, rec.Code)

			var body map[string]string
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tc.err.Error(), body["error"])
		})
	}
}
