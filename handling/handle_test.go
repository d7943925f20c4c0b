package handling

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"seeu_cafe_server/lib"

	"github.com/MonkyMars/gecho"
	"github.com/stretchr/testify/assert"
)

func TestRespondErrorMapsRequestErrorKinds(t *testing.T) {
	logger := gecho.NewDefaultLogger()

	cases := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"not found", lib.NotFoundf("combined bill 42 not found"), http.StatusNotFound},
		{"conflict", lib.Conflictf("combined bill 42 is already paid"), http.StatusConflict},
		{"invalid request", lib.InvalidRequestf("at least two tables are required"), http.StatusBadRequest},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			RespondError(w, logger, "error.billing.test", tc.err)
			assert.Equal(t, tc.wantStatus, w.Code)
		})
	}
}

func TestRespondErrorCarriesDetailData(t *testing.T) {
	logger := gecho.NewDefaultLogger()
	err := lib.InvalidRequestf("splits total 900.00 does not match bill amount 935.00").
		With("splits_total", 900.00).
		With("final_amount", 935.00)

	w := httptest.NewRecorder()
	RespondError(w, logger, "error.billing.splitTotalMismatch", err)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "splits_total")
	assert.Contains(t, body, "final_amount")
	assert.Contains(t, body, "splits total 900.00 does not match bill amount 935.00")
}

func TestRespondErrorDefaultsToInternalServerError(t *testing.T) {
	logger := gecho.NewDefaultLogger()

	w := httptest.NewRecorder()
	RespondError(w, logger, "error.billing.fetchFailed", errors.New("connection refused"))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "connection refused")
}
