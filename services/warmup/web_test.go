package warmup

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWarmup(t *testing.T) {
	testCases := []struct {
		name           string
		checks         []Check
		expectedStatus int
		expectedPings  int
	}{
		{
			name:           "no checks",
			expectedStatus: http.StatusOK,
		},
		{
			name:           "all healthy",
			checks:         []Check{{Name: "records"}, {Name: "carts"}},
			expectedStatus: http.StatusOK,
			expectedPings:  2,
		},
		{
			name:           "first failure stops",
			checks:         []Check{{Name: "records", Ping: func(c context.Context) error { return errors.New("datastore unreachable") }}, {Name: "carts"}},
			expectedStatus: http.StatusServiceUnavailable,
			expectedPings:  0,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			pings := 0
			for i := range tc.checks {
				if tc.checks[i].Ping == nil {
					tc.checks[i].Ping = func(c context.Context) error {
						pings++
						return nil
					}
				}
			}

			router := mux.NewRouter()
			err := NewService(tc.checks...).RegisterEndpoints(context.Background(), router)
			require.NoError(t, err)

			request, err := http.NewRequest(http.MethodGet, "/_ah/warmup", nil)
			require.NoError(t, err)
			response := httptest.NewRecorder()
			router.ServeHTTP(response, request)

			assert.Equal(t, tc.expectedStatus, response.Code)
			assert.Equal(t, tc.expectedPings, pings)
		})
	}
}
