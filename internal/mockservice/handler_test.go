package mockservice_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/couchcryptid/blood-demand-predictor/internal/adapter/predict"
	"github.com/couchcryptid/blood-demand-predictor/internal/domain"
	"github.com/couchcryptid/blood-demand-predictor/internal/mockservice"
	"github.com/couchcryptid/blood-demand-predictor/internal/observability"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newHandler() http.Handler {
	return mockservice.NewHandler(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestPredict(t *testing.T) {
	tests := []struct {
		name string
		data map[string]any
		want float64
	}{
		{"numeric strings summed", map[string]any{"a": "1.5", "b": "2", "district": "Guntur"}, 3.5},
		{"json numbers", map[string]any{"a": 4.0, "b": 6.0}, 10},
		{"true counts as one", map[string]any{"flag": true, "n": "2"}, 3},
		{"no numbers", map[string]any{"district": "Krishna"}, mockservice.FallbackDemand},
		{"non positive total", map[string]any{"a": "-5", "b": "2"}, mockservice.FallbackDemand},
		{"empty", map[string]any{}, mockservice.FallbackDemand},
		{"nil", nil, mockservice.FallbackDemand},
		{"nan and inf ignored", map[string]any{"a": "NaN", "b": "Inf", "c": "3"}, 3},
		{"padded number", map[string]any{"a": " 7 "}, 7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, mockservice.Predict(tt.data), 1e-9)
		})
	}
}

func TestHome(t *testing.T) {
	rec := httptest.NewRecorder()
	newHandler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Mock Blood Demand Prediction API Running")
}

func TestPredictEndpoint(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/predict", strings.NewReader(`{"total_donations":"40","available_units":"2.5"}`))
	newHandler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.InDelta(t, 42.5, body["predicted_demand"], 1e-9)
	assert.Equal(t, "mocked", body["status"])
}

func TestPredictEndpoint_NullBody(t *testing.T) {
	rec := httptest.NewRecorder()
	newHandler().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/predict", strings.NewReader(`null`)))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"predicted_demand":10`)
}

func TestPredictEndpoint_InvalidJSON(t *testing.T) {
	rec := httptest.NewRecorder()
	newHandler().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/predict", strings.NewReader(`[1,2]`)))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), `"error"`)
}

func TestClientAgainstMock(t *testing.T) {
	srv := httptest.NewServer(newHandler())
	defer srv.Close()

	client := predict.NewClient(srv.URL+"/predict", observability.NewMetricsForTesting(), slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, client.CheckReadiness(context.Background()))

	s := domain.NewState(domain.DefaultFields())
	for _, name := range s.Names() {
		s = s.With(name, "1")
	}
	s = s.With("district", "Guntur").With("bloodGroup", "O+")

	demand, err := client.Predict(context.Background(), domain.PredictionRequest{ID: "req-1", Values: s.Values()})
	require.NoError(t, err)
	assert.InDelta(t, 10.0, demand, 1e-9, "ten numeric fields of 1")
}
