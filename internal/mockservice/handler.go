// Package mockservice is a stand-in for the prediction service, for local
// development and tests when the real model is not available.
//
// The prediction is deterministic: the sum of every value that reads as a
// number (numeric strings included, true counts as 1). When the sum is not
// positive the answer is 10.
package mockservice

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"math"
	"net/http"
	"strconv"
	"strings"
)

// FallbackDemand is returned when no positive total can be computed.
const FallbackDemand = 10.0

// NewHandler returns the mock service routes: GET / and POST /predict.
func NewHandler(logger *slog.Logger) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", handleHome)
	mux.HandleFunc("POST /predict", handlePredict(logger))
	return mux
}

func handleHome(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"message": "Mock Blood Demand Prediction API Running"})
}

func handlePredict(logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var data map[string]any
		if err := json.NewDecoder(r.Body).Decode(&data); err != nil {
			logger.Warn("mock prediction: bad request body", "error", err)
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": fmt.Sprintf("decode request: %v", err)})
			return
		}

		predicted := Predict(data)
		logger.Debug("mock prediction", "fields", len(data), "predicted_demand", predicted)
		writeJSON(w, http.StatusOK, map[string]any{
			"predicted_demand": predicted,
			"status":           "mocked",
		})
	}
}

// Predict computes the mock demand for a decoded request body.
func Predict(data map[string]any) float64 {
	total := 0.0
	for _, v := range data {
		if f, ok := numeric(v); ok {
			total += f
		}
	}
	if total > 0 && !math.IsInf(total, 0) {
		return total
	}
	return FallbackDemand
}

func numeric(v any) (float64, bool) {
	var f float64
	switch t := v.(type) {
	case float64:
		f = t
	case bool:
		if t {
			f = 1
		}
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		if err != nil {
			return 0, false
		}
		f = parsed
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck // best-effort response
}
