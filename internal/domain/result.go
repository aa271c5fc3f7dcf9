package domain

import (
	"context"
	"fmt"
	"time"
)

// PredictionRequest is one outbound call to the prediction service. Values is
// sent verbatim as the JSON body; ID travels out of band for correlation.
type PredictionRequest struct {
	ID     string
	Values map[string]string
}

// Predictor returns the predicted demand for a request.
type Predictor interface {
	Predict(ctx context.Context, req PredictionRequest) (float64, error)
}

// Result is a successful prediction.
type Result struct {
	RequestID       string
	PredictedDemand float64
	PredictedAt     time.Time
}

// NewResult stamps a prediction with the current time.
func NewResult(requestID string, demand float64) Result {
	return Result{
		RequestID:       requestID,
		PredictedDemand: demand,
		PredictedAt:     clock.Now().UTC(),
	}
}

// Text formats the demand for display, e.g. "42.50 units".
func (r Result) Text() string {
	return fmt.Sprintf("%.2f units", r.PredictedDemand)
}
