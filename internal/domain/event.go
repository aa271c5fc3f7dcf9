package domain

import "time"

// PredictionRecordedType is the event type header value for PredictionEvent.
const PredictionRecordedType = "prediction.recorded"

// PredictionEvent records one successful prediction together with the inputs
// that produced it.
type PredictionEvent struct {
	ID              string            `json:"id"`
	Fields          map[string]string `json:"fields"`
	PredictedDemand float64           `json:"predicted_demand"`
	PredictedAt     time.Time         `json:"predicted_at"`
}

// NewPredictionEvent builds the event for a state that holds a result. The
// second return value is false when there is no result to record.
func NewPredictionEvent(s State) (PredictionEvent, bool) {
	r, ok := s.Result()
	if !ok {
		return PredictionEvent{}, false
	}
	return PredictionEvent{
		ID:              r.RequestID,
		Fields:          s.Values(),
		PredictedDemand: r.PredictedDemand,
		PredictedAt:     r.PredictedAt,
	}, true
}
