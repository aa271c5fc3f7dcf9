package form

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/couchcryptid/blood-demand-predictor/internal/domain"
	"github.com/couchcryptid/blood-demand-predictor/internal/observability"
	"github.com/google/uuid"
)

// AlertPredictionFailed is shown for every prediction failure; details only
// go to the log.
const AlertPredictionFailed = "Error fetching prediction - check the service logs for details"

// EventPublisher receives successful predictions. Implementations must not block.
type EventPublisher interface {
	Publish(evt domain.PredictionEvent)
}

// Outcome is the result of one submission.
type Outcome struct {
	// State is the form after the submission: the submitted values, plus the
	// new result on success. On failure any previous result is kept.
	State    domain.State
	Alert    string
	Missing  []string
	Category domain.Category // set when the prediction failed
}

// Succeeded reports whether the submission produced a result.
func (o Outcome) Succeeded() bool {
	return o.Alert == "" && len(o.Missing) == 0
}

// Submitter sends a completed form to the prediction service.
type Submitter struct {
	labels    map[string]string
	predictor domain.Predictor
	events    EventPublisher
	logger    *slog.Logger
	metrics   *observability.Metrics
	newID     func() string
}

// NewSubmitter creates a Submitter for the given field catalog. events may be
// nil to disable publishing.
func NewSubmitter(fields []domain.FieldDescriptor, p domain.Predictor, events EventPublisher, logger *slog.Logger, metrics *observability.Metrics) *Submitter {
	labels := make(map[string]string, len(fields))
	for _, f := range fields {
		labels[f.Name] = f.DisplayLabel()
	}
	return &Submitter{
		labels:    labels,
		predictor: p,
		events:    events,
		logger:    logger,
		metrics:   metrics,
		newID:     uuid.NewString,
	}
}

// Submit issues exactly one prediction request for a complete state. An
// incomplete state issues none.
func (s *Submitter) Submit(ctx context.Context, state domain.State) Outcome {
	if missing := state.Missing(); len(missing) > 0 {
		s.metrics.Submissions.WithLabelValues(observability.OutcomeIncomplete).Inc()
		s.logger.Info("submission incomplete", "missing", strings.Join(missing, ","))
		return Outcome{
			State:   state,
			Alert:   "Please fill in: " + strings.Join(s.labelsOf(missing), ", "),
			Missing: missing,
		}
	}

	req := domain.PredictionRequest{ID: s.newID(), Values: state.Values()}
	demand, err := s.predictor.Predict(ctx, req)
	if err != nil {
		category := domain.Classify(err)
		s.metrics.Submissions.WithLabelValues(string(category)).Inc()
		s.logFailure(req, err)
		return Outcome{
			State:    state,
			Alert:    AlertPredictionFailed,
			Category: category,
		}
	}

	next := state.WithResult(domain.NewResult(req.ID, demand))
	s.metrics.Submissions.WithLabelValues(observability.OutcomeSuccess).Inc()
	s.logger.Info("prediction stored", "request_id", req.ID, "predicted_demand", demand)

	if s.events != nil {
		if evt, ok := domain.NewPredictionEvent(next); ok {
			s.events.Publish(evt)
		}
	}

	return Outcome{State: next}
}

func (s *Submitter) labelsOf(names []string) []string {
	out := make([]string, len(names))
	for i, name := range names {
		if label, ok := s.labels[name]; ok {
			out[i] = label
		} else {
			out[i] = domain.LabelFor(name)
		}
	}
	return out
}

// logFailure writes the diagnostics for one failed prediction. What is logged
// depends on where the request failed.
func (s *Submitter) logFailure(req domain.PredictionRequest, err error) {
	var (
		respErr  *domain.ResponseError
		noResp   *domain.NoResponseError
		setupErr *domain.SetupError
	)
	switch {
	case errors.As(err, &respErr):
		attrs := []any{
			"request_id", req.ID,
			"category", domain.CategoryServerError,
			"status", respErr.StatusCode,
			"body", string(respErr.Body),
		}
		if respErr.Err != nil {
			attrs = append(attrs, "error", respErr.Err)
		}
		s.logger.Error("prediction service returned an error response", attrs...)
	case errors.As(err, &noResp):
		s.logger.Error("no response from prediction service",
			"request_id", req.ID,
			"category", domain.CategoryNoResponse,
			"method", noResp.Method,
			"url", noResp.URL,
			"payload", string(noResp.Payload),
			"error", noResp.Err,
		)
	case errors.As(err, &setupErr):
		s.logger.Error("prediction request setup failed",
			"request_id", req.ID,
			"category", domain.CategorySetupError,
			"error", setupErr.Err,
		)
	default:
		s.logger.Error("prediction failed",
			"request_id", req.ID,
			"category", domain.Classify(err),
			"error", err,
		)
	}
}
