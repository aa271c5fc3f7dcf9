package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	dialErr := errors.New("connection refused")

	tests := []struct {
		name string
		err  error
		want Category
	}{
		{"response error", &ResponseError{StatusCode: 500, Body: []byte(`{"error":"boom"}`)}, CategoryServerError},
		{"wrapped response error", fmt.Errorf("predict: %w", &ResponseError{StatusCode: 404}), CategoryServerError},
		{"no response", &NoResponseError{Method: "POST", URL: "http://x/predict", Err: dialErr}, CategoryNoResponse},
		{"wrapped no response", fmt.Errorf("predict: %w", &NoResponseError{Err: dialErr}), CategoryNoResponse},
		{"setup error", &SetupError{Err: errors.New("bad url")}, CategorySetupError},
		{"untyped error", errors.New("something else"), CategorySetupError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.err))
		})
	}
}

func TestResponseError_Message(t *testing.T) {
	err := &ResponseError{StatusCode: 500, Body: []byte(`{"error":"Model not loaded"}`)}
	assert.Equal(t, `prediction service: status 500: {"error":"Model not loaded"}`, err.Error())

	decodeErr := errors.New("missing predicted_demand")
	err = &ResponseError{StatusCode: 200, Body: []byte(`{}`), Err: decodeErr}
	assert.Contains(t, err.Error(), "missing predicted_demand")
	assert.ErrorIs(t, err, decodeErr)
}

func TestNoResponseError_Unwrap(t *testing.T) {
	cause := errors.New("connection reset by peer")
	err := &NoResponseError{Method: "POST", URL: "http://127.0.0.1:5000/predict", Err: cause}

	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "POST http://127.0.0.1:5000/predict")
}

func TestSetupError_Unwrap(t *testing.T) {
	cause := errors.New("missing protocol scheme")
	err := &SetupError{Err: cause}

	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "setup")
}
