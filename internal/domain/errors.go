package domain

import (
	"errors"
	"fmt"
)

// Category groups prediction failures by where they happened. All categories
// produce the same user-facing alert; they differ in what is logged.
type Category string

const (
	// CategoryServerError: the service answered with a non-2xx status or a
	// body without a numeric predicted_demand.
	CategoryServerError Category = "server_error"
	// CategoryNoResponse: the request went out but no response came back.
	CategoryNoResponse Category = "no_response"
	// CategorySetupError: the request could not be built.
	CategorySetupError Category = "setup_error"
)

// ResponseError is returned when the prediction service responded but the
// response cannot be used.
type ResponseError struct {
	StatusCode int
	Body       []byte
	Err        error // decode failure on a 2xx body, nil otherwise
}

func (e *ResponseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("prediction service: status %d: %v", e.StatusCode, e.Err)
	}
	return fmt.Sprintf("prediction service: status %d: %s", e.StatusCode, e.Body)
}

func (e *ResponseError) Unwrap() error { return e.Err }

// NoResponseError is returned when the request was sent but no response was
// received. It keeps the pending request for diagnostics.
type NoResponseError struct {
	Method  string
	URL     string
	Payload []byte
	Err     error
}

func (e *NoResponseError) Error() string {
	return fmt.Sprintf("no response from %s %s: %v", e.Method, e.URL, e.Err)
}

func (e *NoResponseError) Unwrap() error { return e.Err }

// SetupError is returned when the request could not be constructed.
type SetupError struct {
	Err error
}

func (e *SetupError) Error() string {
	return fmt.Sprintf("prediction request setup: %v", e.Err)
}

func (e *SetupError) Unwrap() error { return e.Err }

// Classify maps an error returned by a Predictor to its category. Errors that
// carry none of the typed causes count as setup errors.
func Classify(err error) Category {
	var respErr *ResponseError
	if errors.As(err, &respErr) {
		return CategoryServerError
	}
	var noResp *NoResponseError
	if errors.As(err, &noResp) {
		return CategoryNoResponse
	}
	return CategorySetupError
}
