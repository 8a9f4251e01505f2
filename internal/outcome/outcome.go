// Package outcome defines the three-variant result every handler operation
// returns: Success carries the canonical post-mutation representation, Invalid
// carries a validation report plus the echoed request payload, and Failure
// carries a generic caller-safe message. The variants are modeled as a tagged
// struct rather than errors because Invalid and Failure are expected, frequent
// results the caller must handle uniformly.
package outcome

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/bpowers1215/money-map/internal/validation"
)

// Status discriminates the outcome variants on the wire.
type Status string

const (
	StatusSuccess Status = "success"
	StatusInvalid Status = "invalid"
	StatusError   Status = "error"
)

// Outcome is the result of one controller operation. S is the success payload
// type, R the original request payload echoed back on validation failure.
type Outcome[S, R any] struct {
	status     Status
	result     S
	validation validation.Report
	request    R
	msg        string
}

// Success returns an outcome carrying the operation's result.
func Success[S, R any](result S) Outcome[S, R] {
	return Outcome[S, R]{status: StatusSuccess, result: result}
}

// Invalid returns an outcome carrying the validation report and the echoed
// request payload. Secret fields must be redacted by the caller before echoing.
func Invalid[S, R any](report validation.Report, request R) Outcome[S, R] {
	return Outcome[S, R]{status: StatusInvalid, validation: report, request: request}
}

// Failure returns an outcome carrying a caller-safe message. Internal detail
// belongs in the log, never in msg.
func Failure[S, R any](msg string) Outcome[S, R] {
	return Outcome[S, R]{status: StatusError, msg: msg}
}

// Status returns the outcome's discriminator.
func (o Outcome[S, R]) Status() Status {
	return o.status
}

// Result returns the success payload. Only meaningful for StatusSuccess.
func (o Outcome[S, R]) Result() S {
	return o.result
}

// Message returns the failure message. Only meaningful for StatusError.
func (o Outcome[S, R]) Message() string {
	return o.msg
}

// Validation returns the validation report. Only meaningful for StatusInvalid.
func (o Outcome[S, R]) Validation() validation.Report {
	return o.validation
}

// MarshalJSON encodes the variant-specific wire shape.
func (o Outcome[S, R]) MarshalJSON() ([]byte, error) {
	switch o.status {
	case StatusSuccess:
		return json.Marshal(struct {
			Status Status `json:"status"`
			Result S      `json:"result"`
		}{o.status, o.result})
	case StatusInvalid:
		return json.Marshal(struct {
			Status     Status            `json:"status"`
			Validation validation.Report `json:"validation"`
			Request    R                 `json:"request"`
		}{o.status, o.validation, o.request})
	default:
		return json.Marshal(ErrorBody{Status: StatusError, Msg: o.msg})
	}
}

// Render writes the outcome as the JSON response body. Success maps to 200,
// everything else to 400; callers distinguish variants by the status field.
func (o Outcome[S, R]) Render(c *gin.Context) {
	code := http.StatusOK
	if o.status != StatusSuccess {
		code = http.StatusBadRequest
	}
	c.JSON(code, o)
}

// RenderSuccess writes a Success outcome for result.
func RenderSuccess(c *gin.Context, result any) {
	Success[any, any](result).Render(c)
}

// RenderInvalid writes an Invalid outcome for the report and echoed request.
func RenderInvalid(c *gin.Context, report validation.Report, request any) {
	Invalid[any, any](report, request).Render(c)
}

// RenderFailure writes a Failure outcome carrying msg.
func RenderFailure(c *gin.Context, msg string) {
	Failure[any, any](msg).Render(c)
}

// ErrorBody is the Failure wire shape, exposed for collaborators (such as the
// auth middleware) that emit the error shape without an Outcome value.
type ErrorBody struct {
	Status Status `json:"status"`
	Msg    string `json:"msg"`
}

// Error returns the Failure wire shape for msg.
func Error(msg string) ErrorBody {
	return ErrorBody{Status: StatusError, Msg: msg}
}
