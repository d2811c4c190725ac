// Package envelope builds the uniform {resultCode, msg, data} body returned by
// every endpoint.
package envelope

import "strings"

const (
	defaultSuccessMsg = "success"
	defaultFailureMsg = "failure"
)

// Envelope is the wire shape of every API response. Data is omitted when nil.
type Envelope[T any] struct {
	ResultCode Code   `json:"resultCode"`
	Msg        string `json:"msg"`
	Data       *T     `json:"data,omitempty"`
}

// Empty is the payload type for envelopes that never carry data.
type Empty struct{}

// Of builds an envelope carrying data. A blank msg falls back to a default for
// the code's class so msg is never empty on the wire.
func Of[T any](code Code, msg string, data T) Envelope[T] {
	return Envelope[T]{
		ResultCode: code,
		Msg:        normalizeMsg(code, msg),
		Data:       &data,
	}
}

// Bare builds an envelope without data.
func Bare(code Code, msg string) Envelope[Empty] {
	return Envelope[Empty]{
		ResultCode: code,
		Msg:        normalizeMsg(code, msg),
	}
}

// Success builds an S-n envelope carrying data.
func Success[T any](n int, msg string, data T) Envelope[T] {
	return Of(SuccessCode(n), msg, data)
}

// Failure builds an F-n envelope. Failures never carry data.
func Failure(n int, msg string) Envelope[Empty] {
	return Bare(FailureCode(n), msg)
}

// IsSuccess reports whether the envelope carries an S-class code.
func (e Envelope[T]) IsSuccess() bool {
	return e.ResultCode.IsSuccess()
}

// IsFailure reports whether the envelope carries a non-success code.
func (e Envelope[T]) IsFailure() bool {
	return e.ResultCode.IsFailure()
}

func normalizeMsg(code Code, msg string) string {
	if trimmed := strings.TrimSpace(msg); trimmed != "" {
		return msg
	}
	if code.IsSuccess() {
		return defaultSuccessMsg
	}
	return defaultFailureMsg
}
