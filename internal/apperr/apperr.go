// Package apperr maps domain failures onto API error codes
package apperr

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/sant0-9/carousel/internal/document"
	"github.com/sant0-9/carousel/internal/pipeline"
	"github.com/sant0-9/carousel/internal/scheme"
	"github.com/sant0-9/carousel/internal/writer"
)

type Code string

const (
	CodeInvalidParam      Code = "invalid_param"
	CodeNotFound          Code = "not_found"
	CodeUnsupportedFormat Code = "unsupported_format"
	CodeInternal          Code = "internal"
)

type AppError struct {
	Code       Code   `json:"code"`
	Message    string `json:"message"`
	Detail     string `json:"detail,omitempty"`
	HTTPStatus int    `json:"-"`
	Err        error  `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func (e *AppError) WithDetail(detail string) *AppError {
	e.Detail = detail
	return e
}

func New(code Code, message string) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: statusFor(code),
	}
}

func Wrap(err error, code Code, message string) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: statusFor(code),
		Err:        err,
	}
}

func statusFor(code Code) int {
	switch code {
	case CodeInvalidParam:
		return http.StatusBadRequest
	case CodeNotFound:
		return http.StatusNotFound
	case CodeUnsupportedFormat:
		return http.StatusUnsupportedMediaType
	default:
		return http.StatusInternalServerError
	}
}

// From classifies err. An *AppError anywhere in the chain is returned as is;
// known sentinels get their codes; anything else is internal.
func From(err error) *AppError {
	if err == nil {
		return nil
	}

	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}

	switch {
	case errors.Is(err, pipeline.ErrInvalidMaxChars):
		return Wrap(err, CodeInvalidParam, "invalid max_chars").WithDetail(err.Error())
	case errors.Is(err, scheme.ErrNotFound):
		return Wrap(err, CodeNotFound, "scheme not found").WithDetail(err.Error())
	case errors.Is(err, document.ErrUnsupportedFormat), errors.Is(err, writer.ErrUnknownFormat):
		return Wrap(err, CodeUnsupportedFormat, "unsupported format").WithDetail(err.Error())
	default:
		return Wrap(err, CodeInternal, "internal error")
	}
}
