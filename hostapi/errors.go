package hostapi

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/hiveml/hivehost/internal/guestmem"
)

// ErrorCode is the stable integer result code returned across the guest
// boundary. The enumeration is open-ended: codes may be added over time, and
// guests must treat unrecognized codes as failures, never as success.
type ErrorCode uint32

const (
	// CodeOK means the call fully succeeded. It is returned if and only if
	// the underlying operation succeeded.
	CodeOK ErrorCode = 0

	// CodeInvalidArguments reports a malformed pointer, length, arithmetic
	// overflow, or invalid text encoding detected while marshaling.
	CodeInvalidArguments ErrorCode = 5

	// CodeNotFound is the benign negative result of a lookup-style
	// operation. It is exempt from diagnostic logging.
	CodeNotFound ErrorCode = 6

	// CodeInternal reports an unexpected host-side failure.
	CodeInternal ErrorCode = 7
)

func (c ErrorCode) String() string {
	switch c {
	case CodeOK:
		return "ok"
	case CodeInvalidArguments:
		return "invalid arguments"
	case CodeNotFound:
		return "not found"
	case CodeInternal:
		return "internal error"
	default:
		return fmt.Sprintf("code(%d)", uint32(c))
	}
}

// ApiError is the rich host-side error behind an ErrorCode. It stays on the
// host: only its code ever crosses the boundary, never its message, cause
// chain, or any pointer.
type ApiError struct {
	code  ErrorCode
	msg   string
	cause error
}

// InvalidArguments returns an invalid-arguments error with an optional
// static message.
func InvalidArguments(msg string) *ApiError {
	return &ApiError{code: CodeInvalidArguments, msg: msg}
}

// InvalidArgumentsErr wraps a cause as an invalid-arguments error, preserving
// the full chain for diagnostics.
func InvalidArgumentsErr(cause error) *ApiError {
	return &ApiError{code: CodeInvalidArguments, cause: cause}
}

// NotFound returns the benign lookup-miss error.
func NotFound(msg string) *ApiError {
	return &ApiError{code: CodeNotFound, msg: msg}
}

// Internal wraps an unexpected host-side failure.
func Internal(cause error) *ApiError {
	return &ApiError{code: CodeInternal, cause: cause}
}

// Code returns the boundary code for the error.
func (e *ApiError) Code() ErrorCode { return e.code }

// Error renders the human-readable message, separate from the integer code.
// Wrapped causes are concatenated as "cause -> cause" to preserve the full
// diagnostic context.
func (e *ApiError) Error() string {
	var b strings.Builder
	b.WriteString(e.code.String())
	if e.msg != "" {
		b.WriteString(": ")
		b.WriteString(e.msg)
	}
	if e.cause != nil {
		b.WriteString(": ")
		b.WriteString(ChainMessage(e.cause))
	}
	return b.String()
}

func (e *ApiError) Unwrap() error { return e.cause }

// ChainMessage renders err and every wrapped cause as "msg -> msg -> ...".
// Causes whose message is already embedded in the parent (the fmt.Errorf %w
// convention) are skipped to avoid duplication.
func ChainMessage(err error) string {
	var b strings.Builder
	for err != nil {
		msg := err.Error()
		cause := errors.Unwrap(err)
		if cause != nil && strings.Contains(msg, cause.Error()) {
			// Parent already renders the cause; stop here.
			cause = nil
		}
		b.WriteString(msg)
		if cause != nil {
			b.WriteString(" -> ")
		}
		err = cause
	}
	return b.String()
}

// AsApiError converts any error produced during a host call into an
// ApiError. Marshaling failures from guestmem become invalid-arguments;
// anything unrecognized is an internal error.
func AsApiError(err error) *ApiError {
	var ae *ApiError
	if errors.As(err, &ae) {
		return ae
	}
	var oob *guestmem.OutOfBoundsError
	var ovf *guestmem.OverflowError
	var utf *guestmem.InvalidUTF8Error
	if errors.As(err, &oob) || errors.As(err, &ovf) || errors.As(err, &utf) {
		return InvalidArgumentsErr(err)
	}
	return Internal(err)
}

// LogResult converts the outcome of a host call into its boundary code and
// applies the logging policy: success and the benign not-found code are
// silent; every other failure produces exactly one warning naming the host
// module, the operation, and the full message chain.
func LogResult(logger *slog.Logger, module, function string, err error) ErrorCode {
	if err == nil {
		return CodeOK
	}
	ae := AsApiError(err)
	if ae.Code() != CodeNotFound {
		logger.Warn(fmt.Sprintf("%s %q failed", module, function),
			slog.String("error", ae.Error()))
	}
	return ae.Code()
}
