package errors

import (
	"errors"
	"fmt"
	"io"

	"go.uber.org/zap"
)

// Process exit codes reported by the CLI. Validation failures and missing
// resources are distinguishable so callers scripting around the tool can
// branch without parsing messages.
const (
	ExitOK         = 0
	ExitInternal   = 1
	ExitValidation = 2
	ExitNotFound   = 3
)

// ErrorHandler turns errors into log records and process exit codes.
type ErrorHandler struct {
	logger *zap.Logger
	debug  bool
}

// NewErrorHandler creates a new error handler
func NewErrorHandler(logger *zap.Logger, debug bool) *ErrorHandler {
	return &ErrorHandler{
		logger: logger,
		debug:  debug,
	}
}

// ExitCode maps an error to the process exit code the CLI should return.
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}

	var verrs *ValidationErrors
	if errors.As(err, &verrs) {
		return ExitValidation
	}

	appErr := GetAppError(err)
	if appErr == nil {
		return ExitInternal
	}

	switch appErr.Type {
	case ErrorTypeValidation:
		return ExitValidation
	case ErrorTypeNotFound:
		return ExitNotFound
	default:
		return ExitInternal
	}
}

// Handle logs an error, writes a one-line summary to w, and returns the
// exit code the process should terminate with.
func (h *ErrorHandler) Handle(w io.Writer, err error) int {
	if err == nil {
		return ExitOK
	}

	var verrs *ValidationErrors
	if errors.As(err, &verrs) {
		for _, issue := range verrs.Errors {
			h.logError(issue)
		}
		fmt.Fprintf(w, "error: %s\n", verrs.Error())
		return ExitValidation
	}

	if appErr := GetAppError(err); appErr != nil {
		h.logError(appErr)
		fmt.Fprintf(w, "error: %s\n", appErr.Message)
		if h.debug && appErr.StackTrace != "" {
			fmt.Fprintln(w, appErr.StackTrace)
		}
		return ExitCode(appErr)
	}

	h.logger.Error("unhandled error", zap.Error(err))
	if h.debug {
		fmt.Fprintf(w, "error: %v\n", err)
	} else {
		fmt.Fprintln(w, "error: an internal error occurred")
	}
	return ExitInternal
}

// logError logs an application error with appropriate level
func (h *ErrorHandler) logError(err *AppError) {
	fields := []zap.Field{
		zap.String("error_type", string(err.Type)),
	}

	if err.Code != "" {
		fields = append(fields, zap.String("error_code", err.Code))
	}

	if err.Cause != nil {
		fields = append(fields, zap.Error(err.Cause))
	}

	if err.Details != nil {
		fields = append(fields, zap.Any("details", err.Details))
	}

	switch err.Type {
	case ErrorTypeValidation, ErrorTypeNotFound:
		h.logger.Warn(err.Message, fields...)
	default:
		h.logger.Error(err.Message, fields...)
	}
}
