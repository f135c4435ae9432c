package errors

import (
	"context"
	"errors"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"gorm.io/gorm"

	"github.com/oggyb/matcha/internal/cache"
)

// Map converts domain, repo and infra errors into gRPC status errors.
//
// Behavior:
//   - Validation errors become InvalidArgument with the message verbatim.
//   - Conflict errors become FailedPrecondition.
//   - NotFound errors and gorm.ErrRecordNotFound become NotFound.
//   - A pair lock that could not be taken in time becomes Aborted.
//   - Anything else is an opaque Internal error; callers log the cause.
func Map(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := status.FromError(err); ok {
		return err
	}

	switch KindOf(err) {
	case KindValidation:
		return status.Error(codes.InvalidArgument, err.Error())
	case KindConflict:
		return status.Error(codes.FailedPrecondition, err.Error())
	case KindNotFound:
		return status.Error(codes.NotFound, err.Error())
	}

	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return status.Error(codes.NotFound, "record not found")

	case errors.Is(err, cache.ErrLockTimeout):
		return status.Error(codes.Aborted, "another update on this pair is in progress, retry")

	case errors.Is(err, context.DeadlineExceeded):
		return status.Error(codes.DeadlineExceeded, "request timed out")

	case errors.Is(err, context.Canceled):
		return status.Error(codes.Canceled, "request was canceled")

	default:
		return status.Error(codes.Internal, "internal error")
	}
}

// InvalidArgument creates a gRPC InvalidArgument error.
// Use this in service layer for bad input validation.
func InvalidArgument(msg string) error {
	return status.Error(codes.InvalidArgument, msg)
}
