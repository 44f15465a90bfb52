package service

import (
	"errors"

	"connectrpc.com/connect"

	"github.com/rasilvabrandao-stack/FerramentasFlexmedicalKure/internal/storage"
)

// invalidArgument reports a validation failure. Nothing has been written.
func invalidArgument(msg string) error {
	return connect.NewError(connect.CodeInvalidArgument, errors.New(msg))
}

// storeError maps store sentinels to Connect codes. Anything else is
// reported as internal.
func storeError(err error) error {
	switch {
	case errors.Is(err, storage.ErrNotFound):
		return connect.NewError(connect.CodeNotFound, err)
	case errors.Is(err, storage.ErrDuplicate), errors.Is(err, storage.ErrDuplicateTag):
		return connect.NewError(connect.CodeAlreadyExists, err)
	case errors.Is(err, storage.ErrTagUnavailable), errors.Is(err, storage.ErrNotReturnable):
		return connect.NewError(connect.CodeFailedPrecondition, err)
	default:
		return connect.NewError(connect.CodeInternal, err)
	}
}
