package usecases

import (
	stderrors "errors"

	"github.com/fylo-cloud/fylo/internal/domain/order"
	"github.com/fylo-cloud/fylo/internal/shared/errors"
)

// storageError maps a repository failure to the error the HTTP layer renders.
func storageError(err error, message string) error {
	switch {
	case stderrors.Is(err, order.ErrStorageNotConfigured):
		return errors.NewUnavailableError(order.ErrStorageNotConfigured.Error()).WithCause(err)
	case stderrors.Is(err, order.ErrOrderNotFound):
		return errors.NewNotFoundError("Order not found").WithCause(err)
	default:
		return errors.NewInternalError(message).WithCause(err)
	}
}
