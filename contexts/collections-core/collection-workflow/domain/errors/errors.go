package errors

import "errors"

var (
	ErrInvalidInput        = errors.New("contact outcome input is invalid")
	ErrUnknownOutcome      = errors.New("contact outcome code is not recognized")
	ErrNotLocked           = errors.New("installment is not locked by the acting agent")
	ErrInstallmentNotFound = errors.New("installment not found")
)
