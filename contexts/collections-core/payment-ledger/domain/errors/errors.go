package errors

import "errors"

var (
	ErrInvalidInput         = errors.New("payment event input is invalid")
	ErrInstallmentNotFound  = errors.New("installment not found")
	ErrEventNotFound        = errors.New("payment event not found")
	ErrUnsupportedEventType = errors.New("event type cannot be voided")
	ErrAlreadyVoided        = errors.New("payment event is already voided")
	ErrOverpaymentRejected  = errors.New("payment would exceed the outstanding obligation")
	ErrTransferFailed       = errors.New("cross-account transfer could not be applied")
)
