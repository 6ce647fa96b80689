package errors

import "errors"

var (
	ErrInvalidInput                 = errors.New("promise to pay input is invalid")
	ErrInstallmentNotFound          = errors.New("installment not found")
	ErrInstallmentAlreadySettled    = errors.New("installment is already settled")
	ErrDateBeyondBucketCeiling      = errors.New("promised date exceeds the bucket ceiling")
	ErrActivePTPExists              = errors.New("an active promise to pay already exists")
	ErrPromiseNotFound              = errors.New("promise to pay not found")
	ErrPromiseAlreadyResolved       = errors.New("promise to pay is already resolved")
	ErrSupersededPromiseNotResolved = errors.New("superseded promise is not resolved")
)
