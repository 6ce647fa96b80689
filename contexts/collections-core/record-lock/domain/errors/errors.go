package errors

import "errors"

var (
	ErrInvalidInput         = errors.New("record lock input is invalid")
	ErrInstallmentNotFound  = errors.New("installment not found")
	ErrAlreadyLockedByOther = errors.New("installment is locked by another agent")
	ErrAgentQuotaExceeded   = errors.New("agent active lock quota exceeded")
	ErrNotLocked            = errors.New("installment is not locked")
	ErrNotLockHolder        = errors.New("only the lock holder may release")
	ErrDeepDelinquentLock   = errors.New("record locks are disabled in deep delinquency")
)
