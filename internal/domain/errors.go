package domain

import (
	"errors"
	"fmt"
)

var (
	ErrFlightNotFound    = errors.New("flight not found")
	ErrBookingNotFound   = errors.New("booking not found")
	ErrInsufficientFunds = errors.New("insufficient balance")
	ErrInvalidAmount     = errors.New("amount must be positive")
	ErrPNRExhausted      = errors.New("could not allocate a unique pnr")
	ErrBalanceOverflow   = errors.New("balance would exceed the maximum")
)

type ValidationError struct {
	Field string
	Msg   string
	Err   error
}

func (e ValidationError) Error() string {
	if e.Msg != "" && e.Field != "" {
		return fmt.Sprintf("%s: %s", e.Field, e.Msg)
	}
	if e.Msg != "" {
		return e.Msg
	}
	if e.Field != "" {
		return fmt.Sprintf("invalid %s", e.Field)
	}
	return "validation error"
}

func (e ValidationError) Unwrap() error { return e.Err }

type NotFoundError struct {
	Resource string
	Err      error
}

func (e NotFoundError) Error() string {
	if e.Resource == "" {
		return "not found"
	}
	return fmt.Sprintf("%s not found", e.Resource)
}

func (e NotFoundError) Unwrap() error { return e.Err }

// InsufficientFundsError is returned both when the balance check fails and
// when the debit loses a race after the check; Raced distinguishes the two.
type InsufficientFundsError struct {
	Required  int64
	Available int64
	Raced     bool
}

func (e InsufficientFundsError) Error() string {
	if e.Raced {
		return "payment failed"
	}
	return fmt.Sprintf("insufficient balance: required %s, available %s",
		FormatMinor(e.Required), FormatMinor(e.Available))
}

func (e InsufficientFundsError) Unwrap() error { return ErrInsufficientFunds }

type InternalError struct {
	Msg string
	Err error
}

func (e InternalError) Error() string {
	if e.Msg != "" {
		return e.Msg
	}
	return "internal error"
}

func (e InternalError) Unwrap() error { return e.Err }

// RejectedError marks a booking request that ended in REJECTED. State is the
// last state reached before the failing gate.
type RejectedError struct {
	State AdmissionState
	Err   error
}

func (e *RejectedError) Error() string { return e.Err.Error() }

func (e *RejectedError) Unwrap() error { return e.Err }

func IsNotFound(err error) bool {
	var target NotFoundError
	return errors.As(err, &target) || errors.Is(err, ErrBookingNotFound)
}

func IsValidation(err error) bool {
	var target ValidationError
	return errors.As(err, &target)
}

func IsInsufficientFunds(err error) bool {
	var target InsufficientFundsError
	return errors.As(err, &target)
}

func IsInternal(err error) bool {
	var target InternalError
	return errors.As(err, &target)
}
