package utils

import "errors"

var (
	ErrValidation          = errors.New("validation error")
	ErrInsufficientBalance = errors.New("insufficient credit balance")
	ErrAccountNotFound     = errors.New("account not found")
	ErrOrderNotFound       = errors.New("payment order not found")
	ErrPaymentGateway      = errors.New("payment gateway error")
	ErrCaptionProvider     = errors.New("caption provider error")
	ErrEmailAlreadyExists  = errors.New("email already registered")
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrDatabaseError       = errors.New("database error")
)
