package services

import "errors"

var (
	ErrInvalidTransition    = errors.New("invalid order status transition")
	ErrInvalidSignature     = errors.New("invalid payment signature")
	ErrPaymentNotConfigured = errors.New("payment provider not configured for tenant")
	ErrInvalidThresholds    = errors.New("warning minutes must be positive and below critical minutes")
	ErrOrderNotFound        = errors.New("order not found")
)
