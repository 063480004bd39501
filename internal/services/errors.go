package services

import "errors"

// Service-level sentinel errors. Handlers map these onto HTTP statuses.
var (
	// ErrValidation marks a request that is well-formed but semantically
	// invalid (bad status transition, negative quantity, wrong item kind).
	ErrValidation = errors.New("validation failed")

	// ErrInsufficientStock is returned when a deduction would drive a
	// tracked item's quantity below zero.
	ErrInsufficientStock = errors.New("insufficient stock")

	// ErrUnauthorized marks failed credential checks.
	ErrUnauthorized = errors.New("unauthorized")
)
