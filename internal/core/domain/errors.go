package domain

import "errors"

// Common domain errors
var (
	ErrNotFound           = errors.New("resource not found")
	ErrDuplicateIdentity  = errors.New("email or ID number already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// Reservation state machine errors
var (
	ErrAlreadyReserved     = errors.New("book is already reserved")
	ErrNotReserved         = errors.New("book is not reserved")
	ErrNoActiveReservation = errors.New("no active reservation for this book and user")
)
