package errors

import "errors"

var (
	ErrAlreadyExists      = errors.New("already exists")
	ErrNotFound           = errors.New("not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserInactive       = errors.New("user inactive or missing")
	ErrInvalidSchedule    = errors.New("invalid schedule")
	ErrInvalidCart        = errors.New("invalid cart")
	ErrClaimLost          = errors.New("scheduled order claim lost")
)
