package domain

import "errors"

var (
	ErrNotFound       = errors.New("resource not found")
	ErrForbidden      = errors.New("operation not allowed")
	ErrValidation     = errors.New("invalid input data")
	ErrDefaultRecord  = errors.New("record is the current default")
	ErrTransition     = errors.New("illegal status transition")
	ErrDuplicate      = errors.New("duplicate resource")
	ErrNotEnoughStock = errors.New("not enough stock available")
)
