package services

import "errors"

var (
	ErrNotFound     = errors.New("not found")
	ErrForbidden    = errors.New("forbidden")
	ErrInvalidInput = errors.New("invalid input")
	ErrBanned       = errors.New("account is banned")

	ErrCreatorNotAssignable = errors.New("the creator role cannot be assigned")
	ErrCannotDemoteCreator  = errors.New("cannot demote the creator")
)
