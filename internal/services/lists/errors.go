package lists

import "errors"

var (
	ErrUserNotFound  = errors.New("user not found")
	ErrAlreadyInList = errors.New("movie is already in the list")
	ErrUnknownList   = errors.New("unknown list")
)
