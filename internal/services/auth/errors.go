package auth

import "errors"

var (
	ErrUserNotFound  = errors.New("user not found")
	ErrUserExists    = errors.New("email or username is already taken")
	ErrEmailTaken    = errors.New("email is already in use")
	ErrUsernameTaken = errors.New("username is already taken")
	// ErrInvalidCredentials deliberately covers both "no such user" and
	// "wrong password" so responses don't leak which part was wrong.
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailNotVerified   = errors.New("please verify your email first")
	ErrInvalidToken       = errors.New("invalid or expired verification token")
	ErrAlreadyVerified    = errors.New("email already verified")
	ErrInvalidSession     = errors.New("invalid or expired session")
)
