package service

import "errors"

var (
	// ErrNotFound means the referenced entity or membership row does not exist.
	ErrNotFound = errors.New("not found")
	// ErrAlreadyExists means a uniqueness constraint would be violated.
	ErrAlreadyExists = errors.New("already exists")
	// ErrSelfFollow rejects a subscription from a user to themselves.
	ErrSelfFollow = errors.New("cannot subscribe to yourself")
	// ErrInvalidCredentials hides whether the email or the password was wrong.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrEmptyCart means there is nothing to export as a shopping list.
	ErrEmptyCart = errors.New("shopping cart is empty")
)
