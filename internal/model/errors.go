package model

import "errors"

var (
	// User related errors
	ErrUserNotFound      = errors.New("user not found")
	ErrEmailAlreadyTaken = errors.New("email already registered")

	// Auth related errors
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid token")
	ErrTokenAlreadyUsed   = errors.New("token already used")

	// Task related errors
	ErrTaskNotFound = errors.New("task not found")

	// Generic errors
	ErrInvalidInput = errors.New("invalid input")
)
