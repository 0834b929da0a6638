package model

import "errors"

// Common errors used across the application
var (
	// Player errors
	ErrPlayerNotFound   = errors.New("player not found")
	ErrUsernameRequired = errors.New("username is required")

	// Question errors
	ErrQuestionNotFound = errors.New("question not found")
	ErrNoActiveQuestion = errors.New("no active question")
)
