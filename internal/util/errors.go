package util

import "errors"

var (
	ErrUsernameRegistered   = errors.New("username already registered")
	ErrInvalidCredentials   = errors.New("invalid credentials")
	ErrPermissionDenied     = errors.New("permission denied")
	ErrTestNotFound         = errors.New("test not found")
	ErrQuestionNotFound     = errors.New("question not found")
	ErrAnswerNotFound       = errors.New("answer not found")
	ErrAlreadyAttempted     = errors.New("question already attempted")
	ErrEmbeddingUnavailable = errors.New("embedding provider unavailable")
	ErrDegenerateVector     = errors.New("zero-magnitude embedding vector")
)
