package service

import "errors"

// ErrGenerationFailed wraps upstream model, provider and extraction failures.
var ErrGenerationFailed = errors.New("generation failed")
