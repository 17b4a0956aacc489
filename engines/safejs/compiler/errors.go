package compiler

import "errors"

var (
	ErrContentNil         = errors.New("safejs content is nil")
	ErrExecCreationFailed = errors.New("unable to create safejs executable")
	ErrValidationFailed   = errors.New("safejs script validation error")
	ErrCompileFailed      = errors.New("safejs compile error")
)
