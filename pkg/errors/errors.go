package errors

import (
	stdErrors "errors"
	"fmt"
)

type Code string

const (
	// CodeValidation marks invalid caller input (empty batch, unknown mode).
	CodeValidation Code = "VALIDATION_ERROR"
	// CodeNotFound marks a missing source record.
	CodeNotFound Code = "NOT_FOUND"
	// CodeSkipped marks a non-fatal condition: the affected unit of work was
	// dropped from the run and the run continued.
	CodeSkipped Code = "SKIPPED"
	// CodeDependency marks a storage or collaborator failure.
	CodeDependency Code = "DEPENDENCY_ERROR"
	// CodeAborted marks a pipeline that stopped before publishing results.
	CodeAborted Code = "PIPELINE_ABORTED"
	// CodeInternal marks everything else.
	CodeInternal Code = "INTERNAL_ERROR"
)

// Metadata describes how a code class behaves at the orchestrator boundary.
type Metadata struct {
	Retryable bool
	Fatal     bool
	Summary   string
}

var metadataByCode = map[Code]Metadata{
	CodeValidation: {
		Retryable: false,
		Fatal:     false,
		Summary:   "input rejected",
	},
	CodeNotFound: {
		Retryable: false,
		Fatal:     false,
		Summary:   "record not found",
	},
	CodeSkipped: {
		Retryable: false,
		Fatal:     false,
		Summary:   "unit of work skipped",
	},
	CodeDependency: {
		Retryable: true,
		Fatal:     true,
		Summary:   "dependency failed",
	},
	CodeAborted: {
		Retryable: true,
		Fatal:     true,
		Summary:   "pipeline aborted",
	},
	CodeInternal: {
		Retryable: true,
		Fatal:     true,
		Summary:   "internal error",
	},
}

func MetadataFor(code Code) Metadata {
	if meta, ok := metadataByCode[code]; ok {
		return meta
	}
	return metadataByCode[CodeInternal]
}

// IsFatal reports whether err carries a code that aborts the pipeline. Plain
// errors are treated as fatal.
func IsFatal(err error) bool {
	if err == nil {
		return false
	}
	typed := As(err)
	if typed == nil {
		return true
	}
	return MetadataFor(typed.Code()).Fatal
}

type Error struct {
	code    Code
	message string
	details any
	cause   error
}

func New(code Code, message string) *Error {
	return &Error{code: code, message: message}
}

func Wrap(code Code, err error, message string) *Error {
	if err == nil {
		return New(code, message)
	}
	return &Error{code: code, message: message, cause: err}
}

func (e *Error) Code() Code {
	if e == nil {
		return CodeInternal
	}
	return e.code
}

func (e *Error) Message() string {
	if e == nil {
		return ""
	}
	return e.message
}

func (e *Error) Details() any {
	if e == nil {
		return nil
	}
	return e.details
}

func (e *Error) WithDetails(details any) *Error {
	if e == nil {
		return nil
	}
	e.details = details
	return e
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("%s: %s", e.code, e.message)
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.cause
}

func As(err error) *Error {
	if err == nil {
		return nil
	}
	var typed *Error
	if stdErrors.As(err, &typed) {
		return typed
	}
	return nil
}
