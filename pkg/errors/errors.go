package errors

import stderrors "errors"

const (
	CodeToolMissing   = "TOOL_MISSING"
	CodeUnknownStep   = "UNKNOWN_STEP"
	CodeInvalidConfig = "INVALID_CONFIG"
)

// CodedError lets callers branch on a stable code rather than matching
// message text.
type CodedError interface {
	Code() string
}

type codedError struct {
	code string
	msg  string
}

func (e *codedError) Error() string {
	return e.msg
}

func (e *codedError) Code() string {
	return e.code
}

// A required external tool was not found on PATH.
func ToolMissing(msg string) error {
	return &codedError{code: CodeToolMissing, msg: msg}
}

// A step name passed on the command line does not exist in the plan.
func UnknownStep(msg string) error {
	return &codedError{code: CodeUnknownStep, msg: msg}
}

// The provisioning profile failed validation.
func InvalidConfig(msg string) error {
	return &codedError{code: CodeInvalidConfig, msg: msg}
}

func IsToolMissing(err error) bool {
	return Code(err) == CodeToolMissing
}

func IsUnknownStep(err error) bool {
	return Code(err) == CodeUnknownStep
}

func IsInvalidConfig(err error) bool {
	return Code(err) == CodeInvalidConfig
}

// Code returns the error code, or the empty string. The error may be
// arbitrarily wrapped.
func Code(err error) string {
	var cerr CodedError
	if stderrors.As(err, &cerr) {
		return cerr.Code()
	}
	return ""
}
