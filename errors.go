package xpdo

import (
	"errors"
	"fmt"
)

/*
Error codes. You probably shouldn't use this directly; instead, use the `Err`
variables with `errors.Is`.
*/
type ErrCode string

const (
	ErrCodeUnknown         ErrCode = ""
	ErrCodeMissingType     ErrCode = "MissingType"
	ErrCodeUnsupportedType ErrCode = "UnsupportedType"
	ErrCodeMissingLimit    ErrCode = "MissingLimit"
	ErrCodeInvalidSubQuery ErrCode = "InvalidSubQuery"
	ErrCodeCyclicSubQuery  ErrCode = "CyclicSubQuery"
	ErrCodeInvalidInput    ErrCode = "InvalidInput"
	ErrCodeMissingArgument ErrCode = "MissingArgument"
	ErrCodeUnexpectedParam ErrCode = "UnexpectedParameter"
	ErrCodePrepare         ErrCode = "Prepare"
	ErrCodeExec            ErrCode = "Exec"
	ErrCodeConfig          ErrCode = "Config"
)

/*
Use blank error variables to detect error types:

	if errors.Is(err, xpdo.ErrMissingType) {
		// Handle specific error.
	}

Note that errors returned by this package can't be compared via `==` because
they may include additional details about the circumstances. When compared by
`errors.Is`, they compare `.Cause` and fall back on `.Code`.
*/
var (
	ErrMissingType     = Err{Code: ErrCodeMissingType, Cause: errors.New(`missing query type`)}
	ErrUnsupportedType = Err{Code: ErrCodeUnsupportedType, Cause: errors.New(`unsupported query type`)}
	ErrMissingLimit    = Err{Code: ErrCodeMissingLimit, Cause: errors.New(`either perPage or limit needs to be set`)}
	ErrInvalidSubQuery = Err{Code: ErrCodeInvalidSubQuery, Cause: errors.New(`sub-query must be a select`)}
	ErrCyclicSubQuery  = Err{Code: ErrCodeCyclicSubQuery, Cause: errors.New(`query is nested inside itself`)}
	ErrInvalidInput    = Err{Code: ErrCodeInvalidInput, Cause: errors.New(`invalid input`)}
	ErrMissingArgument = Err{Code: ErrCodeMissingArgument, Cause: errors.New(`missing argument`)}
	ErrUnexpectedParam = Err{Code: ErrCodeUnexpectedParam, Cause: errors.New(`unexpected parameter`)}
	ErrPrepare         = Err{Code: ErrCodePrepare, Cause: errors.New(`failed to prepare statement`)}
	ErrExec            = Err{Code: ErrCodeExec, Cause: errors.New(`failed to execute statement`)}
	ErrConfig          = Err{Code: ErrCodeConfig, Cause: errors.New(`invalid configuration`)}
)

// Type of errors returned by this package and by `dbx`.
type Err struct {
	Code  ErrCode
	While string
	Cause error
}

// Implement `error`.
func (self Err) Error() string {
	if self == (Err{}) {
		return ""
	}
	msg := `[xpdo]`
	if self.Code != ErrCodeUnknown {
		msg += fmt.Sprintf(` %s`, self.Code)
	}
	if self.While != "" {
		msg += fmt.Sprintf(` while %v`, self.While)
	}
	if self.Cause != nil {
		msg += `: ` + self.Cause.Error()
	}
	return msg
}

// Implement a hidden interface in "errors".
func (self Err) Is(other error) bool {
	if self.Cause != nil && errors.Is(self.Cause, other) {
		return true
	}
	err, ok := other.(Err)
	return ok && err.Code == self.Code
}

// Implement a hidden interface in "errors".
func (self Err) Unwrap() error {
	return self.Cause
}

func (self Err) while(while string) Err {
	self.While = while
	return self
}

func (self Err) because(cause error) Err {
	self.Cause = cause
	return self
}

func errf(pattern string, args ...any) error { return fmt.Errorf(pattern, args...) }
