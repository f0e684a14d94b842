// Package errs provides types and support related to web v1 functionality.
package errs

import (
	"errors"
	"net/http"

	"github.com/ardanlabs/notechain/foundation/blockchain/ledger"
	"github.com/ardanlabs/notechain/foundation/validate"
)

// Response is the form used for API responses from failures in the API.
// Program errors carry their stable code and name so clients can match on
// them without parsing the message. Code is a pointer since zero is a valid
// program error code.
type Response struct {
	Error       string            `json:"error"`
	Code        *uint32           `json:"code,omitempty"`
	Name        string            `json:"name,omitempty"`
	Instruction *int              `json:"instruction,omitempty"`
	Fields      map[string]string `json:"fields,omitempty"`
}

// Trusted is used to pass an error during the request through the
// application with web specific context.
type Trusted struct {
	Err    error
	Status int
}

// NewTrusted wraps a provided error with an HTTP status code. This
// function should be used when handlers encounter expected errors.
func NewTrusted(err error, status int) error {
	return &Trusted{err, status}
}

// Error implements the error interface. It uses the default message of the
// wrapped error. This is what will be shown in the services' logs.
func (re *Trusted) Error() string {
	return re.Err.Error()
}

// Unwrap provides access to the wrapped error.
func (re *Trusted) Unwrap() error {
	return re.Err
}

// IsTrusted checks if an error of type Trusted exists.
func IsTrusted(err error) bool {
	var re *Trusted
	return errors.As(err, &re)
}

// GetTrusted returns a copy of the Trusted pointer.
func GetTrusted(err error) *Trusted {
	var re *Trusted
	if !errors.As(err, &re) {
		return nil
	}
	return re
}

// ToResponse converts a trusted error into the response sent to the client.
func ToResponse(err error) (Response, int) {
	trusted := GetTrusted(err)
	if trusted == nil {
		return Response{Error: http.StatusText(http.StatusInternalServerError)}, http.StatusInternalServerError
	}

	resp := Response{
		Error: trusted.Error(),
	}

	if fe := validate.GetFieldErrors(trusted.Err); fe != nil {
		resp.Error = "data validation error"
		resp.Fields = fe.Fields()
		return resp, trusted.Status
	}

	if pe, ok := ledger.AsError(trusted.Err); ok {
		code := pe.Code
		resp.Code = &code
		resp.Name = pe.Name
	}

	var ie *ledger.InstructionError
	if errors.As(trusted.Err, &ie) {
		idx := ie.Index
		resp.Instruction = &idx
	}

	return resp, trusted.Status
}
