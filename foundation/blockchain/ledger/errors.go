package ledger

import (
	"errors"
	"fmt"
)

// Set of runtime errors raised while validating and executing transactions.
var (
	ErrNoInstructions         = errors.New("transaction has no instructions")
	ErrMissingSignature       = errors.New("missing signature for a required signer")
	ErrDuplicateSigner        = errors.New("signer listed more than once")
	ErrAlreadyProcessed       = errors.New("transaction already processed")
	ErrNonceTooOld            = errors.New("nonce at or below the pruned nonce of the fee payer")
	ErrUnknownProgram         = errors.New("invalid program id")
	ErrCallDepth              = errors.New("cross-program invocation call depth too deep")
	ErrMissingAccount         = errors.New("instruction references an account not passed to the caller")
	ErrPrivilegeEscalation    = errors.New("cross-program invocation with unauthorized signer or writable account")
	ErrUnbalancedInstruction  = errors.New("sum of account balances before and after instruction do not match")
	ErrReadonlyModified       = errors.New("instruction modified data or balance of a read-only account")
	ErrExternalDataModified   = errors.New("instruction modified data of an account it does not own")
	ErrExternalLamportSpend   = errors.New("instruction spent from the balance of an account it does not own")
	ErrExternalOwnerModified  = errors.New("instruction modified the owner of an account it does not own")
	ErrInvalidInstructionData = errors.New("invalid instruction data")
	ErrNotEnoughAccountKeys   = errors.New("insufficient account keys for instruction")
)

// =============================================================================

// Error represents a stable numeric and symbolic error raised by a program.
// Two errors are considered the same when their codes match so a message can
// carry call specific detail.
type Error struct {
	Code uint32 `json:"code"`
	Name string `json:"name"`
	Msg  string `json:"msg"`
}

// NewError constructs a program error.
func NewError(code uint32, name string, msg string) *Error {
	return &Error{
		Code: code,
		Name: name,
		Msg:  msg,
	}
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s (0x%x)", e.Name, e.Msg, e.Code)
}

// Is implements support for errors.Is by comparing error codes.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return e.Code == t.Code
}

// WithMsg returns a copy of the error with a call specific message.
func (e *Error) WithMsg(format string, args ...any) *Error {
	return &Error{
		Code: e.Code,
		Name: e.Name,
		Msg:  fmt.Sprintf(format, args...),
	}
}

// AsError extracts the program error from the error chain if one exists.
func AsError(err error) (*Error, bool) {
	var pe *Error
	if !errors.As(err, &pe) {
		return nil, false
	}
	return pe, true
}

// =============================================================================

// InstructionError identifies the instruction inside a transaction that
// caused the transaction to fail.
type InstructionError struct {
	Index int
	Err   error
}

// Error implements the error interface.
func (ie *InstructionError) Error() string {
	return fmt.Sprintf("error processing instruction %d: %s", ie.Index, ie.Err)
}

// Unwrap provides access to the underlying error.
func (ie *InstructionError) Unwrap() error {
	return ie.Err
}
