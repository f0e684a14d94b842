package notes

import "github.com/ardanlabs/notechain/foundation/blockchain/ledger"

// Set of errors raised by the note program. The codes are stable and
// surface to clients as the program's error codes.
var (
	ErrContentEmpty        = ledger.NewError(6000, "ContentEmpty", "Content must not be empty")
	ErrContentTooLong      = ledger.NewError(6001, "ContentTooLong", "Content exceeds maximum length")
	ErrAuthorMismatch      = ledger.NewError(6002, "AuthorMismatch", "Note authority does not match the PDA seeds")
	ErrCannotUpvoteOwnNote = ledger.NewError(6003, "CannotUpvoteOwnNote", "Authors cannot upvote their own note")
	ErrCannotTipOwnNote    = ledger.NewError(6004, "CannotTipOwnNote", "Authors cannot tip their own note")
	ErrInvalidTipAmount    = ledger.NewError(6005, "InvalidTipAmount", "Tip amount must be greater than zero")
	ErrMathOverflow        = ledger.NewError(6006, "MathOverflow", "Mathematical operation overflowed")
)

// Set of errors raised while validating the accounts and data passed to an
// instruction before the handler runs.
var (
	ErrInstructionFallbackNotFound  = ledger.NewError(101, "InstructionFallbackNotFound", "Fallback functions are not supported")
	ErrInstructionDidNotDeserialize = ledger.NewError(102, "InstructionDidNotDeserialize", "The program could not deserialize the given instruction")
	ErrConstraintMut                = ledger.NewError(2000, "ConstraintMut", "A mut constraint was violated")
	ErrConstraintHasOne             = ledger.NewError(2001, "ConstraintHasOne", "A has one constraint was violated")
	ErrConstraintSeeds              = ledger.NewError(2006, "ConstraintSeeds", "A seeds constraint was violated")
	ErrAccountDiscriminatorMismatch = ledger.NewError(3002, "AccountDiscriminatorMismatch", "Account discriminator did not match what was expected")
	ErrAccountDidNotDeserialize     = ledger.NewError(3003, "AccountDidNotDeserialize", "Failed to deserialize the account")
	ErrAccountDidNotSerialize       = ledger.NewError(3004, "AccountDidNotSerialize", "Failed to serialize the account")
	ErrAccountNotEnoughKeys         = ledger.NewError(3005, "AccountNotEnoughKeys", "Not enough account keys given to the instruction")
	ErrAccountOwnedByWrongProgram   = ledger.NewError(3007, "AccountOwnedByWrongProgram", "The given account is owned by a different program than expected")
	ErrInvalidProgramID             = ledger.NewError(3008, "InvalidProgramId", "Program ID was not as expected")
	ErrAccountNotSigner             = ledger.NewError(3010, "AccountNotSigner", "The given account did not sign")
	ErrAccountNotSystemOwned        = ledger.NewError(3011, "AccountNotSystemOwned", "The given account is not owned by the system program")
	ErrAccountNotInitialized        = ledger.NewError(3012, "AccountNotInitialized", "The program expected this account to be already initialized")
)
