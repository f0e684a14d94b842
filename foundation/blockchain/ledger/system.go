package ledger

import (
	"bytes"
	"encoding/binary"

	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"
)

// MaxPermittedDataLength is the largest amount of data an account can hold.
const MaxPermittedDataLength = 10 * 1024 * 1024

// Set of errors raised by the system program.
var (
	ErrAccountAlreadyInUse         = NewError(0, "AccountAlreadyInUse", "account already in use")
	ErrResultWithNegativeLamports  = NewError(1, "ResultWithNegativeLamports", "account does not have enough lamports to perform the operation")
	ErrInvalidAccountDataLength    = NewError(3, "InvalidAccountDataLength", "cannot allocate account data of this length")
	ErrMissingRequiredSignature    = NewError(4, "MissingRequiredSignature", "missing required signature for instruction")
	ErrTransferFromAccountWithData = NewError(5, "TransferFromAccountWithData", "from account must not carry data")
	ErrArithmeticOverflow          = NewError(6, "ArithmeticOverflow", "arithmetic overflowed")
)

// System program instruction indexes.
const (
	systemCreateAccount uint32 = 0
	systemAssign        uint32 = 1
	systemTransfer      uint32 = 2
	systemAllocate      uint32 = 8
)

// =============================================================================

// CreateAccount constructs a system instruction that funds a new account with
// the specified lamports, allocates space bytes of data, and assigns it to
// the owner program. Both accounts must sign.
func CreateAccount(from solana.PublicKey, to solana.PublicKey, lamports uint64, space uint64, owner solana.PublicKey) Instruction {
	var buf bytes.Buffer
	enc := bin.NewBorshEncoder(&buf)
	enc.WriteUint32(systemCreateAccount, binary.LittleEndian)
	enc.WriteUint64(lamports, binary.LittleEndian)
	enc.WriteUint64(space, binary.LittleEndian)
	enc.WriteBytes(owner[:], false)

	return Instruction{
		ProgramID: SystemProgramID,
		Accounts: []AccountMeta{
			Meta(from, true, true),
			Meta(to, true, true),
		},
		Data: buf.Bytes(),
	}
}

// Transfer constructs a system instruction that moves lamports between
// two accounts. The from account must sign.
func Transfer(from solana.PublicKey, to solana.PublicKey, lamports uint64) Instruction {
	var buf bytes.Buffer
	enc := bin.NewBorshEncoder(&buf)
	enc.WriteUint32(systemTransfer, binary.LittleEndian)
	enc.WriteUint64(lamports, binary.LittleEndian)

	return Instruction{
		ProgramID: SystemProgramID,
		Accounts: []AccountMeta{
			Meta(from, true, true),
			Meta(to, false, true),
		},
		Data: buf.Bytes(),
	}
}

// Assign constructs a system instruction that assigns the account to the
// owner program. The account must sign.
func Assign(account solana.PublicKey, owner solana.PublicKey) Instruction {
	var buf bytes.Buffer
	enc := bin.NewBorshEncoder(&buf)
	enc.WriteUint32(systemAssign, binary.LittleEndian)
	enc.WriteBytes(owner[:], false)

	return Instruction{
		ProgramID: SystemProgramID,
		Accounts: []AccountMeta{
			Meta(account, true, true),
		},
		Data: buf.Bytes(),
	}
}

// Allocate constructs a system instruction that allocates space bytes of
// data for the account. The account must sign.
func Allocate(account solana.PublicKey, space uint64) Instruction {
	var buf bytes.Buffer
	enc := bin.NewBorshEncoder(&buf)
	enc.WriteUint32(systemAllocate, binary.LittleEndian)
	enc.WriteUint64(space, binary.LittleEndian)

	return Instruction{
		ProgramID: SystemProgramID,
		Accounts: []AccountMeta{
			Meta(account, true, true),
		},
		Data: buf.Bytes(),
	}
}

// =============================================================================

// systemProgram owns every account not assigned to a program and is the
// only way to create accounts and move lamports out of them.
type systemProgram struct{}

// ID implements the Program interface.
func (systemProgram) ID() solana.PublicKey {
	return SystemProgramID
}

// Process implements the Program interface.
func (sp systemProgram) Process(ctx *InvokeContext) error {
	dec := bin.NewBorshDecoder(ctx.Data)

	kind, err := dec.ReadUint32(binary.LittleEndian)
	if err != nil {
		return ErrInvalidInstructionData
	}

	switch kind {
	case systemCreateAccount:
		if len(ctx.Accounts) < 2 {
			return ErrNotEnoughAccountKeys
		}
		lamports, err := dec.ReadUint64(binary.LittleEndian)
		if err != nil {
			return ErrInvalidInstructionData
		}
		space, err := dec.ReadUint64(binary.LittleEndian)
		if err != nil {
			return ErrInvalidInstructionData
		}
		owner, err := readPublicKey(dec)
		if err != nil {
			return err
		}

		ctx.Log("Instruction: CreateAccount")
		return sp.createAccount(ctx.Accounts[0], ctx.Accounts[1], lamports, space, owner)

	case systemAssign:
		if len(ctx.Accounts) < 1 {
			return ErrNotEnoughAccountKeys
		}
		owner, err := readPublicKey(dec)
		if err != nil {
			return err
		}

		ctx.Log("Instruction: Assign")
		return sp.assign(ctx.Accounts[0], owner)

	case systemTransfer:
		if len(ctx.Accounts) < 2 {
			return ErrNotEnoughAccountKeys
		}
		lamports, err := dec.ReadUint64(binary.LittleEndian)
		if err != nil {
			return ErrInvalidInstructionData
		}

		ctx.Log("Instruction: Transfer")
		return sp.transfer(ctx.Accounts[0], ctx.Accounts[1], lamports)

	case systemAllocate:
		if len(ctx.Accounts) < 1 {
			return ErrNotEnoughAccountKeys
		}
		space, err := dec.ReadUint64(binary.LittleEndian)
		if err != nil {
			return ErrInvalidInstructionData
		}

		ctx.Log("Instruction: Allocate")
		return sp.allocate(ctx.Accounts[0], space)
	}

	return ErrInvalidInstructionData
}

// createAccount funds, allocates, and assigns a brand new account.
func (sp systemProgram) createAccount(from *AccountInfo, to *AccountInfo, lamports uint64, space uint64, owner solana.PublicKey) error {
	if !from.IsSigner {
		return ErrMissingRequiredSignature.WithMsg("Create Account: from account %s must sign", from.Key)
	}

	if !to.IsSigner {
		return ErrMissingRequiredSignature.WithMsg("Create Account: account %s must sign", to.Key)
	}

	if to.Lamports > 0 || len(to.Data) > 0 || to.Owner != SystemProgramID {
		return ErrAccountAlreadyInUse.WithMsg("Create Account: account Address { address: %s, base: None } already in use", to.Key)
	}

	if err := sp.transfer(from, to, lamports); err != nil {
		return err
	}

	if err := sp.allocate(to, space); err != nil {
		return err
	}

	return sp.assign(to, owner)
}

// allocate gives a system owned account with no data space bytes of
// zeroed data.
func (systemProgram) allocate(account *AccountInfo, space uint64) error {
	if !account.IsSigner {
		return ErrMissingRequiredSignature.WithMsg("Allocate: 'to' account %s must sign", account.Key)
	}

	if len(account.Data) > 0 || account.Owner != SystemProgramID {
		return ErrAccountAlreadyInUse.WithMsg("Allocate: account Address { address: %s, base: None } already in use", account.Key)
	}

	if space > MaxPermittedDataLength {
		return ErrInvalidAccountDataLength.WithMsg("Allocate: requested %d, max allowed %d", space, MaxPermittedDataLength)
	}

	account.Data = make([]byte, space)

	return nil
}

// assign changes the program that owns the account.
func (systemProgram) assign(account *AccountInfo, owner solana.PublicKey) error {
	if account.Owner == owner {
		return nil
	}

	if !account.IsSigner {
		return ErrMissingRequiredSignature.WithMsg("Assign: account %s must sign", account.Key)
	}

	account.Owner = owner

	return nil
}

// readPublicKey reads a 32 byte address from the instruction data.
func readPublicKey(dec *bin.Decoder) (solana.PublicKey, error) {
	b, err := dec.ReadNBytes(solana.PublicKeyLength)
	if err != nil {
		return solana.PublicKey{}, ErrInvalidInstructionData
	}
	return solana.PublicKeyFromBytes(b), nil
}

// transfer moves lamports from one account to another.
func (systemProgram) transfer(from *AccountInfo, to *AccountInfo, lamports uint64) error {
	if !from.IsSigner {
		return ErrMissingRequiredSignature.WithMsg("Transfer: from account %s must sign", from.Key)
	}

	if len(from.Data) > 0 {
		return ErrTransferFromAccountWithData.WithMsg("Transfer: `from` must not carry data")
	}

	if from.Lamports < lamports {
		return ErrResultWithNegativeLamports.WithMsg("Transfer: insufficient lamports %d, need %d", from.Lamports, lamports)
	}

	// The same account on both sides leaves the balance untouched.
	if from.Account == to.Account {
		return nil
	}

	total, ok := CheckedAdd(to.Lamports, lamports)
	if !ok {
		return ErrArithmeticOverflow
	}

	from.Lamports -= lamports
	to.Lamports = total

	return nil
}
