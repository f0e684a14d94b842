// Package notes implements the note program. Every author owns at most one
// note, stored at an address derived from the author's public key, that
// other accounts can upvote and tip.
package notes

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"github.com/ardanlabs/notechain/foundation/blockchain/ledger"
	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"
)

// ProgramID is the address of the note program.
var ProgramID = solana.MustPublicKeyFromBase58("6CBafYtMRgRdk72FDmcLhHng7zCGfiAGi6bwnvifrsaH")

// Seed is the domain separation tag used to derive note addresses.
const Seed = "note"

// MaxContentLength is the maximum number of content bytes a note can hold.
const MaxContentLength = 880

// Instruction discriminators.
var (
	ixCreateNote = discriminator("global:create_note")
	ixUpdateNote = discriminator("global:update_note")
	ixDeleteNote = discriminator("global:delete_note")
	ixUpvoteNote = discriminator("global:upvote_note")
	ixTipNote    = discriminator("global:tip_note")
)

// =============================================================================

// FindNoteAddress derives the address of the note owned by the author along
// with the canonical bump used to derive it.
func FindNoteAddress(author solana.PublicKey) (solana.PublicKey, uint8, error) {
	return solana.FindProgramAddress(seeds(author), ProgramID)
}

// noteAddress re-derives the note address from a bump that is already known.
func noteAddress(author solana.PublicKey, bump uint8) (solana.PublicKey, error) {
	return solana.CreateProgramAddress(signerSeeds(author, bump), ProgramID)
}

// seeds returns the seeds for the author's note address without a bump.
func seeds(author solana.PublicKey) [][]byte {
	return [][]byte{[]byte(Seed), author.Bytes()}
}

// signerSeeds returns the full set of seeds including the bump.
func signerSeeds(author solana.PublicKey, bump uint8) [][]byte {
	return append(seeds(author), []byte{bump})
}

// =============================================================================

// Program implements the ledger.Program interface for notes.
type Program struct{}

// New constructs the note program for registration with a ledger.
func New() *Program {
	return &Program{}
}

// ID implements the ledger.Program interface.
func (p *Program) ID() solana.PublicKey {
	return ProgramID
}

// Process implements the ledger.Program interface by dispatching the
// instruction to its handler.
func (p *Program) Process(ctx *ledger.InvokeContext) error {
	if len(ctx.Data) < 8 {
		return ErrInstructionFallbackNotFound
	}

	var disc [8]byte
	copy(disc[:], ctx.Data[:8])
	dec := bin.NewBorshDecoder(ctx.Data[8:])

	switch disc {
	case ixCreateNote:
		content, err := readString(dec)
		if err != nil {
			return ErrInstructionDidNotDeserialize
		}
		ctx.Log("Instruction: CreateNote")
		return createNote(ctx, content)

	case ixUpdateNote:
		content, err := readString(dec)
		if err != nil {
			return ErrInstructionDidNotDeserialize
		}
		ctx.Log("Instruction: UpdateNote")
		return updateNote(ctx, content)

	case ixDeleteNote:
		ctx.Log("Instruction: DeleteNote")
		return deleteNote(ctx)

	case ixUpvoteNote:
		ctx.Log("Instruction: UpvoteNote")
		return upvoteNote(ctx)

	case ixTipNote:
		amount, err := dec.ReadUint64(binary.LittleEndian)
		if err != nil {
			return ErrInstructionDidNotDeserialize
		}
		ctx.Log("Instruction: TipNote")
		return tipNote(ctx, amount)
	}

	return ErrInstructionFallbackNotFound
}

// =============================================================================

// validateContent checks the content is within the allowed byte length.
func validateContent(content string) error {
	switch {
	case len(content) == 0:
		return ErrContentEmpty
	case len(content) > MaxContentLength:
		return ErrContentTooLong.WithMsg("Content exceeds maximum length, got %d bytes, max %d", len(content), MaxContentLength)
	}
	return nil
}

// requireAccounts checks enough accounts were passed to the instruction.
func requireAccounts(ctx *ledger.InvokeContext, n int) error {
	if len(ctx.Accounts) < n {
		return ErrAccountNotEnoughKeys
	}
	return nil
}

// requireSigner checks the account signed the transaction.
func requireSigner(name string, info *ledger.AccountInfo) error {
	if !info.IsSigner {
		return ErrAccountNotSigner.WithMsg("%s: %s did not sign", name, info.Key)
	}
	return nil
}

// requireMut checks the account was passed as writable.
func requireMut(name string, info *ledger.AccountInfo) error {
	if !info.IsWritable {
		return ErrConstraintMut.WithMsg("%s: %s must be writable", name, info.Key)
	}
	return nil
}

// requireSystemProgram checks the account is the system program.
func requireSystemProgram(info *ledger.AccountInfo) error {
	if info.Key != ledger.SystemProgramID {
		return ErrInvalidProgramID.WithMsg("system_program: got %s, exp %s", info.Key, ledger.SystemProgramID)
	}
	return nil
}

// requireSeeds checks the note account lives at the address derived from
// the specified author and the stored bump.
func requireSeeds(info *ledger.AccountInfo, author solana.PublicKey, bump uint8) error {
	addr, err := noteAddress(author, bump)
	if err != nil || addr != info.Key {
		return ErrConstraintSeeds.WithMsg("note: left %s, right %s", info.Key, addr)
	}
	return nil
}

// loadNote decodes the note held by the account, checking it is an
// initialized note owned by this program.
func loadNote(info *ledger.AccountInfo) (Note, error) {
	if info.Owner == ledger.SystemProgramID && len(info.Data) == 0 {
		return Note{}, ErrAccountNotInitialized.WithMsg("note: %s", info.Key)
	}

	if info.Owner != ProgramID {
		return Note{}, ErrAccountOwnedByWrongProgram.WithMsg("note: owner %s, exp %s", info.Owner, ProgramID)
	}

	return Decode(info.Data)
}

// storeNote serializes the note into the account data.
func storeNote(info *ledger.AccountInfo, n Note) error {
	data, err := n.MarshalBinary()
	if err != nil {
		return ErrAccountDidNotSerialize
	}

	if len(data) > len(info.Data) {
		return ErrAccountDidNotSerialize.WithMsg("note: need %d bytes, have %d", len(data), len(info.Data))
	}

	copy(info.Data, data)

	return nil
}

// encodeInstruction builds instruction data from a discriminator and the
// Borsh encoded arguments.
func encodeInstruction(disc [8]byte, args func(enc *bin.Encoder) error) ([]byte, error) {
	var buf bytes.Buffer
	enc := bin.NewBorshEncoder(&buf)

	if err := enc.WriteBytes(disc[:], false); err != nil {
		return nil, err
	}

	if args != nil {
		if err := args(enc); err != nil {
			return nil, fmt.Errorf("encoding args: %w", err)
		}
	}

	return buf.Bytes(), nil
}
