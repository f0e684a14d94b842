package notes

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/ardanlabs/notechain/foundation/blockchain/ledger"
	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"
)

// ErrNotFound is returned when no note exists for an author.
var ErrNotFound = errors.New("note not found")

// CreateNote constructs the instruction to create the authority's note.
func CreateNote(authority solana.PublicKey, content string) (ledger.Instruction, error) {
	note, _, err := FindNoteAddress(authority)
	if err != nil {
		return ledger.Instruction{}, err
	}

	data, err := encodeInstruction(ixCreateNote, func(enc *bin.Encoder) error {
		return writeString(enc, content)
	})
	if err != nil {
		return ledger.Instruction{}, err
	}

	ix := ledger.Instruction{
		ProgramID: ProgramID,
		Accounts: []ledger.AccountMeta{
			ledger.Meta(authority, true, true),
			ledger.Meta(note, false, true),
			ledger.Meta(ledger.SystemProgramID, false, false),
		},
		Data: data,
	}

	return ix, nil
}

// UpdateNote constructs the instruction to replace the content of the
// note at the specified address.
func UpdateNote(authority solana.PublicKey, note solana.PublicKey, content string) (ledger.Instruction, error) {
	data, err := encodeInstruction(ixUpdateNote, func(enc *bin.Encoder) error {
		return writeString(enc, content)
	})
	if err != nil {
		return ledger.Instruction{}, err
	}

	ix := ledger.Instruction{
		ProgramID: ProgramID,
		Accounts: []ledger.AccountMeta{
			ledger.Meta(authority, true, true),
			ledger.Meta(note, false, true),
			ledger.Meta(ledger.SystemProgramID, false, false),
		},
		Data: data,
	}

	return ix, nil
}

// DeleteNote constructs the instruction to close the note at the specified
// address.
func DeleteNote(authority solana.PublicKey, note solana.PublicKey) (ledger.Instruction, error) {
	data, err := encodeInstruction(ixDeleteNote, nil)
	if err != nil {
		return ledger.Instruction{}, err
	}

	ix := ledger.Instruction{
		ProgramID: ProgramID,
		Accounts: []ledger.AccountMeta{
			ledger.Meta(authority, true, true),
			ledger.Meta(note, false, true),
		},
		Data: data,
	}

	return ix, nil
}

// UpvoteNote constructs the instruction for the voter to upvote the note
// owned by the author.
func UpvoteNote(voter solana.PublicKey, author solana.PublicKey) (ledger.Instruction, error) {
	note, _, err := FindNoteAddress(author)
	if err != nil {
		return ledger.Instruction{}, err
	}

	data, err := encodeInstruction(ixUpvoteNote, nil)
	if err != nil {
		return ledger.Instruction{}, err
	}

	ix := ledger.Instruction{
		ProgramID: ProgramID,
		Accounts: []ledger.AccountMeta{
			ledger.Meta(voter, true, true),
			ledger.Meta(author, false, false),
			ledger.Meta(note, false, true),
		},
		Data: data,
	}

	return ix, nil
}

// TipNote constructs the instruction for the tipper to tip amount lamports
// to the note owned by the author.
func TipNote(tipper solana.PublicKey, author solana.PublicKey, amount uint64) (ledger.Instruction, error) {
	note, _, err := FindNoteAddress(author)
	if err != nil {
		return ledger.Instruction{}, err
	}

	data, err := encodeInstruction(ixTipNote, func(enc *bin.Encoder) error {
		return enc.WriteUint64(amount, binary.LittleEndian)
	})
	if err != nil {
		return ledger.Instruction{}, err
	}

	ix := ledger.Instruction{
		ProgramID: ProgramID,
		Accounts: []ledger.AccountMeta{
			ledger.Meta(tipper, true, true),
			ledger.Meta(author, false, true),
			ledger.Meta(note, false, true),
			ledger.Meta(ledger.SystemProgramID, false, false),
		},
		Data: data,
	}

	return ix, nil
}

// =============================================================================

// Reader represents the behavior required to read accounts from a ledger.
type Reader interface {
	Account(key solana.PublicKey) (ledger.Account, bool)
	ProgramAccounts(owner solana.PublicKey, filters ...ledger.Filter) []ledger.KeyedAccount
}

// Record is a decoded note along with the account that holds it.
type Record struct {
	Address  solana.PublicKey `json:"address"`
	Lamports uint64           `json:"lamports"`
	Note     Note             `json:"note"`
}

// Scan performs a full scan of the program's accounts and decodes every
// note. Extra filters narrow the scan, such as a Memcmp on OffsetAuthority.
func Scan(r Reader, filters ...ledger.Filter) ([]Record, error) {
	filters = append([]ledger.Filter{ledger.Memcmp{Offset: 0, Bytes: AccountDiscriminator[:]}}, filters...)

	accounts := r.ProgramAccounts(ProgramID, filters...)

	records := make([]Record, 0, len(accounts))
	for _, ka := range accounts {
		n, err := Decode(ka.Account.Data)
		if err != nil {
			return nil, fmt.Errorf("decoding note %s: %w", ka.PublicKey, err)
		}

		records = append(records, Record{
			Address:  ka.PublicKey,
			Lamports: ka.Account.Lamports,
			Note:     n,
		})
	}

	return records, nil
}

// Fetch returns the note owned by the author.
func Fetch(r Reader, author solana.PublicKey) (Record, error) {
	addr, _, err := FindNoteAddress(author)
	if err != nil {
		return Record{}, err
	}

	account, exists := r.Account(addr)
	if !exists || account.Owner != ProgramID {
		return Record{}, ErrNotFound
	}

	n, err := Decode(account.Data)
	if err != nil {
		return Record{}, fmt.Errorf("decoding note %s: %w", addr, err)
	}

	record := Record{
		Address:  addr,
		Lamports: account.Lamports,
		Note:     n,
	}

	return record, nil
}
