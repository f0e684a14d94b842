package notes

import "github.com/ardanlabs/notechain/foundation/blockchain/ledger"

// tipNote transfers amount lamports from the tipper to the author and adds
// the amount to the note's tip total. Both happen or neither does. The
// note's updated_at is refreshed.
//
// Accounts: [tipper (signer, mut), note_author (mut), note (mut), system_program]
func tipNote(ctx *ledger.InvokeContext, amount uint64) error {
	if err := requireAccounts(ctx, 4); err != nil {
		return err
	}
	tipper, noteAuthor, note, system := ctx.Accounts[0], ctx.Accounts[1], ctx.Accounts[2], ctx.Accounts[3]

	if err := requireSigner("tipper", tipper); err != nil {
		return err
	}
	if err := requireMut("tipper", tipper); err != nil {
		return err
	}
	if err := requireMut("note_author", noteAuthor); err != nil {
		return err
	}
	if noteAuthor.Owner != ledger.SystemProgramID {
		return ErrAccountNotSystemOwned.WithMsg("note_author: owner %s", noteAuthor.Owner)
	}
	if err := requireMut("note", note); err != nil {
		return err
	}
	if err := requireSystemProgram(system); err != nil {
		return err
	}

	n, err := loadNote(note)
	if err != nil {
		return err
	}

	if err := requireSeeds(note, noteAuthor.Key, n.Bump); err != nil {
		return err
	}

	if amount == 0 {
		return ErrInvalidTipAmount
	}

	if n.Authority != noteAuthor.Key {
		return ErrAuthorMismatch
	}

	if n.Authority == tipper.Key {
		return ErrCannotTipOwnNote
	}

	// The new total is checked before any value moves.
	total, ok := ledger.CheckedAdd(n.TipTotal, amount)
	if !ok {
		return ErrMathOverflow
	}

	if err := ctx.Invoke(ledger.Transfer(tipper.Key, noteAuthor.Key, amount)); err != nil {
		return err
	}

	n.TipTotal = total
	n.UpdatedAt = ctx.Clock.UnixTimestamp

	return storeNote(note, n)
}
