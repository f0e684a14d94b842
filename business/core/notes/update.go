package notes

import "github.com/ardanlabs/notechain/foundation/blockchain/ledger"

// updateNote replaces the content of the note owned by the authority.
//
// Accounts: [authority (signer, mut), note (mut), system_program]
func updateNote(ctx *ledger.InvokeContext, content string) error {
	if err := requireAccounts(ctx, 3); err != nil {
		return err
	}
	authority, note, system := ctx.Accounts[0], ctx.Accounts[1], ctx.Accounts[2]

	n, err := loadAuthorized(authority, note)
	if err != nil {
		return err
	}
	if err := requireSystemProgram(system); err != nil {
		return err
	}

	if err := validateContent(content); err != nil {
		return err
	}

	if err := realloc(ctx, authority, note, SpaceFor(len(content))); err != nil {
		return err
	}

	n.Content = content
	n.UpdatedAt = ctx.Clock.UnixTimestamp

	return storeNote(note, n)
}

// loadAuthorized performs the account checks shared by every instruction
// only the note's authority can perform.
func loadAuthorized(authority *ledger.AccountInfo, note *ledger.AccountInfo) (Note, error) {
	if err := requireSigner("authority", authority); err != nil {
		return Note{}, err
	}
	if err := requireMut("authority", authority); err != nil {
		return Note{}, err
	}
	if err := requireMut("note", note); err != nil {
		return Note{}, err
	}

	n, err := loadNote(note)
	if err != nil {
		return Note{}, err
	}

	if err := requireSeeds(note, n.Authority, n.Bump); err != nil {
		return Note{}, err
	}

	if n.Authority != authority.Key {
		return Note{}, ErrConstraintHasOne.WithMsg("authority: left %s, right %s", n.Authority, authority.Key)
	}

	return n, nil
}

// realloc resizes the note account to space bytes. The payer covers any
// extra rent and receives any rent that is no longer required.
func realloc(ctx *ledger.InvokeContext, payer *ledger.AccountInfo, note *ledger.AccountInfo, space int) error {
	required := ctx.Rent.MinimumBalance(space)

	switch {
	case required > note.Lamports:
		if err := ctx.Invoke(ledger.Transfer(payer.Key, note.Key, required-note.Lamports)); err != nil {
			return err
		}

	case required < note.Lamports:
		excess := note.Lamports - required

		total, ok := ledger.CheckedAdd(payer.Lamports, excess)
		if !ok {
			return ErrMathOverflow
		}

		note.Lamports = required
		payer.Lamports = total
	}

	switch {
	case space > len(note.Data):
		note.Data = append(note.Data, make([]byte, space-len(note.Data))...)
	case space < len(note.Data):
		note.Data = note.Data[:space]
	}

	return nil
}
