package notes

import "github.com/ardanlabs/notechain/foundation/blockchain/ledger"

// createNote initializes the note owned by the signing authority.
//
// Accounts: [authority (signer, mut), note (mut), system_program]
func createNote(ctx *ledger.InvokeContext, content string) error {
	if err := requireAccounts(ctx, 3); err != nil {
		return err
	}
	authority, note, system := ctx.Accounts[0], ctx.Accounts[1], ctx.Accounts[2]

	if err := requireSigner("authority", authority); err != nil {
		return err
	}
	if err := requireMut("authority", authority); err != nil {
		return err
	}
	if err := requireMut("note", note); err != nil {
		return err
	}
	if err := requireSystemProgram(system); err != nil {
		return err
	}

	addr, bump, err := FindNoteAddress(authority.Key)
	if err != nil || addr != note.Key {
		return ErrConstraintSeeds.WithMsg("note: left %s, right %s", note.Key, addr)
	}

	if err := validateContent(content); err != nil {
		return err
	}

	if err := initAccount(ctx, authority, note, SpaceFor(len(content)), bump); err != nil {
		return err
	}

	n := Note{
		Authority: authority.Key,
		Bump:      bump,
		Upvotes:   0,
		TipTotal:  0,
		CreatedAt: ctx.Clock.UnixTimestamp,
		UpdatedAt: ctx.Clock.UnixTimestamp,
		Content:   content,
	}

	return storeNote(note, n)
}

// initAccount allocates the note account with the rent paid by the payer.
// An address that already holds lamports is topped up, allocated, and
// assigned instead of created so a transfer to the address ahead of time
// cannot block the author. An address already holding data fails inside
// the system program as already in use.
func initAccount(ctx *ledger.InvokeContext, payer *ledger.AccountInfo, note *ledger.AccountInfo, space int, bump uint8) error {
	signer := signerSeeds(payer.Key, bump)
	required := ctx.Rent.MinimumBalance(space)

	if note.Lamports == 0 {
		ix := ledger.CreateAccount(payer.Key, note.Key, required, uint64(space), ProgramID)
		return ctx.InvokeSigned(ix, signer)
	}

	if required > note.Lamports {
		if err := ctx.Invoke(ledger.Transfer(payer.Key, note.Key, required-note.Lamports)); err != nil {
			return err
		}
	}

	if err := ctx.InvokeSigned(ledger.Allocate(note.Key, uint64(space)), signer); err != nil {
		return err
	}

	return ctx.InvokeSigned(ledger.Assign(note.Key, ProgramID), signer)
}
