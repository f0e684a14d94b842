package notes

import "github.com/ardanlabs/notechain/foundation/blockchain/ledger"

// deleteNote closes the note owned by the authority and returns the rent
// deposit to the authority.
//
// Accounts: [authority (signer, mut), note (mut)]
func deleteNote(ctx *ledger.InvokeContext) error {
	if err := requireAccounts(ctx, 2); err != nil {
		return err
	}
	authority, note := ctx.Accounts[0], ctx.Accounts[1]

	if _, err := loadAuthorized(authority, note); err != nil {
		return err
	}

	return closeAccount(note, authority)
}

// closeAccount moves every lamport to the destination and hands the empty
// account back to the system program. The ledger purges it on commit.
func closeAccount(info *ledger.AccountInfo, destination *ledger.AccountInfo) error {
	total, ok := ledger.CheckedAdd(destination.Lamports, info.Lamports)
	if !ok {
		return ErrMathOverflow
	}

	destination.Lamports = total
	info.Lamports = 0
	info.Data = nil
	info.Owner = ledger.SystemProgramID

	return nil
}
