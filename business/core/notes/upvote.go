package notes

import "github.com/ardanlabs/notechain/foundation/blockchain/ledger"

// upvoteNote adds one upvote from the voter to the author's note and
// refreshes its updated_at.
//
// Accounts: [voter (signer, mut), note_author, note (mut)]
func upvoteNote(ctx *ledger.InvokeContext) error {
	if err := requireAccounts(ctx, 3); err != nil {
		return err
	}
	voter, noteAuthor, note := ctx.Accounts[0], ctx.Accounts[1], ctx.Accounts[2]

	if err := requireSigner("voter", voter); err != nil {
		return err
	}
	if err := requireMut("voter", voter); err != nil {
		return err
	}
	if err := requireMut("note", note); err != nil {
		return err
	}

	n, err := loadNote(note)
	if err != nil {
		return err
	}

	if err := requireSeeds(note, noteAuthor.Key, n.Bump); err != nil {
		return err
	}

	if n.Authority != noteAuthor.Key {
		return ErrAuthorMismatch
	}

	if n.Authority == voter.Key {
		return ErrCannotUpvoteOwnNote
	}

	upvotes, ok := ledger.CheckedAdd(n.Upvotes, 1)
	if !ok {
		return ErrMathOverflow
	}
	n.Upvotes = upvotes
	n.UpdatedAt = ctx.Clock.UnixTimestamp

	return storeNote(note, n)
}
