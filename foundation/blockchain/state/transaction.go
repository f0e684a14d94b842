package state

import (
	"errors"
	"fmt"

	"github.com/ardanlabs/notechain/foundation/blockchain/database"
	"github.com/ardanlabs/notechain/foundation/blockchain/ledger"
	"github.com/gagliardetto/solana-go"
)

// ErrNoFaucet is returned when an airdrop is requested from a node that was
// not configured with a faucet key.
var ErrNoFaucet = errors.New("node has no faucet")

// SubmitTransaction executes the transaction against the ledger. A
// transaction that succeeds is pending inclusion in the next block.
func (s *State) SubmitTransaction(signedTx ledger.SignedTx) (ledger.Receipt, error) {
	receipt, err := s.ledger.Execute(signedTx, s.clock())
	if err != nil {
		s.evHandler("state: SubmitTransaction: tx[%s]: FAILED: %s", signedTx, err)
		return receipt, err
	}

	s.evHandler("viewer: tx[%s]: signature[%s]: committed", signedTx, receipt.Signature)

	return receipt, nil
}

// SubmitTransactions executes the transactions concurrently. Transactions
// that share an account are applied one at a time.
func (s *State) SubmitTransactions(signedTxs []ledger.SignedTx) []ledger.BatchResult {
	results := s.ledger.ExecuteBatch(signedTxs, s.clock())

	var committed int
	for _, result := range results {
		if result.Err == nil {
			committed++
		}
	}

	s.evHandler("viewer: batch: txs[%d]: committed[%d]", len(signedTxs), committed)

	return results
}

// Airdrop transfers lamports from the node's faucet to the account.
func (s *State) Airdrop(to solana.PublicKey, lamports uint64) (ledger.Receipt, error) {
	if s.faucet == nil {
		return ledger.Receipt{}, ErrNoFaucet
	}

	from := s.faucet.PublicKey()
	tx := ledger.NewTx(s.nonce.Add(1), []solana.PublicKey{from}, ledger.Transfer(from, to, lamports))

	signedTx, err := tx.Sign(s.faucet)
	if err != nil {
		return ledger.Receipt{}, fmt.Errorf("signing airdrop: %w", err)
	}

	return s.SubmitTransaction(signedTx)
}

// commit records a transaction the ledger committed. The ledger calls this
// while the transaction's accounts are locked so the pending order matches
// the order the transactions were applied in.
func (s *State) commit(signedTx ledger.SignedTx, now int64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.pending = append(s.pending, database.NewBlockTx(signedTx, now))
}
