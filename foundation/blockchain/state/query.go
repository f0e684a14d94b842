package state

import (
	"errors"

	"github.com/ardanlabs/notechain/business/core/notes"
	"github.com/ardanlabs/notechain/foundation/blockchain/database"
	"github.com/ardanlabs/notechain/foundation/blockchain/genesis"
	"github.com/ardanlabs/notechain/foundation/blockchain/ledger"
	"github.com/gagliardetto/solana-go"
)

// QueryLatest represents to query the latest block in the chain.
const QueryLatest = ^uint64(0) >> 1

// Genesis returns a copy of the genesis information.
func (s *State) Genesis() genesis.Genesis {
	return s.genesis
}

// Faucet returns the public key of the node's faucet account. The zero key
// is returned when the node has no faucet.
func (s *State) Faucet() solana.PublicKey {
	if s.faucet == nil {
		return solana.PublicKey{}
	}
	return s.faucet.PublicKey()
}

// Rent returns the rent parameters of the ledger.
func (s *State) Rent() ledger.Rent {
	return s.ledger.Rent()
}

// LatestBlock returns a copy the current latest block.
func (s *State) LatestBlock() database.Block {
	return s.db.LatestBlock()
}

// PendingCount returns the number of committed transactions not yet sealed
// in a block.
func (s *State) PendingCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.pending)
}

// Account returns a copy of the account at the specified address.
func (s *State) Account(key solana.PublicKey) (ledger.Account, bool) {
	return s.ledger.Account(key)
}

// Accounts returns a copy of every account in the ledger.
func (s *State) Accounts() map[solana.PublicKey]ledger.Account {
	return s.ledger.Copy()
}

// Notes performs a full scan of the ledger for every note.
func (s *State) Notes() ([]notes.Record, error) {
	return notes.Scan(s.ledger)
}

// Note returns the note owned by the author.
func (s *State) Note(author solana.PublicKey) (notes.Record, error) {
	return notes.Fetch(s.ledger, author)
}

// TransactionProof returns the inclusion proof for the transaction with the
// specified signature in the specified block.
func (s *State) TransactionProof(number uint64, signature string) (database.TxProof, error) {
	block, err := s.db.GetBlock(number)
	if err != nil {
		return database.TxProof{}, err
	}

	return block.Proof(signature)
}

// QueryBlocks returns the set of blocks between the block numbers
// inclusive. QueryLatest can be used for either bound.
func (s *State) QueryBlocks(from uint64, to uint64) ([]database.Block, error) {
	latest := s.db.LatestBlock().Header.Number

	if from == QueryLatest {
		from = latest
	}
	if to == QueryLatest || to > latest {
		to = latest
	}
	if from == 0 {
		from = 1
	}

	var out []database.Block
	for i := from; i <= to; i++ {
		block, err := s.db.GetBlock(i)
		if err != nil {
			if errors.Is(err, database.ErrNotFound) {
				break
			}
			return nil, err
		}
		out = append(out, block)
	}

	return out, nil
}
