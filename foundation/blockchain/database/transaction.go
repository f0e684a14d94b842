package database

import (
	"fmt"

	"github.com/ardanlabs/notechain/foundation/blockchain/ledger"
	"github.com/ardanlabs/notechain/foundation/blockchain/signature"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

// BlockTx represents the transaction as it's recorded inside a block. This
// includes the clock value the transaction executed under so it can be
// replayed to the same result.
type BlockTx struct {
	ledger.SignedTx
	TimeStamp int64 `json:"timestamp"`
}

// NewBlockTx constructs a new block transaction.
func NewBlockTx(signedTx ledger.SignedTx, timeStamp int64) BlockTx {
	return BlockTx{
		SignedTx:  signedTx,
		TimeStamp: timeStamp,
	}
}

// Hash implements the merkle Hashable interface for providing a hash
// of a block transaction.
func (tx BlockTx) Hash() ([]byte, error) {
	return hexutil.Decode(signature.Hash(tx))
}

// Equals implements the merkle Hashable interface for providing an equality
// check between two block transactions. Transactions with the same first
// signature are the same transaction.
func (tx BlockTx) Equals(otherTx BlockTx) bool {
	return tx.ID() == otherTx.ID()
}

// String implements the fmt.Stringer interface for logging.
func (tx BlockTx) String() string {
	return fmt.Sprintf("%s@%d", tx.SignedTx, tx.TimeStamp)
}
