package database

import (
	"errors"
	"fmt"

	"github.com/ardanlabs/notechain/foundation/blockchain/merkle"
	"github.com/ardanlabs/notechain/foundation/blockchain/signature"
)

// ErrNoTransactions is returned when a block is constructed without any
// transactions.
var ErrNoTransactions = errors.New("block has no transactions")

// =============================================================================

// BlockHeader represents common information required for each block.
type BlockHeader struct {
	Number        uint64 `json:"number"`          // Block number in the chain.
	PrevBlockHash string `json:"prev_block_hash"` // Hash of the previous block in the chain.
	TimeStamp     int64  `json:"timestamp"`       // Time the block was sealed.
	TransRoot     string `json:"trans_root"`      // Merkle tree root hash for the transactions in this block.
}

// Block represents a group of transactions batched together.
type Block struct {
	Header BlockHeader
	Trans  *merkle.Tree[BlockTx]
}

// NewBlock constructs the block that follows the previous block.
func NewBlock(prevBlock Block, timeStamp int64, trans []BlockTx) (Block, error) {
	if len(trans) == 0 {
		return Block{}, ErrNoTransactions
	}

	prevBlockHash := signature.ZeroHash
	if prevBlock.Header.Number > 0 {
		prevBlockHash = prevBlock.Hash()
	}

	tree, err := merkle.NewTree(trans)
	if err != nil {
		return Block{}, err
	}

	nb := Block{
		Header: BlockHeader{
			Number:        prevBlock.Header.Number + 1,
			PrevBlockHash: prevBlockHash,
			TimeStamp:     timeStamp,
			TransRoot:     tree.RootHex(),
		},
		Trans: tree,
	}

	return nb, nil
}

// Hash returns the unique hash for the Block.
func (b Block) Hash() string {
	if b.Header.Number == 0 {
		return signature.ZeroHash
	}

	// Only the header is hashed. The merkle root commits to the
	// transactions.
	return signature.Hash(b.Header)
}

// Values returns the transactions in the block.
func (b Block) Values() []BlockTx {
	if b.Trans == nil {
		return nil
	}
	return b.Trans.Values()
}

// ValidateBlock takes a block and validates it to be included into the
// blockchain after the previous block.
func (b Block) ValidateBlock(previousBlock Block, evHandler func(v string, args ...any)) error {
	evHandler("database: ValidateBlock: validate: blk[%d]: check: block number is the next number", b.Header.Number)

	nextNumber := previousBlock.Header.Number + 1
	if b.Header.Number != nextNumber {
		return fmt.Errorf("this block is not the next number, got %d, exp %d", b.Header.Number, nextNumber)
	}

	evHandler("database: ValidateBlock: validate: blk[%d]: check: parent hash does match parent block", b.Header.Number)

	if b.Header.PrevBlockHash != previousBlock.Hash() {
		return fmt.Errorf("parent block hash doesn't match our known parent, got %s, exp %s", b.Header.PrevBlockHash, previousBlock.Hash())
	}

	if previousBlock.Header.TimeStamp > 0 {
		evHandler("database: ValidateBlock: validate: blk[%d]: check: block's timestamp is not before parent block's timestamp", b.Header.Number)

		if b.Header.TimeStamp < previousBlock.Header.TimeStamp {
			return fmt.Errorf("block timestamp is before parent block, parent %d, block %d", previousBlock.Header.TimeStamp, b.Header.TimeStamp)
		}
	}

	evHandler("database: ValidateBlock: validate: blk[%d]: check: merkle root does match transactions", b.Header.Number)

	if b.Trans == nil {
		return ErrNoTransactions
	}

	if b.Header.TransRoot != b.Trans.RootHex() {
		return fmt.Errorf("merkle root does not match transactions, got %s, exp %s", b.Trans.RootHex(), b.Header.TransRoot)
	}

	if err := b.Trans.Verify(); err != nil {
		return fmt.Errorf("merkle tree: %w", err)
	}

	return nil
}

// =============================================================================

// BlockData represents what can be serialized to disk and over the network.
type BlockData struct {
	Hash   string      `json:"hash"`
	Header BlockHeader `json:"block"`
	Trans  []BlockTx   `json:"trans"`
}

// NewBlockData constructs block data from a block.
func NewBlockData(block Block) BlockData {
	blockData := BlockData{
		Hash:   block.Hash(),
		Header: block.Header,
		Trans:  block.Values(),
	}

	return blockData
}

// ToBlock converts a storage block into a database block.
func ToBlock(blockData BlockData) (Block, error) {
	tree, err := merkle.NewTree(blockData.Trans)
	if err != nil {
		return Block{}, err
	}

	block := Block{
		Header: blockData.Header,
		Trans:  tree,
	}

	return block, nil
}
