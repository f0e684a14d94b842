package database

import (
	"errors"
	"fmt"

	"github.com/ardanlabs/notechain/foundation/blockchain/merkle"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

// ErrTxNotInBlock is returned when a proof is requested for a transaction
// the block does not hold.
var ErrTxNotInBlock = errors.New("transaction not in block")

// TxProof proves a transaction is part of a block. The sibling hashes lead
// from the transaction's hash up to the block's transaction root.
type TxProof struct {
	Number    uint64   `json:"number"`
	TransRoot string   `json:"trans_root"`
	Tx        BlockTx  `json:"tx"`
	Proof     []string `json:"proof"`
	Order     []int64  `json:"order"`
}

// Proof builds the inclusion proof for the transaction with the specified
// signature.
func (b Block) Proof(signature string) (TxProof, error) {
	for _, tx := range b.Values() {
		if tx.ID() != signature {
			continue
		}

		if err := b.Trans.VerifyData(tx); err != nil {
			return TxProof{}, fmt.Errorf("verify tx %s: %w", signature, err)
		}

		proof, order, err := b.Trans.Proof(tx)
		if err != nil {
			return TxProof{}, err
		}

		hashes := make([]string, len(proof))
		for i, h := range proof {
			hashes[i] = hexutil.Encode(h)
		}

		txProof := TxProof{
			Number:    b.Header.Number,
			TransRoot: b.Header.TransRoot,
			Tx:        tx,
			Proof:     hashes,
			Order:     order,
		}

		return txProof, nil
	}

	return TxProof{}, ErrTxNotInBlock
}

// Verify checks the transaction hashes up to the transaction root without
// access to the block.
func (p TxProof) Verify() error {
	root, err := hexutil.Decode(p.TransRoot)
	if err != nil {
		return fmt.Errorf("trans root: %w", err)
	}

	leaf, err := p.Tx.Hash()
	if err != nil {
		return err
	}

	proof := make([][]byte, len(p.Proof))
	for i, h := range p.Proof {
		if proof[i], err = hexutil.Decode(h); err != nil {
			return fmt.Errorf("proof[%d]: %w", i, err)
		}
	}

	return merkle.VerifyProof(merkle.Keccak256, leaf, proof, p.Order, root)
}
