package commands

import (
	"fmt"

	"github.com/ardanlabs/notechain/foundation/blockchain/database"
)

// Blocks prints every stored block with its transactions.
func Blocks(db *database.Database) error {
	iter := db.ForEach()
	for block, err := iter.Next(); !iter.Done(); block, err = iter.Next() {
		if err != nil {
			return err
		}

		fmt.Printf("Block %d  Hash: %s  Time: %d\n", block.Header.Number, block.Hash(), block.Header.TimeStamp)
		fmt.Printf("  Prev: %s\n  Root: %s\n", block.Header.PrevBlockHash, block.Header.TransRoot)

		for _, tx := range block.Values() {
			fmt.Printf("  Tx: %s  Signer: %s  Instructions: %d  Time: %d\n", tx.ID(), tx, len(tx.Instructions), tx.TimeStamp)
		}
	}

	return nil
}
