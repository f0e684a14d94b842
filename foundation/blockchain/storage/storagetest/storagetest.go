// Package storagetest provides a conformance test for database.Serializer
// implementations.
package storagetest

import (
	"errors"
	"testing"

	"github.com/ardanlabs/notechain/foundation/blockchain/database"
	"github.com/ardanlabs/notechain/foundation/blockchain/ledger"
	"github.com/gagliardetto/solana-go"
)

// Success and failure markers.
const (
	success = "\u2713"
	failed  = "\u2717"
)

// Run writes a short chain to the serializer and checks it can be read
// back, iterated, and reset.
func Run(t *testing.T, s database.Serializer) {
	t.Helper()

	const blocks = 3

	t.Log("Given the need to store blocks.")
	{
		chain := Chain(t, blocks)

		testID := 0
		t.Logf("\tTest %d:\tWhen writing %d blocks.", testID, blocks)
		{
			for _, block := range chain {
				if err := s.Write(database.NewBlockData(block)); err != nil {
					t.Fatalf("\t%s\tTest %d:\tShould be able to write block %d: %v", failed, testID, block.Header.Number, err)
				}
			}
			t.Logf("\t%s\tTest %d:\tShould be able to write every block.", success, testID)

			blockData, err := s.GetBlock(2)
			if err != nil {
				t.Fatalf("\t%s\tTest %d:\tShould be able to read block 2: %v", failed, testID, err)
			}
			if blockData.Hash != chain[1].Hash() || len(blockData.Trans) != len(chain[1].Values()) {
				t.Fatalf("\t%s\tTest %d:\tShould read back the same block.", failed, testID)
			}
			t.Logf("\t%s\tTest %d:\tShould read back the same block.", success, testID)

			if _, err := s.GetBlock(blocks + 1); !errors.Is(err, database.ErrNotFound) {
				t.Fatalf("\t%s\tTest %d:\tShould not find a block past the end: %v", failed, testID, err)
			}
			t.Logf("\t%s\tTest %d:\tShould not find a block past the end.", success, testID)
		}

		testID++
		t.Logf("\tTest %d:\tWhen iterating over the blocks.", testID)
		{
			var prev database.Block
			var count int

			iter := s.ForEach()
			for blockData, err := iter.Next(); !iter.Done(); blockData, err = iter.Next() {
				if err != nil {
					t.Fatalf("\t%s\tTest %d:\tShould be able to read the next block: %v", failed, testID, err)
				}

				block, err := database.ToBlock(blockData)
				if err != nil {
					t.Fatalf("\t%s\tTest %d:\tShould be able to convert the block: %v", failed, testID, err)
				}

				if err := block.ValidateBlock(prev, func(string, ...any) {}); err != nil {
					t.Fatalf("\t%s\tTest %d:\tShould validate block %d: %v", failed, testID, block.Header.Number, err)
				}

				prev = block
				count++
			}

			if count != blocks {
				t.Fatalf("\t%s\tTest %d:\tShould visit every block: got %d", failed, testID, count)
			}
			t.Logf("\t%s\tTest %d:\tShould visit and validate every block in order.", success, testID)
		}

		testID++
		t.Logf("\tTest %d:\tWhen resetting the storage.", testID)
		{
			if err := s.Reset(); err != nil {
				t.Fatalf("\t%s\tTest %d:\tShould be able to reset: %v", failed, testID, err)
			}

			if _, err := s.GetBlock(1); !errors.Is(err, database.ErrNotFound) {
				t.Fatalf("\t%s\tTest %d:\tShould hold no blocks: %v", failed, testID, err)
			}
			t.Logf("\t%s\tTest %d:\tShould hold no blocks.", success, testID)

			if err := s.Write(database.NewBlockData(chain[0])); err != nil {
				t.Fatalf("\t%s\tTest %d:\tShould be able to start over: %v", failed, testID, err)
			}
			t.Logf("\t%s\tTest %d:\tShould be able to start over.", success, testID)
		}
	}
}

// Chain constructs n linked blocks each holding two signed transfers.
func Chain(t *testing.T, n int) []database.Block {
	t.Helper()

	pk, err := solana.NewRandomPrivateKey()
	if err != nil {
		t.Fatalf("\t%s\tShould be able to generate a private key: %v", failed, err)
	}

	var nonce uint64
	var prev database.Block
	chain := make([]database.Block, n)

	for i := range chain {
		var txs []database.BlockTx
		for j := 0; j < 2; j++ {
			nonce++
			ix := ledger.Transfer(pk.PublicKey(), solana.NewWallet().PublicKey(), 10)
			tx, err := ledger.NewTx(nonce, []solana.PublicKey{pk.PublicKey()}, ix).Sign(pk)
			if err != nil {
				t.Fatalf("\t%s\tShould be able to sign a transaction: %v", failed, err)
			}
			txs = append(txs, database.NewBlockTx(tx, int64(1_000+i)))
		}

		block, err := database.NewBlock(prev, int64(1_000+i), txs)
		if err != nil {
			t.Fatalf("\t%s\tShould be able to construct block %d: %v", failed, i+1, err)
		}

		chain[i] = block
		prev = block
	}

	return chain
}
