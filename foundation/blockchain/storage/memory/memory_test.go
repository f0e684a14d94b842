package memory_test

import (
	"testing"

	"github.com/ardanlabs/notechain/foundation/blockchain/database"
	"github.com/ardanlabs/notechain/foundation/blockchain/storage/memory"
	"github.com/ardanlabs/notechain/foundation/blockchain/storage/storagetest"
)

func Test_Memory(t *testing.T) {
	storagetest.Run(t, memory.New())
}

func Test_OutOfOrder(t *testing.T) {
	chain := storagetest.Chain(t, 2)

	m := memory.New()
	if err := m.Write(database.NewBlockData(chain[1])); err == nil {
		t.Fatalf("Should refuse to write block 2 before block 1.")
	}
}
