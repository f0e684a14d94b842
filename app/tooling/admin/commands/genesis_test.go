package commands_test

import (
	"path/filepath"
	"testing"

	"github.com/ardanlabs/notechain/app/tooling/admin/commands"
	"github.com/ardanlabs/notechain/foundation/blockchain/genesis"
	"github.com/ardanlabs/notechain/foundation/blockchain/signature"
)

// Success and failure markers.
const (
	success = "\u2713"
	failed  = "\u2717"
)

func Test_Genesis(t *testing.T) {
	t.Log("Given the need to bootstrap a chain.")
	{
		dir := t.TempDir()
		genPath := filepath.Join(dir, "genesis.yaml")
		keyPath := filepath.Join(dir, "accounts", "faucet.json")

		t.Logf("\tTest 0:\tWhen no faucet key exists yet.")
		{
			if err := commands.Genesis(genPath, keyPath, 1_000, 7); err != nil {
				t.Fatalf("\t%s\tTest 0:\tShould be able to write the genesis: %v", failed, err)
			}
			t.Logf("\t%s\tTest 0:\tShould be able to write the genesis.", success)

			faucet, err := signature.LoadKeyFile(keyPath)
			if err != nil {
				t.Fatalf("\t%s\tTest 0:\tShould have generated the faucet key: %v", failed, err)
			}
			t.Logf("\t%s\tTest 0:\tShould have generated the faucet key.", success)

			gen, err := genesis.Load(genPath)
			if err != nil {
				t.Fatalf("\t%s\tTest 0:\tShould be able to load the genesis: %v", failed, err)
			}
			if gen.ChainID != 7 || gen.Balances[faucet.PublicKey().String()] != 1_000 {
				t.Fatalf("\t%s\tTest 0:\tShould fund the faucet: %+v", failed, gen)
			}
			t.Logf("\t%s\tTest 0:\tShould fund the faucet.", success)
		}

		t.Logf("\tTest 1:\tWhen the faucet key already exists.")
		{
			before, _ := signature.LoadKeyFile(keyPath)

			if err := commands.Genesis(genPath, keyPath, 2_000, 7); err != nil {
				t.Fatalf("\t%s\tTest 1:\tShould be able to rewrite the genesis: %v", failed, err)
			}

			gen, err := genesis.Load(genPath)
			if err != nil || gen.Balances[before.PublicKey().String()] != 2_000 {
				t.Fatalf("\t%s\tTest 1:\tShould reuse the faucet key: %+v %v", failed, gen, err)
			}
			t.Logf("\t%s\tTest 1:\tShould reuse the faucet key.", success)
		}
	}
}
