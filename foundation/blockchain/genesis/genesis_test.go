package genesis_test

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/ardanlabs/notechain/foundation/blockchain/genesis"
	"github.com/ardanlabs/notechain/foundation/blockchain/ledger"
	"github.com/gagliardetto/solana-go"
)

// Success and failure markers.
const (
	success = "\u2713"
	failed  = "\u2717"
)

func Test_LoadSave(t *testing.T) {
	faucet := solana.NewWallet().PublicKey()

	gen := genesis.Genesis{
		Date:     time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		ChainID:  1,
		Rent:     ledger.DefaultRent(),
		Balances: map[string]uint64{faucet.String(): 1_000_000_000},
	}

	tt := []string{"genesis.json", "genesis.yaml"}

	t.Log("Given the need to persist the genesis file.")
	{
		for testID, name := range tt {
			t.Logf("\tTest %d:\tWhen handling %s.", testID, name)
			{
				path := filepath.Join(t.TempDir(), name)

				if err := genesis.Save(path, gen); err != nil {
					t.Fatalf("\t%s\tTest %d:\tShould be able to save the file: %v", failed, testID, err)
				}
				t.Logf("\t%s\tTest %d:\tShould be able to save the file.", success, testID)

				got, err := genesis.Load(path)
				if err != nil {
					t.Fatalf("\t%s\tTest %d:\tShould be able to load the file: %v", failed, testID, err)
				}
				t.Logf("\t%s\tTest %d:\tShould be able to load the file.", success, testID)

				if !got.Date.Equal(gen.Date) || got.ChainID != gen.ChainID || got.Rent != gen.Rent {
					t.Fatalf("\t%s\tTest %d:\tShould get back the same settings: %+v", failed, testID, got)
				}
				t.Logf("\t%s\tTest %d:\tShould get back the same settings.", success, testID)

				accounts := got.Accounts()
				if accounts[faucet].Lamports != 1_000_000_000 || accounts[faucet].Owner != ledger.SystemProgramID {
					t.Fatalf("\t%s\tTest %d:\tShould fund the faucet account.", failed, testID)
				}
				t.Logf("\t%s\tTest %d:\tShould fund the faucet account.", success, testID)
			}
		}
	}
}

func Test_InvalidBalance(t *testing.T) {
	t.Log("Given the need to reject bad genesis balances.")
	{
		testID := 0
		t.Logf("\tTest %d:\tWhen a balance is keyed by something other than an account.", testID)
		{
			gen := genesis.Genesis{Balances: map[string]uint64{"not-an-account": 1}}

			if err := gen.Validate(); err == nil {
				t.Fatalf("\t%s\tTest %d:\tShould fail validation.", failed, testID)
			}
			t.Logf("\t%s\tTest %d:\tShould fail validation.", success, testID)
		}
	}
}
