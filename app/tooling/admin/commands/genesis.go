package commands

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/ardanlabs/notechain/foundation/blockchain/genesis"
	"github.com/ardanlabs/notechain/foundation/blockchain/ledger"
	"github.com/ardanlabs/notechain/foundation/blockchain/signature"
	"github.com/gagliardetto/solana-go"
)

// Genesis writes a genesis file that funds the faucet key. The faucet key is
// generated when the file does not exist yet.
func Genesis(path string, faucetPath string, lamports uint64, chainID uint16) error {
	var faucet solana.PrivateKey

	_, err := os.Stat(faucetPath)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		faucet, err = solana.NewRandomPrivateKey()
		if err != nil {
			return err
		}
		if err := signature.SaveKeyFile(faucetPath, faucet); err != nil {
			return err
		}
		fmt.Println("Faucet key written to:", faucetPath)

	case err != nil:
		return err

	default:
		faucet, err = signature.LoadKeyFile(faucetPath)
		if err != nil {
			return err
		}
	}

	gen := genesis.Genesis{
		Date:    time.Now().UTC(),
		ChainID: chainID,
		Rent:    ledger.DefaultRent(),
		Balances: map[string]uint64{
			faucet.PublicKey().String(): lamports,
		},
	}

	if err := genesis.Save(path, gen); err != nil {
		return err
	}

	fmt.Println("Genesis written to:", path)
	fmt.Println("Faucet:", faucet.PublicKey(), "Lamports:", lamports)

	return nil
}
