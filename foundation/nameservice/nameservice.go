// Package nameservice reads a folder of keypair files and creates a name
// service lookup for the node's known accounts.
package nameservice

import (
	"fmt"
	"io/fs"
	"path"
	"path/filepath"
	"strings"

	"github.com/ardanlabs/notechain/foundation/blockchain/signature"
	"github.com/gagliardetto/solana-go"
)

// KeyExt is the file extension for keypair files. The files use the
// solana-keygen format, a JSON array of the 64 private key bytes.
const KeyExt = ".json"

// NameService maintains a map of accounts for name lookup.
type NameService struct {
	accounts map[solana.PublicKey]string
}

// New constructs a name service with the keypair files found under root.
func New(root string) (*NameService, error) {
	ns := NameService{
		accounts: make(map[solana.PublicKey]string),
	}

	fn := func(fileName string, info fs.FileInfo, err error) error {
		if err != nil {
			return fmt.Errorf("walkdir failure: %w", err)
		}

		if info.IsDir() || path.Ext(fileName) != KeyExt {
			return nil
		}

		privateKey, err := signature.LoadKeyFile(fileName)
		if err != nil {
			return err
		}

		ns.accounts[privateKey.PublicKey()] = strings.TrimSuffix(path.Base(fileName), KeyExt)

		return nil
	}

	if err := filepath.Walk(root, fn); err != nil {
		return nil, fmt.Errorf("walking directory: %w", err)
	}

	return &ns, nil
}

// Lookup returns the name for the specified account.
func (ns *NameService) Lookup(account solana.PublicKey) string {
	name, exists := ns.accounts[account]
	if !exists {
		return account.String()
	}
	return name
}

// Copy returns a copy of the map of names and accounts.
func (ns *NameService) Copy() map[solana.PublicKey]string {
	cpy := make(map[solana.PublicKey]string, len(ns.accounts))
	for account, name := range ns.accounts {
		cpy[account] = name
	}
	return cpy
}
