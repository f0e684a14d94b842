// Package genesis maintains access to the genesis file.
package genesis

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ardanlabs/notechain/foundation/blockchain/ledger"
	"github.com/gagliardetto/solana-go"
	"gopkg.in/yaml.v3"
)

// Genesis represents the genesis file.
type Genesis struct {
	Date     time.Time         `json:"date" yaml:"date"`
	ChainID  uint16            `json:"chain_id" yaml:"chain_id"` // The chain id represents an unique id for this running instance.
	Rent     ledger.Rent       `json:"rent" yaml:"rent"`         // Parameters for the rent exempt minimum of an account.
	Balances map[string]uint64 `json:"balances" yaml:"balances"` // Lamports held by each base58 account at startup.
}

// =============================================================================

// Load opens and consumes the genesis file. Files ending in .yaml or .yml
// are decoded as YAML, anything else as JSON.
func Load(path string) (Genesis, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return Genesis{}, err
	}

	var genesis Genesis
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(content, &genesis)
	default:
		err = json.Unmarshal(content, &genesis)
	}
	if err != nil {
		return Genesis{}, fmt.Errorf("decoding %s: %w", path, err)
	}

	if err := genesis.Validate(); err != nil {
		return Genesis{}, err
	}

	return genesis, nil
}

// Save writes the genesis file in the format implied by the extension.
func Save(path string, genesis Genesis) error {
	var content []byte
	var err error

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		content, err = yaml.Marshal(genesis)
	default:
		content, err = json.MarshalIndent(genesis, "", "  ")
	}
	if err != nil {
		return err
	}

	return os.WriteFile(path, content, 0644)
}

// Validate checks every balance is keyed by a valid account.
func (g Genesis) Validate() error {
	for account := range g.Balances {
		if _, err := solana.PublicKeyFromBase58(account); err != nil {
			return fmt.Errorf("balance account %q: %w", account, err)
		}
	}
	return nil
}

// Accounts returns the genesis balances as system owned accounts.
func (g Genesis) Accounts() map[solana.PublicKey]ledger.Account {
	accounts := make(map[solana.PublicKey]ledger.Account, len(g.Balances))
	for account, lamports := range g.Balances {
		pk, err := solana.PublicKeyFromBase58(account)
		if err != nil {
			continue
		}
		accounts[pk] = ledger.Account{
			Lamports: lamports,
			Owner:    ledger.SystemProgramID,
		}
	}
	return accounts
}
