package signature

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gagliardetto/solana-go"
)

// LoadKeyFile reads a private key stored in the solana-keygen format.
func LoadKeyFile(path string) (solana.PrivateKey, error) {
	pk, err := solana.PrivateKeyFromSolanaKeygenFile(path)
	if err != nil {
		return nil, fmt.Errorf("loading key %s: %w", path, err)
	}
	return pk, nil
}

// SaveKeyFile writes the private key in the solana-keygen format, a JSON
// array of the 64 key bytes. An existing file is never overwritten.
func SaveKeyFile(path string, pk solana.PrivateKey) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return err
	}

	values := make([]int, len(pk))
	for i, b := range pk {
		values[i] = int(b)
	}

	data, err := json.Marshal(values)
	if err != nil {
		return err
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0600)
	if err != nil {
		return err
	}
	defer f.Close()

	if _, err := f.Write(data); err != nil {
		return err
	}

	return nil
}
