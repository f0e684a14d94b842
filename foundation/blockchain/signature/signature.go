// Package signature provides helper functions for handling the blockchain
// signature needs.
package signature

import (
	"encoding/json"
	"errors"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/gagliardetto/solana-go"
)

// ZeroHash represents a hash code of zeros.
const ZeroHash string = "0x0000000000000000000000000000000000000000000000000000000000000000"

// ErrInvalidSignature is returned when a signature does not match the
// data and public key it is checked against.
var ErrInvalidSignature = errors.New("invalid signature")

// notechainStamp is prepended to every hash before signing. This will make
// it clear that the signature comes from the notechain ledger.
const notechainStamp = "\x19Notechain Signed Message:\n32"

// =============================================================================

// Hash returns a unique string for the value.
func Hash(value any) string {
	data, err := json.Marshal(value)
	if err != nil {
		return ZeroHash
	}

	return hexutil.Encode(crypto.Keccak256(data))
}

// Sign uses the specified private key to sign the data.
func Sign(value any, privateKey solana.PrivateKey) (solana.Signature, error) {

	// Prepare the data for signing.
	data, err := stamp(value)
	if err != nil {
		return solana.Signature{}, err
	}

	// Sign the stamped hash with the ed25519 private key.
	sig, err := privateKey.Sign(data)
	if err != nil {
		return solana.Signature{}, err
	}

	// Check the signature against the public key for this private key.
	if !sig.Verify(privateKey.PublicKey(), data) {
		return solana.Signature{}, ErrInvalidSignature
	}

	return sig, nil
}

// Verify checks the signature was produced by the private key belonging to
// the specified public key over the same exact value.
func Verify(value any, publicKey solana.PublicKey, sig solana.Signature) error {
	data, err := stamp(value)
	if err != nil {
		return err
	}

	if !sig.Verify(publicKey, data) {
		return ErrInvalidSignature
	}

	return nil
}

// =============================================================================

// stamp returns a hash of 32 bytes that represents this data with
// the notechain stamp embedded into the final hash.
func stamp(value any) ([]byte, error) {

	// Marshal the data.
	v, err := json.Marshal(value)
	if err != nil {
		return nil, err
	}

	// Hash the data into a 32 byte array. This will provide a data length
	// consistency with all data.
	txHash := crypto.Keccak256(v)

	// Hash the stamp and txHash together in a final 32 byte array
	// that represents the data.
	return crypto.Keccak256([]byte(notechainStamp), txHash), nil
}
