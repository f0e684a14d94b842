package ledger

import (
	"bytes"
	"fmt"
	"sort"

	"github.com/ardanlabs/notechain/foundation/blockchain/signature"
	"github.com/gagliardetto/solana-go"
)

// AccountMeta describes how an instruction uses an account.
type AccountMeta struct {
	PublicKey  solana.PublicKey `json:"pubkey"`
	IsSigner   bool             `json:"is_signer"`
	IsWritable bool             `json:"is_writable"`
}

// Meta constructs an account meta.
func Meta(publicKey solana.PublicKey, signer bool, writable bool) AccountMeta {
	return AccountMeta{
		PublicKey:  publicKey,
		IsSigner:   signer,
		IsWritable: writable,
	}
}

// Instruction is a single call into a program.
type Instruction struct {
	ProgramID solana.PublicKey `json:"program_id"`
	Accounts  []AccountMeta    `json:"accounts"`
	Data      []byte           `json:"data"`
}

// =============================================================================

// Tx is the set of instructions a group of signers want applied to the
// ledger as a single atomic unit.
type Tx struct {
	Nonce        uint64             `json:"nonce"`
	Signers      []solana.PublicKey `json:"signers"`
	Instructions []Instruction      `json:"instructions"`
}

// NewTx constructs a new transaction. The first signer pays for and
// identifies the transaction.
func NewTx(nonce uint64, signers []solana.PublicKey, instructions ...Instruction) Tx {
	return Tx{
		Nonce:        nonce,
		Signers:      signers,
		Instructions: instructions,
	}
}

// Sign uses the specified private keys to sign the transaction. A key must
// be provided for every signer.
func (tx Tx) Sign(privateKeys ...solana.PrivateKey) (SignedTx, error) {
	sigs := make([]solana.Signature, len(tx.Signers))

	for i, signer := range tx.Signers {
		var found bool
		for _, pk := range privateKeys {
			if !pk.PublicKey().Equals(signer) {
				continue
			}

			sig, err := signature.Sign(tx, pk)
			if err != nil {
				return SignedTx{}, err
			}

			sigs[i] = sig
			found = true
			break
		}

		if !found {
			return SignedTx{}, fmt.Errorf("no private key for signer %s: %w", signer, ErrMissingSignature)
		}
	}

	signedTx := SignedTx{
		Tx:         tx,
		Signatures: sigs,
	}

	return signedTx, nil
}

// =============================================================================

// SignedTx is a signed version of the transaction. This is how clients like
// a wallet provide transactions for execution.
type SignedTx struct {
	Tx
	Signatures []solana.Signature `json:"signatures"`
}

// ID returns the identifier of the transaction which is the first signature.
func (tx SignedTx) ID() string {
	if len(tx.Signatures) == 0 {
		return ""
	}
	return tx.Signatures[0].String()
}

// Validate verifies the transaction is well formed and carries a proper
// signature for every signer the instructions require.
func (tx SignedTx) Validate() error {
	if len(tx.Instructions) == 0 {
		return ErrNoInstructions
	}

	if len(tx.Signers) == 0 || len(tx.Signatures) != len(tx.Signers) {
		return ErrMissingSignature
	}

	signers := make(map[solana.PublicKey]struct{}, len(tx.Signers))
	for i, signer := range tx.Signers {
		if _, exists := signers[signer]; exists {
			return fmt.Errorf("%s: %w", signer, ErrDuplicateSigner)
		}
		signers[signer] = struct{}{}

		if err := signature.Verify(tx.Tx, signer, tx.Signatures[i]); err != nil {
			return fmt.Errorf("signer %s: %w", signer, err)
		}
	}

	for _, ix := range tx.Instructions {
		for _, meta := range ix.Accounts {
			if !meta.IsSigner {
				continue
			}
			if _, exists := signers[meta.PublicKey]; !exists {
				return fmt.Errorf("account %s: %w", meta.PublicKey, ErrMissingSignature)
			}
		}
	}

	return nil
}

// String implements the fmt.Stringer interface for logging.
func (tx SignedTx) String() string {
	if len(tx.Signers) == 0 {
		return fmt.Sprintf("unknown:%d", tx.Nonce)
	}
	return fmt.Sprintf("%s:%d", tx.Signers[0], tx.Nonce)
}

// signerSet returns the set of accounts that signed the transaction.
func (tx SignedTx) signerSet() map[solana.PublicKey]bool {
	signers := make(map[solana.PublicKey]bool, len(tx.Signers))
	for _, signer := range tx.Signers {
		signers[signer] = true
	}
	return signers
}

// accountKeys returns the unique set of accounts referenced by the
// transaction in ascending order.
func (tx SignedTx) accountKeys() []solana.PublicKey {
	seen := make(map[solana.PublicKey]struct{})
	var keys []solana.PublicKey

	add := func(key solana.PublicKey) {
		if _, exists := seen[key]; exists {
			return
		}
		seen[key] = struct{}{}
		keys = append(keys, key)
	}

	for _, signer := range tx.Signers {
		add(signer)
	}
	for _, ix := range tx.Instructions {
		for _, meta := range ix.Accounts {
			add(meta.PublicKey)
		}
	}

	sort.Slice(keys, func(i, j int) bool {
		return bytes.Compare(keys[i][:], keys[j][:]) < 0
	})

	return keys
}

// =============================================================================

// Receipt is the result of executing a transaction.
type Receipt struct {
	Signature string   `json:"signature"`
	Logs      []string `json:"logs"`
}
