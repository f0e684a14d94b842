package signature_test

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ardanlabs/notechain/foundation/blockchain/signature"
	"github.com/gagliardetto/solana-go"
)

// =============================================================================

func Test_Signing(t *testing.T) {
	value := struct {
		Name string
	}{
		Name: "Bill",
	}

	pk, err := solana.NewRandomPrivateKey()
	if err != nil {
		t.Fatalf("Should be able to generate a private key: %s", err)
	}

	sig, err := signature.Sign(value, pk)
	if err != nil {
		t.Fatalf("Should be able to sign data: %s", err)
	}

	if err := signature.Verify(value, pk.PublicKey(), sig); err != nil {
		t.Fatalf("Should be able to verify the signature: %s", err)
	}

	other, err := solana.NewRandomPrivateKey()
	if err != nil {
		t.Fatalf("Should be able to generate a second private key: %s", err)
	}

	if err := signature.Verify(value, other.PublicKey(), sig); !errors.Is(err, signature.ErrInvalidSignature) {
		t.Fatalf("Should not verify against a different public key: %v", err)
	}

	value.Name = "Jill"
	if err := signature.Verify(value, pk.PublicKey(), sig); !errors.Is(err, signature.ErrInvalidSignature) {
		t.Fatalf("Should not verify against different data: %v", err)
	}
}

func Test_Hash(t *testing.T) {
	value := struct {
		Name string
	}{
		Name: "Bill",
	}

	h := signature.Hash(value)
	if !strings.HasPrefix(h, "0x") || len(h) != len(signature.ZeroHash) {
		t.Fatalf("Should get back a 32 byte hex hash: %s", h)
	}

	if h == signature.ZeroHash {
		t.Fatalf("Should not get back the zero hash.")
	}

	if h2 := signature.Hash(value); h2 != h {
		t.Logf("got: %s", h2)
		t.Logf("exp: %s", h)
		t.Fatalf("Should get back the same hash twice.")
	}

	if h3 := signature.Hash(struct{ Name string }{Name: "Jill"}); h3 == h {
		t.Fatalf("Should get back a different hash for different data.")
	}
}

func Test_KeyFile(t *testing.T) {
	pk := solana.NewWallet().PrivateKey
	path := filepath.Join(t.TempDir(), "accounts", "kate.json")

	if err := signature.SaveKeyFile(path, pk); err != nil {
		t.Fatalf("Should be able to save the key: %v", err)
	}

	got, err := signature.LoadKeyFile(path)
	if err != nil {
		t.Fatalf("Should be able to load the key: %v", err)
	}

	if !got.PublicKey().Equals(pk.PublicKey()) {
		t.Logf("got: %s", got.PublicKey())
		t.Logf("exp: %s", pk.PublicKey())
		t.Fatalf("Should get back the same key.")
	}

	if err := signature.SaveKeyFile(path, solana.NewWallet().PrivateKey); err == nil {
		t.Fatalf("Should not overwrite an existing key file.")
	}
}
