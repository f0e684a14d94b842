package merkle_test

import (
	"bytes"
	"crypto/sha256"
	"errors"
	"hash"
	"testing"

	"github.com/ardanlabs/notechain/foundation/blockchain/merkle"
)

// Data uses the sha256 hashing algorithm for its leaf hash.
type Data struct {
	x string
}

// Hash hashes the value using sha256.
func (d Data) Hash() ([]byte, error) {
	h := sha256.Sum256([]byte(d.x))
	return h[:], nil
}

// Equals tests for equality of two pieces of data.
func (d Data) Equals(other Data) bool {
	return d.x == other.x
}

// =============================================================================

func Test_MerkleRoot(t *testing.T) {
	for _, tst := range table {
		tree, err := merkle.NewTree(tst.data, merkle.WithHashStrategy[Data](tst.hashStrategy))
		if err != nil {
			t.Fatalf("[case:%d] error: unexpected error: %v", tst.testCaseID, err)
		}
		if !bytes.Equal(tree.MerkleRoot, tst.expectedHash) {
			t.Errorf("[case:%d] error: expected hash equal to %v got %v", tst.testCaseID, tst.expectedHash, tree.MerkleRoot)
		}
	}
}

func Test_DefaultStrategy(t *testing.T) {
	for _, tst := range table {
		tree, err := merkle.NewTree(tst.data)
		if err != nil {
			t.Fatalf("[case:%d] error: unexpected error: %v", tst.testCaseID, err)
		}

		keccak, err := merkle.NewTree(tst.data, merkle.WithHashStrategy[Data](merkle.Keccak256))
		if err != nil {
			t.Fatalf("[case:%d] error: unexpected error: %v", tst.testCaseID, err)
		}

		if !bytes.Equal(tree.MerkleRoot, keccak.MerkleRoot) {
			t.Errorf("[case:%d] error: expected the default strategy to be keccak256", tst.testCaseID)
		}
		if bytes.Equal(tree.MerkleRoot, tst.expectedHash) {
			t.Errorf("[case:%d] error: expected keccak256 root to differ from sha256 root", tst.testCaseID)
		}
		if len(tree.RootHex()) != 66 {
			t.Errorf("[case:%d] error: expected 0x prefixed 32 byte root, got %s", tst.testCaseID, tree.RootHex())
		}
	}
}

func Test_Verify(t *testing.T) {
	for _, tst := range table {
		tree, err := merkle.NewTree(tst.data, merkle.WithHashStrategy[Data](tst.hashStrategy))
		if err != nil {
			t.Fatalf("[case:%d] error: unexpected error: %v", tst.testCaseID, err)
		}
		if err := tree.Verify(); err != nil {
			t.Errorf("[case:%d] error: expected tree to be valid: %v", tst.testCaseID, err)
		}

		tree.MerkleRoot = []byte{1}
		if err := tree.Verify(); !errors.Is(err, merkle.ErrInvalidTree) {
			t.Errorf("[case:%d] error: expected tree to be invalid: %v", tst.testCaseID, err)
		}
	}
}

func Test_VerifyData(t *testing.T) {
	for _, tst := range table {
		tree, err := merkle.NewTree(tst.data, merkle.WithHashStrategy[Data](tst.hashStrategy))
		if err != nil {
			t.Fatalf("[case:%d] error: unexpected error: %v", tst.testCaseID, err)
		}

		for _, d := range tst.data {
			if err := tree.VerifyData(d); err != nil {
				t.Errorf("[case:%d] error: expected valid content %q: %v", tst.testCaseID, d.x, err)
			}
		}

		if err := tree.VerifyData(tst.notInContents); !errors.Is(err, merkle.ErrNotFound) {
			t.Errorf("[case:%d] error: expected missing content: %v", tst.testCaseID, err)
		}

		tree.MerkleRoot = []byte{1}
		if err := tree.VerifyData(tst.data[0]); !errors.Is(err, merkle.ErrInvalidProof) {
			t.Errorf("[case:%d] error: expected invalid content: %v", tst.testCaseID, err)
		}
	}
}

func Test_Proof(t *testing.T) {
	for _, tst := range table {
		tree, err := merkle.NewTree(tst.data, merkle.WithHashStrategy[Data](tst.hashStrategy))
		if err != nil {
			t.Fatalf("[case:%d] error: unexpected error: %v", tst.testCaseID, err)
		}

		for _, d := range tst.data {
			proof, order, err := tree.Proof(d)
			if err != nil {
				t.Fatalf("[case:%d] error: unexpected error: %v", tst.testCaseID, err)
			}

			leaf, _ := d.Hash()
			if err := merkle.VerifyProof(tst.hashStrategy, leaf, proof, order, tst.expectedHash); err != nil {
				t.Errorf("[case:%d] error: expected proof for %q to verify: %v", tst.testCaseID, d.x, err)
			}
		}
	}
}

func Test_Empty(t *testing.T) {
	if _, err := merkle.NewTree([]Data{}); !errors.Is(err, merkle.ErrNoValues) {
		t.Fatalf("expected no values error: %v", err)
	}
}

// =============================================================================

var table = []struct {
	testCaseID    int
	hashStrategy  func() hash.Hash
	data          []Data
	expectedHash  []byte
	notInContents Data
}{
	{
		testCaseID:   1,
		hashStrategy: sha256.New,
		data: []Data{
			{x: "Hello"}, {x: "Hi"}, {x: "Hey"}, {x: "Hola"},
		},
		notInContents: Data{x: "NotInTestTable"},
		expectedHash:  []byte{95, 48, 204, 128, 19, 59, 147, 148, 21, 110, 36, 178, 51, 240, 196, 190, 50, 178, 78, 68, 187, 51, 129, 240, 44, 123, 165, 38, 25, 208, 254, 188},
	},
	{
		testCaseID:   2,
		hashStrategy: sha256.New,
		data: []Data{
			{x: "Hello"}, {x: "Hi"}, {x: "Hey"}, {x: "Greetings"}, {x: "Hola"},
		},
		notInContents: Data{x: "NotInTestTable"},
		expectedHash:  []byte{46, 216, 115, 174, 13, 210, 55, 39, 119, 197, 122, 104, 93, 144, 112, 131, 202, 151, 41, 14, 80, 143, 21, 71, 140, 169, 139, 173, 50, 37, 235, 188},
	},
	{
		testCaseID:   3,
		hashStrategy: sha256.New,
		data: []Data{
			{x: "123"}, {x: "234"}, {x: "345"}, {x: "456"}, {x: "1123"}, {x: "2234"}, {x: "3345"}, {x: "4456"}, {x: "5567"},
		},
		notInContents: Data{x: "NotInTestTable"},
		expectedHash:  []byte{143, 37, 161, 192, 69, 241, 248, 56, 169, 87, 79, 145, 37, 155, 51, 159, 209, 129, 164, 140, 130, 167, 16, 182, 133, 205, 126, 55, 237, 188, 89, 236},
	},
}
