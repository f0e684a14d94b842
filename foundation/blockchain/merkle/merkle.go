// Copyright 2017 Cameron Bergoon
// https://github.com/cbergoon/merkletree
// Licensed under the MIT License, see LICENCE file for details.
// This code has been cleaned up, refactored, and turned into generics.

// Package merkle provides an implementation of a merkle tree used to commit
// to the transactions held in a block.
package merkle

import (
	"bytes"
	"errors"
	"fmt"
	"hash"
	"strings"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
)

// Set of errors returned by the tree.
var (
	ErrNoValues     = errors.New("cannot construct tree with no values")
	ErrNotFound     = errors.New("value not found in tree")
	ErrInvalidTree  = errors.New("calculated root does not match the merkle root")
	ErrInvalidProof = errors.New("proof does not produce the merkle root")
)

// Hashable represents the behavior concrete data must exhibit to be used in
// the merkle tree.
type Hashable[T any] interface {
	Hash() ([]byte, error)
	Equals(other T) bool
}

// Keccak256 is the default hash strategy.
func Keccak256() hash.Hash {
	return crypto.NewKeccakState()
}

// =============================================================================

// Tree represents a merkle tree over values of some type T.
type Tree[T Hashable[T]] struct {
	Root         *Node[T]
	Leafs        []*Node[T]
	MerkleRoot   []byte
	hashStrategy func() hash.Hash
}

// WithHashStrategy is used to change the default keccak256 hash strategy
// when constructing a new tree.
func WithHashStrategy[T Hashable[T]](hashStrategy func() hash.Hash) func(t *Tree[T]) {
	return func(t *Tree[T]) {
		t.hashStrategy = hashStrategy
	}
}

// NewTree constructs a new merkle tree from the specified values.
func NewTree[T Hashable[T]](values []T, options ...func(t *Tree[T])) (*Tree[T], error) {
	t := Tree[T]{
		hashStrategy: Keccak256,
	}

	for _, option := range options {
		option(&t)
	}

	if err := t.Generate(values); err != nil {
		return nil, err
	}

	return &t, nil
}

// Generate constructs the leafs and nodes of the tree from scratch. An odd
// number of values has the last leaf duplicated.
func (t *Tree[T]) Generate(values []T) error {
	if len(values) == 0 {
		return ErrNoValues
	}

	leafs := make([]*Node[T], 0, len(values)+1)
	for _, value := range values {
		h, err := value.Hash()
		if err != nil {
			return err
		}
		leafs = append(leafs, &Node[T]{Tree: t, Hash: h, Value: value, leaf: true})
	}

	if len(leafs)%2 == 1 {
		last := leafs[len(leafs)-1]
		leafs = append(leafs, &Node[T]{Tree: t, Hash: last.Hash, Value: last.Value, leaf: true, dup: true})
	}

	root, err := t.buildLevel(leafs)
	if err != nil {
		return err
	}

	t.Root = root
	t.Leafs = leafs
	t.MerkleRoot = root.Hash

	return nil
}

// Proof returns the sibling hashes from the leaf holding the value up to the
// root. An order of 0 means the sibling is concatenated first, 1 second.
func (t *Tree[T]) Proof(value T) ([][]byte, []int64, error) {
	for _, node := range t.Leafs {
		if !node.Value.Equals(value) {
			continue
		}

		var proof [][]byte
		var order []int64
		for parent := node.Parent; parent != nil; node, parent = parent, parent.Parent {
			if parent.Left == node {
				proof = append(proof, parent.Right.Hash)
				order = append(order, 1)
				continue
			}
			proof = append(proof, parent.Left.Hash)
			order = append(order, 0)
		}

		return proof, order, nil
	}

	return nil, nil, ErrNotFound
}

// Verify recalculates every hash in the tree and checks the result against
// the merkle root.
func (t *Tree[T]) Verify() error {
	root, err := t.Root.verify()
	if err != nil {
		return err
	}

	if !bytes.Equal(t.MerkleRoot, root) {
		return ErrInvalidTree
	}

	return nil
}

// VerifyData checks the value is in the tree and that the hashes along its
// path to the root are valid.
func (t *Tree[T]) VerifyData(value T) error {
	proof, order, err := t.Proof(value)
	if err != nil {
		return err
	}

	h, err := value.Hash()
	if err != nil {
		return err
	}

	return VerifyProof(t.hashStrategy, h, proof, order, t.MerkleRoot)
}

// Values returns the values stored in the tree without the duplicate leaf.
func (t *Tree[T]) Values() []T {
	values := make([]T, 0, len(t.Leafs))
	for _, node := range t.Leafs {
		if node.dup {
			continue
		}
		values = append(values, node.Value)
	}
	return values
}

// RootHex converts the merkle root byte hash to a hex encoded string.
func (t *Tree[T]) RootHex() string {
	return hexutil.Encode(t.MerkleRoot)
}

// String returns a string representation of the leafs of the tree.
func (t *Tree[T]) String() string {
	var b strings.Builder
	for _, l := range t.Leafs {
		fmt.Fprintln(&b, l)
	}
	return b.String()
}

// MarshalText implements the TextMarshaler interface and produces a panic
// if anyone tries to marshal the tree. Use Values instead.
func (t *Tree[T]) MarshalText() (text []byte, err error) {
	panic("do not marshal the merkle tree, use Values")
}

// buildLevel hashes pairs of nodes into their parents until one node is
// left.
func (t *Tree[T]) buildLevel(level []*Node[T]) (*Node[T], error) {
	parents := make([]*Node[T], 0, (len(level)+1)/2)

	for i := 0; i < len(level); i += 2 {
		left, right := level[i], level[i]
		if i+1 < len(level) {
			right = level[i+1]
		}

		h, err := t.combine(left.Hash, right.Hash)
		if err != nil {
			return nil, err
		}

		parent := &Node[T]{Tree: t, Left: left, Right: right, Hash: h}
		left.Parent = parent
		right.Parent = parent

		parents = append(parents, parent)
	}

	if len(parents) == 1 {
		return parents[0], nil
	}

	return t.buildLevel(parents)
}

// combine hashes the concatenation of two child hashes.
func (t *Tree[T]) combine(left []byte, right []byte) ([]byte, error) {
	return combine(t.hashStrategy, left, right)
}

// =============================================================================

// VerifyProof checks the leaf hash combined with the proof produces the
// merkle root. This can be used without access to the tree.
func VerifyProof(hashStrategy func() hash.Hash, leaf []byte, proof [][]byte, order []int64, root []byte) error {
	if len(proof) != len(order) {
		return ErrInvalidProof
	}

	current := leaf
	for i, sibling := range proof {
		var err error
		switch order[i] {
		case 0:
			current, err = combine(hashStrategy, sibling, current)
		default:
			current, err = combine(hashStrategy, current, sibling)
		}
		if err != nil {
			return err
		}
	}

	if !bytes.Equal(current, root) {
		return ErrInvalidProof
	}

	return nil
}

func combine(hashStrategy func() hash.Hash, left []byte, right []byte) ([]byte, error) {
	h := hashStrategy()
	if _, err := h.Write(left); err != nil {
		return nil, err
	}
	if _, err := h.Write(right); err != nil {
		return nil, err
	}
	return h.Sum(nil), nil
}

// =============================================================================

// Node represents a node, root, or leaf in the tree.
type Node[T Hashable[T]] struct {
	Tree   *Tree[T]
	Parent *Node[T]
	Left   *Node[T]
	Right  *Node[T]
	Hash   []byte
	Value  T
	leaf   bool
	dup    bool
}

// verify walks down to the leafs recalculating the hash of this node.
func (n *Node[T]) verify() ([]byte, error) {
	if n.leaf {
		return n.Value.Hash()
	}

	left, err := n.Left.verify()
	if err != nil {
		return nil, err
	}

	right, err := n.Right.verify()
	if err != nil {
		return nil, err
	}

	return n.Tree.combine(left, right)
}

// String returns a string representation of the node.
func (n *Node[T]) String() string {
	return fmt.Sprintf("%t %t %x %v", n.leaf, n.dup, n.Hash, n.Value)
}
