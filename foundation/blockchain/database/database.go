// Package database handles all the lower level support for maintaining the
// blockchain in storage.
package database

import (
	"errors"
	"sync"
)

// ErrNotFound is returned by storage when a block does not exist.
var ErrNotFound = errors.New("block not found")

// Serializer interface represents the behavior required to be implemented by any
// package providing support for storing and reading the blockchain.
type Serializer interface {
	Write(blockData BlockData) error
	GetBlock(num uint64) (BlockData, error)
	ForEach() Iterator
	Close() error
	Reset() error
}

// Iterator interface represents the behavior required to be implemented by any
// package providing support to iterate over the blocks.
type Iterator interface {
	Next() (BlockData, error)
	Done() bool
}

// =============================================================================

// DatabaseIterator walks the blocks in storage converting each into a
// database block.
type DatabaseIterator struct {
	iterator Iterator
}

// Next retrieves the next block from storage.
func (di *DatabaseIterator) Next() (Block, error) {
	blockData, err := di.iterator.Next()
	if err != nil {
		return Block{}, err
	}

	return ToBlock(blockData)
}

// Done returns the end of chain value.
func (di *DatabaseIterator) Done() bool {
	return di.iterator.Done()
}

// =============================================================================

// Database manages the blocks written to storage and tracks the latest.
type Database struct {
	mu          sync.RWMutex
	latestBlock Block
	serializer  Serializer
}

// New constructs a database over the specified storage. The caller is
// responsible for replaying the stored blocks and setting the latest block.
func New(serializer Serializer) *Database {
	return &Database{
		serializer: serializer,
	}
}

// Close closes the underlying storage.
func (db *Database) Close() error {
	return db.serializer.Close()
}

// Reset clears out the storage and the latest block.
func (db *Database) Reset() error {
	db.mu.Lock()
	defer db.mu.Unlock()

	db.latestBlock = Block{}
	return db.serializer.Reset()
}

// UpdateLatestBlock provides safe access to update the latest block.
func (db *Database) UpdateLatestBlock(block Block) {
	db.mu.Lock()
	defer db.mu.Unlock()

	db.latestBlock = block
}

// LatestBlock returns the latest block.
func (db *Database) LatestBlock() Block {
	db.mu.RLock()
	defer db.mu.RUnlock()

	return db.latestBlock
}

// Write adds a new block to the chain.
func (db *Database) Write(block Block) error {
	return db.serializer.Write(NewBlockData(block))
}

// ForEach returns an iterator to walk through all the blocks
// starting with block number 1.
func (db *Database) ForEach() DatabaseIterator {
	return DatabaseIterator{iterator: db.serializer.ForEach()}
}

// GetBlock searches storage to locate and return the contents of the
// specified block by number.
func (db *Database) GetBlock(num uint64) (Block, error) {
	blockData, err := db.serializer.GetBlock(num)
	if err != nil {
		return Block{}, err
	}
	return ToBlock(blockData)
}
