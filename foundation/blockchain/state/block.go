package state

import (
	"fmt"

	"github.com/ardanlabs/notechain/foundation/blockchain/database"
)

// SealBlock writes the pending transactions into a new block.
func (s *State) SealBlock() (database.Block, error) {
	s.sealMu.Lock()
	defer s.sealMu.Unlock()

	s.mu.Lock()
	trans := s.pending
	s.pending = nil
	s.mu.Unlock()

	if len(trans) == 0 {
		return database.Block{}, ErrNoTransactions
	}

	// Put the transactions back in front of anything committed since so
	// they are sealed by the next attempt.
	restore := func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		s.pending = append(trans, s.pending...)
	}

	prevBlock := s.db.LatestBlock()

	timeStamp := s.clock()
	if timeStamp < prevBlock.Header.TimeStamp {
		timeStamp = prevBlock.Header.TimeStamp
	}

	block, err := database.NewBlock(prevBlock, timeStamp, trans)
	if err != nil {
		restore()
		return database.Block{}, err
	}

	if err := s.db.Write(block); err != nil {
		restore()
		return database.Block{}, fmt.Errorf("writing block %d: %w", block.Header.Number, err)
	}

	s.db.UpdateLatestBlock(block)
	s.prune(timeStamp)

	s.evHandler("viewer: block[%d]: hash[%s]: txs[%d]", block.Header.Number, block.Hash(), len(trans))

	return block, nil
}
