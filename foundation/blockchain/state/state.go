// Package state is the core API for the blockchain and implements all the
// business rules and processing.
package state

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ardanlabs/notechain/business/core/notes"
	"github.com/ardanlabs/notechain/foundation/blockchain/database"
	"github.com/ardanlabs/notechain/foundation/blockchain/genesis"
	"github.com/ardanlabs/notechain/foundation/blockchain/ledger"
	"github.com/gagliardetto/solana-go"
)

// ErrNoTransactions is returned when a block is requested to be sealed
// and there are no pending transactions.
var ErrNoTransactions = errors.New("no transactions pending")

// DefaultProcessedWindow is how long signatures are kept for duplicate
// detection when no window is configured.
const DefaultProcessedWindow = 24 * time.Hour

// =============================================================================

// EventHandler defines a function that is called when events
// occur in the processing of transactions and blocks.
type EventHandler func(v string, args ...any)

// Worker interface represents the behavior required to be implemented by any
// package providing support for sealing blocks.
type Worker interface {
	Shutdown()
	SignalSealBlock()
}

// =============================================================================

// Config represents the configuration required to start
// the blockchain node.
type Config struct {
	Genesis   genesis.Genesis
	Storage   database.Serializer
	Faucet    solana.PrivateKey
	EvHandler EventHandler
	Now       func() time.Time

	// ProcessedWindow is how long the signature of a sealed transaction is
	// kept before only the fee payer's nonce floor guards against replay.
	ProcessedWindow time.Duration
}

// State manages the ledger and the blocks that record its history.
type State struct {
	evHandler EventHandler
	now       func() time.Time
	genesis   genesis.Genesis
	faucet    solana.PrivateKey
	ledger    *ledger.Ledger
	db        *database.Database
	window    time.Duration
	lastTime  atomic.Int64

	mu      sync.Mutex
	pending []database.BlockTx
	sealMu  sync.Mutex
	nonce   atomic.Uint64

	Worker Worker
}

// New constructs the ledger from genesis, registers the note program, and
// replays every block in storage.
func New(cfg Config) (*State, error) {

	// Build a safe event handler function for use.
	ev := func(v string, args ...any) {
		if cfg.EvHandler != nil {
			cfg.EvHandler(v, args...)
		}
	}

	now := cfg.Now
	if now == nil {
		now = time.Now
	}

	ldg := ledger.New(ledger.Config{Rent: cfg.Genesis.Rent})
	ldg.Register(notes.New())

	for pk, account := range cfg.Genesis.Accounts() {
		ldg.SetAccount(pk, account)
	}

	window := cfg.ProcessedWindow
	if window <= 0 {
		window = DefaultProcessedWindow
	}

	s := State{
		evHandler: ev,
		now:       now,
		genesis:   cfg.Genesis,
		faucet:    cfg.Faucet,
		ledger:    ldg,
		db:        database.New(cfg.Storage),
		window:    window,
	}
	s.nonce.Store(uint64(now().UnixNano()))

	if err := s.replay(); err != nil {
		return nil, err
	}

	// Committed transactions are recorded in commit order from here on.
	ldg.OnCommit(s.commit)

	// The Worker is not set here. The call to worker.Run will assign itself
	// and start everything up and running for the node.

	return &s, nil
}

// Shutdown cleanly brings the node down.
func (s *State) Shutdown() error {
	defer s.db.Close()

	if s.Worker != nil {
		s.Worker.Shutdown()
	}

	return nil
}

// replay re-executes every stored block against the ledger with the
// timestamps the transactions originally executed under.
func (s *State) replay() error {
	var latest database.Block

	iter := s.db.ForEach()
	for block, err := iter.Next(); !iter.Done(); block, err = iter.Next() {
		if err != nil {
			return err
		}

		if err := block.ValidateBlock(latest, s.evHandler); err != nil {
			return fmt.Errorf("validating block %d: %w", block.Header.Number, err)
		}

		for _, tx := range block.Values() {
			if _, err := s.ledger.Execute(tx.SignedTx, tx.TimeStamp); err != nil {
				return fmt.Errorf("replaying block %d tx %s: %w", block.Header.Number, tx.ID(), err)
			}
			s.observe(tx.TimeStamp)
		}
		s.observe(block.Header.TimeStamp)

		s.evHandler("state: replay: blk[%d]: txs[%d]", block.Header.Number, len(block.Values()))
		latest = block
	}

	s.db.UpdateLatestBlock(latest)
	s.prune(latest.Header.TimeStamp)

	return nil
}

// clock returns the time to execute under. It never goes backward, even
// when the wall clock does.
func (s *State) clock() int64 {
	now := s.now().Unix()
	for {
		last := s.lastTime.Load()
		if now < last {
			return last
		}
		if s.lastTime.CompareAndSwap(last, now) {
			return now
		}
	}
}

// observe raises the clock to at least the specified time.
func (s *State) observe(at int64) {
	for {
		last := s.lastTime.Load()
		if at <= last || s.lastTime.CompareAndSwap(last, at) {
			return
		}
	}
}

// prune drops the signatures of transactions that executed more than the
// window before the specified time.
func (s *State) prune(at int64) {
	if n := s.ledger.Prune(at - int64(s.window/time.Second)); n > 0 {
		s.evHandler("state: prune: signatures[%d]", n)
	}
}
