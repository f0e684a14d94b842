// Package worker implements block sealing for the blockchain.
package worker

import (
	"errors"
	"sync"
	"time"

	"github.com/ardanlabs/notechain/foundation/blockchain/state"
)

// Worker manages the block sealing workflow for the blockchain.
type Worker struct {
	state     *state.State
	wg        sync.WaitGroup
	ticker    *time.Ticker
	shut      chan struct{}
	seal      chan bool
	evHandler state.EventHandler
}

// Run creates a worker, registers the worker with the state package, and
// starts up all the background processes. A block is sealed every slot.
func Run(st *state.State, slot time.Duration, evHandler state.EventHandler) *Worker {
	w := Worker{
		state:     st,
		ticker:    time.NewTicker(slot),
		shut:      make(chan struct{}),
		seal:      make(chan bool, 1),
		evHandler: evHandler,
	}

	// Register this worker with the state package.
	st.Worker = &w

	// We don't want to return until we know the G is up and running.
	hasStarted := make(chan bool)

	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		hasStarted <- true
		w.sealOperations()
	}()

	<-hasStarted

	return &w
}

// =============================================================================
// These methods implement the state.Worker interface.

// Shutdown terminates the goroutine performing work and seals anything
// still pending.
func (w *Worker) Shutdown() {
	w.evHandler("worker: shutdown: started")
	defer w.evHandler("worker: shutdown: completed")

	w.evHandler("worker: shutdown: stop ticker")
	w.ticker.Stop()

	w.evHandler("worker: shutdown: terminate goroutines")
	close(w.shut)
	w.wg.Wait()

	w.evHandler("worker: shutdown: seal pending transactions")
	w.runSealOperation()
}

// SignalSealBlock requests a block be sealed now. If there is already a
// signal pending in the channel, just return since a block will be sealed.
func (w *Worker) SignalSealBlock() {
	select {
	case w.seal <- true:
	default:
	}
	w.evHandler("worker: SignalSealBlock: sealing signaled")
}

// =============================================================================

// sealOperations seals a block every slot or when signaled.
func (w *Worker) sealOperations() {
	w.evHandler("worker: sealOperations: G started")
	defer w.evHandler("worker: sealOperations: G completed")

	for {
		select {
		case <-w.ticker.C:
			if !w.isShutdown() {
				w.runSealOperation()
			}
		case <-w.seal:
			if !w.isShutdown() {
				w.runSealOperation()
			}
		case <-w.shut:
			w.evHandler("worker: sealOperations: received shut signal")
			return
		}
	}
}

// runSealOperation writes the pending transactions into a new block.
func (w *Worker) runSealOperation() {
	block, err := w.state.SealBlock()
	if err != nil {
		if !errors.Is(err, state.ErrNoTransactions) {
			w.evHandler("worker: runSealOperation: ERROR: %s", err)
		}
		return
	}

	w.evHandler("worker: runSealOperation: blk[%d]: hash[%s]", block.Header.Number, block.Hash())
}

// isShutdown is used to test if a shutdown has been signaled.
func (w *Worker) isShutdown() bool {
	select {
	case <-w.shut:
		return true
	default:
		return false
	}
}
