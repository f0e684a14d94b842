// Package ledger maintains the set of accounts that make up the chain state
// and provides the runtime that executes program instructions against them.
package ledger

import (
	"bytes"
	"fmt"
	"runtime"
	"sort"
	"sync"

	"github.com/gagliardetto/solana-go"
	cmap "github.com/orcaman/concurrent-map/v2"
	"github.com/sourcegraph/conc/pool"
)

// Config represents the configuration required to construct a ledger.
type Config struct {
	Rent Rent
}

// CommitFunc is called after a transaction is committed while the accounts
// it touched are still locked. This provides a total order of commits for
// any set of transactions that share an account.
type CommitFunc func(tx SignedTx, now int64)

// processedTx is what the ledger remembers about a committed transaction
// until it is pruned.
type processedTx struct {
	payer solana.PublicKey
	nonce uint64
	at    int64
}

// Ledger manages the accounts on the chain and executes transactions
// against them.
type Ledger struct {
	rent      Rent
	programs  map[solana.PublicKey]Program
	accounts  cmap.ConcurrentMap[solana.PublicKey, Account]
	processed cmap.ConcurrentMap[string, processedTx]
	floors    cmap.ConcurrentMap[solana.PublicKey, uint64]
	locks     lockTable
	onCommit  CommitFunc

	// mu is held for writing while a commit lands so readers never see
	// part of a transaction.
	mu sync.RWMutex
}

// New constructs a ledger with the system program registered.
func New(cfg Config) *Ledger {
	rent := cfg.Rent
	if rent.LamportsPerByteYear == 0 {
		rent = DefaultRent()
	}

	l := Ledger{
		rent:      rent,
		programs:  make(map[solana.PublicKey]Program),
		accounts:  cmap.NewStringer[solana.PublicKey, Account](),
		processed: cmap.New[processedTx](),
		floors:    cmap.NewStringer[solana.PublicKey, uint64](),
		locks:     lockTable{locks: make(map[solana.PublicKey]*lockEntry)},
	}

	l.Register(systemProgram{})

	return &l
}

// Register adds a program to the ledger. Programs must be registered
// before any transaction is executed.
func (l *Ledger) Register(prog Program) {
	l.programs[prog.ID()] = prog
}

// OnCommit sets the function to call for every committed transaction. It
// must be set before any transaction is executed.
func (l *Ledger) OnCommit(fn CommitFunc) {
	l.onCommit = fn
}

// Rent returns the rent parameters for the ledger.
func (l *Ledger) Rent() Rent {
	return l.rent
}

// SetAccount writes the account directly to the ledger. This is used to
// apply genesis balances.
func (l *Ledger) SetAccount(key solana.PublicKey, account Account) {
	unlock := l.locks.lock([]solana.PublicKey{key})
	defer unlock()

	l.mu.Lock()
	defer l.mu.Unlock()

	l.store(key, account.Clone())
}

// Account returns a copy of the account at the specified address. An
// address that holds nothing returns an empty system account and false.
func (l *Ledger) Account(key solana.PublicKey) (Account, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	account, exists := l.accounts.Get(key)
	if !exists {
		return newAccount(), false
	}
	return account.Clone(), true
}

// Balance returns the number of lamports held by the specified address.
func (l *Ledger) Balance(key solana.PublicKey) uint64 {
	l.mu.RLock()
	defer l.mu.RUnlock()

	account, _ := l.accounts.Get(key)
	return account.Lamports
}

// ProgramAccounts performs a full scan of the ledger and returns every
// account owned by the specified program that matches all the filters.
func (l *Ledger) ProgramAccounts(owner solana.PublicKey, filters ...Filter) []KeyedAccount {
	l.mu.RLock()
	defer l.mu.RUnlock()

	var list []KeyedAccount

next:
	for item := range l.accounts.IterBuffered() {
		if item.Val.Owner != owner {
			continue
		}

		for _, filter := range filters {
			if !filter.Match(item.Val) {
				continue next
			}
		}

		list = append(list, KeyedAccount{
			PublicKey: item.Key,
			Account:   item.Val.Clone(),
		})
	}

	sort.Sort(byPublicKey(list))

	return list
}

// Copy makes a copy of every account in the ledger.
func (l *Ledger) Copy() map[solana.PublicKey]Account {
	l.mu.RLock()
	defer l.mu.RUnlock()

	accounts := make(map[solana.PublicKey]Account, l.accounts.Count())
	for item := range l.accounts.IterBuffered() {
		accounts[item.Key] = item.Val.Clone()
	}
	return accounts
}

// =============================================================================

// Execute performs the business logic for applying a transaction to the
// ledger. Either every instruction succeeds and all changes are committed,
// or nothing about the ledger changes.
func (l *Ledger) Execute(tx SignedTx, now int64) (Receipt, error) {
	if err := tx.Validate(); err != nil {
		return Receipt{}, err
	}

	receipt := Receipt{
		Signature: tx.ID(),
	}

	// Transactions touching the same accounts are serialized here.
	// Transactions over disjoint accounts proceed in parallel.
	keys := tx.accountKeys()
	unlock := l.locks.lock(keys)
	defer unlock()

	// The processed set is checked before the floor. Prune raises the
	// floor before it forgets a signature.
	if l.processed.Has(receipt.Signature) {
		return receipt, ErrAlreadyProcessed
	}
	if floor, exists := l.floors.Get(tx.Signers[0]); exists && tx.Nonce <= floor {
		return receipt, ErrNonceTooOld
	}

	// Copy the referenced accounts into a working set so a failure at any
	// point can be discarded.
	ws := make(map[solana.PublicKey]*Account, len(keys))
	for _, key := range keys {
		account, _ := l.Account(key)
		ws[key] = &account
	}

	f := frame{
		ledger:  l,
		ws:      ws,
		signers: tx.signerSet(),
		clock:   Clock{UnixTimestamp: now},
		logs:    &receipt.Logs,
	}

	for i, ix := range tx.Instructions {
		if err := f.process(ix); err != nil {
			return receipt, &InstructionError{Index: i, Err: err}
		}
	}

	l.mu.Lock()
	for key, account := range ws {
		l.store(key, *account)
	}
	l.mu.Unlock()

	l.processed.Set(receipt.Signature, processedTx{payer: tx.Signers[0], nonce: tx.Nonce, at: now})

	if l.onCommit != nil {
		l.onCommit(tx, now)
	}

	return receipt, nil
}

// Prune forgets the signatures of transactions executed before the
// specified time. For each fee payer the highest pruned nonce becomes a
// floor, and transactions at or below it are rejected, so a pruned
// transaction cannot be applied twice.
func (l *Ledger) Prune(before int64) int {
	var pruned int

	for item := range l.processed.IterBuffered() {
		ptx := item.Val
		if ptx.at >= before {
			continue
		}

		l.floors.Upsert(ptx.payer, ptx.nonce, func(exists bool, floor uint64, nonce uint64) uint64 {
			if exists && floor > nonce {
				return floor
			}
			return nonce
		})

		l.processed.Remove(item.Key)
		pruned++
	}

	return pruned
}

// ProcessedCount returns the number of signatures held for duplicate
// detection.
func (l *Ledger) ProcessedCount() int {
	return l.processed.Count()
}

// BatchResult is the outcome of one transaction in a batch.
type BatchResult struct {
	Receipt Receipt
	Err     error
}

// ExecuteBatch executes the transactions concurrently. Transactions that
// share an account are applied one at a time.
func (l *Ledger) ExecuteBatch(txs []SignedTx, now int64) []BatchResult {
	results := make([]BatchResult, len(txs))

	p := pool.New().WithMaxGoroutines(runtime.GOMAXPROCS(0))
	for i, tx := range txs {
		p.Go(func() {
			receipt, err := l.Execute(tx, now)
			results[i] = BatchResult{Receipt: receipt, Err: err}
		})
	}
	p.Wait()

	return results
}

// store writes the account into the ledger. Accounts left without any
// lamports are purged.
func (l *Ledger) store(key solana.PublicKey, account Account) {
	if account.Lamports == 0 {
		l.accounts.Remove(key)
		return
	}
	l.accounts.Set(key, account)
}

// =============================================================================

// lockEntry is the lock for one address and the number of callers holding
// or waiting on it.
type lockEntry struct {
	mu   sync.Mutex
	refs int
}

// lockTable provides a lock per account address. An entry lives only as
// long as someone holds or waits on it.
type lockTable struct {
	mu    sync.Mutex
	locks map[solana.PublicKey]*lockEntry
}

// lock acquires the locks for the specified addresses, which must be in
// ascending order so two callers never wait on each other. The returned
// function releases the locks.
func (lt *lockTable) lock(keys []solana.PublicKey) func() {
	lt.mu.Lock()
	entries := make([]*lockEntry, len(keys))
	for i, key := range keys {
		entry, exists := lt.locks[key]
		if !exists {
			entry = &lockEntry{}
			lt.locks[key] = entry
		}
		entry.refs++
		entries[i] = entry
	}
	lt.mu.Unlock()

	for _, entry := range entries {
		entry.mu.Lock()
	}

	return func() {
		for i := len(entries) - 1; i >= 0; i-- {
			entries[i].mu.Unlock()
		}

		lt.mu.Lock()
		defer lt.mu.Unlock()

		for i, entry := range entries {
			entry.refs--
			if entry.refs == 0 {
				delete(lt.locks, keys[i])
			}
		}
	}
}

// size returns the number of live entries.
func (lt *lockTable) size() int {
	lt.mu.Lock()
	defer lt.mu.Unlock()
	return len(lt.locks)
}

// String implements the fmt.Stringer interface for logging.
func (l *Ledger) String() string {
	var b bytes.Buffer
	for _, ka := range l.sorted() {
		fmt.Fprintf(&b, "%s: lamports[%d] owner[%s] data[%d]\n", ka.PublicKey, ka.Account.Lamports, ka.Account.Owner, len(ka.Account.Data))
	}
	return b.String()
}

// sorted returns every account in address order.
func (l *Ledger) sorted() []KeyedAccount {
	l.mu.RLock()
	defer l.mu.RUnlock()

	list := make([]KeyedAccount, 0, l.accounts.Count())
	for item := range l.accounts.IterBuffered() {
		list = append(list, KeyedAccount{PublicKey: item.Key, Account: item.Val})
	}
	sort.Sort(byPublicKey(list))
	return list
}
