package state_test

import (
	"errors"
	"testing"
	"time"

	"github.com/ardanlabs/notechain/business/core/notes"
	"github.com/ardanlabs/notechain/foundation/blockchain/genesis"
	"github.com/ardanlabs/notechain/foundation/blockchain/ledger"
	"github.com/ardanlabs/notechain/foundation/blockchain/state"
	"github.com/ardanlabs/notechain/foundation/blockchain/storage/memory"
	"github.com/ardanlabs/notechain/foundation/blockchain/worker"
	"github.com/gagliardetto/solana-go"
)

// Success and failure markers.
const (
	success = "\u2713"
	failed  = "\u2717"
)

func Test_SealAndReplay(t *testing.T) {
	t.Log("Given the need to rebuild the ledger from stored blocks.")
	{
		faucet := newKey(t)
		author := newKey(t)
		voter := newKey(t)

		gen := genesis.Genesis{
			Date:     time.Now().UTC(),
			ChainID:  1,
			Rent:     ledger.DefaultRent(),
			Balances: map[string]uint64{faucet.PublicKey().String(): 1_000_000_000_000},
		}

		storage := memory.New()

		clock := time.Unix(1_700_000_000, 0)
		now := func() time.Time { return clock }

		st, err := state.New(state.Config{Genesis: gen, Storage: storage, Faucet: faucet, Now: now})
		if err != nil {
			t.Fatalf("\t%s\tShould be able to construct the state: %v", failed, err)
		}

		testID := 0
		t.Logf("\tTest %d:\tWhen funding accounts and writing a note.", testID)
		{
			for _, pk := range []solana.PrivateKey{author, voter} {
				if _, err := st.Airdrop(pk.PublicKey(), 1_000_000_000); err != nil {
					t.Fatalf("\t%s\tTest %d:\tShould be able to airdrop: %v", failed, testID, err)
				}
			}
			t.Logf("\t%s\tTest %d:\tShould be able to airdrop.", success, testID)

			submit(t, st, testID, author, func() (ledger.Instruction, error) {
				return notes.CreateNote(author.PublicKey(), "first")
			})

			if _, err := st.SealBlock(); err != nil {
				t.Fatalf("\t%s\tTest %d:\tShould be able to seal block 1: %v", failed, testID, err)
			}
			t.Logf("\t%s\tTest %d:\tShould be able to seal block 1.", success, testID)

			clock = clock.Add(time.Minute)

			submit(t, st, testID, author, func() (ledger.Instruction, error) {
				addr, _, _ := notes.FindNoteAddress(author.PublicKey())
				return notes.UpdateNote(author.PublicKey(), addr, "second version")
			})
			submit(t, st, testID, voter, func() (ledger.Instruction, error) {
				return notes.UpvoteNote(voter.PublicKey(), author.PublicKey())
			})
			submit(t, st, testID, voter, func() (ledger.Instruction, error) {
				return notes.TipNote(voter.PublicKey(), author.PublicKey(), 5_000)
			})

			block, err := st.SealBlock()
			if err != nil || block.Header.Number != 2 || len(block.Values()) != 3 {
				t.Fatalf("\t%s\tTest %d:\tShould be able to seal block 2: %v", failed, testID, err)
			}
			t.Logf("\t%s\tTest %d:\tShould be able to seal block 2.", success, testID)

			if _, err := st.SealBlock(); !errors.Is(err, state.ErrNoTransactions) {
				t.Fatalf("\t%s\tTest %d:\tShould not seal an empty block: %v", failed, testID, err)
			}
			t.Logf("\t%s\tTest %d:\tShould not seal an empty block.", success, testID)
		}

		testID++
		t.Logf("\tTest %d:\tWhen starting a new node over the same storage.", testID)
		{
			replayed, err := state.New(state.Config{Genesis: gen, Storage: storage})
			if err != nil {
				t.Fatalf("\t%s\tTest %d:\tShould be able to replay the blocks: %v", failed, testID, err)
			}
			t.Logf("\t%s\tTest %d:\tShould be able to replay the blocks.", success, testID)

			exp, err := st.Note(author.PublicKey())
			if err != nil {
				t.Fatalf("\t%s\tTest %d:\tShould find the original note: %v", failed, testID, err)
			}

			got, err := replayed.Note(author.PublicKey())
			if err != nil {
				t.Fatalf("\t%s\tTest %d:\tShould find the replayed note: %v", failed, testID, err)
			}

			if got != exp {
				t.Logf("\t%s\tTest %d:\tgot: %+v", failed, testID, got)
				t.Logf("\t%s\tTest %d:\texp: %+v", failed, testID, exp)
				t.Fatalf("\t%s\tTest %d:\tShould rebuild the same note.", failed, testID)
			}
			t.Logf("\t%s\tTest %d:\tShould rebuild the same note.", success, testID)

			if got.Note.UpdatedAt != clock.Unix() || got.Note.CreatedAt != clock.Add(-time.Minute).Unix() {
				t.Fatalf("\t%s\tTest %d:\tShould keep the original timestamps: %+v", failed, testID, got.Note)
			}
			t.Logf("\t%s\tTest %d:\tShould keep the original timestamps.", success, testID)

			for _, pk := range []solana.PrivateKey{faucet, author, voter} {
				a, _ := st.Account(pk.PublicKey())
				b, _ := replayed.Account(pk.PublicKey())
				if a.Lamports != b.Lamports {
					t.Fatalf("\t%s\tTest %d:\tShould rebuild the balance of %s.", failed, testID, pk.PublicKey())
				}
			}
			t.Logf("\t%s\tTest %d:\tShould rebuild every balance.", success, testID)

			if replayed.LatestBlock().Hash() != st.LatestBlock().Hash() {
				t.Fatalf("\t%s\tTest %d:\tShould agree on the latest block.", failed, testID)
			}
			t.Logf("\t%s\tTest %d:\tShould agree on the latest block.", success, testID)

			blocks, err := replayed.QueryBlocks(1, state.QueryLatest)
			if err != nil || len(blocks) != 2 {
				t.Fatalf("\t%s\tTest %d:\tShould query both blocks: %v", failed, testID, err)
			}
			t.Logf("\t%s\tTest %d:\tShould query both blocks.", success, testID)
		}
	}
}

func Test_WorkerShutdown(t *testing.T) {
	t.Log("Given the need to seal pending transactions on shutdown.")
	{
		testID := 0
		t.Logf("\tTest %d:\tWhen the node shuts down with a pending transaction.", testID)
		{
			faucet := newKey(t)
			gen := genesis.Genesis{
				Balances: map[string]uint64{faucet.PublicKey().String(): 1_000_000_000},
			}

			st, err := state.New(state.Config{Genesis: gen, Storage: memory.New(), Faucet: faucet})
			if err != nil {
				t.Fatalf("\t%s\tTest %d:\tShould be able to construct the state: %v", failed, testID, err)
			}

			worker.Run(st, time.Hour, func(v string, args ...any) {})

			if _, err := st.Airdrop(solana.NewWallet().PublicKey(), 1_000); err != nil {
				t.Fatalf("\t%s\tTest %d:\tShould be able to airdrop: %v", failed, testID, err)
			}

			if err := st.Shutdown(); err != nil {
				t.Fatalf("\t%s\tTest %d:\tShould be able to shut down: %v", failed, testID, err)
			}

			if st.LatestBlock().Header.Number != 1 || st.PendingCount() != 0 {
				t.Fatalf("\t%s\tTest %d:\tShould seal the pending transaction.", failed, testID)
			}
			t.Logf("\t%s\tTest %d:\tShould seal the pending transaction.", success, testID)
		}
	}
}

func Test_ClockStepsBack(t *testing.T) {
	t.Log("Given the need for execution time to never go backward.")
	{
		testID := 0
		t.Logf("\tTest %d:\tWhen the wall clock steps back between transactions.", testID)
		{
			faucet := newKey(t)
			author := newKey(t)
			gen := genesis.Genesis{
				Balances: map[string]uint64{faucet.PublicKey().String(): 1_000_000_000_000},
			}

			clock := time.Unix(1_700_000_000, 0)
			now := func() time.Time { return clock }

			st, err := state.New(state.Config{Genesis: gen, Storage: memory.New(), Faucet: faucet, Now: now})
			if err != nil {
				t.Fatalf("\t%s\tTest %d:\tShould be able to construct the state: %v", failed, testID, err)
			}

			if _, err := st.Airdrop(author.PublicKey(), 1_000_000_000); err != nil {
				t.Fatalf("\t%s\tTest %d:\tShould be able to airdrop: %v", failed, testID, err)
			}

			submit(t, st, testID, author, func() (ledger.Instruction, error) {
				return notes.CreateNote(author.PublicKey(), "before")
			})

			created := clock.Unix()
			clock = clock.Add(-time.Hour)

			submit(t, st, testID, author, func() (ledger.Instruction, error) {
				addr, _, _ := notes.FindNoteAddress(author.PublicKey())
				return notes.UpdateNote(author.PublicKey(), addr, "after")
			})

			record, err := st.Note(author.PublicKey())
			if err != nil {
				t.Fatalf("\t%s\tTest %d:\tShould find the note: %v", failed, testID, err)
			}

			if record.Note.CreatedAt != created || record.Note.UpdatedAt != created {
				t.Fatalf("\t%s\tTest %d:\tShould not move updated_at behind created_at: %+v", failed, testID, record.Note)
			}
			t.Logf("\t%s\tTest %d:\tShould not move updated_at behind created_at.", success, testID)

			block, err := st.SealBlock()
			if err != nil || block.Header.TimeStamp != created {
				t.Fatalf("\t%s\tTest %d:\tShould seal the block at the latest execution time: %v", failed, testID, err)
			}
			t.Logf("\t%s\tTest %d:\tShould seal the block at the latest execution time.", success, testID)
		}
	}
}

func Test_PruneAfterSeal(t *testing.T) {
	t.Log("Given the need to bound the signatures kept for duplicate detection.")
	{
		testID := 0
		t.Logf("\tTest %d:\tWhen a sealed transaction falls out of the window.", testID)
		{
			sender := newKey(t)
			gen := genesis.Genesis{
				Balances: map[string]uint64{sender.PublicKey().String(): 1_000_000_000},
			}

			clock := time.Unix(1_700_000_000, 0)
			now := func() time.Time { return clock }

			storage := memory.New()
			cfg := state.Config{Genesis: gen, Storage: storage, Now: now, ProcessedWindow: time.Minute}

			st, err := state.New(cfg)
			if err != nil {
				t.Fatalf("\t%s\tTest %d:\tShould be able to construct the state: %v", failed, testID, err)
			}

			to := solana.NewWallet().PublicKey()
			tx, err := ledger.NewTx(1, []solana.PublicKey{sender.PublicKey()}, ledger.Transfer(sender.PublicKey(), to, 1_000_000)).Sign(sender)
			if err != nil {
				t.Fatalf("\t%s\tTest %d:\tShould be able to sign: %v", failed, testID, err)
			}

			if _, err := st.SubmitTransaction(tx); err != nil {
				t.Fatalf("\t%s\tTest %d:\tShould be able to submit: %v", failed, testID, err)
			}

			clock = clock.Add(2 * time.Minute)
			if _, err := st.SealBlock(); err != nil {
				t.Fatalf("\t%s\tTest %d:\tShould be able to seal: %v", failed, testID, err)
			}

			if _, err := st.SubmitTransaction(tx); !errors.Is(err, ledger.ErrNonceTooOld) {
				t.Fatalf("\t%s\tTest %d:\tShould not apply the transaction twice: %v", failed, testID, err)
			}
			t.Logf("\t%s\tTest %d:\tShould not apply the transaction twice.", success, testID)

			if b, _ := st.Account(to); b.Lamports != 1_000_000 {
				t.Fatalf("\t%s\tTest %d:\tShould have paid once: %d", failed, testID, b.Lamports)
			}
			t.Logf("\t%s\tTest %d:\tShould have paid once.", success, testID)

			replayed, err := state.New(cfg)
			if err != nil {
				t.Fatalf("\t%s\tTest %d:\tShould be able to replay: %v", failed, testID, err)
			}

			if _, err := replayed.SubmitTransaction(tx); !errors.Is(err, ledger.ErrNonceTooOld) {
				t.Fatalf("\t%s\tTest %d:\tShould reject the transaction after a replay: %v", failed, testID, err)
			}
			t.Logf("\t%s\tTest %d:\tShould reject the transaction after a replay.", success, testID)
		}
	}
}

// =============================================================================

func newKey(t *testing.T) solana.PrivateKey {
	t.Helper()

	pk, err := solana.NewRandomPrivateKey()
	if err != nil {
		t.Fatalf("\t%s\tShould be able to generate a private key: %v", failed, err)
	}

	return pk
}

var nonce uint64

func submit(t *testing.T, st *state.State, testID int, signer solana.PrivateKey, build func() (ledger.Instruction, error)) {
	t.Helper()

	ix, err := build()
	if err != nil {
		t.Fatalf("\t%s\tTest %d:\tShould be able to build the instruction: %v", failed, testID, err)
	}

	nonce++
	tx, err := ledger.NewTx(nonce, []solana.PublicKey{signer.PublicKey()}, ix).Sign(signer)
	if err != nil {
		t.Fatalf("\t%s\tTest %d:\tShould be able to sign the transaction: %v", failed, testID, err)
	}

	if _, err := st.SubmitTransaction(tx); err != nil {
		t.Fatalf("\t%s\tTest %d:\tShould be able to submit the transaction: %v", failed, testID, err)
	}
}
