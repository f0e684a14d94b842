// Package public maintains the group of handlers for public access.
package public

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strconv"
	"time"

	"github.com/ardanlabs/notechain/business/core/notes"
	"github.com/ardanlabs/notechain/business/web/errs"
	"github.com/ardanlabs/notechain/foundation/blockchain/database"
	"github.com/ardanlabs/notechain/foundation/blockchain/ledger"
	"github.com/ardanlabs/notechain/foundation/blockchain/state"
	"github.com/ardanlabs/notechain/foundation/events"
	"github.com/ardanlabs/notechain/foundation/nameservice"
	"github.com/ardanlabs/notechain/foundation/validate"
	"github.com/ardanlabs/notechain/foundation/web"
	"github.com/gagliardetto/solana-go"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// Handlers manages the set of public node endpoints.
type Handlers struct {
	Log   *zap.SugaredLogger
	State *state.State
	NS    *nameservice.NameService
	WS    websocket.Upgrader
	Evts  *events.Events
}

// Events handles a web socket to provide events to a client.
func (h Handlers) Events(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	v, err := web.GetValues(ctx)
	if err != nil {
		return web.NewShutdownError("web value missing from context")
	}

	h.WS.CheckOrigin = func(r *http.Request) bool { return true }

	c, err := h.WS.Upgrade(w, r, nil)
	if err != nil {
		return err
	}
	defer c.Close()

	ch := h.Evts.Acquire(v.TraceID)
	defer h.Evts.Release(v.TraceID)

	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case msg, wd := <-ch:
			if !wd {
				return nil
			}

			if err := c.WriteMessage(websocket.TextMessage, []byte(msg)); err != nil {
				return err
			}

		case <-ticker.C:
			if err := c.WriteMessage(websocket.PingMessage, []byte("ping")); err != nil {
				return nil
			}
		}
	}
}

// Genesis returns the genesis information.
func (h Handlers) Genesis(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	gen := h.State.Genesis()
	return web.Respond(ctx, w, gen, http.StatusOK)
}

// Accounts returns the current state of every account or of the
// specified account.
func (h Handlers) Accounts(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	var blkAccounts map[solana.PublicKey]ledger.Account

	switch param := web.Param(r, "account"); param {
	case "":
		blkAccounts = h.State.Accounts()

	default:
		pk, err := validate.CheckPublicKey(param)
		if err != nil {
			return errs.NewTrusted(err, http.StatusBadRequest)
		}

		blkAccounts = make(map[solana.PublicKey]ledger.Account)
		if account, exists := h.State.Account(pk); exists {
			blkAccounts[pk] = account
		}
	}

	acts := make([]account, 0, len(blkAccounts))
	for pk, blkAccount := range blkAccounts {
		act := account{
			Account:  pk,
			Name:     h.NS.Lookup(pk),
			Lamports: blkAccount.Lamports,
			Owner:    blkAccount.Owner,
			Space:    len(blkAccount.Data),
		}
		acts = append(acts, act)
	}

	sort.Slice(acts, func(i, j int) bool {
		return acts[i].Account.String() < acts[j].Account.String()
	})

	ai := accounts{
		LatestBlock: h.State.LatestBlock().Hash(),
		Uncommitted: h.State.PendingCount(),
		Accounts:    acts,
	}

	return web.Respond(ctx, w, ai, http.StatusOK)
}

// Notes returns every note on the ledger.
func (h Handlers) Notes(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	recs, err := h.State.Notes()
	if err != nil {
		return fmt.Errorf("scanning notes: %w", err)
	}

	out := make([]note, len(recs))
	for i, rec := range recs {
		out[i] = toNote(h.NS, rec)
	}

	return web.Respond(ctx, w, out, http.StatusOK)
}

// NoteByAuthor returns the note written by the author.
func (h Handlers) NoteByAuthor(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	author, err := validate.CheckPublicKey(web.Param(r, "author"))
	if err != nil {
		return errs.NewTrusted(err, http.StatusBadRequest)
	}

	rec, err := h.State.Note(author)
	if err != nil {
		if errors.Is(err, notes.ErrNotFound) {
			return errs.NewTrusted(err, http.StatusNotFound)
		}
		return fmt.Errorf("fetching note for %s: %w", author, err)
	}

	return web.Respond(ctx, w, toNote(h.NS, rec), http.StatusOK)
}

// SubmitTransaction executes a signed transaction against the ledger.
func (h Handlers) SubmitTransaction(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	v, err := web.GetValues(ctx)
	if err != nil {
		return web.NewShutdownError("web value missing from context")
	}

	var signedTx ledger.SignedTx
	if err := web.Decode(r, &signedTx); err != nil {
		return errs.NewTrusted(err, http.StatusBadRequest)
	}

	h.Log.Infow("submit tran", "traceid", v.TraceID, "signer:nonce", signedTx, "instructions", len(signedTx.Instructions))

	rcpt, err := h.State.SubmitTransaction(signedTx)
	if err != nil {
		for _, line := range rcpt.Logs {
			h.Log.Infow("submit tran", "traceid", v.TraceID, "log", line)
		}
		return errs.NewTrusted(err, http.StatusBadRequest)
	}

	resp := receipt{
		Signature: rcpt.Signature,
		Logs:      rcpt.Logs,
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}

// SubmitTransactions executes a batch of signed transactions concurrently.
// Each transaction succeeds or fails on its own.
func (h Handlers) SubmitTransactions(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	v, err := web.GetValues(ctx)
	if err != nil {
		return web.NewShutdownError("web value missing from context")
	}

	var signedTxs []ledger.SignedTx
	if err := web.Decode(r, &signedTxs); err != nil {
		return errs.NewTrusted(err, http.StatusBadRequest)
	}

	if len(signedTxs) == 0 {
		return errs.NewTrusted(errors.New("no transactions provided"), http.StatusBadRequest)
	}

	h.Log.Infow("submit batch", "traceid", v.TraceID, "txs", len(signedTxs))

	results := h.State.SubmitTransactions(signedTxs)

	out := make([]batchResult, len(results))
	for i, result := range results {
		out[i] = batchResult{
			Signature: signedTxs[i].ID(),
			Logs:      result.Receipt.Logs,
		}

		if result.Err != nil {
			out[i].Error = result.Err.Error()
			if pe, ok := ledger.AsError(result.Err); ok {
				code := pe.Code
				out[i].Code = &code
				out[i].Name = pe.Name
			}
		}
	}

	return web.Respond(ctx, w, out, http.StatusOK)
}

// BlocksByNumber returns all the blocks based on the specified to/from values.
func (h Handlers) BlocksByNumber(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	from, err := blockNumber(web.Param(r, "from"), 1)
	if err != nil {
		return errs.NewTrusted(fmt.Errorf("from: %w", err), http.StatusBadRequest)
	}

	to, err := blockNumber(web.Param(r, "to"), state.QueryLatest)
	if err != nil {
		return errs.NewTrusted(fmt.Errorf("to: %w", err), http.StatusBadRequest)
	}

	if from > to {
		return errs.NewTrusted(errors.New("from greater than to"), http.StatusBadRequest)
	}

	blocks, err := h.State.QueryBlocks(from, to)
	if err != nil {
		return fmt.Errorf("query blocks %d-%d: %w", from, to, err)
	}

	if len(blocks) == 0 {
		return web.Respond(ctx, w, nil, http.StatusNoContent)
	}

	out := make([]block, len(blocks))
	for i, blk := range blocks {
		out[i] = toBlock(h.NS, blk)
	}

	return web.Respond(ctx, w, out, http.StatusOK)
}

// TransactionProof returns the merkle proof that a transaction is part of
// a block.
func (h Handlers) TransactionProof(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	number, err := strconv.ParseUint(web.Param(r, "number"), 10, 64)
	if err != nil {
		return errs.NewTrusted(fmt.Errorf("number: %w", err), http.StatusBadRequest)
	}

	sig := web.Param(r, "signature")

	proof, err := h.State.TransactionProof(number, sig)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) || errors.Is(err, database.ErrTxNotInBlock) {
			return errs.NewTrusted(err, http.StatusNotFound)
		}
		return fmt.Errorf("proof blk[%d] tx[%s]: %w", number, sig, err)
	}

	return web.Respond(ctx, w, proof, http.StatusOK)
}

// blockNumber parses a block number parameter. An empty value yields the
// default and "latest" yields the latest block.
func blockNumber(param string, def uint64) (uint64, error) {
	switch param {
	case "":
		return def, nil
	case "latest":
		return state.QueryLatest, nil
	}

	num, err := strconv.ParseUint(param, 10, 64)
	if err != nil {
		return 0, err
	}

	return num, nil
}
