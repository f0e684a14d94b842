// Package private maintains the group of handlers for operator access.
package private

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/ardanlabs/notechain/business/web/errs"
	"github.com/ardanlabs/notechain/foundation/blockchain/state"
	"github.com/ardanlabs/notechain/foundation/nameservice"
	"github.com/ardanlabs/notechain/foundation/web"
	"github.com/gagliardetto/solana-go"
	"go.uber.org/zap"
)

// Handlers manages the set of operator endpoints.
type Handlers struct {
	Log   *zap.SugaredLogger
	State *state.State
	NS    *nameservice.NameService
}

// Status returns the current status of the node.
func (h Handlers) Status(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	latest := h.State.LatestBlock()
	gen := h.State.Genesis()

	status := nodeStatus{
		ChainID:         gen.ChainID,
		LatestBlockHash: latest.Hash(),
		LatestBlockNum:  latest.Header.Number,
		Uncommitted:     h.State.PendingCount(),
		Accounts:        len(h.State.Accounts()),
		Rent:            h.State.Rent(),
	}

	if faucet := h.State.Faucet(); !faucet.IsZero() {
		status.Faucet = faucet.String()
		status.FaucetName = h.NS.Lookup(faucet)
		status.FaucetLamports = balance(h.State, faucet)
	}

	return web.Respond(ctx, w, status, http.StatusOK)
}

// Airdrop transfers lamports from the node's faucet to an account.
func (h Handlers) Airdrop(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	v, err := web.GetValues(ctx)
	if err != nil {
		return web.NewShutdownError("web value missing from context")
	}

	var req airdropRequest
	if err := web.Decode(r, &req); err != nil {
		return errs.NewTrusted(err, http.StatusBadRequest)
	}

	to := solana.MustPublicKeyFromBase58(req.To)

	h.Log.Infow("airdrop", "traceid", v.TraceID, "to", to, "name", h.NS.Lookup(to), "lamports", req.Lamports)

	rcpt, err := h.State.Airdrop(to, req.Lamports)
	if err != nil {
		if errors.Is(err, state.ErrNoFaucet) {
			return errs.NewTrusted(err, http.StatusServiceUnavailable)
		}
		return errs.NewTrusted(err, http.StatusBadRequest)
	}

	resp := airdropResponse{
		Signature: rcpt.Signature,
		To:        to,
		Lamports:  req.Lamports,
		Balance:   balance(h.State, to),
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}

// SealBlock seals the pending transactions into a block now instead of
// waiting for the next slot.
func (h Handlers) SealBlock(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	block, err := h.State.SealBlock()
	if err != nil {
		if errors.Is(err, state.ErrNoTransactions) {
			return errs.NewTrusted(err, http.StatusConflict)
		}
		return fmt.Errorf("sealing block: %w", err)
	}

	resp := sealResponse{
		Number: block.Header.Number,
		Hash:   block.Hash(),
		Trans:  len(block.Values()),
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}

func balance(st *state.State, pk solana.PublicKey) uint64 {
	account, _ := st.Account(pk)
	return account.Lamports
}
