package private

import (
	"github.com/ardanlabs/notechain/foundation/blockchain/ledger"
	"github.com/gagliardetto/solana-go"
)

type nodeStatus struct {
	ChainID         uint16      `json:"chain_id"`
	LatestBlockHash string      `json:"latest_block_hash"`
	LatestBlockNum  uint64      `json:"latest_block_number"`
	Uncommitted     int         `json:"uncommitted"`
	Accounts        int         `json:"accounts"`
	Rent            ledger.Rent `json:"rent"`
	Faucet          string      `json:"faucet,omitempty"`
	FaucetName      string      `json:"faucet_name,omitempty"`
	FaucetLamports  uint64      `json:"faucet_lamports,omitempty"`
}

type airdropRequest struct {
	To       string `json:"to" validate:"required,pubkey"`
	Lamports uint64 `json:"lamports" validate:"required,gt=0"`
}

type airdropResponse struct {
	Signature string           `json:"signature"`
	To        solana.PublicKey `json:"to"`
	Lamports  uint64           `json:"lamports"`
	Balance   uint64           `json:"balance"`
}

type sealResponse struct {
	Number uint64 `json:"number"`
	Hash   string `json:"hash"`
	Trans  int    `json:"trans"`
}
