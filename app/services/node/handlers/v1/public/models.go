package public

import (
	"github.com/ardanlabs/notechain/business/core/notes"
	"github.com/ardanlabs/notechain/foundation/blockchain/database"
	"github.com/ardanlabs/notechain/foundation/blockchain/ledger"
	"github.com/ardanlabs/notechain/foundation/nameservice"
	"github.com/gagliardetto/solana-go"
)

type account struct {
	Account  solana.PublicKey `json:"account"`
	Name     string           `json:"name"`
	Lamports uint64           `json:"lamports"`
	Owner    solana.PublicKey `json:"owner"`
	Space    int              `json:"space"`
}

type accounts struct {
	LatestBlock string    `json:"latest_block"`
	Uncommitted int       `json:"uncommitted"`
	Accounts    []account `json:"accounts"`
}

type note struct {
	Address    solana.PublicKey `json:"address"`
	Author     solana.PublicKey `json:"author"`
	AuthorName string           `json:"author_name"`
	Lamports   uint64           `json:"lamports"`
	Bump       uint8            `json:"bump"`
	Upvotes    uint64           `json:"upvotes"`
	TipTotal   uint64           `json:"tip_total"`
	CreatedAt  int64            `json:"created_at"`
	UpdatedAt  int64            `json:"updated_at"`
	Content    string           `json:"content"`
}

func toNote(ns *nameservice.NameService, rec notes.Record) note {
	return note{
		Address:    rec.Address,
		Author:     rec.Note.Authority,
		AuthorName: ns.Lookup(rec.Note.Authority),
		Lamports:   rec.Lamports,
		Bump:       rec.Note.Bump,
		Upvotes:    rec.Note.Upvotes,
		TipTotal:   rec.Note.TipTotal,
		CreatedAt:  rec.Note.CreatedAt,
		UpdatedAt:  rec.Note.UpdatedAt,
		Content:    rec.Note.Content,
	}
}

type tx struct {
	ID           string             `json:"id"`
	Signers      []solana.PublicKey `json:"signers"`
	SignerNames  []string           `json:"signer_names"`
	Nonce        uint64             `json:"nonce"`
	TimeStamp    int64              `json:"timestamp"`
	Instructions []instruction      `json:"instructions"`
}

type instruction struct {
	ProgramID solana.PublicKey     `json:"program_id"`
	Accounts  []ledger.AccountMeta `json:"accounts"`
	Data      []byte               `json:"data"`
}

type block struct {
	Number        uint64 `json:"number"`
	PrevBlockHash string `json:"prev_block_hash"`
	TimeStamp     int64  `json:"timestamp"`
	TransRoot     string `json:"trans_root"`
	Hash          string `json:"hash"`
	Trans         []tx   `json:"trans"`
}

func toBlock(ns *nameservice.NameService, blk database.Block) block {
	values := blk.Values()

	trans := make([]tx, len(values))
	for i, tran := range values {
		names := make([]string, len(tran.Signers))
		for j, signer := range tran.Signers {
			names[j] = ns.Lookup(signer)
		}

		ixs := make([]instruction, len(tran.Instructions))
		for j, ix := range tran.Instructions {
			ixs[j] = instruction{
				ProgramID: ix.ProgramID,
				Accounts:  ix.Accounts,
				Data:      ix.Data,
			}
		}

		trans[i] = tx{
			ID:           tran.ID(),
			Signers:      tran.Signers,
			SignerNames:  names,
			Nonce:        tran.Nonce,
			TimeStamp:    tran.TimeStamp,
			Instructions: ixs,
		}
	}

	return block{
		Number:        blk.Header.Number,
		PrevBlockHash: blk.Header.PrevBlockHash,
		TimeStamp:     blk.Header.TimeStamp,
		TransRoot:     blk.Header.TransRoot,
		Hash:          blk.Hash(),
		Trans:         trans,
	}
}

type receipt struct {
	Signature string   `json:"signature"`
	Logs      []string `json:"logs"`
}

type batchResult struct {
	Signature string   `json:"signature"`
	Logs      []string `json:"logs"`
	Error     string   `json:"error,omitempty"`
	Code      *uint32  `json:"code,omitempty"`
	Name      string   `json:"name,omitempty"`
}
