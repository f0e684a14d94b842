package cmd

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/ardanlabs/notechain/business/web/errs"
	"github.com/ardanlabs/notechain/foundation/blockchain/database"
	"github.com/ardanlabs/notechain/foundation/blockchain/ledger"
	"github.com/gagliardetto/solana-go"
	"github.com/go-resty/resty/v2"
)

// errNoteNotFound is returned when the node has no note for an author.
var errNoteNotFound = errors.New("note not found")

// nodeError is the error reported by the node for a failed request.
type nodeError struct {
	Status   int
	Response errs.Response
}

func (ne *nodeError) Error() string {
	if ne.Response.Code != nil {
		return fmt.Sprintf("status %d: %s (%d): %s", ne.Status, ne.Response.Name, *ne.Response.Code, ne.Response.Error)
	}
	return fmt.Sprintf("status %d: %s", ne.Status, ne.Response.Error)
}

type account struct {
	Account  solana.PublicKey `json:"account"`
	Name     string           `json:"name"`
	Lamports uint64           `json:"lamports"`
}

type accounts struct {
	Accounts []account `json:"accounts"`
}

type note struct {
	Address    solana.PublicKey `json:"address"`
	Author     solana.PublicKey `json:"author"`
	AuthorName string           `json:"author_name"`
	Lamports   uint64           `json:"lamports"`
	Upvotes    uint64           `json:"upvotes"`
	TipTotal   uint64           `json:"tip_total"`
	CreatedAt  int64            `json:"created_at"`
	UpdatedAt  int64            `json:"updated_at"`
	Content    string           `json:"content"`
}

// =============================================================================

// client talks to a node's http api.
type client struct {
	rc *resty.Client
}

func newClient(baseURL string) *client {
	rc := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(10*time.Second).
		SetHeader("Content-Type", "application/json")

	return &client{rc: rc}
}

// Balance returns the lamports held by the account.
func (c *client) Balance(pk solana.PublicKey) (uint64, error) {
	var out accounts
	if err := c.do(c.rc.R().SetResult(&out), http.MethodGet, "/v1/accounts/list/"+pk.String()); err != nil {
		return 0, err
	}

	if len(out.Accounts) == 0 {
		return 0, nil
	}

	return out.Accounts[0].Lamports, nil
}

// Airdrop asks the node's faucet for lamports and returns the new balance.
func (c *client) Airdrop(token string, to solana.PublicKey, lamports uint64) (uint64, error) {
	body := struct {
		To       string `json:"to"`
		Lamports uint64 `json:"lamports"`
	}{
		To:       to.String(),
		Lamports: lamports,
	}

	var out struct {
		Balance uint64 `json:"balance"`
	}

	req := c.rc.R().SetAuthToken(token).SetBody(body).SetResult(&out)
	if err := c.do(req, http.MethodPost, "/v1/node/airdrop"); err != nil {
		return 0, err
	}

	return out.Balance, nil
}

// Submit sends the signed transaction for execution.
func (c *client) Submit(signedTx ledger.SignedTx) (ledger.Receipt, error) {
	var out ledger.Receipt
	if err := c.do(c.rc.R().SetBody(signedTx).SetResult(&out), http.MethodPost, "/v1/tx/submit"); err != nil {
		return ledger.Receipt{}, err
	}

	return out, nil
}

// Note returns the note written by the author.
func (c *client) Note(author solana.PublicKey) (note, error) {
	var out note
	if err := c.do(c.rc.R().SetResult(&out), http.MethodGet, "/v1/notes/author/"+author.String()); err != nil {
		var ne *nodeError
		if errors.As(err, &ne) && ne.Status == http.StatusNotFound {
			return note{}, errNoteNotFound
		}
		return note{}, err
	}

	return out, nil
}

// Notes returns every note on the ledger.
func (c *client) Notes() ([]note, error) {
	var out []note
	if err := c.do(c.rc.R().SetResult(&out), http.MethodGet, "/v1/notes/list"); err != nil {
		return nil, err
	}

	return out, nil
}

// Proof returns the inclusion proof for the transaction after checking it
// leads to the transaction root.
func (c *client) Proof(number uint64, signature string) (database.TxProof, error) {
	var out database.TxProof
	path := fmt.Sprintf("/v1/blocks/proof/%d/%s", number, signature)
	if err := c.do(c.rc.R().SetResult(&out), http.MethodGet, path); err != nil {
		return database.TxProof{}, err
	}

	if err := out.Verify(); err != nil {
		return database.TxProof{}, fmt.Errorf("verify proof: %w", err)
	}

	return out, nil
}

func (c *client) do(req *resty.Request, method string, path string) error {
	var er errs.Response
	req.SetError(&er)

	resp, err := req.Execute(method, path)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}

	if resp.IsError() {
		return &nodeError{Status: resp.StatusCode(), Response: er}
	}

	return nil
}
