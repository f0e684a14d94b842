package handlers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/ardanlabs/notechain/app/services/node/handlers"
	"github.com/ardanlabs/notechain/business/core/notes"
	"github.com/ardanlabs/notechain/business/web/auth"
	"github.com/ardanlabs/notechain/business/web/errs"
	"github.com/ardanlabs/notechain/foundation/blockchain/genesis"
	"github.com/ardanlabs/notechain/foundation/blockchain/ledger"
	"github.com/ardanlabs/notechain/foundation/blockchain/state"
	"github.com/ardanlabs/notechain/foundation/blockchain/storage/memory"
	"github.com/ardanlabs/notechain/foundation/events"
	"github.com/ardanlabs/notechain/foundation/logger"
	"github.com/ardanlabs/notechain/foundation/nameservice"
	"github.com/gagliardetto/solana-go"
)

// Success and failure markers.
const (
	success = "\u2713"
	failed  = "\u2717"
)

type node struct {
	public  http.Handler
	private http.Handler
	auth    *auth.Auth
	author  solana.PrivateKey
	nonce   uint64
}

func newNode(t *testing.T) *node {
	t.Helper()

	faucet := solana.NewWallet().PrivateKey
	author := solana.NewWallet().PrivateKey

	gen := genesis.Genesis{
		Date:    time.Now().UTC(),
		ChainID: 1,
		Rent:    ledger.DefaultRent(),
		Balances: map[string]uint64{
			faucet.PublicKey().String(): 1_000_000_000_000,
			author.PublicKey().String(): 1_000_000_000,
		},
	}

	st, err := state.New(state.Config{Genesis: gen, Storage: memory.New(), Faucet: faucet})
	if err != nil {
		t.Fatalf("\t%s\tShould be able to construct the state: %v", failed, err)
	}
	t.Cleanup(func() { st.Shutdown() })

	ns, err := nameservice.New(t.TempDir())
	if err != nil {
		t.Fatalf("\t%s\tShould be able to construct the name service: %v", failed, err)
	}

	ath, err := auth.New("test-secret", nil)
	if err != nil {
		t.Fatalf("\t%s\tShould be able to construct auth: %v", failed, err)
	}

	cfg := handlers.MuxConfig{
		Shutdown: make(chan os.Signal, 1),
		Log:      logger.NewTest(),
		State:    st,
		NS:       ns,
		Evts:     events.New(),
		Auth:     ath,
	}

	n := node{
		public:  handlers.PublicMux(cfg),
		private: handlers.PrivateMux(cfg),
		auth:    ath,
		author:  author,
	}

	return &n
}

func (n *node) call(h http.Handler, method string, path string, body any, token string) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		json.NewEncoder(&buf).Encode(body)
	}

	r := httptest.NewRequest(method, path, &buf)
	if token != "" {
		r.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)

	return w
}

func (n *node) signed(t *testing.T, ix ledger.Instruction, ixErr error) ledger.SignedTx {
	t.Helper()

	if ixErr != nil {
		t.Fatalf("\t%s\tShould be able to build the instruction: %v", failed, ixErr)
	}

	n.nonce++
	tx := ledger.NewTx(n.nonce, []solana.PublicKey{n.author.PublicKey()}, ix)

	signedTx, err := tx.Sign(n.author)
	if err != nil {
		t.Fatalf("\t%s\tShould be able to sign the transaction: %v", failed, err)
	}

	return signedTx
}

// =============================================================================

func Test_PublicRoutes(t *testing.T) {
	t.Log("Given the need to serve the note program over http.")
	{
		n := newNode(t)
		pk := n.author.PublicKey()

		t.Logf("\tTest 0:\tWhen submitting a note.")
		{
			ix, err := notes.CreateNote(pk, "hello over http")
			signedTx := n.signed(t, ix, err)

			w := n.call(n.public, http.MethodPost, "/v1/tx/submit", signedTx, "")
			if w.Code != http.StatusOK {
				t.Fatalf("\t%s\tTest 0:\tShould receive a 200 status: %d %s", failed, w.Code, w.Body)
			}
			t.Logf("\t%s\tTest 0:\tShould receive a 200 status.", success)

			w = n.call(n.public, http.MethodGet, "/v1/notes/author/"+pk.String(), nil, "")
			if w.Code != http.StatusOK {
				t.Fatalf("\t%s\tTest 0:\tShould find the note: %d %s", failed, w.Code, w.Body)
			}

			var got struct {
				Author  string `json:"author"`
				Content string `json:"content"`
				Upvotes uint64 `json:"upvotes"`
			}
			if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
				t.Fatalf("\t%s\tTest 0:\tShould be able to decode the note: %v", failed, err)
			}
			if got.Author != pk.String() || got.Content != "hello over http" {
				t.Fatalf("\t%s\tTest 0:\tShould get back the note: %+v", failed, got)
			}
			t.Logf("\t%s\tTest 0:\tShould get back the note.", success)

			w = n.call(n.public, http.MethodGet, "/v1/notes/list", nil, "")
			var list []json.RawMessage
			if err := json.Unmarshal(w.Body.Bytes(), &list); err != nil || len(list) != 1 {
				t.Fatalf("\t%s\tTest 0:\tShould list one note: %v %s", failed, err, w.Body)
			}
			t.Logf("\t%s\tTest 0:\tShould list one note.", success)
		}

		t.Logf("\tTest 1:\tWhen a program error is raised.")
		{
			ix, err := notes.TipNote(pk, pk, 10)
			signedTx := n.signed(t, ix, err)

			w := n.call(n.public, http.MethodPost, "/v1/tx/submit", signedTx, "")
			if w.Code != http.StatusBadRequest {
				t.Fatalf("\t%s\tTest 1:\tShould receive a 400 status: %d", failed, w.Code)
			}
			t.Logf("\t%s\tTest 1:\tShould receive a 400 status.", success)

			var resp errs.Response
			if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
				t.Fatalf("\t%s\tTest 1:\tShould be able to decode the error: %v", failed, err)
			}
			if resp.Code == nil || *resp.Code != notes.ErrCannotTipOwnNote.Code || resp.Name != "CannotTipOwnNote" {
				t.Fatalf("\t%s\tTest 1:\tShould surface the program error: %+v", failed, resp)
			}
			if resp.Instruction == nil || *resp.Instruction != 0 {
				t.Fatalf("\t%s\tTest 1:\tShould identify the failing instruction: %+v", failed, resp)
			}
			t.Logf("\t%s\tTest 1:\tShould surface the program error.", success)

			ix, err = notes.CreateNote(pk, "second note")
			signedTx = n.signed(t, ix, err)

			w = n.call(n.public, http.MethodPost, "/v1/tx/submit", signedTx, "")
			if w.Code != http.StatusBadRequest {
				t.Fatalf("\t%s\tTest 1:\tShould reject a second note: %d", failed, w.Code)
			}

			resp = errs.Response{}
			if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
				t.Fatalf("\t%s\tTest 1:\tShould be able to decode the error: %v", failed, err)
			}
			if resp.Code == nil || *resp.Code != ledger.ErrAccountAlreadyInUse.Code || resp.Name != "AccountAlreadyInUse" {
				t.Fatalf("\t%s\tTest 1:\tShould surface the zero error code: %s", failed, w.Body)
			}
			t.Logf("\t%s\tTest 1:\tShould surface the zero error code.", success)
		}

		t.Logf("\tTest 2:\tWhen asking for an unknown author.")
		{
			other := solana.NewWallet().PublicKey()

			w := n.call(n.public, http.MethodGet, "/v1/notes/author/"+other.String(), nil, "")
			if w.Code != http.StatusNotFound {
				t.Fatalf("\t%s\tTest 2:\tShould receive a 404 status: %d", failed, w.Code)
			}
			t.Logf("\t%s\tTest 2:\tShould receive a 404 status.", success)

			w = n.call(n.public, http.MethodGet, "/v1/notes/author/not-a-key", nil, "")
			if w.Code != http.StatusBadRequest {
				t.Fatalf("\t%s\tTest 2:\tShould receive a 400 status for a bad key: %d", failed, w.Code)
			}
			t.Logf("\t%s\tTest 2:\tShould receive a 400 status for a bad key.", success)
		}
	}
}

func Test_PrivateRoutes(t *testing.T) {
	t.Log("Given the need to operate the node over http.")
	{
		n := newNode(t)

		token, err := n.auth.GenerateToken("operator", time.Hour, auth.RoleAdmin)
		if err != nil {
			t.Fatalf("\t%s\tShould be able to generate a token: %v", failed, err)
		}

		t.Logf("\tTest 0:\tWhen calling without a token.")
		{
			w := n.call(n.private, http.MethodGet, "/v1/node/status", nil, "")
			if w.Code != http.StatusUnauthorized {
				t.Fatalf("\t%s\tTest 0:\tShould receive a 401 status: %d", failed, w.Code)
			}
			t.Logf("\t%s\tTest 0:\tShould receive a 401 status.", success)

			user, _ := n.auth.GenerateToken("user", time.Hour, "USER")
			w = n.call(n.private, http.MethodGet, "/v1/node/status", nil, user)
			if w.Code != http.StatusForbidden {
				t.Fatalf("\t%s\tTest 0:\tShould receive a 403 status: %d", failed, w.Code)
			}
			t.Logf("\t%s\tTest 0:\tShould receive a 403 status without the admin role.", success)
		}

		t.Logf("\tTest 1:\tWhen airdropping and sealing a block.")
		{
			to := solana.NewWallet().PublicKey()
			req := map[string]any{"to": to.String(), "lamports": 5_000}

			w := n.call(n.private, http.MethodPost, "/v1/node/airdrop", req, token)
			if w.Code != http.StatusOK {
				t.Fatalf("\t%s\tTest 1:\tShould be able to airdrop: %d %s", failed, w.Code, w.Body)
			}

			var drop struct {
				Balance uint64 `json:"balance"`
			}
			if err := json.Unmarshal(w.Body.Bytes(), &drop); err != nil || drop.Balance != 5_000 {
				t.Fatalf("\t%s\tTest 1:\tShould credit the account: %v %s", failed, err, w.Body)
			}
			t.Logf("\t%s\tTest 1:\tShould credit the account.", success)

			w = n.call(n.private, http.MethodPost, "/v1/node/airdrop", map[string]any{"to": "bogus"}, token)
			if w.Code != http.StatusBadRequest {
				t.Fatalf("\t%s\tTest 1:\tShould reject a bad airdrop: %d", failed, w.Code)
			}

			var resp errs.Response
			if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil || len(resp.Fields) != 2 {
				t.Fatalf("\t%s\tTest 1:\tShould get field errors: %v %s", failed, err, w.Body)
			}
			t.Logf("\t%s\tTest 1:\tShould reject a bad airdrop with field errors.", success)

			w = n.call(n.private, http.MethodPost, "/v1/node/block/seal", nil, token)
			if w.Code != http.StatusOK {
				t.Fatalf("\t%s\tTest 1:\tShould be able to seal a block: %d %s", failed, w.Code, w.Body)
			}
			t.Logf("\t%s\tTest 1:\tShould be able to seal a block.", success)

			w = n.call(n.private, http.MethodPost, "/v1/node/block/seal", nil, token)
			if w.Code != http.StatusConflict {
				t.Fatalf("\t%s\tTest 1:\tShould have nothing left to seal: %d", failed, w.Code)
			}
			t.Logf("\t%s\tTest 1:\tShould have nothing left to seal.", success)

			w = n.call(n.public, http.MethodGet, "/v1/blocks/list", nil, "")
			var blocks []struct {
				Number uint64            `json:"number"`
				Trans  []json.RawMessage `json:"trans"`
			}
			if err := json.Unmarshal(w.Body.Bytes(), &blocks); err != nil || len(blocks) != 1 || len(blocks[0].Trans) != 1 {
				t.Fatalf("\t%s\tTest 1:\tShould list the sealed block: %v %s", failed, err, w.Body)
			}
			t.Logf("\t%s\tTest 1:\tShould list the sealed block.", success)
		}

		t.Logf("\tTest 2:\tWhen asking for the node status.")
		{
			w := n.call(n.private, http.MethodGet, "/v1/node/status", nil, token)
			if w.Code != http.StatusOK {
				t.Fatalf("\t%s\tTest 2:\tShould receive a 200 status: %d %s", failed, w.Code, w.Body)
			}

			var status struct {
				LatestBlockNum uint64 `json:"latest_block_number"`
				Uncommitted    int    `json:"uncommitted"`
			}
			if err := json.Unmarshal(w.Body.Bytes(), &status); err != nil || status.LatestBlockNum != 1 || status.Uncommitted != 0 {
				t.Fatalf("\t%s\tTest 2:\tShould report the latest block: %v %s", failed, err, w.Body)
			}
			t.Logf("\t%s\tTest 2:\tShould report the latest block.", success)
		}
	}
}
