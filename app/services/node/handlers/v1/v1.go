// Package v1 contains the full set of handler functions and routes
// supported by the v1 web api.
package v1

import (
	"net/http"

	"github.com/ardanlabs/notechain/app/services/node/handlers/v1/private"
	"github.com/ardanlabs/notechain/app/services/node/handlers/v1/public"
	"github.com/ardanlabs/notechain/business/web/auth"
	"github.com/ardanlabs/notechain/business/web/mid"
	"github.com/ardanlabs/notechain/foundation/blockchain/state"
	"github.com/ardanlabs/notechain/foundation/events"
	"github.com/ardanlabs/notechain/foundation/nameservice"
	"github.com/ardanlabs/notechain/foundation/web"
	"go.uber.org/zap"
)

const version = "v1"

// Config contains all the mandatory systems required by handlers.
type Config struct {
	Log   *zap.SugaredLogger
	State *state.State
	NS    *nameservice.NameService
	Evts  *events.Events
	Auth  *auth.Auth
}

// PublicRoutes binds all the version 1 public routes.
func PublicRoutes(app *web.App, cfg Config) {
	pbl := public.Handlers{
		Log:   cfg.Log,
		State: cfg.State,
		NS:    cfg.NS,
		Evts:  cfg.Evts,
	}

	app.Handle(http.MethodGet, version, "/events", pbl.Events)
	app.Handle(http.MethodGet, version, "/genesis/list", pbl.Genesis)
	app.Handle(http.MethodGet, version, "/accounts/list", pbl.Accounts)
	app.Handle(http.MethodGet, version, "/accounts/list/:account", pbl.Accounts)
	app.Handle(http.MethodGet, version, "/notes/list", pbl.Notes)
	app.Handle(http.MethodGet, version, "/notes/author/:author", pbl.NoteByAuthor)
	app.Handle(http.MethodPost, version, "/tx/submit", pbl.SubmitTransaction)
	app.Handle(http.MethodPost, version, "/tx/batch", pbl.SubmitTransactions)
	app.Handle(http.MethodGet, version, "/blocks/list", pbl.BlocksByNumber)
	app.Handle(http.MethodGet, version, "/blocks/list/:from/:to", pbl.BlocksByNumber)
	app.Handle(http.MethodGet, version, "/blocks/proof/:number/:signature", pbl.TransactionProof)
}

// PrivateRoutes binds all the version 1 private routes.
func PrivateRoutes(app *web.App, cfg Config) {
	prv := private.Handlers{
		Log:   cfg.Log,
		State: cfg.State,
		NS:    cfg.NS,
	}

	authen := mid.Authenticate(cfg.Auth, auth.RoleAdmin)

	app.Handle(http.MethodGet, version, "/node/status", prv.Status, authen)
	app.Handle(http.MethodPost, version, "/node/airdrop", prv.Airdrop, authen)
	app.Handle(http.MethodPost, version, "/node/block/seal", prv.SealBlock, authen)
}
