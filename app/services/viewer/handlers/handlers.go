// Package handlers contains the full set of handler functions and routes
// supported by the web api.
package handlers

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"net/http"
	"os"

	"github.com/ardanlabs/notechain/business/web/mid"
	"github.com/ardanlabs/notechain/foundation/web"
	"go.uber.org/zap"
)

//go:embed assets
var assets embed.FS

// UIMux constructs an http.Handler with all application routes defined.
func UIMux(build string, nodeURL string, shutdown chan os.Signal, log *zap.SugaredLogger) (*web.App, error) {
	app := web.NewApp(
		shutdown,
		mid.Logger(log),
		mid.Errors(log),
		mid.Panics(),
		mid.Cors("*"),
	)

	// Register the index page for the website.
	ig, err := newIndex(build, nodeURL)
	if err != nil {
		return nil, fmt.Errorf("loading index template: %w", err)
	}
	app.Handle(http.MethodGet, "", "/", ig.handler)

	// Register the assets.
	sub, err := fs.Sub(assets, "assets")
	if err != nil {
		return nil, fmt.Errorf("loading assets: %w", err)
	}
	fsrv := http.StripPrefix("/assets/", http.FileServer(http.FS(sub)))
	f := func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		fsrv.ServeHTTP(w, r)
		return nil
	}
	app.Handle(http.MethodGet, "", "/assets/*", f)

	return app, nil
}
