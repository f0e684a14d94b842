package mid

import (
	"context"
	"fmt"
	"net/http"

	"github.com/ardanlabs/notechain/business/web/auth"
	"github.com/ardanlabs/notechain/business/web/errs"
	"github.com/ardanlabs/notechain/foundation/web"
)

// Authenticate validates a JWT from the `Authorization` header and requires
// the claims to carry at least one of the roles.
func Authenticate(a *auth.Auth, roles ...string) web.Middleware {

	// This is the actual middleware function to be executed.
	m := func(handler web.Handler) web.Handler {

		// Create the handler that will be attached in the middleware chain.
		h := func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
			claims, err := a.Authenticate(r.Header.Get("authorization"))
			if err != nil {
				return errs.NewTrusted(err, http.StatusUnauthorized)
			}

			if !claims.Authorized(roles...) {
				err := fmt.Errorf("subject %q with roles %v: %w", claims.Subject, claims.Roles, auth.ErrForbidden)
				return errs.NewTrusted(err, http.StatusForbidden)
			}

			return handler(ctx, w, r)
		}

		return h
	}

	return m
}
