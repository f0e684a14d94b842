// Package commands contains the functionality for the set of commands
// currently supported by the admin tool.
package commands

import (
	"fmt"
	"time"

	"github.com/ardanlabs/notechain/business/web/auth"
)

// Token issues an admin token for the node's private api.
func Token(a *auth.Auth, subject string, ttl time.Duration) error {
	token, err := a.GenerateToken(subject, ttl, auth.RoleAdmin)
	if err != nil {
		return err
	}

	fmt.Printf("-----BEGIN TOKEN-----\n%s\n-----END TOKEN-----\n", token)
	return nil
}
