package auth_test

import (
	"errors"
	"testing"
	"time"

	"github.com/ardanlabs/notechain/business/web/auth"
	"github.com/golang-jwt/jwt/v5"
)

const (
	success = "\u2713"
	failed  = "\u2717"
)

func Test_Auth(t *testing.T) {
	now := time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)
	clock := func() time.Time { return now }

	t.Log("Given the need to authorize access to the private api.")
	{
		t.Logf("\tTest 0:\tWhen handling an admin token.")
		{
			a, err := auth.New("node-secret", clock)
			if err != nil {
				t.Fatalf("\t%s\tShould be able to construct auth: %v", failed, err)
			}
			t.Logf("\t%s\tShould be able to construct auth.", success)

			token, err := a.GenerateToken("operator", time.Hour, auth.RoleAdmin)
			if err != nil {
				t.Fatalf("\t%s\tShould be able to generate a token: %v", failed, err)
			}
			t.Logf("\t%s\tShould be able to generate a token.", success)

			claims, err := a.Authenticate("Bearer " + token)
			if err != nil {
				t.Fatalf("\t%s\tShould be able to authenticate the token: %v", failed, err)
			}
			t.Logf("\t%s\tShould be able to authenticate the token.", success)

			if claims.Subject != "operator" || !claims.Authorized(auth.RoleAdmin) {
				t.Fatalf("\t%s\tShould get back the admin claims: %+v", failed, claims)
			}
			t.Logf("\t%s\tShould get back the admin claims.", success)

			if _, err := a.Authenticate(token); !errors.Is(err, auth.ErrMissingToken) {
				t.Fatalf("\t%s\tShould reject a header without a bearer: %v", failed, err)
			}
			t.Logf("\t%s\tShould reject a header without a bearer.", success)

			other, _ := auth.New("other-secret", clock)
			if _, err := other.ValidateToken(token); !errors.Is(err, jwt.ErrTokenSignatureInvalid) {
				t.Fatalf("\t%s\tShould reject a token signed with another secret: %v", failed, err)
			}
			t.Logf("\t%s\tShould reject a token signed with another secret.", success)
		}

		t.Logf("\tTest 1:\tWhen handling an expired token.")
		{
			a, _ := auth.New("node-secret", clock)
			token, err := a.GenerateToken("operator", -time.Minute, auth.RoleAdmin)
			if err != nil {
				t.Fatalf("\t%s\tShould be able to generate a token: %v", failed, err)
			}

			if _, err := a.ValidateToken(token); !errors.Is(err, jwt.ErrTokenExpired) {
				t.Fatalf("\t%s\tShould reject the expired token: %v", failed, err)
			}
			t.Logf("\t%s\tShould reject the expired token.", success)
		}

		t.Logf("\tTest 2:\tWhen constructing without a secret.")
		{
			if _, err := auth.New("", nil); !errors.Is(err, auth.ErrMissingSecret) {
				t.Fatalf("\t%s\tShould require a secret: %v", failed, err)
			}
			t.Logf("\t%s\tShould require a secret.", success)
		}
	}
}
