package validate_test

import (
	"testing"

	"github.com/ardanlabs/notechain/foundation/validate"
	"github.com/gagliardetto/solana-go"
)

const (
	success = "\u2713"
	failed  = "\u2717"
)

type request struct {
	Authority string `json:"authority" validate:"required,pubkey"`
	Lamports  uint64 `json:"lamports" validate:"required"`
}

func Test_Check(t *testing.T) {
	t.Log("Given the need to validate request values.")
	{
		t.Logf("\tTest 0:\tWhen handling a valid request.")
		{
			req := request{
				Authority: solana.NewWallet().PublicKey().String(),
				Lamports:  10,
			}
			if err := validate.Check(req); err != nil {
				t.Fatalf("\t%s\tShould be able to validate the request: %v", failed, err)
			}
			t.Logf("\t%s\tShould be able to validate the request.", success)
		}

		t.Logf("\tTest 1:\tWhen handling an invalid request.")
		{
			req := request{
				Authority: "not-a-key",
			}
			err := validate.Check(req)
			if !validate.IsFieldErrors(err) {
				t.Fatalf("\t%s\tShould get field errors: %v", failed, err)
			}
			t.Logf("\t%s\tShould get field errors.", success)

			fields := validate.GetFieldErrors(err).Fields()
			if len(fields) != 2 {
				t.Fatalf("\t%s\tShould get two failing fields: %v", failed, fields)
			}
			t.Logf("\t%s\tShould get two failing fields.", success)

			if fields["authority"] != "authority must be a base58 encoded public key" {
				t.Fatalf("\t%s\tShould get the public key message: %q", failed, fields["authority"])
			}
			t.Logf("\t%s\tShould get the public key message.", success)

			if fields["lamports"] != "lamports is a required field" {
				t.Fatalf("\t%s\tShould get the required message: %q", failed, fields["lamports"])
			}
			t.Logf("\t%s\tShould get the required message.", success)
		}
	}
}
