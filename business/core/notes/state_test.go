package notes_test

import (
	"bytes"
	"crypto/sha256"
	"encoding/binary"
	"errors"
	"testing"

	"github.com/ardanlabs/notechain/business/core/notes"
	"github.com/gagliardetto/solana-go"
)

func Test_NoteLayout(t *testing.T) {
	t.Log("Given the need to persist notes with a fixed layout.")
	{
		testID := 0
		t.Logf("\tTest %d:\tWhen encoding a note.", testID)
		{
			n := notes.Note{
				Authority: solana.NewWallet().PublicKey(),
				Bump:      254,
				Upvotes:   7,
				TipTotal:  123_456,
				CreatedAt: 1_700_000_000,
				UpdatedAt: 1_700_000_100,
				Content:   "héllo",
			}

			data, err := n.MarshalBinary()
			if err != nil {
				t.Fatalf("\t%s\tTest %d:\tShould be able to encode the note: %v", failed, testID, err)
			}
			t.Logf("\t%s\tTest %d:\tShould be able to encode the note.", success, testID)

			if len(data) != notes.SpaceFor(len(n.Content)) {
				t.Fatalf("\t%s\tTest %d:\tShould encode %d bytes, got %d.", failed, testID, notes.SpaceFor(len(n.Content)), len(data))
			}
			t.Logf("\t%s\tTest %d:\tShould encode the exact account size.", success, testID)

			sum := sha256.Sum256([]byte("account:Note"))
			if !bytes.Equal(data[:8], sum[:8]) {
				t.Fatalf("\t%s\tTest %d:\tShould start with the account discriminator.", failed, testID)
			}
			t.Logf("\t%s\tTest %d:\tShould start with the account discriminator.", success, testID)

			le := binary.LittleEndian
			switch {
			case !bytes.Equal(data[notes.OffsetAuthority:notes.OffsetAuthority+32], n.Authority.Bytes()):
				t.Fatalf("\t%s\tTest %d:\tShould place the authority at offset %d.", failed, testID, notes.OffsetAuthority)
			case data[notes.OffsetBump] != n.Bump:
				t.Fatalf("\t%s\tTest %d:\tShould place the bump at offset %d.", failed, testID, notes.OffsetBump)
			case le.Uint64(data[notes.OffsetUpvotes:]) != n.Upvotes:
				t.Fatalf("\t%s\tTest %d:\tShould place upvotes at offset %d.", failed, testID, notes.OffsetUpvotes)
			case le.Uint64(data[notes.OffsetTipTotal:]) != n.TipTotal:
				t.Fatalf("\t%s\tTest %d:\tShould place the tip total at offset %d.", failed, testID, notes.OffsetTipTotal)
			case int64(le.Uint64(data[notes.OffsetCreatedAt:])) != n.CreatedAt:
				t.Fatalf("\t%s\tTest %d:\tShould place created_at at offset %d.", failed, testID, notes.OffsetCreatedAt)
			case int64(le.Uint64(data[notes.OffsetUpdatedAt:])) != n.UpdatedAt:
				t.Fatalf("\t%s\tTest %d:\tShould place updated_at at offset %d.", failed, testID, notes.OffsetUpdatedAt)
			case int(le.Uint32(data[notes.OffsetContent:])) != len(n.Content):
				t.Fatalf("\t%s\tTest %d:\tShould prefix the content with its byte length.", failed, testID)
			case string(data[notes.OffsetContent+4:]) != n.Content:
				t.Fatalf("\t%s\tTest %d:\tShould place the content last.", failed, testID)
			}
			t.Logf("\t%s\tTest %d:\tShould place every field at its offset.", success, testID)

			got, err := notes.Decode(data)
			if err != nil || got != n {
				t.Fatalf("\t%s\tTest %d:\tShould decode back to the same note: %v", failed, testID, err)
			}
			t.Logf("\t%s\tTest %d:\tShould decode back to the same note.", success, testID)
		}

		testID++
		t.Logf("\tTest %d:\tWhen decoding data that is not a note.", testID)
		{
			if _, err := notes.Decode([]byte("not a note at all")); !errors.Is(err, notes.ErrAccountDiscriminatorMismatch) {
				t.Fatalf("\t%s\tTest %d:\tShould fail with a discriminator mismatch: %v", failed, testID, err)
			}
			t.Logf("\t%s\tTest %d:\tShould fail with a discriminator mismatch.", success, testID)

			n := notes.Note{Content: "truncated"}
			data, _ := n.MarshalBinary()
			if _, err := notes.Decode(data[:len(data)-3]); !errors.Is(err, notes.ErrAccountDidNotDeserialize) {
				t.Fatalf("\t%s\tTest %d:\tShould fail to deserialize a truncated note: %v", failed, testID, err)
			}
			t.Logf("\t%s\tTest %d:\tShould fail to deserialize a truncated note.", success, testID)
		}

		testID++
		t.Logf("\tTest %d:\tWhen sizing the largest note.", testID)
		{
			if notes.MaxSpace() != 8+32+1+8+8+8+8+4+notes.MaxContentLength {
				t.Fatalf("\t%s\tTest %d:\tShould size the largest note at %d bytes.", failed, testID, notes.MaxSpace())
			}
			t.Logf("\t%s\tTest %d:\tShould size the largest note at %d bytes.", success, testID, notes.MaxSpace())
		}
	}
}
