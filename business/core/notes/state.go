package notes

import (
	"bytes"
	"crypto/sha256"
	"encoding/binary"
	"unicode/utf8"

	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"
)

// Byte offsets of each field in the persisted note account.
const (
	OffsetAuthority = 8
	OffsetBump      = OffsetAuthority + 32
	OffsetUpvotes   = OffsetBump + 1
	OffsetTipTotal  = OffsetUpvotes + 8
	OffsetCreatedAt = OffsetTipTotal + 8
	OffsetUpdatedAt = OffsetCreatedAt + 8
	OffsetContent   = OffsetUpdatedAt + 8
)

// baseSize is the size of a note account without any content.
const baseSize = OffsetContent + 4

// AccountDiscriminator is the 8 byte tag that starts every note account.
var AccountDiscriminator = discriminator("account:Note")

// SpaceFor returns the number of data bytes a note account needs to hold
// content of the specified byte length.
func SpaceFor(contentLen int) int {
	return baseSize + contentLen
}

// MaxSpace is the largest a note account can be.
func MaxSpace() int {
	return SpaceFor(MaxContentLength)
}

// =============================================================================

// Note is the single record an author owns.
type Note struct {
	Authority solana.PublicKey `json:"authority"`
	Bump      uint8            `json:"bump"`
	Upvotes   uint64           `json:"upvotes"`
	TipTotal  uint64           `json:"tip_total"`
	CreatedAt int64            `json:"created_at"`
	UpdatedAt int64            `json:"updated_at"`
	Content   string           `json:"content"`
}

// MarshalBinary implements the encoding.BinaryMarshaler interface and
// produces the account layout, discriminator first.
func (n Note) MarshalBinary() ([]byte, error) {
	var buf bytes.Buffer
	buf.Grow(SpaceFor(len(n.Content)))

	enc := bin.NewBorshEncoder(&buf)
	if err := enc.WriteBytes(AccountDiscriminator[:], false); err != nil {
		return nil, err
	}
	if err := enc.WriteBytes(n.Authority[:], false); err != nil {
		return nil, err
	}
	if err := enc.WriteUint8(n.Bump); err != nil {
		return nil, err
	}
	if err := enc.WriteUint64(n.Upvotes, binary.LittleEndian); err != nil {
		return nil, err
	}
	if err := enc.WriteUint64(n.TipTotal, binary.LittleEndian); err != nil {
		return nil, err
	}
	if err := enc.WriteInt64(n.CreatedAt, binary.LittleEndian); err != nil {
		return nil, err
	}
	if err := enc.WriteInt64(n.UpdatedAt, binary.LittleEndian); err != nil {
		return nil, err
	}
	if err := writeString(enc, n.Content); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

// UnmarshalBinary implements the encoding.BinaryUnmarshaler interface. Any
// bytes following the content are ignored.
func (n *Note) UnmarshalBinary(data []byte) error {
	if len(data) < len(AccountDiscriminator) || !bytes.Equal(data[:len(AccountDiscriminator)], AccountDiscriminator[:]) {
		return ErrAccountDiscriminatorMismatch
	}

	dec := bin.NewBorshDecoder(data[len(AccountDiscriminator):])

	authority, err := dec.ReadNBytes(solana.PublicKeyLength)
	if err != nil {
		return ErrAccountDidNotDeserialize
	}
	bump, err := dec.ReadUint8()
	if err != nil {
		return ErrAccountDidNotDeserialize
	}
	upvotes, err := dec.ReadUint64(binary.LittleEndian)
	if err != nil {
		return ErrAccountDidNotDeserialize
	}
	tipTotal, err := dec.ReadUint64(binary.LittleEndian)
	if err != nil {
		return ErrAccountDidNotDeserialize
	}
	createdAt, err := dec.ReadInt64(binary.LittleEndian)
	if err != nil {
		return ErrAccountDidNotDeserialize
	}
	updatedAt, err := dec.ReadInt64(binary.LittleEndian)
	if err != nil {
		return ErrAccountDidNotDeserialize
	}
	content, err := readString(dec)
	if err != nil {
		return ErrAccountDidNotDeserialize
	}

	*n = Note{
		Authority: solana.PublicKeyFromBytes(authority),
		Bump:      bump,
		Upvotes:   upvotes,
		TipTotal:  tipTotal,
		CreatedAt: createdAt,
		UpdatedAt: updatedAt,
		Content:   content,
	}

	return nil
}

// Decode converts the account data into a note.
func Decode(data []byte) (Note, error) {
	var n Note
	if err := n.UnmarshalBinary(data); err != nil {
		return Note{}, err
	}
	return n, nil
}

// =============================================================================

// discriminator returns the first 8 bytes of the sha256 of the preimage.
func discriminator(preimage string) [8]byte {
	sum := sha256.Sum256([]byte(preimage))

	var d [8]byte
	copy(d[:], sum[:8])
	return d
}

// writeString writes a u32 length prefix followed by the string bytes.
func writeString(enc *bin.Encoder, s string) error {
	if err := enc.WriteUint32(uint32(len(s)), binary.LittleEndian); err != nil {
		return err
	}
	return enc.WriteBytes([]byte(s), false)
}

// readString reads a u32 length prefixed UTF-8 string.
func readString(dec *bin.Decoder) (string, error) {
	l, err := dec.ReadUint32(binary.LittleEndian)
	if err != nil {
		return "", err
	}

	b, err := dec.ReadNBytes(int(l))
	if err != nil {
		return "", err
	}

	if !utf8.Valid(b) {
		return "", ErrInstructionDidNotDeserialize
	}

	return string(b), nil
}
