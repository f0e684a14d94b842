package ledger

import (
	"bytes"

	"github.com/gagliardetto/solana-go"
)

// SystemProgramID is the owner of every account that has not been assigned
// to a program.
var SystemProgramID = solana.SystemProgramID

// Account represents information stored in the ledger for an individual
// account address.
type Account struct {
	Lamports uint64           `json:"lamports"`
	Owner    solana.PublicKey `json:"owner"`
	Data     []byte           `json:"data"`
}

// newAccount constructs the value read for an address that holds nothing.
func newAccount() Account {
	return Account{
		Owner: SystemProgramID,
	}
}

// Clone returns a deep copy of the account.
func (a Account) Clone() Account {
	cpy := a
	if a.Data != nil {
		cpy.Data = make([]byte, len(a.Data))
		copy(cpy.Data, a.Data)
	}
	return cpy
}

// IsEmpty reports whether the account holds no value and no data.
func (a Account) IsEmpty() bool {
	return a.Lamports == 0 && len(a.Data) == 0
}

// KeyedAccount pairs an account with its address.
type KeyedAccount struct {
	PublicKey solana.PublicKey `json:"pubkey"`
	Account   Account          `json:"account"`
}

// =============================================================================

// Filter represents the behavior required to select accounts during a
// full scan of the ledger.
type Filter interface {
	Match(account Account) bool
}

// Memcmp matches accounts whose data holds the specified bytes at the
// specified offset.
type Memcmp struct {
	Offset int
	Bytes  []byte
}

// Match implements the Filter interface.
func (m Memcmp) Match(account Account) bool {
	end := m.Offset + len(m.Bytes)
	if m.Offset < 0 || end > len(account.Data) {
		return false
	}
	return bytes.Equal(account.Data[m.Offset:end], m.Bytes)
}

// DataSize matches accounts whose data is exactly the specified length.
type DataSize int

// Match implements the Filter interface.
func (ds DataSize) Match(account Account) bool {
	return len(account.Data) == int(ds)
}

// =============================================================================

// byPublicKey provides sorting support by the account address.
type byPublicKey []KeyedAccount

// Len returns the number of accounts in the list.
func (ba byPublicKey) Len() int {
	return len(ba)
}

// Less helps to sort the list by address in ascending order.
func (ba byPublicKey) Less(i, j int) bool {
	return bytes.Compare(ba[i].PublicKey[:], ba[j].PublicKey[:]) < 0
}

// Swap moves accounts in the order of the address value.
func (ba byPublicKey) Swap(i, j int) {
	ba[i], ba[j] = ba[j], ba[i]
}
