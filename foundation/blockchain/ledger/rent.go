package ledger

import "math/bits"

// AccountStorageOverhead is the number of bytes charged for every account
// on top of its data.
const AccountStorageOverhead = 128

// Rent represents the parameters used to calculate the deposit an account
// must hold to exist on the ledger.
type Rent struct {
	LamportsPerByteYear uint64 `json:"lamports_per_byte_year" yaml:"lamports_per_byte_year"`
	ExemptionThreshold  uint64 `json:"exemption_threshold" yaml:"exemption_threshold"`
}

// DefaultRent returns the rent parameters used when none are configured.
func DefaultRent() Rent {
	return Rent{
		LamportsPerByteYear: 3480,
		ExemptionThreshold:  2,
	}
}

// MinimumBalance returns the deposit required for an account holding the
// specified number of data bytes.
func (r Rent) MinimumBalance(space int) uint64 {
	return (AccountStorageOverhead + uint64(space)) * r.LamportsPerByteYear * r.ExemptionThreshold
}

// Clock represents the time an instruction is executed under.
type Clock struct {
	UnixTimestamp int64
}

// CheckedAdd adds the two values and reports false if the result overflows.
func CheckedAdd(a, b uint64) (uint64, bool) {
	sum, carry := bits.Add64(a, b, 0)
	return sum, carry == 0
}
