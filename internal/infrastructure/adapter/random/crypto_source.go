package random

import (
	"crypto/rand"
	"math/big"

	"github.com/amirhossein-jamali/atm-console/internal/domain/port/core"
)

// CryptoSource draws identifiers from the operating system's secure generator.
// STAN and RRN values must not be predictable from earlier ones.
type CryptoSource struct{}

// NewCryptoSource creates a random source backed by crypto/rand
func NewCryptoSource() core.RandomSource {
	return CryptoSource{}
}

// Int63n returns a uniform value in [0, n). It panics if n <= 0 or the system generator fails.
func (CryptoSource) Int63n(n int64) int64 {
	if n <= 0 {
		panic("random: invalid argument to Int63n")
	}
	v, err := rand.Int(rand.Reader, big.NewInt(n))
	if err != nil {
		panic("random: system generator failed: " + err.Error())
	}
	return v.Int64()
}
