package weavetest

import (
	"crypto/rand"
	"testing"

	"github.com/iov-one/tokenswap"
	"github.com/iov-one/tokenswap/crypto"
)

// NewKey returns a new random signing key.
func NewKey() *crypto.PrivateKey {
	return crypto.GenPrivKeyEd25519()
}

// NewCondition returns a signature condition of a new random key.
func NewCondition() tokenswap.Condition {
	return NewKey().PublicKey().Condition()
}

// RandomAddr returns a valid random address generated on the fly.
func RandomAddr(t testing.TB) tokenswap.Address {
	t.Helper()
	raw := make([]byte, tokenswap.AddressLength)
	if _, err := rand.Read(raw); err != nil {
		t.Fatalf("cannot generate a random address: %s", err)
	}
	return tokenswap.Address(raw)
}

// ParseAddress takes an address in a human readable format and returns
// its binary representation. The test fails if the address cannot be parsed.
func ParseAddress(t testing.TB, encodedAddress string) tokenswap.Address {
	t.Helper()

	addr, err := tokenswap.ParseAddress(encodedAddress)
	if err != nil {
		t.Fatalf("cannot parse %q address: %s", encodedAddress, err)
	}
	return addr
}
