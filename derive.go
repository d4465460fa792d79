package tokenswap

import (
	"crypto/sha256"

	"filippo.io/edwards25519"
	"github.com/iov-one/tokenswap/errors"
)

const (
	// MaxSeeds is the maximum number of seeds a derived address can be
	// built from.
	MaxSeeds = 16
	// MaxSeedLength is the maximum length of a single seed.
	MaxSeedLength = 32
)

// derivedMarker separates derived digests from any other hashed content.
const derivedMarker = "DerivedAddress"

// DeriveAddress computes a deterministic address from the given seeds. It
// returns the address together with the bump that was used to compute it.
//
// Bumps are tried starting from 255 downwards. The first bump for which the
// seed digest is not a valid ed25519 point is used, so that no private key
// can ever sign for the derived address. Store the bump, as the same address
// can then be recreated with CreateDerivedAddress without searching.
func DeriveAddress(ext, typ string, seeds ...[]byte) (Address, uint8, error) {
	cond, bump, err := DeriveCondition(ext, typ, seeds...)
	if err != nil {
		return nil, 0, err
	}
	return cond.Address(), bump, nil
}

// DeriveCondition works like DeriveAddress but returns the condition that
// the address is a hash of. Holding this condition in the context is what
// authorizes actions on behalf of the derived address.
func DeriveCondition(ext, typ string, seeds ...[]byte) (Condition, uint8, error) {
	if err := validateSeeds(seeds); err != nil {
		return nil, 0, err
	}
	for bump := 255; bump >= 0; bump-- {
		digest := derivedDigest(uint8(bump), seeds)
		if isOnCurve(digest) {
			continue
		}
		return NewCondition(ext, typ, digest), uint8(bump), nil
	}
	return nil, 0, errors.Wrap(errors.ErrState, "unable to find a valid bump")
}

// CreateDerivedAddress recreates an address previously found with
// DeriveAddress, using the stored bump.
func CreateDerivedAddress(ext, typ string, bump uint8, seeds ...[]byte) (Address, error) {
	cond, err := CreateDerivedCondition(ext, typ, bump, seeds...)
	if err != nil {
		return nil, err
	}
	return cond.Address(), nil
}

// CreateDerivedCondition recreates a condition previously found with
// DeriveCondition, using the stored bump.
func CreateDerivedCondition(ext, typ string, bump uint8, seeds ...[]byte) (Condition, error) {
	if err := validateSeeds(seeds); err != nil {
		return nil, err
	}
	digest := derivedDigest(bump, seeds)
	if isOnCurve(digest) {
		return nil, errors.Wrapf(errors.ErrInput, "bump %d derives a point on the ed25519 curve", bump)
	}
	return NewCondition(ext, typ, digest), nil
}

func validateSeeds(seeds [][]byte) error {
	if len(seeds) > MaxSeeds {
		return errors.Wrapf(errors.ErrInput, "too many seeds: %d", len(seeds))
	}
	for i, s := range seeds {
		if len(s) > MaxSeedLength {
			return errors.Wrapf(errors.ErrInput, "seed %d too long", i)
		}
	}
	return nil
}

func derivedDigest(bump uint8, seeds [][]byte) []byte {
	h := sha256.New()
	for _, s := range seeds {
		// Length prefix each seed, so that moving bytes between
		// seeds produces a different digest.
		h.Write([]byte{byte(len(s))})
		h.Write(s)
	}
	h.Write([]byte{bump})
	h.Write([]byte(derivedMarker))
	return h.Sum(nil)
}

// isOnCurve returns true if given 32 bytes decode to a valid ed25519 point.
func isOnCurve(digest []byte) bool {
	_, err := new(edwards25519.Point).SetBytes(digest)
	return err == nil
}
