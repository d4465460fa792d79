package x

import (
	"context"

	"github.com/iov-one/tokenswap"
)

// Authenticator is an interface we can use to extract authentication info
// from the context. This should be passed into the constructor of
// handlers, so we can plug in another authentication system,
// rather than hard-coding x/auth for all extensions.
type Authenticator interface {
	// GetConditions reveals all Conditions fulfilled,
	// you may want GetAddresses helper
	GetConditions(tokenswap.Context) []tokenswap.Condition
	// HasAddress checks if any condition matches this address
	HasAddress(tokenswap.Context, tokenswap.Address) bool
}

// MultiAuth chains together many Authenticators into one
type MultiAuth struct {
	impls []Authenticator
}

var _ Authenticator = MultiAuth{}

// ChainAuth groups together a series of Authenticator
func ChainAuth(impls ...Authenticator) MultiAuth {
	return MultiAuth{impls}
}

// GetConditions combines all Conditions from all Authenticators
func (m MultiAuth) GetConditions(ctx tokenswap.Context) []tokenswap.Condition {
	var res []tokenswap.Condition
	for _, impl := range m.impls {
		add := impl.GetConditions(ctx)
		if len(add) > 0 {
			res = append(res, add...)
		}
	}
	return res
}

// HasAddress returns true iff any Authenticator support this
func (m MultiAuth) HasAddress(ctx tokenswap.Context, addr tokenswap.Address) bool {
	for _, impl := range m.impls {
		if impl.HasAddress(ctx, addr) {
			return true
		}
	}
	return false
}

// GetAddresses wraps the GetConditions method of any Authenticator
func GetAddresses(ctx tokenswap.Context, auth Authenticator) []tokenswap.Address {
	conds := auth.GetConditions(ctx)
	addrs := make([]tokenswap.Address, len(conds))
	for i, c := range conds {
		addrs[i] = c.Address()
	}
	return addrs
}

// MainSigner returns the first condition if any, otherwise nil
func MainSigner(ctx tokenswap.Context, auth Authenticator) tokenswap.Condition {
	signers := auth.GetConditions(ctx)
	if len(signers) == 0 {
		return nil
	}
	return signers[0]
}

// HasAllAddresses returns true if all elements in required are
// also in context.
func HasAllAddresses(ctx tokenswap.Context, auth Authenticator, required []tokenswap.Address) bool {
	for _, r := range required {
		if !auth.HasAddress(ctx, r) {
			return false
		}
	}
	return true
}

// HasNAddresses returns true if at least n elements in requested are
// also in context.
func HasNAddresses(ctx tokenswap.Context, auth Authenticator, required []tokenswap.Address, n int) bool {
	if n <= 0 {
		return true
	}

	for _, r := range required {
		if auth.HasAddress(ctx, r) {
			n--
			if n == 0 {
				return true
			}
		}
	}
	return false
}

// HasAllConditions returns true if all elements in required are
// also in context.
func HasAllConditions(ctx tokenswap.Context, auth Authenticator, required []tokenswap.Condition) bool {
	return HasNConditions(ctx, auth, required, len(required))
}

// HasNConditions returns true if at least n elements in requested are
// also in context.
// Useful for threshold conditions (1 of 3, 3 of 5, etc...)
func HasNConditions(ctx tokenswap.Context, auth Authenticator, requested []tokenswap.Condition, n int) bool {
	if n <= 0 {
		return true
	}
	conds := auth.GetConditions(ctx)
	for _, c := range requested {
		if hasCondition(conds, c) {
			n--
			if n == 0 {
				return true
			}
		}
	}
	return false
}

func hasCondition(conds []tokenswap.Condition, want tokenswap.Condition) bool {
	for _, c := range conds {
		if c.Equals(want) {
			return true
		}
	}
	return false
}

// ContextAuth authenticates the conditions stored in the context under a
// private key. It is used by extensions that sign on behalf of an address
// they control, such as an account derived from an escrow record.
type ContextAuth struct {
	key interface{}
}

var _ Authenticator = ContextAuth{}

// NewContextAuth returns an authenticator reading conditions stored under
// given key. Use a package private key type so that no other package can
// grant the same conditions.
func NewContextAuth(key interface{}) ContextAuth {
	return ContextAuth{key: key}
}

// With returns a context that authenticates all given conditions in
// addition to the ones already granted with this authenticator.
func (a ContextAuth) With(ctx tokenswap.Context, conds ...tokenswap.Condition) tokenswap.Context {
	all := append(append([]tokenswap.Condition(nil), a.GetConditions(ctx)...), conds...)
	return context.WithValue(ctx, a.key, all)
}

// GetConditions returns conditions previously set on this context
func (a ContextAuth) GetConditions(ctx tokenswap.Context) []tokenswap.Condition {
	// (val, ok) form to return nil instead of panic if unset
	val, _ := ctx.Value(a.key).([]tokenswap.Condition)
	return val
}

// HasAddress returns true iff this address is in GetConditions
func (a ContextAuth) HasAddress(ctx tokenswap.Context, addr tokenswap.Address) bool {
	for _, c := range a.GetConditions(ctx) {
		if addr.Equals(c.Address()) {
			return true
		}
	}
	return false
}
