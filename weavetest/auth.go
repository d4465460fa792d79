package weavetest

import (
	"context"
	"fmt"

	"github.com/iov-one/tokenswap"
)

// Auth is a mock implementing x.Authenticator interface.
//
// This structure authenticates any of referenced conditions.
// You can use either Signer or Signers (or both) attributes to reference
// conditions. Each time all signers (regardless which attribute) are
// considered.
type Auth struct {
	// Signer represents an authentication of a single signer.
	Signer tokenswap.Condition

	// Signers represents an authentication of multiple signers.
	Signers []tokenswap.Condition
}

func (a *Auth) GetConditions(tokenswap.Context) []tokenswap.Condition {
	if a.Signer != nil {
		return append(a.Signers, a.Signer)
	}
	return a.Signers
}

func (a *Auth) HasAddress(ctx tokenswap.Context, addr tokenswap.Address) bool {
	return hasAddress(a.GetConditions(ctx), addr)
}

// CtxAuth is a mock implementing x.Authenticator interface.
//
// This implementation is using context to store and retrieve conditions.
type CtxAuth struct {
	// Key used to set and retrieve conditions from the context. For
	// convenience only string type keys are allowed.
	Key string
}

func (a *CtxAuth) SetConditions(ctx tokenswap.Context, conds ...tokenswap.Condition) tokenswap.Context {
	return context.WithValue(ctx, a.Key, conds)
}

func (a *CtxAuth) GetConditions(ctx tokenswap.Context) []tokenswap.Condition {
	val := ctx.Value(a.Key)
	if val == nil {
		return nil
	}
	conds, ok := val.([]tokenswap.Condition)
	if !ok {
		panic(fmt.Sprintf("instead of []tokenswap.Condition got %T", val))
	}
	return conds
}

func (a *CtxAuth) HasAddress(ctx tokenswap.Context, addr tokenswap.Address) bool {
	return hasAddress(a.GetConditions(ctx), addr)
}

func hasAddress(conds []tokenswap.Condition, addr tokenswap.Address) bool {
	for _, c := range conds {
		if addr.Equals(c.Address()) {
			return true
		}
	}
	return false
}
