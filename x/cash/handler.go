package cash

import (
	"fmt"

	"github.com/iov-one/tokenswap"
	"github.com/iov-one/tokenswap/errors"
	"github.com/iov-one/tokenswap/x"
)

// RegisterRoutes registers handlers for all messages of this package.
func RegisterRoutes(r tokenswap.Registry, auth x.Authenticator, ctrl Controller) {
	r.Handle(&CreateMintMsg{}, CreateMintHandler{auth: auth, ctrl: ctrl})
	r.Handle(&IssueMsg{}, IssueHandler{auth: auth, ctrl: ctrl})
	r.Handle(&SendMsg{}, SendHandler{auth: auth, ctrl: ctrl})
}

// RegisterQuery exposes mints as "/mints" and accounts as "/accounts".
func RegisterQuery(qr tokenswap.QueryRouter) {
	NewMintBucket().Register("mints", qr)
	NewAccountBucket().Register("accounts", qr)
}

// CreateMintHandler declares new mints.
type CreateMintHandler struct {
	auth x.Authenticator
	ctrl Controller
}

var _ tokenswap.Handler = CreateMintHandler{}

func (h CreateMintHandler) Check(ctx tokenswap.Context, db tokenswap.KVStore, tx tokenswap.Tx) (*tokenswap.CheckResult, error) {
	if _, err := h.validate(ctx, tx); err != nil {
		return nil, err
	}
	return &tokenswap.CheckResult{}, nil
}

// Deliver stores the mint and returns its address as the result data.
func (h CreateMintHandler) Deliver(ctx tokenswap.Context, db tokenswap.KVStore, tx tokenswap.Tx) (*tokenswap.DeliverResult, error) {
	msg, err := h.validate(ctx, tx)
	if err != nil {
		return nil, err
	}
	addr, err := h.ctrl.CreateMint(db, msg.Ticker, msg.Decimals, msg.Authority)
	if err != nil {
		return nil, err
	}
	return &tokenswap.DeliverResult{Data: addr, Log: fmt.Sprintf("mint %s created", msg.Ticker)}, nil
}

func (h CreateMintHandler) validate(ctx tokenswap.Context, tx tokenswap.Tx) (*CreateMintMsg, error) {
	var msg CreateMintMsg
	if err := tokenswap.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	if !h.auth.HasAddress(ctx, msg.Authority) {
		return nil, errors.Wrap(errors.ErrUnauthorized, "authority signature missing")
	}
	return &msg, nil
}

// IssueHandler creates new tokens.
type IssueHandler struct {
	auth x.Authenticator
	ctrl Controller
}

var _ tokenswap.Handler = IssueHandler{}

func (h IssueHandler) Check(ctx tokenswap.Context, db tokenswap.KVStore, tx tokenswap.Tx) (*tokenswap.CheckResult, error) {
	if _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &tokenswap.CheckResult{}, nil
}

func (h IssueHandler) Deliver(ctx tokenswap.Context, db tokenswap.KVStore, tx tokenswap.Tx) (*tokenswap.DeliverResult, error) {
	msg, mint, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	to, err := h.ctrl.EnsureAccount(db, msg.Mint, msg.Owner, mint.Authority)
	if err != nil {
		return nil, errors.Wrap(err, "destination account")
	}
	if err := h.ctrl.Issue(ctx, db, h.auth, to, msg.Amount); err != nil {
		return nil, err
	}
	return &tokenswap.DeliverResult{Data: to}, nil
}

func (h IssueHandler) validate(ctx tokenswap.Context, db tokenswap.KVStore, tx tokenswap.Tx) (*IssueMsg, *Mint, error) {
	var msg IssueMsg
	if err := tokenswap.LoadMsg(tx, &msg); err != nil {
		return nil, nil, errors.Wrap(err, "load msg")
	}
	mint, err := h.ctrl.Mint(db, msg.Mint)
	if err != nil {
		return nil, nil, err
	}
	if !h.auth.HasAddress(ctx, mint.Authority) {
		return nil, nil, errors.Wrap(errors.ErrUnauthorized, "authority signature missing")
	}
	return &msg, mint, nil
}

// SendHandler moves tokens between owners.
type SendHandler struct {
	auth x.Authenticator
	ctrl Controller
}

var _ tokenswap.Handler = SendHandler{}

func (h SendHandler) Check(ctx tokenswap.Context, db tokenswap.KVStore, tx tokenswap.Tx) (*tokenswap.CheckResult, error) {
	if _, err := h.validate(ctx, tx); err != nil {
		return nil, err
	}
	return &tokenswap.CheckResult{}, nil
}

func (h SendHandler) Deliver(ctx tokenswap.Context, db tokenswap.KVStore, tx tokenswap.Tx) (*tokenswap.DeliverResult, error) {
	msg, err := h.validate(ctx, tx)
	if err != nil {
		return nil, err
	}
	from := AccountAddress(msg.Mint, msg.Source)
	to, err := h.ctrl.EnsureAccount(db, msg.Mint, msg.Destination, msg.Source)
	if err != nil {
		return nil, errors.Wrap(err, "destination account")
	}
	if err := h.ctrl.Transfer(ctx, db, h.auth, from, to, msg.Amount); err != nil {
		return nil, err
	}
	return &tokenswap.DeliverResult{}, nil
}

func (h SendHandler) validate(ctx tokenswap.Context, tx tokenswap.Tx) (*SendMsg, error) {
	var msg SendMsg
	if err := tokenswap.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	if !h.auth.HasAddress(ctx, msg.Source) {
		return nil, errors.Wrap(errors.ErrUnauthorized, "source signature missing")
	}
	return &msg, nil
}
