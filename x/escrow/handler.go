package escrow

import (
	"github.com/iov-one/tokenswap"
	"github.com/iov-one/tokenswap/errors"
	"github.com/iov-one/tokenswap/x"
)

// RegisterRoutes registers handlers for all escrow messages.
func RegisterRoutes(r tokenswap.Registry, auth x.Authenticator, ctrl Controller) {
	r.Handle(&OpenMsg{}, OpenHandler{auth: auth, ctrl: ctrl})
	r.Handle(&CancelMsg{}, CancelHandler{auth: auth, ctrl: ctrl})
	r.Handle(&FulfillMsg{}, FulfillHandler{auth: auth, ctrl: ctrl})
}

// RegisterQuery exposes escrows as "/escrows" and "/escrows/maker".
func RegisterQuery(qr tokenswap.QueryRouter) {
	NewBucket().Register("escrows", qr)
}

// OpenHandler locks the maker deposit in a new escrow.
type OpenHandler struct {
	auth x.Authenticator
	ctrl Controller
}

var _ tokenswap.Handler = OpenHandler{}

func (h OpenHandler) Check(ctx tokenswap.Context, db tokenswap.KVStore, tx tokenswap.Tx) (*tokenswap.CheckResult, error) {
	if _, err := h.validate(ctx, tx); err != nil {
		return nil, err
	}
	return &tokenswap.CheckResult{}, nil
}

// Deliver opens the escrow and returns its address as the result data.
func (h OpenHandler) Deliver(ctx tokenswap.Context, db tokenswap.KVStore, tx tokenswap.Tx) (*tokenswap.DeliverResult, error) {
	msg, err := h.validate(ctx, tx)
	if err != nil {
		return nil, err
	}
	addr, err := h.ctrl.Open(ctx, db, h.auth, OpenArgs{
		Maker:         msg.Maker,
		Seed:          msg.Seed,
		MintDeposit:   msg.MintDeposit,
		MintReceive:   msg.MintReceive,
		DepositAmount: msg.DepositAmount,
		ReceiveAmount: msg.ReceiveAmount,
	})
	if err != nil {
		return nil, err
	}
	return &tokenswap.DeliverResult{Data: addr}, nil
}

func (h OpenHandler) validate(ctx tokenswap.Context, tx tokenswap.Tx) (*OpenMsg, error) {
	var msg OpenMsg
	if err := tokenswap.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	// Maker must sign, if not set it defaults to the main signer.
	if msg.Maker == nil {
		msg.Maker = x.MainSigner(ctx, h.auth).Address()
	}
	if !h.auth.HasAddress(ctx, msg.Maker) {
		return nil, errors.Wrap(errors.ErrUnauthorized, "maker signature missing")
	}
	return &msg, nil
}

// CancelHandler returns the deposit to the maker.
type CancelHandler struct {
	auth x.Authenticator
	ctrl Controller
}

var _ tokenswap.Handler = CancelHandler{}

func (h CancelHandler) Check(ctx tokenswap.Context, db tokenswap.KVStore, tx tokenswap.Tx) (*tokenswap.CheckResult, error) {
	if _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &tokenswap.CheckResult{}, nil
}

func (h CancelHandler) Deliver(ctx tokenswap.Context, db tokenswap.KVStore, tx tokenswap.Tx) (*tokenswap.DeliverResult, error) {
	msg, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	if err := h.ctrl.Cancel(ctx, db, h.auth, msg.Escrow); err != nil {
		return nil, err
	}
	return &tokenswap.DeliverResult{Data: msg.Escrow}, nil
}

func (h CancelHandler) validate(ctx tokenswap.Context, db tokenswap.ReadOnlyKVStore, tx tokenswap.Tx) (*CancelMsg, error) {
	var msg CancelMsg
	if err := tokenswap.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	view, err := h.ctrl.View(db, msg.Escrow)
	if err != nil {
		return nil, err
	}
	if !h.auth.HasAddress(ctx, view.Escrow.Maker) {
		return nil, errors.Wrap(errors.ErrUnauthorized, "only the maker can cancel")
	}
	return &msg, nil
}

// FulfillHandler completes the swap on behalf of the taker.
type FulfillHandler struct {
	auth x.Authenticator
	ctrl Controller
}

var _ tokenswap.Handler = FulfillHandler{}

func (h FulfillHandler) Check(ctx tokenswap.Context, db tokenswap.KVStore, tx tokenswap.Tx) (*tokenswap.CheckResult, error) {
	if _, err := h.validate(ctx, tx); err != nil {
		return nil, err
	}
	return &tokenswap.CheckResult{}, nil
}

func (h FulfillHandler) Deliver(ctx tokenswap.Context, db tokenswap.KVStore, tx tokenswap.Tx) (*tokenswap.DeliverResult, error) {
	msg, err := h.validate(ctx, tx)
	if err != nil {
		return nil, err
	}
	if err := h.ctrl.Fulfill(ctx, db, h.auth, msg.Escrow, msg.Taker); err != nil {
		return nil, err
	}
	return &tokenswap.DeliverResult{Data: msg.Escrow}, nil
}

func (h FulfillHandler) validate(ctx tokenswap.Context, tx tokenswap.Tx) (*FulfillMsg, error) {
	var msg FulfillMsg
	if err := tokenswap.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	if msg.Taker == nil {
		msg.Taker = x.MainSigner(ctx, h.auth).Address()
	}
	if !h.auth.HasAddress(ctx, msg.Taker) {
		return nil, errors.Wrap(errors.ErrUnauthorized, "taker signature missing")
	}
	return &msg, nil
}
