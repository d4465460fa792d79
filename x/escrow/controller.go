package escrow

import (
	"github.com/iov-one/tokenswap"
	"github.com/iov-one/tokenswap/errors"
	"github.com/iov-one/tokenswap/orm"
	"github.com/iov-one/tokenswap/x"
	"github.com/iov-one/tokenswap/x/cash"
)

// Controller runs the escrow lifecycle. Every operation either applies all
// of its changes or none.
type Controller interface {
	// Open locks deposit tokens of mintDeposit owned by the maker in a new
	// vault and stores the escrow. It returns the escrow address.
	Open(ctx tokenswap.Context, db tokenswap.KVStore, auth x.Authenticator, o OpenArgs) (tokenswap.Address, error)
	// Cancel returns the deposit to the maker and destroys the escrow.
	// Only the maker is allowed to cancel.
	Cancel(ctx tokenswap.Context, db tokenswap.KVStore, auth x.Authenticator, escrow tokenswap.Address) error
	// Fulfill pays the wanted amount from the taker to the maker, moves
	// the deposit to the taker and destroys the escrow.
	Fulfill(ctx tokenswap.Context, db tokenswap.KVStore, auth x.Authenticator, escrow, taker tokenswap.Address) error

	// View returns an open escrow together with its vault balance.
	View(db tokenswap.ReadOnlyKVStore, escrow tokenswap.Address) (*View, error)
	// ByMaker returns all open escrows of given maker.
	ByMaker(db tokenswap.ReadOnlyKVStore, maker tokenswap.Address) ([]*View, error)
}

// OpenArgs describes an escrow to open.
type OpenArgs struct {
	Maker         tokenswap.Address
	Seed          uint64
	MintDeposit   tokenswap.Address
	MintReceive   tokenswap.Address
	DepositAmount uint64
	ReceiveAmount uint64
}

// View is an open escrow as seen by a client.
type View struct {
	Address tokenswap.Address
	Escrow  *Escrow
	Vault   tokenswap.Address
	// Deposit is the current vault balance.
	Deposit uint64
}

type vaultCtxKey int

// vaultAuth is what the controller signs vault transfers with. Only this
// package can put conditions under its key.
var vaultAuth = x.NewContextAuth(vaultCtxKey(0))

type controller struct {
	bucket orm.ModelBucket
	cash   cash.Controller
}

var _ Controller = (*controller)(nil)

// NewController returns an escrow controller moving tokens using given
// ledger.
func NewController(ledger cash.Controller) Controller {
	return &controller{
		bucket: NewBucket(),
		cash:   ledger,
	}
}

func (c *controller) Open(ctx tokenswap.Context, db tokenswap.KVStore, auth x.Authenticator, o OpenArgs) (tokenswap.Address, error) {
	if o.DepositAmount == 0 || o.ReceiveAmount == 0 {
		return nil, errors.Wrap(errors.ErrAmount, "deposit and receive amounts must be greater than zero")
	}
	if !auth.HasAddress(ctx, o.Maker) {
		return nil, errors.Wrap(errors.ErrUnauthorized, "maker signature missing")
	}
	makerAcc := cash.AccountAddress(o.MintDeposit, o.Maker)
	if err := c.requireBalance(db, makerAcc, o.DepositAmount); err != nil {
		return nil, errors.Wrap(err, "maker")
	}

	addr, bump, err := RecordAddress(o.Maker, o.Seed)
	if err != nil {
		return nil, errors.Wrap(err, "cannot derive escrow address")
	}
	switch err := c.bucket.Has(db, addr); {
	case err == nil:
		return nil, errors.Wrapf(errors.ErrDuplicate, "escrow with seed %d", o.Seed)
	case !errors.ErrNotFound.Is(err):
		return nil, err
	}
	if _, err := c.cash.Mint(db, o.MintReceive); err != nil {
		return nil, errors.Wrap(err, "receive mint")
	}
	vault, vaultBump, err := VaultAddress(addr)
	if err != nil {
		return nil, errors.Wrap(err, "cannot derive vault address")
	}

	escrow := &Escrow{
		Metadata:      &tokenswap.Metadata{Schema: 1},
		Seed:          o.Seed,
		Maker:         o.Maker,
		MintDeposit:   o.MintDeposit,
		MintReceive:   o.MintReceive,
		AmountReceive: o.ReceiveAmount,
		Bump:          uint32(bump),
		VaultBump:     uint32(vaultBump),
	}
	err = tokenswap.Atomic(db, func(db tokenswap.KVStore) error {
		if err := c.cash.CreateAccount(db, vault, o.MintDeposit, addr, o.Maker); err != nil {
			return errors.Wrap(err, "cannot create vault")
		}
		if err := c.cash.Transfer(ctx, db, auth, makerAcc, vault, o.DepositAmount); err != nil {
			return errors.Wrap(err, "cannot lock deposit")
		}
		return c.bucket.Put(db, addr, escrow)
	})
	if err != nil {
		return nil, err
	}

	tokenswap.GetLogger(ctx).Info("escrow opened",
		"escrow", addr, "maker", o.Maker, "deposit", o.DepositAmount, "receive", o.ReceiveAmount)
	return addr, nil
}

func (c *controller) Cancel(ctx tokenswap.Context, db tokenswap.KVStore, auth x.Authenticator, addr tokenswap.Address) error {
	escrow, err := c.load(db, addr)
	if err != nil {
		return err
	}
	if !auth.HasAddress(ctx, escrow.Maker) {
		return errors.Wrap(errors.ErrUnauthorized, "only the maker can cancel")
	}

	err = tokenswap.Atomic(db, func(db tokenswap.KVStore) error {
		refund, err := c.cash.EnsureAccount(db, escrow.MintDeposit, escrow.Maker, escrow.Maker)
		if err != nil {
			return errors.Wrap(err, "maker deposit account")
		}
		return c.release(ctx, db, addr, escrow, refund)
	})
	if err != nil {
		return err
	}

	tokenswap.GetLogger(ctx).Info("escrow canceled", "escrow", addr, "maker", escrow.Maker)
	return nil
}

func (c *controller) Fulfill(ctx tokenswap.Context, db tokenswap.KVStore, auth x.Authenticator, addr, taker tokenswap.Address) error {
	escrow, err := c.load(db, addr)
	if err != nil {
		return err
	}
	if !auth.HasAddress(ctx, taker) {
		return errors.Wrap(errors.ErrUnauthorized, "taker signature missing")
	}
	takerAcc := cash.AccountAddress(escrow.MintReceive, taker)
	if err := c.requireBalance(db, takerAcc, escrow.AmountReceive); err != nil {
		return errors.Wrap(err, "taker")
	}

	err = tokenswap.Atomic(db, func(db tokenswap.KVStore) error {
		makerAcc, err := c.cash.EnsureAccount(db, escrow.MintReceive, escrow.Maker, taker)
		if err != nil {
			return errors.Wrap(err, "maker receive account")
		}
		if err := c.cash.Transfer(ctx, db, auth, takerAcc, makerAcc, escrow.AmountReceive); err != nil {
			return errors.Wrap(err, "cannot pay the maker")
		}
		dest, err := c.cash.EnsureAccount(db, escrow.MintDeposit, taker, taker)
		if err != nil {
			return errors.Wrap(err, "taker deposit account")
		}
		return c.release(ctx, db, addr, escrow, dest)
	})
	if err != nil {
		return err
	}

	tokenswap.GetLogger(ctx).Info("escrow fulfilled",
		"escrow", addr, "maker", escrow.Maker, "taker", taker)
	return nil
}

// release drains the vault into dest, closes the vault and deletes the
// escrow record.
func (c *controller) release(ctx tokenswap.Context, db tokenswap.KVStore, addr tokenswap.Address, escrow *Escrow, dest tokenswap.Address) error {
	cond, err := escrow.Condition()
	if err != nil {
		return errors.Wrap(err, "cannot recreate escrow condition")
	}
	vault, err := escrow.Vault(addr)
	if err != nil {
		return errors.Wrap(err, "cannot recreate vault address")
	}
	balance, err := c.cash.Balance(db, vault)
	if err != nil {
		return errors.Wrap(err, "vault")
	}
	if balance > 0 {
		if err := c.cash.Transfer(vaultAuth.With(ctx, cond), db, vaultAuth, vault, dest, balance); err != nil {
			return errors.Wrap(err, "cannot drain vault")
		}
	}
	if err := c.cash.CloseAccount(db, vault); err != nil {
		return errors.Wrap(err, "cannot close vault")
	}
	if err := c.bucket.Delete(db, addr); err != nil {
		return errors.Wrap(err, "cannot delete escrow")
	}
	return nil
}

// requireBalance fails with ErrInsufficientAmount unless the account
// exists and holds at least amount.
func (c *controller) requireBalance(db tokenswap.ReadOnlyKVStore, acc tokenswap.Address, amount uint64) error {
	balance, err := c.cash.Balance(db, acc)
	switch {
	case errors.ErrNotFound.Is(err):
		return errors.Wrap(errors.ErrInsufficientAmount, "no holding account")
	case err != nil:
		return err
	case balance < amount:
		return errors.Wrapf(errors.ErrInsufficientAmount, "balance %d, required %d", balance, amount)
	}
	return nil
}

func (c *controller) load(db tokenswap.ReadOnlyKVStore, addr tokenswap.Address) (*Escrow, error) {
	var e Escrow
	if err := c.bucket.One(db, addr, &e); err != nil {
		return nil, errors.Wrapf(err, "escrow %s", addr)
	}
	return &e, nil
}

func (c *controller) View(db tokenswap.ReadOnlyKVStore, addr tokenswap.Address) (*View, error) {
	escrow, err := c.load(db, addr)
	if err != nil {
		return nil, err
	}
	return c.view(db, addr, escrow)
}

func (c *controller) view(db tokenswap.ReadOnlyKVStore, addr tokenswap.Address, escrow *Escrow) (*View, error) {
	vault, err := escrow.Vault(addr)
	if err != nil {
		return nil, errors.Wrap(err, "cannot recreate vault address")
	}
	balance, err := c.cash.Balance(db, vault)
	if err != nil {
		return nil, errors.Wrap(err, "vault")
	}
	return &View{
		Address: addr,
		Escrow:  escrow,
		Vault:   vault,
		Deposit: balance,
	}, nil
}

func (c *controller) ByMaker(db tokenswap.ReadOnlyKVStore, maker tokenswap.Address) ([]*View, error) {
	var escrows []*Escrow
	keys, err := c.bucket.ByIndex(db, "maker", maker, &escrows)
	switch {
	case errors.ErrNotFound.Is(err):
		return nil, nil
	case err != nil:
		return nil, err
	}
	views := make([]*View, 0, len(escrows))
	for i, e := range escrows {
		v, err := c.view(db, keys[i], e)
		if err != nil {
			return nil, err
		}
		views = append(views, v)
	}
	return views, nil
}
