package cash

import (
	"github.com/iov-one/tokenswap"
	"github.com/iov-one/tokenswap/errors"
	"github.com/iov-one/tokenswap/orm"
	"github.com/iov-one/tokenswap/x"
)

// Controller is the functionality of the ledger exposed to other
// extensions.
type Controller interface {
	// CreateMint declares a new asset and returns its address.
	CreateMint(db tokenswap.KVStore, ticker string, decimals uint32, authority tokenswap.Address) (tokenswap.Address, error)
	// Mint returns the mint stored under given address.
	Mint(db tokenswap.ReadOnlyKVStore, mint tokenswap.Address) (*Mint, error)
	// Issue creates new tokens in given account. Only the mint
	// authority can issue.
	Issue(ctx tokenswap.Context, db tokenswap.KVStore, auth x.Authenticator, to tokenswap.Address, amount uint64) error

	// CreateAccount opens an empty account of given mint at addr. The
	// payer is charged the configured account deposit. It fails with
	// ErrDuplicate if addr is occupied.
	CreateAccount(db tokenswap.KVStore, addr, mint, owner, payer tokenswap.Address) error
	// EnsureAccount returns the default account of owner for given mint,
	// creating it first if needed.
	EnsureAccount(db tokenswap.KVStore, mint, owner, payer tokenswap.Address) (tokenswap.Address, error)
	// CloseAccount deletes an empty account and returns its deposit to
	// the payer. It fails with ErrState unless the balance is zero.
	CloseAccount(db tokenswap.KVStore, addr tokenswap.Address) error

	// Transfer moves amount between two accounts of the same mint. The
	// owner of the source account must be authorized by auth.
	Transfer(ctx tokenswap.Context, db tokenswap.KVStore, auth x.Authenticator, from, to tokenswap.Address, amount uint64) error

	// Balance returns the amount held by given account.
	Balance(db tokenswap.ReadOnlyKVStore, addr tokenswap.Address) (uint64, error)
	// Account returns the account stored under given address.
	Account(db tokenswap.ReadOnlyKVStore, addr tokenswap.Address) (*Account, error)
	// AccountsByOwner returns all accounts of given owner together with
	// their addresses.
	AccountsByOwner(db tokenswap.ReadOnlyKVStore, owner tokenswap.Address) ([]tokenswap.Address, []*Account, error)
}

// reserveOwner holds the paid account deposits. No key can sign for it,
// only the controller moves tokens out.
var reserveOwner = tokenswap.NewCondition("cash", "reserve", nil).Address()

// ReserveAddress returns the account holding paid deposits of given mint.
func ReserveAddress(mint tokenswap.Address) tokenswap.Address {
	return AccountAddress(mint, reserveOwner)
}

type controller struct {
	mints    orm.ModelBucket
	accounts orm.ModelBucket
}

var _ Controller = (*controller)(nil)

// NewController returns the ledger controller.
func NewController() Controller {
	return newController()
}

func newController() *controller {
	return &controller{
		mints:    NewMintBucket(),
		accounts: NewAccountBucket(),
	}
}

func (c *controller) CreateMint(db tokenswap.KVStore, ticker string, decimals uint32, authority tokenswap.Address) (tokenswap.Address, error) {
	addr := MintAddress(ticker)
	switch err := c.mints.Has(db, addr); {
	case err == nil:
		return nil, errors.Wrapf(errors.ErrDuplicate, "mint %s", ticker)
	case !errors.ErrNotFound.Is(err):
		return nil, err
	}
	mint := &Mint{
		Metadata:  &tokenswap.Metadata{Schema: 1},
		Ticker:    ticker,
		Decimals:  decimals,
		Authority: authority,
	}
	if err := c.mints.Put(db, addr, mint); err != nil {
		return nil, errors.Wrap(err, "cannot store mint")
	}
	return addr, nil
}

func (c *controller) Mint(db tokenswap.ReadOnlyKVStore, addr tokenswap.Address) (*Mint, error) {
	var m Mint
	if err := c.mints.One(db, addr, &m); err != nil {
		return nil, errors.Wrapf(err, "mint %s", addr)
	}
	return &m, nil
}

func (c *controller) Issue(ctx tokenswap.Context, db tokenswap.KVStore, auth x.Authenticator, to tokenswap.Address, amount uint64) error {
	if amount == 0 {
		return errors.Wrap(errors.ErrAmount, "cannot issue zero tokens")
	}
	acc, err := c.Account(db, to)
	if err != nil {
		return err
	}
	mint, err := c.Mint(db, acc.Mint)
	if err != nil {
		return err
	}
	if !auth.HasAddress(ctx, mint.Authority) {
		return errors.Wrapf(errors.ErrUnauthorized, "mint %s authority signature missing", mint.Ticker)
	}
	return c.issue(db, mint, acc, to, amount)
}

// issue credits the account and increases the mint supply without any
// authorization check.
func (c *controller) issue(db tokenswap.KVStore, mint *Mint, acc *Account, to tokenswap.Address, amount uint64) error {
	supply, err := add(mint.Supply, amount)
	if err != nil {
		return errors.Wrap(err, "supply")
	}
	balance, err := add(acc.Amount, amount)
	if err != nil {
		return errors.Wrap(err, "balance")
	}
	mint.Supply = supply
	acc.Amount = balance
	if err := c.mints.Put(db, acc.Mint, mint); err != nil {
		return errors.Wrap(err, "cannot store mint")
	}
	if err := c.accounts.Put(db, to, acc); err != nil {
		return errors.Wrap(err, "cannot store account")
	}
	return nil
}

func (c *controller) CreateAccount(db tokenswap.KVStore, addr, mint, owner, payer tokenswap.Address) error {
	conf, err := loadConfiguration(db)
	if err != nil {
		return err
	}
	// The default deposit mint account of the payer is where deposits are
	// paid from, so it opens for free.
	charge := conf.DepositAmount > 0 && !addr.Equals(AccountAddress(conf.DepositMint, payer))
	return c.createAccount(db, conf, addr, mint, owner, payer, charge)
}

func (c *controller) createAccount(db tokenswap.KVStore, conf *Configuration, addr, mint, owner, payer tokenswap.Address, charge bool) error {
	if err := addr.Validate(); err != nil {
		return errors.Wrap(err, "account address")
	}
	if _, err := c.Mint(db, mint); err != nil {
		return err
	}
	switch err := c.accounts.Has(db, addr); {
	case err == nil:
		return errors.Wrapf(errors.ErrDuplicate, "account %s", addr)
	case !errors.ErrNotFound.Is(err):
		return err
	}

	acc := &Account{
		Metadata: &tokenswap.Metadata{Schema: 1},
		Mint:     mint,
		Owner:    owner,
		Payer:    payer,
	}
	if charge {
		if err := c.payDeposit(db, conf, payer); err != nil {
			return err
		}
		acc.Deposit = conf.DepositAmount
		acc.DepositMint = conf.DepositMint
	}
	if err := c.accounts.Put(db, addr, acc); err != nil {
		return errors.Wrap(err, "cannot store account")
	}
	return nil
}

func (c *controller) payDeposit(db tokenswap.KVStore, conf *Configuration, payer tokenswap.Address) error {
	if err := payer.Validate(); err != nil {
		return errors.Wrap(err, "deposit payer")
	}
	from := AccountAddress(conf.DepositMint, payer)
	src, err := c.Account(db, from)
	if err != nil {
		if errors.ErrNotFound.Is(err) {
			return errors.Wrap(errors.ErrInsufficientAmount, "no funds to pay the account deposit")
		}
		return err
	}
	reserve := ReserveAddress(conf.DepositMint)
	switch err := c.accounts.Has(db, reserve); {
	case errors.ErrNotFound.Is(err):
		if err := c.createAccount(db, conf, reserve, conf.DepositMint, reserveOwner, nil, false); err != nil {
			return errors.Wrap(err, "deposit reserve")
		}
	case err != nil:
		return err
	}
	return c.move(db, from, src, reserve, conf.DepositAmount)
}

func (c *controller) EnsureAccount(db tokenswap.KVStore, mint, owner, payer tokenswap.Address) (tokenswap.Address, error) {
	addr := AccountAddress(mint, owner)
	switch err := c.accounts.Has(db, addr); {
	case err == nil:
		return addr, nil
	case !errors.ErrNotFound.Is(err):
		return nil, err
	}
	if err := c.CreateAccount(db, addr, mint, owner, payer); err != nil {
		return nil, err
	}
	return addr, nil
}

func (c *controller) CloseAccount(db tokenswap.KVStore, addr tokenswap.Address) error {
	acc, err := c.Account(db, addr)
	if err != nil {
		return err
	}
	if acc.Amount != 0 {
		return errors.Wrapf(errors.ErrState, "account %s holds %d tokens", addr, acc.Amount)
	}
	if err := c.accounts.Delete(db, addr); err != nil {
		return errors.Wrap(err, "cannot delete account")
	}
	if acc.Deposit == 0 {
		return nil
	}

	reserve := ReserveAddress(acc.DepositMint)
	src, err := c.Account(db, reserve)
	if err != nil {
		return errors.Wrap(err, "deposit reserve")
	}
	dest := AccountAddress(acc.DepositMint, acc.Payer)
	switch err := c.accounts.Has(db, dest); {
	case errors.ErrNotFound.Is(err):
		if err := c.createAccount(db, nil, dest, acc.DepositMint, acc.Payer, acc.Payer, false); err != nil {
			return errors.Wrap(err, "deposit refund account")
		}
	case err != nil:
		return err
	}
	return c.move(db, reserve, src, dest, acc.Deposit)
}

func (c *controller) Transfer(ctx tokenswap.Context, db tokenswap.KVStore, auth x.Authenticator, from, to tokenswap.Address, amount uint64) error {
	if amount == 0 {
		return errors.Wrap(errors.ErrAmount, "cannot transfer zero tokens")
	}
	src, err := c.Account(db, from)
	if err != nil {
		return errors.Wrap(err, "source")
	}
	if !auth.HasAddress(ctx, src.Owner) {
		return errors.Wrap(errors.ErrUnauthorized, "account owner signature missing")
	}
	return c.move(db, from, src, to, amount)
}

// move transfers tokens out of an already loaded source account without
// any authorization check.
func (c *controller) move(db tokenswap.KVStore, from tokenswap.Address, src *Account, to tokenswap.Address, amount uint64) error {
	dest, err := c.Account(db, to)
	if err != nil {
		return errors.Wrap(err, "destination")
	}
	if !src.Mint.Equals(dest.Mint) {
		return errors.Wrap(errors.ErrInput, "accounts hold different mints")
	}
	if src.Amount < amount {
		return errors.Wrapf(errors.ErrInsufficientAmount, "balance %d, required %d", src.Amount, amount)
	}
	if from.Equals(to) {
		return nil
	}

	balance, err := add(dest.Amount, amount)
	if err != nil {
		return errors.Wrap(err, "destination balance")
	}
	src.Amount -= amount
	dest.Amount = balance

	if err := c.accounts.Put(db, from, src); err != nil {
		return errors.Wrap(err, "cannot store source account")
	}
	if err := c.accounts.Put(db, to, dest); err != nil {
		return errors.Wrap(err, "cannot store destination account")
	}
	return nil
}

func (c *controller) Balance(db tokenswap.ReadOnlyKVStore, addr tokenswap.Address) (uint64, error) {
	acc, err := c.Account(db, addr)
	if err != nil {
		return 0, err
	}
	return acc.Amount, nil
}

func (c *controller) Account(db tokenswap.ReadOnlyKVStore, addr tokenswap.Address) (*Account, error) {
	var acc Account
	if err := c.accounts.One(db, addr, &acc); err != nil {
		return nil, errors.Wrapf(err, "account %s", addr)
	}
	return &acc, nil
}

func (c *controller) AccountsByOwner(db tokenswap.ReadOnlyKVStore, owner tokenswap.Address) ([]tokenswap.Address, []*Account, error) {
	var accounts []*Account
	keys, err := c.accounts.ByIndex(db, "owner", owner, &accounts)
	switch {
	case errors.ErrNotFound.Is(err):
		return nil, nil, nil
	case err != nil:
		return nil, nil, err
	}
	addrs := make([]tokenswap.Address, len(keys))
	for i, k := range keys {
		addrs[i] = k
	}
	return addrs, accounts, nil
}
