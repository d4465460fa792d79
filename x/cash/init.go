package cash

import (
	"github.com/iov-one/tokenswap"
	"github.com/iov-one/tokenswap/errors"
)

// Initializer loads mints, balances and the ledger configuration from the
// genesis file.
type Initializer struct{}

var _ tokenswap.Initializer = (*Initializer)(nil)

// FromGenesis reads the "cash" section:
//
//	{"mints": [{"ticker", "decimals", "authority"}],
//	 "accounts": [{"owner", "ticker", "amount"}]}
//
// and the "cash" entry of the "conf" section:
//
//	{"deposit_ticker", "deposit_amount"}
//
// Amounts are given in display units of the mint. Genesis accounts are
// opened without charging the account deposit.
func (*Initializer) FromGenesis(opts tokenswap.Options, db tokenswap.KVStore) error {
	var state struct {
		Mints []struct {
			Ticker    string            `json:"ticker"`
			Decimals  uint32            `json:"decimals"`
			Authority tokenswap.Address `json:"authority"`
		} `json:"mints"`
		Accounts []struct {
			Owner  tokenswap.Address `json:"owner"`
			Ticker string            `json:"ticker"`
			Amount string            `json:"amount"`
		} `json:"accounts"`
	}
	if err := opts.ReadOptions("cash", &state); err != nil {
		return err
	}

	var conf struct {
		Cash struct {
			DepositTicker string `json:"deposit_ticker"`
			DepositAmount string `json:"deposit_amount"`
		} `json:"cash"`
	}
	if err := opts.ReadOptions("conf", &conf); err != nil {
		return err
	}

	ctrl := newController()
	for i, m := range state.Mints {
		if _, err := ctrl.CreateMint(db, m.Ticker, m.Decimals, m.Authority); err != nil {
			return errors.Wrapf(err, "mint #%d", i)
		}
	}

	genesisConf := &Configuration{Metadata: &tokenswap.Metadata{Schema: 1}}
	if t := conf.Cash.DepositTicker; t != "" {
		mint, err := ctrl.Mint(db, MintAddress(t))
		if err != nil {
			return errors.Wrap(err, "deposit mint")
		}
		amount, err := ParseAmount(conf.Cash.DepositAmount, mint.Decimals)
		if err != nil {
			return errors.Wrap(err, "deposit amount")
		}
		genesisConf.DepositMint = MintAddress(t)
		genesisConf.DepositAmount = amount
	}
	if err := SaveConfiguration(db, genesisConf); err != nil {
		return errors.Wrap(err, "cannot store configuration")
	}

	for i, a := range state.Accounts {
		mintAddr := MintAddress(a.Ticker)
		mint, err := ctrl.Mint(db, mintAddr)
		if err != nil {
			return errors.Wrapf(err, "account #%d", i)
		}
		amount, err := ParseAmount(a.Amount, mint.Decimals)
		if err != nil {
			return errors.Wrapf(err, "account #%d amount", i)
		}
		addr := AccountAddress(mintAddr, a.Owner)
		if err := ctrl.createAccount(db, genesisConf, addr, mintAddr, a.Owner, a.Owner, false); err != nil {
			return errors.Wrapf(err, "account #%d", i)
		}
		if amount == 0 {
			continue
		}
		acc, err := ctrl.Account(db, addr)
		if err != nil {
			return err
		}
		if err := ctrl.issue(db, mint, acc, addr, amount); err != nil {
			return errors.Wrapf(err, "account #%d", i)
		}
	}
	return nil
}
