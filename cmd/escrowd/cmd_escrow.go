package main

import (
	"crypto/rand"
	"encoding/binary"
	"encoding/json"
	"flag"
	"fmt"
	"io"

	"github.com/iov-one/tokenswap"
	"github.com/iov-one/tokenswap/codec"
	"github.com/iov-one/tokenswap/x/cash"
	"github.com/iov-one/tokenswap/x/escrow"
)

func cmdOpen(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Open an escrow offering deposit tokens in exchange for receive tokens. The
deposit is locked in a vault until the escrow is canceled or fulfilled.

If no seed is given, a random one is used. The escrow address and the seed
are printed.
`)
		fl.PrintDefaults()
	}
	var (
		configFl        = flConfig(fl)
		keyFl           = flKey(fl)
		depositFl       = fl.String("deposit", "", "Ticker of the offered asset.")
		depositAmountFl = fl.String("deposit-amount", "", "Offered amount in display units.")
		receiveFl       = fl.String("receive", "", "Ticker of the wanted asset.")
		receiveAmountFl = fl.String("receive-amount", "", "Wanted amount in display units.")
		seedFl          = fl.Uint64("seed", 0, "Seed distinguishing escrows of the same maker. Random if not set.")
	)
	fl.Parse(args)
	switch {
	case *depositFl == "":
		return errRequired("deposit")
	case *depositAmountFl == "":
		return errRequired("deposit-amount")
	case *receiveFl == "":
		return errRequired("receive")
	case *receiveAmountFl == "":
		return errRequired("receive-amount")
	}
	seed := *seedFl
	if !isFlagSet(fl, "seed") {
		var err error
		if seed, err = randomSeed(); err != nil {
			return err
		}
	}
	key, err := loadKey(*keyFl)
	if err != nil {
		return err
	}

	return withNode(*configFl, func(cfg *Config, n *node) error {
		depositMint, err := n.mint(*depositFl)
		if err != nil {
			return err
		}
		receiveMint, err := n.mint(*receiveFl)
		if err != nil {
			return err
		}
		depositAmount, err := cash.ParseAmount(*depositAmountFl, depositMint.Decimals)
		if err != nil {
			return fmt.Errorf("deposit amount: %s", err)
		}
		receiveAmount, err := cash.ParseAmount(*receiveAmountFl, receiveMint.Decimals)
		if err != nil {
			return fmt.Errorf("receive amount: %s", err)
		}
		msg := &escrow.OpenMsg{
			Metadata:      &tokenswap.Metadata{Schema: 1},
			Seed:          seed,
			MintDeposit:   cash.MintAddress(*depositFl),
			MintReceive:   cash.MintAddress(*receiveFl),
			DepositAmount: depositAmount,
			ReceiveAmount: receiveAmount,
		}
		data, err := n.submit(key, msg)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintf(output, "%s\nseed %d\n", tokenswap.Address(data), seed)
		return err
	})
}

func cmdCancel(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Cancel an escrow and return the deposit to the maker. Must be signed by the
maker.
`)
		fl.PrintDefaults()
	}
	var (
		configFl = flConfig(fl)
		keyFl    = flKey(fl)
		escrowFl = flAddress(fl, "escrow", "Address of the escrow.")
	)
	fl.Parse(args)
	if len(*escrowFl) == 0 {
		return errRequired("escrow")
	}
	key, err := loadKey(*keyFl)
	if err != nil {
		return err
	}
	return withNode(*configFl, func(cfg *Config, n *node) error {
		_, err := n.submit(key, &escrow.CancelMsg{
			Metadata: &tokenswap.Metadata{Schema: 1},
			Escrow:   *escrowFl,
		})
		return err
	})
}

func cmdFulfill(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Take an escrow. The signer pays the wanted amount to the maker and receives
the deposit.
`)
		fl.PrintDefaults()
	}
	var (
		configFl = flConfig(fl)
		keyFl    = flKey(fl)
		escrowFl = flAddress(fl, "escrow", "Address of the escrow.")
	)
	fl.Parse(args)
	if len(*escrowFl) == 0 {
		return errRequired("escrow")
	}
	key, err := loadKey(*keyFl)
	if err != nil {
		return err
	}
	return withNode(*configFl, func(cfg *Config, n *node) error {
		_, err := n.submit(key, &escrow.FulfillMsg{
			Metadata: &tokenswap.Metadata{Schema: 1},
			Escrow:   *escrowFl,
		})
		return err
	})
}

func cmdView(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Print an open escrow together with its vault balance, in JSON format.
`)
		fl.PrintDefaults()
	}
	var (
		configFl = flConfig(fl)
		escrowFl = flAddress(fl, "escrow", "Address of the escrow.")
	)
	fl.Parse(args)
	if len(*escrowFl) == 0 {
		return errRequired("escrow")
	}
	return withNode(*configFl, func(cfg *Config, n *node) error {
		var e escrow.Escrow
		found, err := n.queryOne("/escrows", *escrowFl, &e)
		if err != nil {
			return err
		}
		if !found {
			return fmt.Errorf("escrow %s not found", *escrowFl)
		}
		v, err := n.escrowView(*escrowFl, &e)
		if err != nil {
			return err
		}
		return writeJSON(output, v)
	})
}

func cmdList(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Print all open escrows of a maker, in JSON format. If no maker is given, the
owner of the private key is used.
`)
		fl.PrintDefaults()
	}
	var (
		configFl = flConfig(fl)
		keyFl    = flKey(fl)
		makerFl  = flAddress(fl, "maker", "Address of the maker.")
	)
	fl.Parse(args)
	maker := *makerFl
	if len(maker) == 0 {
		key, err := loadKey(*keyFl)
		if err != nil {
			return err
		}
		maker = key.PublicKey().Address()
	}
	return withNode(*configFl, func(cfg *Config, n *node) error {
		models, err := n.query("/escrows/maker", tokenswap.KeyQueryMod, maker)
		if err != nil {
			return err
		}
		views := make([]*escrowView, 0, len(models))
		for _, m := range models {
			var e escrow.Escrow
			if err := codec.Unmarshal(m.Value, &e); err != nil {
				return fmt.Errorf("cannot decode escrow %X: %s", m.Key, err)
			}
			v, err := n.escrowView(tokenswap.Address(m.Key), &e)
			if err != nil {
				return err
			}
			views = append(views, v)
		}
		return writeJSON(output, views)
	})
}

// escrowView is an escrow presented with display amounts.
type escrowView struct {
	Address tokenswap.Address `json:"address"`
	Maker   tokenswap.Address `json:"maker"`
	Seed    uint64            `json:"seed"`
	Vault   tokenswap.Address `json:"vault"`
	Deposit string            `json:"deposit"`
	Receive string            `json:"receive"`
}

func (n *node) escrowView(addr tokenswap.Address, e *escrow.Escrow) (*escrowView, error) {
	var deposit, receive cash.Mint
	if _, err := n.queryOne("/mints", e.MintDeposit, &deposit); err != nil {
		return nil, err
	}
	if _, err := n.queryOne("/mints", e.MintReceive, &receive); err != nil {
		return nil, err
	}
	vault, err := e.Vault(addr)
	if err != nil {
		return nil, err
	}
	locked, err := n.balance(vault)
	if err != nil {
		return nil, err
	}
	return &escrowView{
		Address: addr,
		Maker:   e.Maker,
		Seed:    e.Seed,
		Vault:   vault,
		Deposit: cash.FormatAmount(locked, deposit.Decimals) + " " + deposit.Ticker,
		Receive: cash.FormatAmount(e.AmountReceive, receive.Decimals) + " " + receive.Ticker,
	}, nil
}

func writeJSON(output io.Writer, v interface{}) error {
	raw, err := json.MarshalIndent(v, "", "\t")
	if err != nil {
		return fmt.Errorf("cannot serialize: %s", err)
	}
	_, err = fmt.Fprintln(output, string(raw))
	return err
}

func randomSeed() (uint64, error) {
	var b [8]byte
	if _, err := rand.Read(b[:]); err != nil {
		return 0, fmt.Errorf("cannot generate seed: %s", err)
	}
	return binary.LittleEndian.Uint64(b[:]), nil
}

func isFlagSet(fl *flag.FlagSet, name string) bool {
	var set bool
	fl.Visit(func(f *flag.Flag) {
		if f.Name == name {
			set = true
		}
	})
	return set
}
