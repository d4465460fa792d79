package main

import (
	"flag"
	"fmt"
	"io"

	"github.com/iov-one/tokenswap"
	"github.com/iov-one/tokenswap/x/cash"
)

func cmdCreateMint(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Declare a new asset. The signer becomes the mint authority, the only one
allowed to issue new tokens. The mint address is printed.
`)
		fl.PrintDefaults()
	}
	var (
		configFl   = flConfig(fl)
		keyFl      = flKey(fl)
		tickerFl   = fl.String("ticker", "", "Ticker of the new asset, 3 to 8 uppercase characters.")
		decimalsFl = fl.Uint("decimals", 0, "Number of decimal places of the display unit.")
	)
	fl.Parse(args)
	if *tickerFl == "" {
		return errRequired("ticker")
	}
	if *decimalsFl > cash.MaxDecimals {
		return fmt.Errorf("at most %d decimals are supported", cash.MaxDecimals)
	}
	key, err := loadKey(*keyFl)
	if err != nil {
		return err
	}

	return withNode(*configFl, func(cfg *Config, n *node) error {
		msg := &cash.CreateMintMsg{
			Metadata:  &tokenswap.Metadata{Schema: 1},
			Ticker:    *tickerFl,
			Decimals:  uint32(*decimalsFl),
			Authority: key.PublicKey().Address(),
		}
		data, err := n.submit(key, msg)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(output, tokenswap.Address(data))
		return err
	})
}

func cmdIssue(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Issue new tokens of a mint to an owner. Must be signed by the mint
authority. The amount is given in display units, for example 12.5.
`)
		fl.PrintDefaults()
	}
	var (
		configFl = flConfig(fl)
		keyFl    = flKey(fl)
		tickerFl = fl.String("ticker", "", "Ticker of the issued asset.")
		ownerFl  = flAddress(fl, "owner", "Owner of the issued tokens. Defaults to the signer.")
		amountFl = fl.String("amount", "", "Amount to issue in display units.")
	)
	fl.Parse(args)
	if *tickerFl == "" {
		return errRequired("ticker")
	}
	if *amountFl == "" {
		return errRequired("amount")
	}
	key, err := loadKey(*keyFl)
	if err != nil {
		return err
	}
	owner := *ownerFl
	if len(owner) == 0 {
		owner = key.PublicKey().Address()
	}

	return withNode(*configFl, func(cfg *Config, n *node) error {
		mint, err := n.mint(*tickerFl)
		if err != nil {
			return err
		}
		amount, err := cash.ParseAmount(*amountFl, mint.Decimals)
		if err != nil {
			return err
		}
		msg := &cash.IssueMsg{
			Metadata: &tokenswap.Metadata{Schema: 1},
			Mint:     cash.MintAddress(*tickerFl),
			Owner:    owner,
			Amount:   amount,
		}
		data, err := n.submit(key, msg)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(output, tokenswap.Address(data))
		return err
	})
}

func cmdSend(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Send tokens from the signer to another owner. The account of the recipient
is opened if needed, paid by the signer.
`)
		fl.PrintDefaults()
	}
	var (
		configFl = flConfig(fl)
		keyFl    = flKey(fl)
		tickerFl = fl.String("ticker", "", "Ticker of the sent asset.")
		toFl     = flAddress(fl, "to", "Recipient address.")
		amountFl = fl.String("amount", "", "Amount to send in display units.")
	)
	fl.Parse(args)
	switch {
	case *tickerFl == "":
		return errRequired("ticker")
	case len(*toFl) == 0:
		return errRequired("to")
	case *amountFl == "":
		return errRequired("amount")
	}
	key, err := loadKey(*keyFl)
	if err != nil {
		return err
	}

	return withNode(*configFl, func(cfg *Config, n *node) error {
		mint, err := n.mint(*tickerFl)
		if err != nil {
			return err
		}
		amount, err := cash.ParseAmount(*amountFl, mint.Decimals)
		if err != nil {
			return err
		}
		msg := &cash.SendMsg{
			Metadata:    &tokenswap.Metadata{Schema: 1},
			Mint:        cash.MintAddress(*tickerFl),
			Source:      key.PublicKey().Address(),
			Destination: *toFl,
			Amount:      amount,
		}
		_, err = n.submit(key, msg)
		return err
	})
}

func cmdBalance(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Print the balance of an owner in display units. If no owner is given, the
owner of the private key is used.
`)
		fl.PrintDefaults()
	}
	var (
		configFl = flConfig(fl)
		keyFl    = flKey(fl)
		tickerFl = fl.String("ticker", "", "Ticker of the asset.")
		ownerFl  = flAddress(fl, "owner", "Owner of the account.")
	)
	fl.Parse(args)
	if *tickerFl == "" {
		return errRequired("ticker")
	}
	owner := *ownerFl
	if len(owner) == 0 {
		key, err := loadKey(*keyFl)
		if err != nil {
			return err
		}
		owner = key.PublicKey().Address()
	}

	return withNode(*configFl, func(cfg *Config, n *node) error {
		mint, err := n.mint(*tickerFl)
		if err != nil {
			return err
		}
		amount, err := n.balance(cash.AccountAddress(cash.MintAddress(*tickerFl), owner))
		if err != nil {
			return err
		}
		_, err = fmt.Fprintf(output, "%s %s\n", cash.FormatAmount(amount, mint.Decimals), mint.Ticker)
		return err
	})
}
