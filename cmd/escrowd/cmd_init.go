package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/iov-one/tokenswap"
	"github.com/iov-one/tokenswap/app"
)

func cmdInit(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Initialize the local state from the genesis file.

A default configuration file is written if none exists. The account deposit
declared in the configuration overrides the one of the genesis file.
`)
		fl.PrintDefaults()
	}
	var (
		configFl  = flConfig(fl)
		genesisFl = fl.String("genesis", "", "Genesis file path, overrides GenesisFile of the configuration.")
	)
	fl.Parse(args)

	if _, err := os.Stat(*configFl); os.IsNotExist(err) {
		cfg, err := loadConfig(*configFl)
		if err != nil {
			return err
		}
		if err := writeConfig(*configFl, cfg); err != nil {
			return fmt.Errorf("cannot write configuration: %s", err)
		}
	}

	return withNode(*configFl, func(cfg *Config, n *node) error {
		path := cfg.GenesisFile
		if *genesisFl != "" {
			path = *genesisFl
		}
		gen, err := app.LoadGenesis(path)
		if err != nil {
			return err
		}
		if cfg.ChainID != "" && cfg.ChainID != gen.ChainID {
			return fmt.Errorf("genesis chain id %q does not match configured %q", gen.ChainID, cfg.ChainID)
		}
		opts, err := withAccountDeposit(gen.AppState, cfg.AccountDeposit)
		if err != nil {
			return err
		}
		if err := n.app.InitGenesis(gen.ChainID, opts); err != nil {
			return err
		}
		if err := n.commit(); err != nil {
			return err
		}
		_, err = fmt.Fprintf(output, "chain %s initialized at height %d\n", gen.ChainID, n.app.Height())
		return err
	})
}

// withAccountDeposit returns a copy of the genesis options with the account
// deposit of the cash extension replaced by given one. Options are returned
// unchanged if no deposit is configured.
func withAccountDeposit(opts tokenswap.Options, deposit DepositConfig) (tokenswap.Options, error) {
	if deposit.Ticker == "" {
		return opts, nil
	}
	conf := make(map[string]json.RawMessage)
	if err := opts.ReadOptions("conf", &conf); err != nil {
		return nil, err
	}
	cashConf, err := json.Marshal(map[string]string{
		"deposit_ticker": deposit.Ticker,
		"deposit_amount": deposit.Amount,
	})
	if err != nil {
		return nil, err
	}
	conf["cash"] = cashConf
	rawConf, err := json.Marshal(conf)
	if err != nil {
		return nil, err
	}

	res := make(tokenswap.Options, len(opts)+1)
	for k, v := range opts {
		res[k] = v
	}
	res["conf"] = rawConf
	return res, nil
}
