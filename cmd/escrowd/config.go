package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/tendermint/tendermint/libs/log"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/iov-one/tokenswap"
)

// Config is the content of the daemon configuration file.
type Config struct {
	// ChainID if set must match the chain id of the genesis file.
	ChainID     string `toml:"ChainID"`
	DataDir     string `toml:"DataDir"`
	GenesisFile string `toml:"GenesisFile"`
	// LogLevel is one of debug, info, error or none.
	LogLevel string `toml:"LogLevel"`
	// LogFile if set redirects logs from stderr to a rotated file.
	LogFile string `toml:"LogFile"`
	// ListenAddress is where the serve command accepts transactions.
	ListenAddress string `toml:"ListenAddress"`
	// ABCIAddress if set serves the application to a consensus engine
	// over the ABCI socket protocol.
	ABCIAddress string `toml:"ABCIAddress"`
	// MetricsAddress if set exposes prometheus metrics under /metrics.
	MetricsAddress string `toml:"MetricsAddress"`
	// AccountDeposit is charged for opening a holding account. An empty
	// ticker disables it.
	AccountDeposit DepositConfig `toml:"AccountDeposit"`
}

// DepositConfig declares the account deposit in display units.
type DepositConfig struct {
	Ticker string `toml:"Ticker"`
	Amount string `toml:"Amount"`
}

func defaultConfig(home string) *Config {
	return &Config{
		DataDir:       filepath.Join(home, "data"),
		GenesisFile:   filepath.Join(home, "genesis.json"),
		LogLevel:      "info",
		ListenAddress: "127.0.0.1:8640",
	}
}

// loadConfig reads the configuration file at given path. Defaults relative
// to the directory of the file are used when the file does not exist.
func loadConfig(path string) (*Config, error) {
	cfg := defaultConfig(filepath.Dir(path))
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}
	meta, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return nil, fmt.Errorf("cannot decode %s: %s", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) != 0 {
		return nil, fmt.Errorf("unknown configuration key %q in %s", undecoded[0].String(), path)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.ChainID != "" && !tokenswap.IsValidChainID(c.ChainID) {
		return fmt.Errorf("invalid chain id %q", c.ChainID)
	}
	if c.DataDir == "" {
		return fmt.Errorf("data directory is required")
	}
	if (c.AccountDeposit.Ticker == "") != (c.AccountDeposit.Amount == "") {
		return fmt.Errorf("account deposit requires both ticker and amount")
	}
	return nil
}

// writeConfig stores the configuration. An existing file is never
// overwritten.
func writeConfig(path string, cfg *Config) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := toml.NewEncoder(f).Encode(cfg); err != nil {
		return err
	}
	return f.Close()
}

// newLogger returns a logger writing to the configured file or, if none,
// to given output. Returned closer must be called to release the file.
func newLogger(cfg *Config, output io.Writer) (log.Logger, io.Closer, error) {
	var closer io.Closer = nopCloser{}
	if cfg.LogFile != "" {
		lj := &lumberjack.Logger{
			Filename:   cfg.LogFile,
			MaxSize:    100, // megabytes
			MaxBackups: 5,
			MaxAge:     28, // days
		}
		output, closer = lj, lj
	}
	level := cfg.LogLevel
	if level == "" {
		level = "info"
	}
	opt, err := log.AllowLevel(level)
	if err != nil {
		closer.Close()
		return nil, nil, err
	}
	logger := log.NewFilter(log.NewTMLogger(log.NewSyncWriter(output)), opt)
	return logger, closer, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
