package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/iov-one/tokenswap"
)

// env returns the value of an environment variable if provided (even if empty)
// or a fallback value.
func env(name, fallback string) string {
	if v, ok := os.LookupEnv(name); ok {
		return v
	}
	return fallback
}

func defaultHome() string {
	return env("ESCROWD_HOME", filepath.Join(os.Getenv("HOME"), ".escrowd"))
}

func flConfig(fl *flag.FlagSet) *string {
	return fl.String("config", env("ESCROWD_CONFIG", filepath.Join(defaultHome(), "config.toml")),
		"Path to the configuration file. You can use ESCROWD_CONFIG environment variable to set it.")
}

func flKey(fl *flag.FlagSet) *string {
	return fl.String("key", env("ESCROWD_PRIV_KEY", filepath.Join(defaultHome(), "priv.key")),
		"Path to the private key file that transaction should be signed with. You can use ESCROWD_PRIV_KEY environment variable to set it.")
}

// addressValue implements flag.Value for addresses in any format accepted
// by tokenswap.ParseAddress.
type addressValue struct {
	addr *tokenswap.Address
}

func (v addressValue) String() string {
	if v.addr == nil || len(*v.addr) == 0 {
		return ""
	}
	return v.addr.String()
}

func (v addressValue) Set(s string) error {
	a, err := tokenswap.ParseAddress(s)
	if err != nil {
		return err
	}
	*v.addr = a
	return nil
}

// flAddress returns an address that is optionally set by a command line
// argument. An invalid value terminates the process, following Go's flag
// package convention.
func flAddress(fl *flag.FlagSet, name, usage string) *tokenswap.Address {
	var a tokenswap.Address
	fl.Var(addressValue{addr: &a}, name, usage)
	return &a
}

// errRequired returns the error of a missing required flag.
func errRequired(name string) error {
	return fmt.Errorf("-%s flag is required", name)
}
