package app

import (
	"encoding/json"
	"os"

	"github.com/iov-one/tokenswap"
	"github.com/iov-one/tokenswap/errors"
)

// Genesis is the content of the genesis file.
type Genesis struct {
	ChainID  string            `json:"chain_id"`
	AppState tokenswap.Options `json:"app_state"`
}

// LoadGenesis reads and parses the genesis file at given path.
func LoadGenesis(path string) (*Genesis, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrInput, "cannot read genesis file: %s", err)
	}
	var gen Genesis
	if err := json.Unmarshal(raw, &gen); err != nil {
		return nil, errors.Wrapf(errors.ErrInput, "cannot parse genesis file: %s", err)
	}
	if !tokenswap.IsValidChainID(gen.ChainID) {
		return nil, errors.Wrapf(errors.ErrInput, "invalid chain id %q", gen.ChainID)
	}
	return &gen, nil
}
