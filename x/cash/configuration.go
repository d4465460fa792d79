package cash

import (
	"github.com/iov-one/tokenswap"
	"github.com/iov-one/tokenswap/codec"
	"github.com/iov-one/tokenswap/errors"
	"github.com/iov-one/tokenswap/orm"
)

var configurationKey = []byte("conf")

// Configuration holds the ledger wide settings.
type Configuration struct {
	Metadata *tokenswap.Metadata `protobuf:"bytes,1,opt,name=metadata,proto3" json:"metadata,omitempty"`
	// DepositMint is the asset the account deposit is paid with.
	DepositMint tokenswap.Address `protobuf:"bytes,2,opt,name=deposit_mint,proto3" json:"deposit_mint,omitempty"`
	// DepositAmount is charged to the payer of every new account. Zero
	// disables the deposit.
	DepositAmount uint64 `protobuf:"varint,3,opt,name=deposit_amount,proto3" json:"deposit_amount,omitempty"`
}

var _ orm.Model = (*Configuration)(nil)

func (c *Configuration) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Metadata", c.Metadata.Validate())
	if c.DepositAmount > 0 {
		errs = errors.AppendField(errs, "DepositMint", c.DepositMint.Validate())
	}
	return errs
}

func (c *Configuration) Reset()         { *c = Configuration{} }
func (c *Configuration) String() string { return codec.String(c) }
func (*Configuration) ProtoMessage()    {}

func newConfigurationBucket() orm.ModelBucket {
	return orm.NewModelBucket("cashconf", &Configuration{})
}

// loadConfiguration returns the stored configuration. When none was stored,
// a configuration without the account deposit is returned.
func loadConfiguration(db tokenswap.ReadOnlyKVStore) (*Configuration, error) {
	var conf Configuration
	switch err := newConfigurationBucket().One(db, configurationKey, &conf); {
	case err == nil:
		return &conf, nil
	case errors.ErrNotFound.Is(err):
		return &Configuration{Metadata: &tokenswap.Metadata{Schema: 1}}, nil
	default:
		return nil, errors.Wrap(err, "cannot load configuration")
	}
}

// SaveConfiguration stores the ledger configuration.
func SaveConfiguration(db tokenswap.KVStore, conf *Configuration) error {
	return newConfigurationBucket().Put(db, configurationKey, conf)
}
