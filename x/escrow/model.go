package escrow

import (
	"encoding/binary"

	"github.com/iov-one/tokenswap"
	"github.com/iov-one/tokenswap/codec"
	"github.com/iov-one/tokenswap/errors"
	"github.com/iov-one/tokenswap/orm"
)

const (
	// ExtensionName is used as the extension part of derived escrow
	// conditions.
	ExtensionName = "escrow"
	recordType    = "escrow"
	vaultType     = "vault"
)

// Escrow describes a single pending swap. It is never updated in place.
type Escrow struct {
	Metadata *tokenswap.Metadata `protobuf:"bytes,1,opt,name=metadata,proto3" json:"metadata,omitempty"`
	// Seed is chosen by the maker and only used to derive the address.
	Seed uint64 `protobuf:"varint,2,opt,name=seed,proto3" json:"seed,omitempty"`
	// Maker opened the escrow and is the only one allowed to cancel it.
	Maker tokenswap.Address `protobuf:"bytes,3,opt,name=maker,proto3" json:"maker,omitempty"`
	// MintDeposit is the asset locked in the vault.
	MintDeposit tokenswap.Address `protobuf:"bytes,4,opt,name=mint_deposit,proto3" json:"mint_deposit,omitempty"`
	// MintReceive is the asset the maker wants in exchange.
	MintReceive tokenswap.Address `protobuf:"bytes,5,opt,name=mint_receive,proto3" json:"mint_receive,omitempty"`
	// AmountReceive is the exact amount of MintReceive a taker pays.
	AmountReceive uint64 `protobuf:"varint,6,opt,name=amount_receive,proto3" json:"amount_receive,omitempty"`
	// Bump recreates the derived address without searching.
	Bump uint32 `protobuf:"varint,7,opt,name=bump,proto3" json:"bump,omitempty"`
	// VaultBump recreates the derived vault address.
	VaultBump uint32 `protobuf:"varint,8,opt,name=vault_bump,proto3" json:"vault_bump,omitempty"`
}

var _ orm.Model = (*Escrow)(nil)

func (e *Escrow) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Metadata", e.Metadata.Validate())
	errs = errors.AppendField(errs, "Maker", e.Maker.Validate())
	errs = errors.AppendField(errs, "MintDeposit", e.MintDeposit.Validate())
	errs = errors.AppendField(errs, "MintReceive", e.MintReceive.Validate())
	if e.AmountReceive == 0 {
		errs = errors.Append(errs, errors.Field("AmountReceive", errors.ErrAmount, "must be greater than zero"))
	}
	return errs
}

func (e *Escrow) Reset()         { *e = Escrow{} }
func (e *Escrow) String() string { return codec.String(e) }
func (*Escrow) ProtoMessage()    {}

// Condition returns the condition that authorizes actions on behalf of
// the escrow address.
func (e *Escrow) Condition() (tokenswap.Condition, error) {
	return tokenswap.CreateDerivedCondition(ExtensionName, recordType, uint8(e.Bump), e.Maker, seedBytes(e.Seed))
}

// Address returns the address this escrow is stored under.
func (e *Escrow) Address() (tokenswap.Address, error) {
	cond, err := e.Condition()
	if err != nil {
		return nil, err
	}
	return cond.Address(), nil
}

// Vault returns the address of the account holding the deposit of an
// escrow stored under given address.
func (e *Escrow) Vault(addr tokenswap.Address) (tokenswap.Address, error) {
	return tokenswap.CreateDerivedAddress(ExtensionName, vaultType, uint8(e.VaultBump), addr)
}

// RecordAddress returns the address of an escrow opened by the maker with given
// seed, together with the bump needed to recreate it.
func RecordAddress(maker tokenswap.Address, seed uint64) (tokenswap.Address, uint8, error) {
	return tokenswap.DeriveAddress(ExtensionName, recordType, maker, seedBytes(seed))
}

// VaultAddress returns the account address holding the deposit of the
// escrow stored under given address, together with its bump. Vaults are
// derived apart from default cash accounts so that no send can reach them.
func VaultAddress(escrow tokenswap.Address) (tokenswap.Address, uint8, error) {
	return tokenswap.DeriveAddress(ExtensionName, vaultType, escrow)
}

func seedBytes(seed uint64) []byte {
	b := make([]byte, 8)
	binary.LittleEndian.PutUint64(b, seed)
	return b
}

// NewBucket returns a bucket storing escrows under their derived address,
// indexed by maker.
func NewBucket() orm.ModelBucket {
	return orm.NewModelBucket("escrows", &Escrow{},
		orm.WithIndex("maker", makerIndex, false),
	)
}

func makerIndex(obj orm.Object) ([]byte, error) {
	e, ok := obj.Value().(*Escrow)
	if !ok {
		return nil, errors.Wrapf(errors.ErrState, "expected escrow, got %T", obj.Value())
	}
	return e.Maker, nil
}
