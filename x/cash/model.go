package cash

import (
	"regexp"

	"github.com/iov-one/tokenswap"
	"github.com/iov-one/tokenswap/codec"
	"github.com/iov-one/tokenswap/errors"
	"github.com/iov-one/tokenswap/orm"
)

var isTicker = regexp.MustCompile(`^[A-Z0-9]{2,10}$`).MatchString

// MaxDecimals is the greatest precision a mint can declare.
const MaxDecimals = 18

// Mint declares a fungible asset type.
type Mint struct {
	Metadata *tokenswap.Metadata `protobuf:"bytes,1,opt,name=metadata,proto3" json:"metadata,omitempty"`
	// Ticker is the unique human readable name of the asset.
	Ticker string `protobuf:"bytes,2,opt,name=ticker,proto3" json:"ticker,omitempty"`
	// Decimals is the number of fractional digits of the display unit.
	Decimals uint32 `protobuf:"varint,3,opt,name=decimals,proto3" json:"decimals,omitempty"`
	// Authority is the only address allowed to issue new tokens.
	Authority tokenswap.Address `protobuf:"bytes,4,opt,name=authority,proto3" json:"authority,omitempty"`
	// Supply is the total amount of issued tokens, in base units.
	Supply uint64 `protobuf:"varint,5,opt,name=supply,proto3" json:"supply,omitempty"`
}

var _ orm.Model = (*Mint)(nil)

// MintAddress returns the address a mint with given ticker is stored under.
func MintAddress(ticker string) tokenswap.Address {
	return tokenswap.NewCondition("cash", "mint", []byte(ticker)).Address()
}

func (m *Mint) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Metadata", m.Metadata.Validate())
	if !isTicker(m.Ticker) {
		errs = errors.Append(errs, errors.Field("Ticker", errors.ErrInput, "invalid ticker %q", m.Ticker))
	}
	if m.Decimals > MaxDecimals {
		errs = errors.Append(errs, errors.Field("Decimals", errors.ErrInput, "must not be greater than %d", MaxDecimals))
	}
	errs = errors.AppendField(errs, "Authority", m.Authority.Validate())
	return errs
}

func (m *Mint) Reset()         { *m = Mint{} }
func (m *Mint) String() string { return codec.String(m) }
func (*Mint) ProtoMessage()    {}

// NewMintBucket returns a bucket storing mints under their MintAddress.
func NewMintBucket() orm.ModelBucket {
	return orm.NewModelBucket("mints", &Mint{})
}

// Account holds tokens of a single mint on behalf of its owner.
type Account struct {
	Metadata *tokenswap.Metadata `protobuf:"bytes,1,opt,name=metadata,proto3" json:"metadata,omitempty"`
	// Mint is the address of the only asset this account can hold.
	Mint tokenswap.Address `protobuf:"bytes,2,opt,name=mint,proto3" json:"mint,omitempty"`
	// Owner must authorize any transfer out of this account.
	Owner tokenswap.Address `protobuf:"bytes,3,opt,name=owner,proto3" json:"owner,omitempty"`
	// Amount is the balance, in base units.
	Amount uint64 `protobuf:"varint,4,opt,name=amount,proto3" json:"amount,omitempty"`
	// Payer paid the deposit and receives it back at close.
	Payer tokenswap.Address `protobuf:"bytes,5,opt,name=payer,proto3" json:"payer,omitempty"`
	// Deposit is the amount paid when opening the account, in base
	// units of the DepositMint.
	Deposit     uint64            `protobuf:"varint,6,opt,name=deposit,proto3" json:"deposit,omitempty"`
	DepositMint tokenswap.Address `protobuf:"bytes,7,opt,name=deposit_mint,proto3" json:"deposit_mint,omitempty"`
}

var _ orm.Model = (*Account)(nil)

// AccountAddress returns the address of the default account holding mint
// tokens on behalf of owner.
func AccountAddress(mint, owner tokenswap.Address) tokenswap.Address {
	data := make([]byte, 0, len(mint)+len(owner))
	data = append(data, mint...)
	data = append(data, owner...)
	return tokenswap.NewCondition("cash", "account", data).Address()
}

func (a *Account) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Metadata", a.Metadata.Validate())
	errs = errors.AppendField(errs, "Mint", a.Mint.Validate())
	errs = errors.AppendField(errs, "Owner", a.Owner.Validate())
	if a.Deposit > 0 {
		errs = errors.AppendField(errs, "Payer", a.Payer.Validate())
		errs = errors.AppendField(errs, "DepositMint", a.DepositMint.Validate())
	}
	return errs
}

func (a *Account) Reset()         { *a = Account{} }
func (a *Account) String() string { return codec.String(a) }
func (*Account) ProtoMessage()    {}

// NewAccountBucket returns a bucket storing accounts, indexed by owner.
func NewAccountBucket() orm.ModelBucket {
	return orm.NewModelBucket("accounts", &Account{},
		orm.WithIndex("owner", accountOwner, false),
	)
}

func accountOwner(obj orm.Object) ([]byte, error) {
	a, ok := obj.Value().(*Account)
	if !ok {
		return nil, errors.Wrapf(errors.ErrState, "expected account, got %T", obj.Value())
	}
	return a.Owner, nil
}
