package escrow

import (
	"github.com/iov-one/tokenswap"
	"github.com/iov-one/tokenswap/codec"
	"github.com/iov-one/tokenswap/errors"
)

const (
	pathOpenMsg    = "escrow/open"
	pathCancelMsg  = "escrow/cancel"
	pathFulfillMsg = "escrow/fulfill"
)

var _ tokenswap.Msg = (*OpenMsg)(nil)
var _ tokenswap.Msg = (*CancelMsg)(nil)
var _ tokenswap.Msg = (*FulfillMsg)(nil)

// OpenMsg opens a new escrow. When Maker is not set, the main signer of
// the transaction is the maker.
type OpenMsg struct {
	Metadata      *tokenswap.Metadata `protobuf:"bytes,1,opt,name=metadata,proto3" json:"metadata,omitempty"`
	Maker         tokenswap.Address   `protobuf:"bytes,2,opt,name=maker,proto3" json:"maker,omitempty"`
	Seed          uint64              `protobuf:"varint,3,opt,name=seed,proto3" json:"seed,omitempty"`
	MintDeposit   tokenswap.Address   `protobuf:"bytes,4,opt,name=mint_deposit,proto3" json:"mint_deposit,omitempty"`
	MintReceive   tokenswap.Address   `protobuf:"bytes,5,opt,name=mint_receive,proto3" json:"mint_receive,omitempty"`
	DepositAmount uint64              `protobuf:"varint,6,opt,name=deposit_amount,proto3" json:"deposit_amount,omitempty"`
	ReceiveAmount uint64              `protobuf:"varint,7,opt,name=receive_amount,proto3" json:"receive_amount,omitempty"`
}

func (OpenMsg) Path() string {
	return pathOpenMsg
}

func (m *OpenMsg) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Metadata", m.Metadata.Validate())
	if m.Maker != nil {
		errs = errors.AppendField(errs, "Maker", m.Maker.Validate())
	}
	errs = errors.AppendField(errs, "MintDeposit", m.MintDeposit.Validate())
	errs = errors.AppendField(errs, "MintReceive", m.MintReceive.Validate())
	if m.DepositAmount == 0 {
		errs = errors.Append(errs, errors.Field("DepositAmount", errors.ErrAmount, "must be greater than zero"))
	}
	if m.ReceiveAmount == 0 {
		errs = errors.Append(errs, errors.Field("ReceiveAmount", errors.ErrAmount, "must be greater than zero"))
	}
	return errs
}

func (m *OpenMsg) Reset()         { *m = OpenMsg{} }
func (m *OpenMsg) String() string { return codec.String(m) }
func (*OpenMsg) ProtoMessage()    {}

// CancelMsg returns the deposit of an escrow to its maker.
type CancelMsg struct {
	Metadata *tokenswap.Metadata `protobuf:"bytes,1,opt,name=metadata,proto3" json:"metadata,omitempty"`
	Escrow   tokenswap.Address   `protobuf:"bytes,2,opt,name=escrow,proto3" json:"escrow,omitempty"`
}

func (CancelMsg) Path() string {
	return pathCancelMsg
}

func (m *CancelMsg) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Metadata", m.Metadata.Validate())
	errs = errors.AppendField(errs, "Escrow", m.Escrow.Validate())
	return errs
}

func (m *CancelMsg) Reset()         { *m = CancelMsg{} }
func (m *CancelMsg) String() string { return codec.String(m) }
func (*CancelMsg) ProtoMessage()    {}

// FulfillMsg completes the swap. When Taker is not set, the main signer of
// the transaction is the taker.
type FulfillMsg struct {
	Metadata *tokenswap.Metadata `protobuf:"bytes,1,opt,name=metadata,proto3" json:"metadata,omitempty"`
	Escrow   tokenswap.Address   `protobuf:"bytes,2,opt,name=escrow,proto3" json:"escrow,omitempty"`
	Taker    tokenswap.Address   `protobuf:"bytes,3,opt,name=taker,proto3" json:"taker,omitempty"`
}

func (FulfillMsg) Path() string {
	return pathFulfillMsg
}

func (m *FulfillMsg) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Metadata", m.Metadata.Validate())
	errs = errors.AppendField(errs, "Escrow", m.Escrow.Validate())
	if m.Taker != nil {
		errs = errors.AppendField(errs, "Taker", m.Taker.Validate())
	}
	return errs
}

func (m *FulfillMsg) Reset()         { *m = FulfillMsg{} }
func (m *FulfillMsg) String() string { return codec.String(m) }
func (*FulfillMsg) ProtoMessage()    {}
