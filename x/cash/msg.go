package cash

import (
	"github.com/iov-one/tokenswap"
	"github.com/iov-one/tokenswap/codec"
	"github.com/iov-one/tokenswap/errors"
)

const (
	pathCreateMintMsg = "cash/create_mint"
	pathIssueMsg      = "cash/issue"
	pathSendMsg       = "cash/send"
)

var _ tokenswap.Msg = (*CreateMintMsg)(nil)
var _ tokenswap.Msg = (*IssueMsg)(nil)
var _ tokenswap.Msg = (*SendMsg)(nil)

// CreateMintMsg declares a new asset. The transaction must be signed by
// the authority.
type CreateMintMsg struct {
	Metadata  *tokenswap.Metadata `protobuf:"bytes,1,opt,name=metadata,proto3" json:"metadata,omitempty"`
	Ticker    string              `protobuf:"bytes,2,opt,name=ticker,proto3" json:"ticker,omitempty"`
	Decimals  uint32              `protobuf:"varint,3,opt,name=decimals,proto3" json:"decimals,omitempty"`
	Authority tokenswap.Address   `protobuf:"bytes,4,opt,name=authority,proto3" json:"authority,omitempty"`
}

func (CreateMintMsg) Path() string {
	return pathCreateMintMsg
}

func (m *CreateMintMsg) Validate() error {
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

func (m *CreateMintMsg) Reset()         { *m = CreateMintMsg{} }
func (m *CreateMintMsg) String() string { return codec.String(m) }
func (*CreateMintMsg) ProtoMessage()    {}

// IssueMsg creates new tokens in the default account of the owner. The
// account is opened when missing, paid by the mint authority.
type IssueMsg struct {
	Metadata *tokenswap.Metadata `protobuf:"bytes,1,opt,name=metadata,proto3" json:"metadata,omitempty"`
	Mint     tokenswap.Address   `protobuf:"bytes,2,opt,name=mint,proto3" json:"mint,omitempty"`
	Owner    tokenswap.Address   `protobuf:"bytes,3,opt,name=owner,proto3" json:"owner,omitempty"`
	Amount   uint64              `protobuf:"varint,4,opt,name=amount,proto3" json:"amount,omitempty"`
}

func (IssueMsg) Path() string {
	return pathIssueMsg
}

func (m *IssueMsg) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Metadata", m.Metadata.Validate())
	errs = errors.AppendField(errs, "Mint", m.Mint.Validate())
	errs = errors.AppendField(errs, "Owner", m.Owner.Validate())
	if m.Amount == 0 {
		errs = errors.Append(errs, errors.Field("Amount", errors.ErrAmount, "must be greater than zero"))
	}
	return errs
}

func (m *IssueMsg) Reset()         { *m = IssueMsg{} }
func (m *IssueMsg) String() string { return codec.String(m) }
func (*IssueMsg) ProtoMessage()    {}

// SendMsg moves tokens between the default accounts of two owners. The
// destination account is opened when missing, paid by the source owner.
type SendMsg struct {
	Metadata    *tokenswap.Metadata `protobuf:"bytes,1,opt,name=metadata,proto3" json:"metadata,omitempty"`
	Mint        tokenswap.Address   `protobuf:"bytes,2,opt,name=mint,proto3" json:"mint,omitempty"`
	Source      tokenswap.Address   `protobuf:"bytes,3,opt,name=source,proto3" json:"source,omitempty"`
	Destination tokenswap.Address   `protobuf:"bytes,4,opt,name=destination,proto3" json:"destination,omitempty"`
	Amount      uint64              `protobuf:"varint,5,opt,name=amount,proto3" json:"amount,omitempty"`
}

func (SendMsg) Path() string {
	return pathSendMsg
}

func (m *SendMsg) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Metadata", m.Metadata.Validate())
	errs = errors.AppendField(errs, "Mint", m.Mint.Validate())
	errs = errors.AppendField(errs, "Source", m.Source.Validate())
	errs = errors.AppendField(errs, "Destination", m.Destination.Validate())
	if m.Amount == 0 {
		errs = errors.Append(errs, errors.Field("Amount", errors.ErrAmount, "must be greater than zero"))
	}
	return errs
}

func (m *SendMsg) Reset()         { *m = SendMsg{} }
func (m *SendMsg) String() string { return codec.String(m) }
func (*SendMsg) ProtoMessage()    {}
