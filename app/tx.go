package app

import (
	"fmt"
	"reflect"

	"github.com/iov-one/tokenswap"
	"github.com/iov-one/tokenswap/codec"
	"github.com/iov-one/tokenswap/errors"
	"github.com/iov-one/tokenswap/x/sigs"
)

// Tx is the transaction format of the ledger. It carries a single
// serialized message together with the signatures of all signers.
//
// The message is serialized with its path, so that a MsgCodec can decode it
// into the registered type.
type Tx struct {
	Signatures []*sigs.StdSignature `protobuf:"bytes,1,rep,name=signatures,proto3" json:"signatures,omitempty"`
	Path       string               `protobuf:"bytes,2,opt,name=path,proto3" json:"path,omitempty"`
	Msg        []byte               `protobuf:"bytes,3,opt,name=msg,proto3" json:"msg,omitempty"`
}

var _ sigs.SignedTx = (*Tx)(nil)

// NewTx returns an unsigned transaction carrying msg.
func NewTx(msg tokenswap.Msg) (*Tx, error) {
	if msg == nil {
		return nil, errors.Wrap(errors.ErrMsg, "transaction without a message")
	}
	raw, err := codec.Marshal(msg)
	if err != nil {
		return nil, errors.Wrap(err, "cannot serialize message")
	}
	return &Tx{Path: msg.Path(), Msg: raw}, nil
}

func (tx *Tx) Reset()         { *tx = Tx{} }
func (tx *Tx) String() string { return codec.String(tx) }
func (*Tx) ProtoMessage()     {}

func (tx *Tx) GetSignatures() []*sigs.StdSignature {
	return tx.Signatures
}

// GetSignBytes returns the serialized transaction without signatures.
func (tx *Tx) GetSignBytes() ([]byte, error) {
	if tx.Path == "" {
		return nil, errors.Wrap(errors.ErrMsg, "transaction without a message")
	}
	return codec.Marshal(&Tx{Path: tx.Path, Msg: tx.Msg})
}

// decodedTx is a transaction with its message decoded by a MsgCodec.
type decodedTx struct {
	*Tx
	msg tokenswap.Msg
}

var _ tokenswap.Tx = (*decodedTx)(nil)
var _ sigs.SignedTx = (*decodedTx)(nil)

func (tx *decodedTx) GetMsg() (tokenswap.Msg, error) {
	return tx.msg, nil
}

// MsgCodec knows all message types the application can decode.
type MsgCodec struct {
	types map[string]reflect.Type
}

// NewMsgCodec returns a codec without any message registered.
func NewMsgCodec() *MsgCodec {
	return &MsgCodec{types: make(map[string]reflect.Type)}
}

// Register adds message types, given by example instances. Messages must
// be pointers. It panics if a path is registered twice.
func (c *MsgCodec) Register(msgs ...tokenswap.Msg) {
	for _, m := range msgs {
		tp := reflect.TypeOf(m)
		if tp.Kind() != reflect.Ptr {
			panic(fmt.Sprintf("message %T must be a pointer", m))
		}
		if _, ok := c.types[m.Path()]; ok {
			panic(fmt.Sprintf("message path %q registered twice", m.Path()))
		}
		c.types[m.Path()] = tp.Elem()
	}
}

// Registry returns a registry that adds the message type of every handled
// message to this codec before registering the handler in r.
func (c *MsgCodec) Registry(r tokenswap.Registry) tokenswap.Registry {
	return codecRegistry{codec: c, next: r}
}

type codecRegistry struct {
	codec *MsgCodec
	next  tokenswap.Registry
}

func (r codecRegistry) Handle(m tokenswap.Msg, h tokenswap.Handler) {
	r.codec.Register(m)
	r.next.Handle(m, h)
}

// Decode parses a serialized transaction, including its message.
func (c *MsgCodec) Decode(raw []byte) (tokenswap.Tx, error) {
	var tx Tx
	if err := codec.Unmarshal(raw, &tx); err != nil {
		return nil, errors.Wrap(err, "cannot decode transaction")
	}
	if tx.Path == "" {
		return nil, errors.Wrap(errors.ErrMsg, "transaction without a message")
	}
	tp, ok := c.types[tx.Path]
	if !ok {
		return nil, errors.Wrapf(errors.ErrMsg, "unknown message path %q", tx.Path)
	}
	msg := reflect.New(tp).Interface().(tokenswap.Msg)
	if err := codec.Unmarshal(tx.Msg, msg); err != nil {
		return nil, errors.Wrapf(err, "cannot decode %q message", tx.Path)
	}
	return &decodedTx{Tx: &tx, msg: msg}, nil
}

// Decoder returns Decode as a TxDecoder.
func (c *MsgCodec) Decoder() tokenswap.TxDecoder {
	return c.Decode
}
