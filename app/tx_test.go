package app

import (
	"testing"

	"github.com/iov-one/tokenswap"
	"github.com/iov-one/tokenswap/codec"
	"github.com/iov-one/tokenswap/errors"
	"github.com/iov-one/tokenswap/store"
	"github.com/iov-one/tokenswap/weavetest"
	"github.com/iov-one/tokenswap/weavetest/assert"
	"github.com/iov-one/tokenswap/x/cash"
	"github.com/iov-one/tokenswap/x/sigs"
)

func TestTxRoundTrip(t *testing.T) {
	key := weavetest.NewKey()
	msg := &cash.SendMsg{
		Metadata:    &tokenswap.Metadata{Schema: 1},
		Mint:        cash.MintAddress("ABC"),
		Source:      key.PublicKey().Address(),
		Destination: weavetest.RandomAddr(t),
		Amount:      123,
	}
	tx, err := NewTx(msg)
	assert.Nil(t, err)
	sig, err := sigs.SignTx(key, tx, "test-chain", 0)
	assert.Nil(t, err)
	tx.Signatures = append(tx.Signatures, sig)

	raw, err := codec.Marshal(tx)
	assert.Nil(t, err)

	c := NewMsgCodec()
	c.Register(&cash.SendMsg{})
	got, err := c.Decode(raw)
	assert.Nil(t, err)

	gotMsg, err := got.GetMsg()
	assert.Nil(t, err)
	assert.Equal(t, msg, gotMsg)

	stx, ok := got.(sigs.SignedTx)
	if !ok {
		t.Fatalf("decoded transaction is not signed: %T", got)
	}
	assert.Equal(t, 1, len(stx.GetSignatures()))

	conds, err := sigs.VerifyTxSignatures(store.MemStore(), stx, "test-chain")
	assert.Nil(t, err)
	assert.Equal(t, []tokenswap.Condition{key.PublicKey().Condition()}, conds)
}

func TestTxSignBytesExcludeSignatures(t *testing.T) {
	key := weavetest.NewKey()
	tx, err := NewTx(&cash.IssueMsg{
		Metadata: &tokenswap.Metadata{Schema: 1},
		Mint:     cash.MintAddress("ABC"),
		Owner:    weavetest.RandomAddr(t),
		Amount:   1,
	})
	assert.Nil(t, err)
	before, err := tx.GetSignBytes()
	assert.Nil(t, err)

	sig, err := sigs.SignTx(key, tx, "test-chain", 3)
	assert.Nil(t, err)
	tx.Signatures = []*sigs.StdSignature{sig}

	after, err := tx.GetSignBytes()
	assert.Nil(t, err)
	assert.Equal(t, before, after)
}

func TestDecodeFailures(t *testing.T) {
	c := NewMsgCodec()
	c.Register(&cash.SendMsg{})

	tx, err := NewTx(&cash.IssueMsg{Metadata: &tokenswap.Metadata{Schema: 1}})
	assert.Nil(t, err)
	raw, err := codec.Marshal(tx)
	assert.Nil(t, err)
	_, err = c.Decode(raw)
	assert.IsErr(t, errors.ErrMsg, err)

	_, err = c.Decode(nil)
	assert.IsErr(t, errors.ErrMsg, err)

	_, err = c.Decode([]byte{0x12, 0x09, 'c'})
	assert.IsErr(t, errors.ErrInput, err)

	// A known path with a malformed message body.
	raw, err = codec.Marshal(&Tx{Path: (&cash.SendMsg{}).Path(), Msg: []byte{0x0a, 0x05}})
	assert.Nil(t, err)
	_, err = c.Decode(raw)
	assert.IsErr(t, errors.ErrInput, err)

	_, err = NewTx(nil)
	assert.IsErr(t, errors.ErrMsg, err)

	_, err = (&Tx{}).GetSignBytes()
	assert.IsErr(t, errors.ErrMsg, err)
}

func TestMsgCodecRegisterPanics(t *testing.T) {
	c := NewMsgCodec()
	c.Register(&cash.SendMsg{})
	assert.Panics(t, func() { c.Register(&cash.SendMsg{}) })
}

func TestCodecRegistry(t *testing.T) {
	c := NewMsgCodec()
	r := NewRouter()
	reg := c.Registry(r)
	reg.Handle(&cash.SendMsg{}, &weavetest.Handler{})

	_, ok := c.types[(&cash.SendMsg{}).Path()]
	assert.Equal(t, true, ok)
	_, ok = r.routes[(&cash.SendMsg{}).Path()]
	assert.Equal(t, true, ok)
}
