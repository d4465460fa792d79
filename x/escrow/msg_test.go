package escrow

import (
	"testing"

	"github.com/iov-one/tokenswap"
	"github.com/iov-one/tokenswap/codec"
	"github.com/iov-one/tokenswap/errors"
	"github.com/iov-one/tokenswap/weavetest"
	"github.com/iov-one/tokenswap/weavetest/assert"
)

func TestOpenMsgValidate(t *testing.T) {
	addr := weavetest.RandomAddr(t)
	cases := map[string]struct {
		msg      OpenMsg
		wantErrs map[string]*errors.Error
	}{
		"maker is optional": {
			msg: OpenMsg{
				Metadata:      &tokenswap.Metadata{Schema: 1},
				MintDeposit:   addr,
				MintReceive:   addr,
				DepositAmount: 1,
				ReceiveAmount: 1,
			},
			wantErrs: map[string]*errors.Error{
				"Maker":         nil,
				"DepositAmount": nil,
				"ReceiveAmount": nil,
			},
		},
		"zero amounts": {
			msg: OpenMsg{
				Metadata:    &tokenswap.Metadata{Schema: 1},
				Maker:       addr,
				MintDeposit: addr,
				MintReceive: addr,
			},
			wantErrs: map[string]*errors.Error{
				"DepositAmount": errors.ErrAmount,
				"ReceiveAmount": errors.ErrAmount,
			},
		},
		"invalid maker": {
			msg: OpenMsg{
				Metadata:      &tokenswap.Metadata{Schema: 1},
				Maker:         []byte("short"),
				DepositAmount: 1,
				ReceiveAmount: 1,
			},
			wantErrs: map[string]*errors.Error{
				"Maker":       errors.ErrInput,
				"MintDeposit": errors.ErrEmpty,
				"MintReceive": errors.ErrEmpty,
			},
		},
	}
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			err := tc.msg.Validate()
			for field, want := range tc.wantErrs {
				assert.FieldError(t, err, field, want)
			}
		})
	}
}

func TestCancelAndFulfillMsgValidate(t *testing.T) {
	err := (&CancelMsg{}).Validate()
	assert.FieldError(t, err, "Metadata", errors.ErrEmpty)
	assert.FieldError(t, err, "Escrow", errors.ErrEmpty)

	err = (&FulfillMsg{Metadata: &tokenswap.Metadata{Schema: 1}, Escrow: weavetest.RandomAddr(t)}).Validate()
	assert.Nil(t, err)

	err = (&FulfillMsg{Metadata: &tokenswap.Metadata{Schema: 1}, Escrow: weavetest.RandomAddr(t), Taker: []byte{1}}).Validate()
	assert.FieldError(t, err, "Taker", errors.ErrInput)
}

func TestMsgSerialization(t *testing.T) {
	open := &OpenMsg{
		Metadata:      &tokenswap.Metadata{Schema: 1},
		Seed:          9,
		MintDeposit:   weavetest.RandomAddr(t),
		MintReceive:   weavetest.RandomAddr(t),
		DepositAmount: 100,
		ReceiveAmount: 50,
	}
	raw, err := codec.Marshal(open)
	assert.Nil(t, err)
	var gotOpen OpenMsg
	assert.Nil(t, codec.Unmarshal(raw, &gotOpen))
	assert.Equal(t, *open, gotOpen)
	assert.Equal(t, "escrow/open", gotOpen.Path())

	fulfill := &FulfillMsg{
		Metadata: &tokenswap.Metadata{Schema: 1},
		Escrow:   weavetest.RandomAddr(t),
		Taker:    weavetest.RandomAddr(t),
	}
	raw, err = codec.Marshal(fulfill)
	assert.Nil(t, err)
	var gotFulfill FulfillMsg
	assert.Nil(t, codec.Unmarshal(raw, &gotFulfill))
	assert.Equal(t, *fulfill, gotFulfill)
}
