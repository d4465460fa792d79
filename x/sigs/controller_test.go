package sigs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iov-one/tokenswap"
	"github.com/iov-one/tokenswap/codec"
	"github.com/iov-one/tokenswap/crypto"
	"github.com/iov-one/tokenswap/errors"
	"github.com/iov-one/tokenswap/store"
)

func TestBuildSignBytes(t *testing.T) {
	const chainID = "swap-chain"
	payload := []byte("open escrow")

	base, err := BuildSignBytes(payload, chainID, 4)
	require.NoError(t, err)
	assert.Len(t, base, 64, "sha512 digest")

	fromTx, err := BuildSignBytesTx(NewStdTx(payload), chainID, 4)
	require.NoError(t, err)
	assert.Equal(t, base, fromTx)

	variants := map[string]struct {
		payload []byte
		chainID string
		seq     int64
	}{
		"other payload": {payload: []byte("cancel escrow"), chainID: chainID, seq: 4},
		"other chain":   {payload: payload, chainID: "other-chain", seq: 4},
		"other nonce":   {payload: payload, chainID: chainID, seq: 5},
	}
	for name, v := range variants {
		t.Run(name, func(t *testing.T) {
			got, err := BuildSignBytes(v.payload, v.chainID, v.seq)
			require.NoError(t, err)
			assert.NotEqual(t, base, got)
		})
	}

	_, err = BuildSignBytes(payload, chainID, -1)
	assert.True(t, ErrInvalidSequence.Is(err))
	_, err = BuildSignBytes(payload, "no", 0)
	assert.True(t, errors.ErrInput.Is(err))
}

func TestVerifySignature(t *testing.T) {
	const chainID = "swap-chain"
	payload := []byte("fulfill escrow")
	tx := NewStdTx(payload)
	key := crypto.GenPrivKeyEd25519()

	sign := func(seq int64) *StdSignature {
		t.Helper()
		sig, err := SignTx(key, tx, chainID, seq)
		require.NoError(t, err)
		return sig
	}

	// Signing is deterministic.
	assert.Equal(t, sign(3), sign(3))

	tampered := sign(2)
	tampered.Signature = &crypto.Signature{Ed25519: append([]byte{0xFF}, tampered.Signature.GetEd25519()[1:]...)}

	kv := store.MemStore()
	steps := []struct {
		name    string
		sig     *StdSignature
		chainID string
		wantErr *errors.Error
	}{
		{name: "nonce must start at zero", sig: sign(1), chainID: chainID, wantErr: ErrInvalidSequence},
		{name: "empty signature", sig: new(StdSignature), chainID: chainID, wantErr: errors.ErrUnauthorized},
		{name: "first signature", sig: sign(0), chainID: chainID},
		{name: "next nonce", sig: sign(1), chainID: chainID},
		{name: "replay", sig: sign(1), chainID: chainID, wantErr: ErrInvalidSequence},
		{name: "skipped nonce", sig: sign(13), chainID: chainID, wantErr: ErrInvalidSequence},
		{name: "wrong chain", sig: sign(2), chainID: "other-chain", wantErr: errors.ErrUnauthorized},
		{name: "tampered signature", sig: tampered, chainID: chainID, wantErr: errors.ErrUnauthorized},
		{name: "recovers after failures", sig: sign(2), chainID: chainID},
	}
	for _, step := range steps {
		cond, err := VerifySignature(kv, step.sig, payload, step.chainID)
		if step.wantErr != nil {
			if !step.wantErr.Is(err) {
				t.Fatalf("%s: want %s error, got %v", step.name, step.wantErr, err)
			}
			continue
		}
		require.NoError(t, err, step.name)
		assert.Equal(t, key.PublicKey().Condition(), cond, step.name)
	}
}

func TestVerifyTxSignatures(t *testing.T) {
	const chainID = "swap-chain"
	maker, taker := crypto.GenPrivKeyEd25519(), crypto.GenPrivKeyEd25519()
	tx := NewStdTx([]byte("swap"))

	sig := func(key *crypto.PrivateKey, signed *StdTx, seq int64) *StdSignature {
		t.Helper()
		s, err := SignTx(key, signed, chainID, seq)
		require.NoError(t, err)
		return s
	}

	kv := store.MemStore()

	signers, err := VerifyTxSignatures(kv, tx, chainID)
	require.NoError(t, err)
	assert.Empty(t, signers)

	// A signature of another payload is rejected.
	tx.Signatures = []*StdSignature{sig(maker, NewStdTx([]byte("other")), 0)}
	_, err = VerifyTxSignatures(kv, tx, chainID)
	assert.True(t, errors.ErrUnauthorized.Is(err))

	tx.Signatures = []*StdSignature{sig(maker, tx, 0)}
	signers, err = VerifyTxSignatures(kv, tx, chainID)
	require.NoError(t, err)
	assert.Equal(t, []tokenswap.Condition{maker.PublicKey().Condition()}, signers)

	// One replayed signature fails the whole transaction.
	tx.Signatures = []*StdSignature{sig(maker, tx, 0), sig(taker, tx, 0)}
	_, err = VerifyTxSignatures(kv, tx, chainID)
	assert.True(t, ErrInvalidSequence.Is(err))

	tx.Signatures = []*StdSignature{sig(maker, tx, 1), sig(taker, tx, 0)}
	signers, err = VerifyTxSignatures(kv, tx, chainID)
	require.NoError(t, err)
	assert.Equal(t, []tokenswap.Condition{
		maker.PublicKey().Condition(),
		taker.PublicKey().Condition(),
	}, signers)
}

func TestNextNonce(t *testing.T) {
	kv := store.MemStore()
	priv := crypto.GenPrivKeyEd25519()
	addr := priv.PublicKey().Address()
	chainID := "nonce-chain"
	tx := NewStdTx([]byte("payload"))

	n, err := NextNonce(kv, addr)
	require.NoError(t, err)
	assert.Equal(t, int64(0), n)

	for i := int64(0); i < 3; i++ {
		sig, err := SignTx(priv, tx, chainID, i)
		require.NoError(t, err)
		tx.Signatures = []*StdSignature{sig}
		_, err = VerifyTxSignatures(kv, tx, chainID)
		require.NoError(t, err)
	}

	n, err = NextNonce(kv, addr)
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)
}

func TestStdSignatureSerialization(t *testing.T) {
	priv := crypto.GenPrivKeyEd25519()
	sig, err := SignTx(priv, NewStdTx([]byte("foo")), "ser-chain", 42)
	require.NoError(t, err)

	raw, err := codec.Marshal(sig)
	require.NoError(t, err)
	var loaded StdSignature
	require.NoError(t, codec.Unmarshal(raw, &loaded))
	assert.Equal(t, sig, &loaded)
	assert.NoError(t, loaded.Validate())

	var user UserData
	assert.Error(t, user.Validate())
}
