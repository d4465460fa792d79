package crypto

import (
	"github.com/iov-one/tokenswap"
	"github.com/iov-one/tokenswap/codec"
	"github.com/iov-one/tokenswap/errors"
	"golang.org/x/crypto/ed25519"
)

// PublicKey is the public part of a signing key.
type PublicKey struct {
	Ed25519 []byte `protobuf:"bytes,1,opt,name=ed25519,proto3" json:"ed25519"`
}

// GetEd25519 returns the raw ed25519 public key.
func (p *PublicKey) GetEd25519() []byte {
	if p == nil {
		return nil
	}
	return p.Ed25519
}

// Verify verifies the signature was created with this message and public key
func (p *PublicKey) Verify(message []byte, sig *Signature) bool {
	pub := p.GetEd25519()
	raw := sig.GetEd25519()
	if len(pub) != ed25519.PublicKeySize || len(raw) != ed25519.SignatureSize {
		return false
	}
	return ed25519.Verify(ed25519.PublicKey(pub), message, raw)
}

// Condition encodes the public key into a condition. An empty key has no
// condition.
//
//	p.Condition().Address()
//
// will return an Address if needed.
func (p *PublicKey) Condition() tokenswap.Condition {
	pub := p.GetEd25519()
	if len(pub) == 0 {
		return nil
	}
	return tokenswap.NewCondition(ExtensionName, "ed25519", pub)
}

// Address returns the address of the key condition.
func (p *PublicKey) Address() tokenswap.Address {
	return p.Condition().Address()
}

func (p *PublicKey) Reset()         { *p = PublicKey{} }
func (p *PublicKey) String() string { return codec.String(p) }
func (*PublicKey) ProtoMessage()    {}

// PrivateKey is the secret part of a signing key.
type PrivateKey struct {
	Ed25519 []byte `protobuf:"bytes,1,opt,name=ed25519,proto3" json:"ed25519"`
}

// GetEd25519 returns the raw ed25519 private key.
func (p *PrivateKey) GetEd25519() []byte {
	if p == nil {
		return nil
	}
	return p.Ed25519
}

// Sign returns a matching signature for this private key
func (p *PrivateKey) Sign(message []byte) (*Signature, error) {
	key := p.GetEd25519()
	if len(key) != ed25519.PrivateKeySize {
		return nil, errors.Wrapf(errors.ErrInput, "invalid private key length %d", len(key))
	}
	bz := ed25519.Sign(ed25519.PrivateKey(key), message)
	return &Signature{Ed25519: bz}, nil
}

// PublicKey returns the corresponding PublicKey
func (p *PrivateKey) PublicKey() *PublicKey {
	key := p.GetEd25519()
	if len(key) != ed25519.PrivateKeySize {
		return &PublicKey{}
	}
	pub := ed25519.PrivateKey(key).Public().(ed25519.PublicKey)
	return &PublicKey{Ed25519: pub}
}

func (p *PrivateKey) Reset()         { *p = PrivateKey{} }
func (p *PrivateKey) String() string { return codec.String(p) }
func (*PrivateKey) ProtoMessage()    {}

// Signature is a signature made with a PrivateKey.
type Signature struct {
	Ed25519 []byte `protobuf:"bytes,1,opt,name=ed25519,proto3" json:"ed25519"`
}

// GetEd25519 returns the raw ed25519 signature.
func (s *Signature) GetEd25519() []byte {
	if s == nil {
		return nil
	}
	return s.Ed25519
}

func (s *Signature) Reset()         { *s = Signature{} }
func (s *Signature) String() string { return codec.String(s) }
func (*Signature) ProtoMessage()    {}

// GenPrivKeyEd25519 returns a random new private key
func GenPrivKeyEd25519() *PrivateKey {
	_, priv, err := ed25519.GenerateKey(nil)
	if err != nil {
		panic(err)
	}
	return &PrivateKey{Ed25519: priv}
}

// PrivKeyEd25519FromSeed will deterministically generate a private key from
// a given seed. Use if you have a strong source of external randomness,
// or for deterministic keys in test cases.
func PrivKeyEd25519FromSeed(seed []byte) *PrivateKey {
	priv := ed25519.NewKeyFromSeed(seed)
	return &PrivateKey{Ed25519: priv}
}
