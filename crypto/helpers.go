package crypto

import (
	"github.com/iov-one/tokenswap"
)

// ExtensionName is used for the Conditions we get from signatures
const ExtensionName = "sigs"

// PubKey represents a crypto public key we use
type PubKey interface {
	Verify(message []byte, sig *Signature) bool
	Condition() tokenswap.Condition
}

// Signer is the functionality we use from a private key
// No serializing to support hardware devices as well.
type Signer interface {
	Sign(message []byte) (*Signature, error)
	PublicKey() *PublicKey
}

var (
	_ PubKey = (*PublicKey)(nil)
	_ Signer = (*PrivateKey)(nil)

	_ tokenswap.Persistent = (*PublicKey)(nil)
	_ tokenswap.Persistent = (*PrivateKey)(nil)
	_ tokenswap.Persistent = (*Signature)(nil)
)
