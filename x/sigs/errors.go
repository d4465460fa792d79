package sigs

import (
	"github.com/iov-one/tokenswap/errors"
)

// ErrInvalidSequence is returned when a signature carries a nonce that is
// not the next expected one. Codes 120~129 are reserved for this extension.
var ErrInvalidSequence = errors.Register(120, "invalid sequence number")
