package weavetest

import (
	"encoding/binary"
	"fmt"

	"github.com/iov-one/tokenswap"
)

// Tx represents a transaction carrying a single message.
type Tx struct {
	// Msg is the message that is to be processed by this transaction.
	Msg tokenswap.Msg
	// Err if set is returned by any method call.
	Err error
}

var _ tokenswap.Tx = (*Tx)(nil)

func (tx *Tx) GetMsg() (tokenswap.Msg, error) {
	return tx.Msg, tx.Err
}

// Msg is a request processed within a single transaction.
type Msg struct {
	// Path returned by the path method, consumed by the router.
	RoutePath string
	// Serialized represents the serialized form of this message.
	Serialized []byte
	// Err if set is returned by any method call.
	Err error
}

var _ tokenswap.Msg = (*Msg)(nil)

func (m *Msg) Path() string {
	return m.RoutePath
}

func (m *Msg) Validate() error {
	return m.Err
}

func (m *Msg) Unmarshal(b []byte) error {
	m.Serialized = b
	return m.Err
}

func (m *Msg) Marshal() ([]byte, error) {
	return m.Serialized, m.Err
}

func (m *Msg) Reset()         { *m = Msg{} }
func (m *Msg) String() string { return fmt.Sprintf("%s %X", m.RoutePath, m.Serialized) }
func (*Msg) ProtoMessage()    {}

// SequenceID returns an 8 byte big endian encoded representation of given
// number, the same as sequence keys are encoded.
func SequenceID(n uint64) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, n)
	return b
}
