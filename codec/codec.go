/*
Package codec provides the binary encoding used for all persisted models and
messages.

The format is protobuf. Every serialized type is a proto.Message with its
fields declared by protobuf struct tags, for example

	type Mint struct {
		Metadata *tokenswap.Metadata `protobuf:"bytes,1,opt,name=metadata,proto3"`
		Ticker   string              `protobuf:"bytes,2,opt,name=ticker,proto3"`
	}

Every field of such type must carry a tag. Zero values are not written and
unknown fields are skipped when decoding, so that adding a field to a model
does not break reading older data.
*/
package codec

import (
	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/tokenswap/errors"
)

// Marshal serializes m.
func Marshal(m proto.Message) ([]byte, error) {
	if isNil(m) {
		return nil, errors.Wrap(errors.ErrHuman, "cannot serialize nil")
	}
	raw, err := proto.Marshal(m)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrInput, "cannot serialize %T: %s", m, err)
	}
	if raw == nil {
		raw = []byte{}
	}
	return raw, nil
}

// Unmarshal decodes raw into m. Any previous content of m is dropped.
func Unmarshal(raw []byte, m proto.Message) error {
	if err := proto.Unmarshal(raw, m); err != nil {
		return errors.Wrapf(errors.ErrInput, "cannot decode %T: %s", m, err)
	}
	return nil
}

// String is a compact text representation of m, used to implement the
// proto.Message interface.
func String(m proto.Message) string {
	return proto.CompactTextString(m)
}
