package codec

import (
	"reflect"

	"github.com/gogo/protobuf/proto"
)

// isNil returns true for nil interfaces and for typed nil pointers.
func isNil(m proto.Message) bool {
	if m == nil {
		return true
	}
	v := reflect.ValueOf(m)
	return v.Kind() == reflect.Ptr && v.IsNil()
}
