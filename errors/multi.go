package errors

import (
	"fmt"
	"strings"
)

// Append clubs together all provided errors. Nil values are ignored.
//
// If no errors are provided or all of them are nil, nil is returned. A single
// non nil error is returned as it is. Multiple errors are grouped together and
// the ABCI code of the returned error is the code of the first one, consistent
// with a fail-fast approach.
func Append(errs ...error) error {
	var res multiErr
	for _, e := range errs {
		if isNilErr(e) {
			continue
		}
		// Flatten so that nested groups do not create a tree.
		if m, ok := e.(multiErr); ok {
			res = append(res, m...)
		} else {
			res = append(res, e)
		}
	}
	switch len(res) {
	case 0:
		return nil
	case 1:
		return res[0]
	default:
		return res
	}
}

type multiErr []error

var _ unpacker = multiErr(nil)
var _ coder = multiErr(nil)

func (m multiErr) Error() string {
	if len(m) == 1 {
		return m[0].Error()
	}
	points := make([]string, len(m))
	for i, err := range m {
		points[i] = fmt.Sprintf("* %s", err)
	}
	return fmt.Sprintf("%d errors occurred:\n\t%s\n", len(m), strings.Join(points, "\n\t"))
}

// Unpack returns all grouped errors.
func (m multiErr) Unpack() []error {
	return []error(m)
}

// ABCICode returns the code of the first grouped error.
func (m multiErr) ABCICode() uint32 {
	return abciCode(m[0])
}
