package errors

import (
	"io"
	"testing"
)

func TestAppend(t *testing.T) {
	cases := map[string]struct {
		errs     []error
		wantNil  bool
		wantCode uint32
		wantIs   []*Error
	}{
		"no errors": {
			errs:    nil,
			wantNil: true,
		},
		"only nil errors": {
			errs:    []error{nil, nil},
			wantNil: true,
		},
		"single error is returned as it is": {
			errs:     []error{nil, ErrNotFound},
			wantCode: ErrNotFound.code,
			wantIs:   []*Error{ErrNotFound},
		},
		"code of the first one wins": {
			errs:     []error{Wrap(ErrAmount, "deposit"), ErrEmpty},
			wantCode: ErrAmount.code,
			wantIs:   []*Error{ErrAmount, ErrEmpty},
		},
		"nested groups are flattened": {
			errs:     []error{Append(ErrState, ErrInput), ErrDuplicate},
			wantCode: ErrState.code,
			wantIs:   []*Error{ErrState, ErrInput, ErrDuplicate},
		},
		"stdlib error is internal": {
			errs:     []error{io.EOF, ErrEmpty},
			wantCode: 1,
			wantIs:   []*Error{ErrEmpty},
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			err := Append(tc.errs...)
			if tc.wantNil {
				if err != nil {
					t.Fatalf("want nil, got %+v", err)
				}
				return
			}
			if code := abciCode(err); code != tc.wantCode {
				t.Fatalf("want %d code, got %d", tc.wantCode, code)
			}
			for _, kind := range tc.wantIs {
				if !kind.Is(err) {
					t.Fatalf("want %q to be part of %q", kind, err)
				}
			}
		})
	}
}
