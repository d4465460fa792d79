package errors

import (
	"io"
	"testing"
)

func TestABCInfo(t *testing.T) {
	cases := map[string]struct {
		err      error
		debug    bool
		wantCode uint32
		wantLog  string
	}{
		"success": {
			err:      nil,
			wantCode: 0,
			wantLog:  "",
		},
		"nil registered error": {
			err:      (*Error)(nil),
			wantCode: 0,
			wantLog:  "",
		},
		"registered error": {
			err:      ErrInsufficientAmount,
			wantCode: ErrInsufficientAmount.code,
			wantLog:  "insufficient amount",
		},
		"wrapped registered error": {
			err:      Wrap(Wrapf(ErrNotFound, "escrow %d", 7), "cancel"),
			wantCode: ErrNotFound.code,
			wantLog:  "cancel: escrow 7: not found",
		},
		"group uses the first code": {
			err:      Append(ErrDuplicate, ErrAmount),
			wantCode: ErrDuplicate.code,
		},
		"stdlib error is redacted": {
			err:      Wrap(io.EOF, "cannot read"),
			wantCode: internalABCICode,
			wantLog:  internalABCILog,
		},
		"stdlib error in debug mode": {
			err:      Wrap(io.EOF, "cannot read"),
			debug:    true,
			wantCode: internalABCICode,
		},
		"custom coder": {
			err:      customErr{},
			wantCode: 999,
			wantLog:  "custom",
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			code, log := ABCIInfo(tc.err, tc.debug)
			if code != tc.wantCode {
				t.Errorf("want %d code, got %d", tc.wantCode, code)
			}
			if tc.wantLog != "" || tc.err == nil {
				if log != tc.wantLog {
					t.Errorf("want %q log, got %q", tc.wantLog, log)
				}
			}
		})
	}
}

func TestRedact(t *testing.T) {
	if err := Redact(Wrap(ErrPanic, "nil pointer"), false); err.Error() != internalABCILog {
		t.Fatalf("panic must be redacted, got %q", err)
	}
	if err := Redact(io.EOF, false); err.Error() != internalABCILog {
		t.Fatalf("unregistered error must be redacted, got %q", err)
	}
	serr := Wrap(ErrNotFound, "escrow")
	if err := Redact(serr, false); err != serr {
		t.Fatalf("registered error must be kept, got %q", err)
	}
	if err := Redact(io.EOF, true); err != io.EOF {
		t.Fatalf("debug mode must keep the error, got %q", err)
	}
}

func TestABCIError(t *testing.T) {
	code, log := ABCIInfo(Wrap(ErrNotFound, "escrow"), false)
	err := ABCIError(code, log)
	if !ErrNotFound.Is(err) {
		t.Fatalf("want not found error, got %q", err)
	}
	if err := ABCIError(SuccessABCICode, ""); err != nil {
		t.Fatalf("success must not be an error, got %q", err)
	}
	if err := ABCIError(internalABCICode, internalABCILog); err == nil || ErrNotFound.Is(err) {
		t.Fatalf("want an internal error, got %v", err)
	}
}

// customErr provides its own ABCI code.
type customErr struct{}

func (customErr) ABCICode() uint32 { return 999 }

func (customErr) Error() string { return "custom" }
