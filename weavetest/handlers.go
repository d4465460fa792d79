package weavetest

import "github.com/iov-one/tokenswap"

// Handler is a mock implementation of the tokenswap.Handler interface.
// Configured results and errors are returned and each call is counted.
type Handler struct {
	checkCall   int
	CheckResult tokenswap.CheckResult
	CheckErr    error

	deliverCall   int
	DeliverResult tokenswap.DeliverResult
	DeliverErr    error
}

var _ tokenswap.Handler = (*Handler)(nil)

func (h *Handler) Check(ctx tokenswap.Context, db tokenswap.KVStore, tx tokenswap.Tx) (*tokenswap.CheckResult, error) {
	h.checkCall++
	if h.CheckErr != nil {
		return nil, h.CheckErr
	}
	res := h.CheckResult
	return &res, nil
}

func (h *Handler) Deliver(ctx tokenswap.Context, db tokenswap.KVStore, tx tokenswap.Tx) (*tokenswap.DeliverResult, error) {
	h.deliverCall++
	if h.DeliverErr != nil {
		return nil, h.DeliverErr
	}
	res := h.DeliverResult
	return &res, nil
}

func (h *Handler) CheckCallCount() int {
	return h.checkCall
}

func (h *Handler) DeliverCallCount() int {
	return h.deliverCall
}

func (h *Handler) CallCount() int {
	return h.checkCall + h.deliverCall
}

// WriteHandler writes Key and Value to the store before returning Err.
type WriteHandler struct {
	Key   []byte
	Value []byte
	Err   error
}

var _ tokenswap.Handler = WriteHandler{}

func (h WriteHandler) Check(ctx tokenswap.Context, db tokenswap.KVStore, tx tokenswap.Tx) (*tokenswap.CheckResult, error) {
	if err := db.Set(h.Key, h.Value); err != nil {
		return nil, err
	}
	if h.Err != nil {
		return nil, h.Err
	}
	return &tokenswap.CheckResult{}, nil
}

func (h WriteHandler) Deliver(ctx tokenswap.Context, db tokenswap.KVStore, tx tokenswap.Tx) (*tokenswap.DeliverResult, error) {
	if err := db.Set(h.Key, h.Value); err != nil {
		return nil, err
	}
	if h.Err != nil {
		return nil, h.Err
	}
	return &tokenswap.DeliverResult{}, nil
}

// PanicHandler panics with Msg on every call.
type PanicHandler struct {
	Msg string
}

var _ tokenswap.Handler = PanicHandler{}

func (h PanicHandler) Check(tokenswap.Context, tokenswap.KVStore, tokenswap.Tx) (*tokenswap.CheckResult, error) {
	panic(h.Msg)
}

func (h PanicHandler) Deliver(tokenswap.Context, tokenswap.KVStore, tokenswap.Tx) (*tokenswap.DeliverResult, error) {
	panic(h.Msg)
}
