package app

import (
	abci "github.com/tendermint/tendermint/abci/types"

	"github.com/iov-one/tokenswap"
	"github.com/iov-one/tokenswap/codec"
	"github.com/iov-one/tokenswap/errors"
)

// ResultSet holds the keys or the values of a query response.
type ResultSet struct {
	Results [][]byte `protobuf:"bytes,1,rep,name=results,proto3" json:"results,omitempty"`
}

func (r *ResultSet) Reset()         { *r = ResultSet{} }
func (r *ResultSet) String() string { return codec.String(r) }
func (*ResultSet) ProtoMessage()    {}

// ResultsFromKeys returns a ResultSet of all keys given a set of models
func ResultsFromKeys(models []tokenswap.Model) *ResultSet {
	res := make([][]byte, len(models))
	for i, m := range models {
		res[i] = m.Key
	}
	return &ResultSet{Results: res}
}

// ResultsFromValues returns a ResultSet of all values given a set of models
func ResultsFromValues(models []tokenswap.Model) *ResultSet {
	res := make([][]byte, len(models))
	for i, m := range models {
		res[i] = m.Value
	}
	return &ResultSet{Results: res}
}

func marshalResults(r *ResultSet) ([]byte, error) {
	if len(r.Results) == 0 {
		return nil, nil
	}
	return codec.Marshal(r)
}

// QueryModels inverts the ResultSet encoding of a successful query
// response and joins keys and values into models again.
func QueryModels(res abci.ResponseQuery) ([]tokenswap.Model, error) {
	if !res.IsOK() {
		return nil, errors.ABCIError(res.Code, res.Log)
	}
	var keys, values ResultSet
	if err := codec.Unmarshal(res.Key, &keys); err != nil {
		return nil, errors.Wrap(err, "keys")
	}
	if err := codec.Unmarshal(res.Value, &values); err != nil {
		return nil, errors.Wrap(err, "values")
	}
	if len(keys.Results) != len(values.Results) {
		return nil, errors.Wrapf(errors.ErrInput, "%d keys for %d values", len(keys.Results), len(values.Results))
	}
	models := make([]tokenswap.Model, len(keys.Results))
	for i := range models {
		models[i] = tokenswap.Model{Key: keys.Results[i], Value: values.Results[i]}
	}
	return models, nil
}

func checkResult(res *tokenswap.CheckResult, err error, debug bool) abci.ResponseCheckTx {
	if err != nil {
		code, log := errors.ABCIInfo(err, debug)
		return abci.ResponseCheckTx{Code: code, Log: log}
	}
	return abci.ResponseCheckTx{Data: res.Data, Log: res.Log}
}

func deliverResult(res *tokenswap.DeliverResult, err error, debug bool) abci.ResponseDeliverTx {
	if err != nil {
		code, log := errors.ABCIInfo(err, debug)
		return abci.ResponseDeliverTx{Code: code, Log: log}
	}
	return abci.ResponseDeliverTx{Data: res.Data, Log: res.Log}
}
