package app

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	abci "github.com/tendermint/tendermint/abci/types"
	"github.com/tendermint/tendermint/libs/log"

	"github.com/iov-one/tokenswap"
	"github.com/iov-one/tokenswap/errors"
)

// Application processes transactions against a commit store and exposes
// them through the ABCI interface. It is not safe for concurrent use;
// transactions are delivered one at a time.
//
// Errors on ABCI steps that do not take user input (InitChain and Commit)
// cannot be reported back to the consensus engine and are handled as
// panics.
type Application struct {
	name        string
	store       *CommitStore
	decoder     tokenswap.TxDecoder
	handler     tokenswap.Handler
	queries     tokenswap.QueryRouter
	initializer tokenswap.Initializer
	logger      log.Logger
	debug       bool

	// chainID is loaded from the store or set by InitChain.
	chainID string
	// height of the last commit.
	height int64
	// blockHeight is set by BeginBlock, zero outside of a block.
	blockHeight int64
}

var _ abci.Application = (*Application)(nil)

// NewApplication returns an application working on given store. The chain
// id and the height are loaded from the store.
func NewApplication(
	name string,
	store tokenswap.CommitKVStore,
	decoder tokenswap.TxDecoder,
	handler tokenswap.Handler,
	queries tokenswap.QueryRouter,
	initializer tokenswap.Initializer,
) (*Application, error) {
	a := &Application{
		name:        name,
		store:       NewCommitStore(store),
		decoder:     decoder,
		handler:     handler,
		queries:     queries,
		initializer: initializer,
		logger:      log.NewNopLogger(),
	}
	chainID, err := loadChainID(a.store.DeliverStore())
	if err != nil {
		return nil, err
	}
	a.chainID = chainID
	info, err := a.store.CommitInfo()
	if err != nil {
		return nil, errors.Wrap(err, "cannot load last commit")
	}
	a.height = info.Version
	return a, nil
}

// WithLogger sets the logger passed to every handler in the context.
func (a *Application) WithLogger(logger log.Logger) *Application {
	a.logger = logger.With("module", a.name)
	return a
}

// WithDebug controls if internal error details are included in results.
func (a *Application) WithDebug(debug bool) *Application {
	a.debug = debug
	return a
}

// ChainID returns the chain id, empty before InitChain.
func (a *Application) ChainID() string {
	return a.chainID
}

// Height returns the height of the last commit.
func (a *Application) Height() int64 {
	return a.height
}

// Info implements abci.Application. It returns the height and hash of the
// last commit.
func (a *Application) Info(req abci.RequestInfo) abci.ResponseInfo {
	info, err := a.store.CommitInfo()
	if err != nil {
		a.logger.Error("cannot load last commit", "err", err)
		return abci.ResponseInfo{Data: a.name}
	}
	a.logger.Info("info synced", "height", info.Version, "hash", fmt.Sprintf("%X", info.Hash))
	return abci.ResponseInfo{
		Data:             a.name,
		LastBlockHeight:  info.Version,
		LastBlockAppHash: info.Hash,
	}
}

// SetOption is not supported.
func (a *Application) SetOption(req abci.RequestSetOption) abci.ResponseSetOption {
	return abci.ResponseSetOption{Log: "Not Implemented"}
}

// InitChain implements abci.Application. The app state of the genesis file
// is loaded into the deliver store. It panics if the state is invalid.
func (a *Application) InitChain(req abci.RequestInitChain) abci.ResponseInitChain {
	var opts tokenswap.Options
	if len(req.AppStateBytes) > 0 {
		if err := json.Unmarshal(req.AppStateBytes, &opts); err != nil {
			panic(errors.Wrapf(errors.ErrInput, "cannot parse app state: %s", err))
		}
	}
	if err := a.InitGenesis(req.ChainId, opts); err != nil {
		panic(err)
	}
	return abci.ResponseInitChain{}
}

// InitGenesis stores the chain id and loads the genesis state. Changes are
// persisted by the next Commit.
func (a *Application) InitGenesis(chainID string, opts tokenswap.Options) error {
	if a.chainID != "" {
		return errors.Wrapf(errors.ErrState, "already initialized for chain %s", a.chainID)
	}
	if err := saveChainID(a.store.DeliverStore(), chainID); err != nil {
		return err
	}
	if a.initializer != nil {
		if err := a.initializer.FromGenesis(opts, a.store.DeliverStore()); err != nil {
			return errors.Wrap(err, "genesis")
		}
	}
	a.chainID = chainID
	a.logger.Info("chain initialized", "chain_id", chainID)
	return nil
}

// BeginBlock implements abci.Application. It sets the height passed to
// handlers of this block.
func (a *Application) BeginBlock(req abci.RequestBeginBlock) abci.ResponseBeginBlock {
	a.blockHeight = req.Header.Height
	return abci.ResponseBeginBlock{}
}

// EndBlock implements abci.Application. There are no validator updates.
func (a *Application) EndBlock(req abci.RequestEndBlock) abci.ResponseEndBlock {
	a.blockHeight = 0
	return abci.ResponseEndBlock{}
}

// blockContext returns the context of the block being built.
func (a *Application) blockContext(call string, tx tokenswap.Tx) tokenswap.Context {
	height := a.blockHeight
	if height == 0 {
		height = a.height + 1
	}
	ctx := tokenswap.WithHeight(context.Background(), height)
	if a.chainID != "" {
		ctx = tokenswap.WithChainID(ctx, a.chainID)
	}
	ctx = tokenswap.WithLogger(ctx, a.logger)
	return tokenswap.WithLogInfo(ctx, "call", call, "path", tokenswap.GetPath(tx))
}

// CheckTx verifies a transaction against the check store without
// modifying the deliver state.
func (a *Application) CheckTx(raw []byte) abci.ResponseCheckTx {
	tx, err := a.loadTx(raw)
	if err != nil {
		return checkResult(nil, err, a.debug)
	}
	res, err := a.handler.Check(a.blockContext("check_tx", tx), a.store.CheckStore(), tx)
	return checkResult(res, err, a.debug)
}

// DeliverTx executes a transaction against the deliver store.
func (a *Application) DeliverTx(raw []byte) abci.ResponseDeliverTx {
	tx, err := a.loadTx(raw)
	if err != nil {
		return deliverResult(nil, err, a.debug)
	}
	if a.chainID == "" {
		return deliverResult(nil, errors.Wrap(errors.ErrState, "chain not initialized"), a.debug)
	}
	res, err := a.handler.Deliver(a.blockContext("deliver_tx", tx), a.store.DeliverStore(), tx)
	return deliverResult(res, err, a.debug)
}

// loadTx calls the decoder, and captures any panics
func (a *Application) loadTx(raw []byte) (tx tokenswap.Tx, err error) {
	defer errors.Recover(&err)
	return a.decoder(raw)
}

// Commit implements abci.Application. It persists all delivered
// transactions and returns the new state hash. It panics if the store
// cannot be written.
func (a *Application) Commit() abci.ResponseCommit {
	res, err := a.store.Commit()
	if err != nil {
		panic(errors.Wrap(err, "commit"))
	}
	a.height = res.Version
	a.logger.Debug("commit", "height", res.Version, "hash", fmt.Sprintf("%X", res.Hash))
	return abci.ResponseCommit{Data: res.Hash}
}

/*
Query runs a query registered under the request path against the committed
state.

The path may be followed by "?prefix" to make a prefix query. Key and Value
of the response are always serialized ResultSet objects of the same size,
holding zero or more results.
*/
func (a *Application) Query(req abci.RequestQuery) abci.ResponseQuery {
	path, mod := splitPath(req.Path)
	h := a.queries.Handler(path)
	if h == nil {
		return a.queryError(errors.Wrapf(errors.ErrNotFound, "no query handler for %q", req.Path))
	}
	models, err := h.Query(a.store.CommittedStore(), mod, req.Data)
	if err != nil {
		return a.queryError(err)
	}
	res := abci.ResponseQuery{Height: a.height}
	if res.Key, err = marshalResults(ResultsFromKeys(models)); err != nil {
		return a.queryError(err)
	}
	if res.Value, err = marshalResults(ResultsFromValues(models)); err != nil {
		return a.queryError(err)
	}
	return res
}

func (a *Application) queryError(err error) abci.ResponseQuery {
	code, log := errors.ABCIInfo(err, a.debug)
	return abci.ResponseQuery{Code: code, Log: log}
}

// splitPath splits out the real path along with the query modifier
// (everything after the ?)
func splitPath(path string) (string, string) {
	var mod string
	chunks := strings.SplitN(path, "?", 2)
	if len(chunks) == 2 {
		path = chunks[0]
		mod = chunks[1]
	}
	return path, mod
}
