package main

import (
	"fmt"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	abci "github.com/tendermint/tendermint/abci/types"
	"github.com/tendermint/tendermint/libs/log"

	"github.com/iov-one/tokenswap"
	"github.com/iov-one/tokenswap/app"
	"github.com/iov-one/tokenswap/codec"
	"github.com/iov-one/tokenswap/crypto"
	"github.com/iov-one/tokenswap/errors"
	"github.com/iov-one/tokenswap/store/iavl"
	"github.com/iov-one/tokenswap/x"
	"github.com/iov-one/tokenswap/x/cash"
	"github.com/iov-one/tokenswap/x/escrow"
	"github.com/iov-one/tokenswap/x/sigs"
	"github.com/iov-one/tokenswap/x/utils"
)

// Authenticator returns the authentication used by all handlers, just using
// public key signatures.
func Authenticator() x.Authenticator {
	return x.ChainAuth(sigs.Authenticate{})
}

// Chain returns the decorators every transaction passes through before
// reaching its handler.
func Chain(reg prometheus.Registerer) app.Decorators {
	return app.ChainDecorators(
		utils.NewRecovery(),
		utils.NewLogging(),
		utils.NewMetrics(reg),
		sigs.NewDecorator(),
		// a failed delivery still increments the signer nonce
		utils.NewSavepoint().OnDeliver(),
	)
}

// Router registers all message handlers. Every handled message type is
// also registered with the codec.
func Router(msgs *app.MsgCodec, authFn x.Authenticator) *app.Router {
	r := app.NewRouter()
	reg := msgs.Registry(r)
	ledger := cash.NewController()
	cash.RegisterRoutes(reg, authFn, ledger)
	escrow.RegisterRoutes(reg, authFn, escrow.NewController(ledger))
	return r
}

// QueryRouter returns a router allowing access to "/mints", "/accounts",
// "/escrows" and "/auth" together with their indexes.
func QueryRouter() tokenswap.QueryRouter {
	r := tokenswap.NewQueryRouter()
	r.RegisterAll(
		cash.RegisterQuery,
		escrow.RegisterQuery,
		sigs.RegisterQuery,
	)
	return r
}

// node is the application opened over the local database.
type node struct {
	app *app.Application
	kv  tokenswap.CommitKVStore
}

func openNode(cfg *Config, logger log.Logger, reg prometheus.Registerer) (*node, error) {
	kv, err := iavl.NewCommitStore(cfg.DataDir, "state")
	if err != nil {
		return nil, fmt.Errorf("cannot open database: %s", err)
	}
	msgs := app.NewMsgCodec()
	handler := Chain(reg).WithHandler(Router(msgs, Authenticator()))
	a, err := app.NewApplication("escrowd", kv, msgs.Decoder(), handler, QueryRouter(), &cash.Initializer{})
	if err != nil {
		kv.Close()
		return nil, fmt.Errorf("cannot load application: %s", err)
	}
	if cfg.ChainID != "" && a.ChainID() != "" && cfg.ChainID != a.ChainID() {
		kv.Close()
		return nil, fmt.Errorf("database belongs to chain %q, configured %q", a.ChainID(), cfg.ChainID)
	}
	return &node{app: a.WithLogger(logger), kv: kv}, nil
}

func (n *node) Close() error {
	return n.kv.Close()
}

// submit signs msg with given key, delivers it and commits the result. It
// returns the data produced by the handler.
func (n *node) submit(key *crypto.PrivateKey, msg tokenswap.Msg) ([]byte, error) {
	if n.app.ChainID() == "" {
		return nil, fmt.Errorf("chain not initialized, run init first")
	}
	nonce, err := n.nonce(key.PublicKey().Address())
	if err != nil {
		return nil, err
	}
	tx, err := app.NewTx(msg)
	if err != nil {
		return nil, fmt.Errorf("cannot build transaction: %s", err)
	}
	sig, err := sigs.SignTx(key, tx, n.app.ChainID(), nonce)
	if err != nil {
		return nil, fmt.Errorf("cannot sign transaction: %s", err)
	}
	tx.Signatures = append(tx.Signatures, sig)
	raw, err := codec.Marshal(tx)
	if err != nil {
		return nil, fmt.Errorf("cannot serialize transaction: %s", err)
	}
	return n.deliver(raw)
}

// deliver processes a serialized transaction and commits the state.
func (n *node) deliver(raw []byte) ([]byte, error) {
	if res := n.app.CheckTx(raw); !res.IsOK() {
		return nil, fmt.Errorf("transaction rejected (code %d): %s", res.Code, res.Log)
	}
	res := n.app.DeliverTx(raw)
	// A failed delivery may still change the state (signer nonce).
	if err := n.commit(); err != nil {
		return nil, fmt.Errorf("cannot commit: %s", err)
	}
	if !res.IsOK() {
		return nil, fmt.Errorf("transaction failed (code %d): %s", res.Code, res.Log)
	}
	return res.Data, nil
}

// commit persists the delivered state. Commit failures are reported by the
// application as panics.
func (n *node) commit() (err error) {
	defer errors.Recover(&err)
	n.app.Commit()
	return nil
}

// nonce returns the sequence the next signature of addr must carry.
func (n *node) nonce(addr tokenswap.Address) (int64, error) {
	var user sigs.UserData
	found, err := n.queryOne("/auth", addr, &user)
	if err != nil || !found {
		return 0, err
	}
	return user.Sequence, nil
}

// queryOne loads the entity stored under key into dest. It returns false
// if no entity exists.
func (n *node) queryOne(path string, key []byte, dest tokenswap.Persistent) (bool, error) {
	models, err := n.query(path, tokenswap.KeyQueryMod, key)
	if err != nil {
		return false, err
	}
	if len(models) == 0 {
		return false, nil
	}
	if err := codec.Unmarshal(models[0].Value, dest); err != nil {
		return false, fmt.Errorf("cannot decode %s entity: %s", path, err)
	}
	return true, nil
}

// query runs an ABCI query against the committed state and decodes the
// result sets.
func (n *node) query(path, mod string, data []byte) ([]tokenswap.Model, error) {
	if mod != "" {
		path += "?" + mod
	}
	models, err := app.QueryModels(n.app.Query(abci.RequestQuery{Path: path, Data: data}))
	if err != nil {
		return nil, errors.Wrapf(err, "query %s", path)
	}
	return models, nil
}

// mint returns the mint of given ticker.
func (n *node) mint(ticker string) (*cash.Mint, error) {
	var m cash.Mint
	found, err := n.queryOne("/mints", cash.MintAddress(ticker), &m)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, fmt.Errorf("mint %q not found", ticker)
	}
	return &m, nil
}

// balance returns the balance of the account stored under addr, zero if
// the account does not exist.
func (n *node) balance(addr tokenswap.Address) (uint64, error) {
	var acc cash.Account
	if _, err := n.queryOne("/accounts", addr, &acc); err != nil {
		return 0, err
	}
	return acc.Amount, nil
}

// withNode loads the configuration, opens the node and calls fn. All
// resources are released when fn returns.
func withNode(configPath string, fn func(*Config, *node) error) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}
	logger, closer, err := newLogger(cfg, os.Stderr)
	if err != nil {
		return err
	}
	defer closer.Close()

	n, err := openNode(cfg, logger, prometheus.NewRegistry())
	if err != nil {
		return err
	}
	defer n.Close()
	return fn(cfg, n)
}
