package main

import (
	"fmt"
	"sync"

	"github.com/tendermint/tendermint/abci/server"
	abci "github.com/tendermint/tendermint/abci/types"
	cmn "github.com/tendermint/tendermint/libs/common"
	"github.com/tendermint/tendermint/libs/log"
)

// startABCI serves app over the ABCI socket protocol at addr, for example
// "tcp://127.0.0.1:26658" or "unix:///var/run/escrowd.sock". Every call
// holds mu, shared with the HTTP API.
func startABCI(addr string, app abci.Application, mu *sync.Mutex, logger log.Logger) (cmn.Service, error) {
	srv, err := server.NewServer(addr, "socket", &lockedApp{mu: mu, app: app})
	if err != nil {
		return nil, fmt.Errorf("cannot create abci server: %s", err)
	}
	srv.SetLogger(logger.With("module", "abci-server"))
	if err := srv.Start(); err != nil {
		return nil, fmt.Errorf("cannot start abci server: %s", err)
	}
	return srv, nil
}

// lockedApp serializes all calls to an application. The socket server
// runs the connections of the consensus engine concurrently.
type lockedApp struct {
	mu  *sync.Mutex
	app abci.Application
}

var _ abci.Application = (*lockedApp)(nil)

func (l *lockedApp) Info(req abci.RequestInfo) abci.ResponseInfo {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.app.Info(req)
}

func (l *lockedApp) SetOption(req abci.RequestSetOption) abci.ResponseSetOption {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.app.SetOption(req)
}

func (l *lockedApp) Query(req abci.RequestQuery) abci.ResponseQuery {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.app.Query(req)
}

func (l *lockedApp) CheckTx(tx []byte) abci.ResponseCheckTx {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.app.CheckTx(tx)
}

func (l *lockedApp) InitChain(req abci.RequestInitChain) abci.ResponseInitChain {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.app.InitChain(req)
}

func (l *lockedApp) BeginBlock(req abci.RequestBeginBlock) abci.ResponseBeginBlock {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.app.BeginBlock(req)
}

func (l *lockedApp) DeliverTx(tx []byte) abci.ResponseDeliverTx {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.app.DeliverTx(tx)
}

func (l *lockedApp) EndBlock(req abci.RequestEndBlock) abci.ResponseEndBlock {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.app.EndBlock(req)
}

func (l *lockedApp) Commit() abci.ResponseCommit {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.app.Commit()
}
