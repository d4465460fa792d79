package main

import (
	"context"
	"encoding/hex"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/tendermint/tendermint/libs/log"

	"github.com/iov-one/tokenswap/errors"
)

func cmdServe(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Serve the ledger over HTTP. Signed transactions are accepted with
POST /tx, each one is delivered and committed in arrival order. State can be
queried with GET /query/<path>?data=<hex>&mod=<mod>.

When ABCIAddress is configured, the application is also served over the
ABCI socket protocol to a consensus engine. Blocks are then built by the
engine and POST /tx is disabled.

Prometheus metrics are exposed under /metrics of MetricsAddress, if
configured.
`)
		fl.PrintDefaults()
	}
	configFl := flConfig(fl)
	fl.Parse(args)

	cfg, err := loadConfig(*configFl)
	if err != nil {
		return err
	}
	logger, closer, err := newLogger(cfg, os.Stderr)
	if err != nil {
		return err
	}
	defer closer.Close()

	reg := prometheus.NewRegistry()
	n, err := openNode(cfg, logger, reg)
	if err != nil {
		return err
	}
	defer n.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var mu sync.Mutex
	readOnly := cfg.ABCIAddress != ""
	if readOnly {
		srv, err := startABCI(cfg.ABCIAddress, n.app, &mu, logger)
		if err != nil {
			return err
		}
		defer srv.Stop()
		logger.Info("abci listening", "address", cfg.ABCIAddress)
	}

	servers := []*http.Server{{
		Addr:              cfg.ListenAddress,
		Handler:           newAPI(n, logger, &mu, readOnly),
		ReadHeaderTimeout: 5 * time.Second,
	}}
	if cfg.MetricsAddress != "" {
		mux := chi.NewRouter()
		mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
		servers = append(servers, &http.Server{
			Addr:              cfg.MetricsAddress,
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
		})
	}

	errc := make(chan error, len(servers))
	for _, srv := range servers {
		go func(srv *http.Server) {
			logger.Info("listening", "address", srv.Addr)
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				errc <- err
			}
		}(srv)
	}

	select {
	case <-ctx.Done():
	case err = <-errc:
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	for _, srv := range servers {
		srv.Shutdown(shutdownCtx)
	}
	return err
}

// api exposes a node over HTTP. Requests are processed one at a time, as
// the application is not safe for concurrent use.
type api struct {
	mu       *sync.Mutex
	node     *node
	logger   log.Logger
	readOnly bool
}

// newAPI returns the HTTP handler of n. Every request holds mu. A read only
// API rejects transactions.
func newAPI(n *node, logger log.Logger, mu *sync.Mutex, readOnly bool) http.Handler {
	a := &api{node: n, logger: logger, mu: mu, readOnly: readOnly}
	r := chi.NewRouter()
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Post("/tx", a.submitTx)
	r.Get("/query/*", a.query)
	return r
}

const maxTxSize = 64 << 10

func (a *api) submitTx(w http.ResponseWriter, r *http.Request) {
	if a.readOnly {
		writeError(w, http.StatusMethodNotAllowed, fmt.Errorf("transactions are accepted by the consensus engine"))
		return
	}
	raw, err := io.ReadAll(io.LimitReader(r.Body, maxTxSize+1))
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if len(raw) > maxTxSize {
		writeError(w, http.StatusRequestEntityTooLarge, fmt.Errorf("transaction larger than %d bytes", maxTxSize))
		return
	}

	a.mu.Lock()
	data, err := a.node.deliver(raw)
	a.mu.Unlock()

	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err)
		return
	}
	writeJSONResponse(w, http.StatusOK, map[string]string{"data": hex.EncodeToString(data)})
}

type modelResponse struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

func (a *api) query(w http.ResponseWriter, r *http.Request) {
	path := "/" + strings.TrimPrefix(chi.URLParam(r, "*"), "/")
	data, err := hex.DecodeString(r.URL.Query().Get("data"))
	if err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("data: %s", err))
		return
	}
	mod := r.URL.Query().Get("mod")

	a.mu.Lock()
	models, err := a.node.query(path, mod, data)
	a.mu.Unlock()

	switch {
	case errors.ErrNotFound.Is(err):
		writeError(w, http.StatusNotFound, err)
		return
	case err != nil:
		writeError(w, http.StatusBadRequest, err)
		return
	}
	res := make([]modelResponse, len(models))
	for i, m := range models {
		res[i] = modelResponse{Key: hex.EncodeToString(m.Key), Value: hex.EncodeToString(m.Value)}
	}
	writeJSONResponse(w, http.StatusOK, res)
}

func writeError(w http.ResponseWriter, code int, err error) {
	writeJSONResponse(w, code, map[string]string{"error": err.Error()})
}

func writeJSONResponse(w http.ResponseWriter, code int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = writeJSON(w, payload)
}
