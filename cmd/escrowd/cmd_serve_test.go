package main

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
	abcicli "github.com/tendermint/tendermint/abci/client"
	abci "github.com/tendermint/tendermint/abci/types"
	"github.com/tendermint/tendermint/libs/log"

	"github.com/iov-one/tokenswap"
	"github.com/iov-one/tokenswap/app"
	"github.com/iov-one/tokenswap/codec"
	"github.com/iov-one/tokenswap/crypto"
	"github.com/iov-one/tokenswap/weavetest"
	"github.com/iov-one/tokenswap/x/cash"
	"github.com/iov-one/tokenswap/x/sigs"
)

func TestAPI(t *testing.T) {
	cfg := defaultConfig(t.TempDir())
	reg := prometheus.NewRegistry()
	n, err := openNode(cfg, log.NewNopLogger(), reg)
	require.NoError(t, err)
	defer n.Close()

	key := weavetest.NewKey()
	require.NoError(t, n.app.InitGenesis("api-test", tokenswap.Options{}))
	require.NoError(t, n.commit())

	var mu sync.Mutex
	srv := httptest.NewServer(newAPI(n, log.NewNopLogger(), &mu, false))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/healthz")
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	raw := signedMintTx(t, key, "api-test", "API")

	resp, err = http.Post(srv.URL+"/tx", "application/octet-stream", bytes.NewReader(raw))
	require.NoError(t, err)
	var submitted map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&submitted))
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, hex.EncodeToString(cash.MintAddress("API")), submitted["data"])

	// Replayed transaction is rejected.
	resp, err = http.Post(srv.URL+"/tx", "application/octet-stream", bytes.NewReader(raw))
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	resp, err = http.Get(srv.URL + "/query/mints?data=" + hex.EncodeToString(cash.MintAddress("API")))
	require.NoError(t, err)
	var models []modelResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&models))
	resp.Body.Close()
	require.Len(t, models, 1)

	value, err := hex.DecodeString(models[0].Value)
	require.NoError(t, err)
	var m cash.Mint
	require.NoError(t, codec.Unmarshal(value, &m))
	require.Equal(t, "API", m.Ticker)

	resp, err = http.Get(srv.URL + "/query/unknown")
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, err = http.Get(srv.URL + "/query/mints?data=zz")
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, err = http.Get(srv.URL + "/query/mints?mod=prefix")
	require.NoError(t, err)
	models = nil
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&models))
	resp.Body.Close()
	require.Len(t, models, 1)

	// Delivered transactions are counted.
	families, err := reg.Gather()
	require.NoError(t, err)
	require.NotEmpty(t, families)
}

func signedMintTx(t testing.TB, key *crypto.PrivateKey, chainID, ticker string) []byte {
	t.Helper()
	tx, err := app.NewTx(&cash.CreateMintMsg{
		Metadata:  &tokenswap.Metadata{Schema: 1},
		Ticker:    ticker,
		Decimals:  1,
		Authority: key.PublicKey().Address(),
	})
	require.NoError(t, err)
	sig, err := sigs.SignTx(key, tx, chainID, 0)
	require.NoError(t, err)
	tx.Signatures = []*sigs.StdSignature{sig}
	raw, err := codec.Marshal(tx)
	require.NoError(t, err)
	return raw
}

func TestABCIServer(t *testing.T) {
	cfg := defaultConfig(t.TempDir())
	n, err := openNode(cfg, log.NewNopLogger(), prometheus.NewRegistry())
	require.NoError(t, err)
	defer n.Close()

	var mu sync.Mutex
	addr := "unix://" + filepath.Join(t.TempDir(), "abci.sock")
	srv, err := startABCI(addr, n.app, &mu, log.NewNopLogger())
	require.NoError(t, err)
	defer srv.Stop()

	client := abcicli.NewSocketClient(addr, true)
	require.NoError(t, client.Start())
	defer client.Stop()

	_, err = client.InitChainSync(abci.RequestInitChain{ChainId: "abci-test"})
	require.NoError(t, err)
	_, err = client.CommitSync()
	require.NoError(t, err)

	info, err := client.InfoSync(abci.RequestInfo{})
	require.NoError(t, err)
	require.Equal(t, "escrowd", info.Data)
	require.Equal(t, int64(1), info.LastBlockHeight)

	key := weavetest.NewKey()
	raw := signedMintTx(t, key, "abci-test", "ABCI")

	_, err = client.BeginBlockSync(abci.RequestBeginBlock{Header: abci.Header{ChainID: "abci-test", Height: 2}})
	require.NoError(t, err)
	checked, err := client.CheckTxSync(raw)
	require.NoError(t, err)
	require.True(t, checked.IsOK(), checked.Log)
	delivered, err := client.DeliverTxSync(raw)
	require.NoError(t, err)
	require.True(t, delivered.IsOK(), delivered.Log)
	require.Equal(t, []byte(cash.MintAddress("ABCI")), delivered.Data)
	_, err = client.EndBlockSync(abci.RequestEndBlock{Height: 2})
	require.NoError(t, err)
	commit, err := client.CommitSync()
	require.NoError(t, err)
	require.NotEmpty(t, commit.Data)

	res, err := client.QuerySync(abci.RequestQuery{Path: "/mints", Data: cash.MintAddress("ABCI")})
	require.NoError(t, err)
	models, err := app.QueryModels(*res)
	require.NoError(t, err)
	require.Len(t, models, 1)

	// With a consensus engine attached the HTTP API only serves queries.
	api := httptest.NewServer(newAPI(n, log.NewNopLogger(), &mu, true))
	defer api.Close()
	resp, err := http.Post(api.URL+"/tx", "application/octet-stream", bytes.NewReader(raw))
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)

	resp, err = http.Get(api.URL + "/query/mints?data=" + hex.EncodeToString(cash.MintAddress("ABCI")))
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
}
