package main

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/iov-one/tokenswap"
	"github.com/iov-one/tokenswap/weavetest/assert"
)

// testEnv is a home directory with a configuration and a genesis file in
// which alice and bob hold AAA and BBB tokens.
type testEnv struct {
	config string
	alice  string
	bob    string
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	home := t.TempDir()
	env := &testEnv{
		config: filepath.Join(home, "config.toml"),
		alice:  filepath.Join(home, "alice.key"),
		bob:    filepath.Join(home, "bob.key"),
	}
	aliceAddr := env.address(t, env.alice)
	bobAddr := env.address(t, env.bob)

	genesis := map[string]interface{}{
		"chain_id": "escrow-test",
		"app_state": map[string]interface{}{
			"cash": map[string]interface{}{
				"mints": []interface{}{
					map[string]interface{}{"ticker": "AAA", "decimals": 2, "authority": aliceAddr},
					map[string]interface{}{"ticker": "BBB", "decimals": 0, "authority": bobAddr},
				},
				"accounts": []interface{}{
					map[string]interface{}{"owner": aliceAddr, "ticker": "AAA", "amount": "100"},
					map[string]interface{}{"owner": bobAddr, "ticker": "BBB", "amount": "50"},
				},
			},
		},
	}
	raw, err := json.Marshal(genesis)
	assert.Nil(t, err)
	genesisPath := filepath.Join(home, "genesis.json")
	assert.Nil(t, os.WriteFile(genesisPath, raw, 0o600))

	out := env.run(t, cmdInit, "-config", env.config, "-genesis", genesisPath)
	if !strings.Contains(out, "chain escrow-test initialized") {
		t.Fatalf("unexpected init output: %q", out)
	}
	return env
}

// address generates a key at given path and returns its address.
func (e *testEnv) address(t *testing.T, keyPath string) tokenswap.Address {
	t.Helper()
	var out bytes.Buffer
	assert.Nil(t, cmdKeygen(nil, &out, []string{"-key", keyPath}))
	return parseAddr(t, strings.TrimSpace(out.String()))
}

type command func(input io.Reader, output io.Writer, args []string) error

func (e *testEnv) run(t *testing.T, cmd command, args ...string) string {
	t.Helper()
	var out bytes.Buffer
	if err := cmd(nil, &out, args); err != nil {
		t.Fatalf("command %v failed: %s", args, err)
	}
	return out.String()
}

// fail runs a command that is expected to fail and returns the error.
func (e *testEnv) fail(t *testing.T, cmd command, args ...string) error {
	t.Helper()
	err := cmd(nil, io.Discard, args)
	if err == nil {
		t.Fatalf("command %v was expected to fail", args)
	}
	return err
}

func (e *testEnv) balance(t *testing.T, key, ticker string) string {
	t.Helper()
	return strings.TrimSpace(e.run(t, cmdBalance, "-config", e.config, "-key", key, "-ticker", ticker))
}

func parseAddr(t *testing.T, s string) tokenswap.Address {
	t.Helper()
	a, err := tokenswap.ParseAddress(s)
	assert.Nil(t, err)
	return a
}

func TestEscrowSwap(t *testing.T) {
	env := newTestEnv(t)

	out := env.run(t, cmdOpen, "-config", env.config, "-key", env.alice,
		"-deposit", "AAA", "-deposit-amount", "12.5",
		"-receive", "BBB", "-receive-amount", "20",
		"-seed", "7")
	lines := strings.Split(strings.TrimSpace(out), "\n")
	assert.Equal(t, 2, len(lines))
	assert.Equal(t, "seed 7", lines[1])
	escrowAddr := lines[0]

	assert.Equal(t, "87.5 AAA", env.balance(t, env.alice, "AAA"))

	var view escrowView
	assert.Nil(t, json.Unmarshal([]byte(env.run(t, cmdView, "-config", env.config, "-escrow", escrowAddr)), &view))
	assert.Equal(t, "12.5 AAA", view.Deposit)
	assert.Equal(t, "20 BBB", view.Receive)
	assert.Equal(t, uint64(7), view.Seed)

	var list []escrowView
	assert.Nil(t, json.Unmarshal([]byte(env.run(t, cmdList, "-config", env.config, "-key", env.alice)), &list))
	assert.Equal(t, 1, len(list))

	// Same seed cannot be used twice while the escrow is open.
	env.fail(t, cmdOpen, "-config", env.config, "-key", env.alice,
		"-deposit", "AAA", "-deposit-amount", "1",
		"-receive", "BBB", "-receive-amount", "1",
		"-seed", "7")

	// Only the maker can cancel.
	env.fail(t, cmdCancel, "-config", env.config, "-key", env.bob, "-escrow", escrowAddr)

	env.run(t, cmdFulfill, "-config", env.config, "-key", env.bob, "-escrow", escrowAddr)

	assert.Equal(t, "87.5 AAA", env.balance(t, env.alice, "AAA"))
	assert.Equal(t, "20 BBB", env.balance(t, env.alice, "BBB"))
	assert.Equal(t, "12.5 AAA", env.balance(t, env.bob, "AAA"))
	assert.Equal(t, "30 BBB", env.balance(t, env.bob, "BBB"))

	env.fail(t, cmdView, "-config", env.config, "-escrow", escrowAddr)
	env.fail(t, cmdFulfill, "-config", env.config, "-key", env.bob, "-escrow", escrowAddr)
}

func TestEscrowCancel(t *testing.T) {
	env := newTestEnv(t)

	out := env.run(t, cmdOpen, "-config", env.config, "-key", env.alice,
		"-deposit", "AAA", "-deposit-amount", "100",
		"-receive", "BBB", "-receive-amount", "1")
	escrowAddr := strings.Split(out, "\n")[0]
	assert.Equal(t, "0 AAA", env.balance(t, env.alice, "AAA"))

	env.run(t, cmdCancel, "-config", env.config, "-key", env.alice, "-escrow", escrowAddr)
	assert.Equal(t, "100 AAA", env.balance(t, env.alice, "AAA"))

	var list []escrowView
	assert.Nil(t, json.Unmarshal([]byte(env.run(t, cmdList, "-config", env.config, "-key", env.alice)), &list))
	assert.Equal(t, 0, len(list))
}

func TestCashCommands(t *testing.T) {
	env := newTestEnv(t)
	bob := parseAddr(t, strings.Fields(env.run(t, cmdKeyaddr, "-key", env.bob))[0])

	mint := env.run(t, cmdCreateMint, "-config", env.config, "-key", env.alice, "-ticker", "CCC", "-decimals", "3")
	assert.NotNil(t, parseAddr(t, strings.TrimSpace(mint)))

	env.run(t, cmdIssue, "-config", env.config, "-key", env.alice, "-ticker", "CCC", "-amount", "1.25")
	assert.Equal(t, "1.25 CCC", env.balance(t, env.alice, "CCC"))

	env.run(t, cmdSend, "-config", env.config, "-key", env.alice, "-ticker", "CCC", "-to", bob.String(), "-amount", "0.005")
	assert.Equal(t, "1.245 CCC", env.balance(t, env.alice, "CCC"))
	assert.Equal(t, "0.005 CCC", env.balance(t, env.bob, "CCC"))

	// Only the mint authority can issue.
	env.fail(t, cmdIssue, "-config", env.config, "-key", env.bob, "-ticker", "CCC", "-amount", "1")
	// Too many fractional digits.
	env.fail(t, cmdSend, "-config", env.config, "-key", env.alice, "-ticker", "CCC", "-to", bob.String(), "-amount", "0.0001")
	env.fail(t, cmdSend, "-config", env.config, "-key", env.alice, "-ticker", "CCC", "-amount", "1")
}

func TestInitTwice(t *testing.T) {
	env := newTestEnv(t)
	genesis := filepath.Join(filepath.Dir(env.config), "genesis.json")
	env.fail(t, cmdInit, "-config", env.config, "-genesis", genesis)
}

func TestKeygenDoesNotOverwrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "priv.key")
	assert.Nil(t, cmdKeygen(nil, io.Discard, []string{"-key", path}))
	if err := cmdKeygen(nil, io.Discard, []string{"-key", path}); err == nil {
		t.Fatal("existing key overwritten")
	}
}
