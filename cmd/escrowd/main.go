package main

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/iov-one/tokenswap"
)

// commands is a register of all available commands. The name is used to
// match with the first argument given.
//
// A command function is given stdin, stdout and the command line arguments
// without the program and command name. It parses the arguments on its own
// using the flag package and reads and writes only provided input and
// output.
var commands = map[string]func(input io.Reader, output io.Writer, args []string) error{
	"balance":     cmdBalance,
	"cancel":      cmdCancel,
	"create-mint": cmdCreateMint,
	"fulfill":     cmdFulfill,
	"init":        cmdInit,
	"issue":       cmdIssue,
	"keyaddr":     cmdKeyaddr,
	"keygen":      cmdKeygen,
	"list":        cmdList,
	"open":        cmdOpen,
	"send":        cmdSend,
	"serve":       cmdServe,
	"version":     cmdVersion,
	"view":        cmdView,
}

func main() {
	if len(os.Args) == 1 {
		fmt.Fprintf(os.Stderr, "%s runs a token escrow ledger.\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Usage: %s <command> [<flags>]\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "\nAvailable commands are:\n\t%s\n", strings.Join(availableCmds(), "\n\t"))
		fmt.Fprintf(os.Stderr, "Run '%s <command> -help' to learn more about each command.\n", os.Args[0])
		os.Exit(2)
	}
	run, ok := commands[os.Args[1]]
	if !ok {
		fmt.Fprintf(os.Stderr, "Unknown command %q\n", os.Args[1])
		fmt.Fprintf(os.Stderr, "\nAvailable commands are:\n\t%s\n", strings.Join(availableCmds(), "\n\t"))
		os.Exit(2)
	}
	if err := run(os.Stdin, os.Stdout, os.Args[2:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func availableCmds() []string {
	available := make([]string, 0, len(commands))
	for name := range commands {
		available = append(available, name)
	}
	sort.Strings(available)
	return available
}

func cmdVersion(input io.Reader, output io.Writer, args []string) error {
	_, err := fmt.Fprintln(output, tokenswap.Version())
	return err
}
