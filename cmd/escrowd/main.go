package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/iov-one/ledger"
	"github.com/iov-one/ledger/commands"
	"github.com/iov-one/ledger/commands/server"
)

var (
	flagHome = "home"
	varHome  *string
)

func init() {
	defaultHome := filepath.Join(os.ExpandEnv("$HOME"), ".escrowd")
	varHome = flag.String(flagHome, defaultHome, "directory to store files under")
}

func helpMessage() {
	fmt.Println("escrowd")
	fmt.Println("        Token escrow ABCI Application")
	fmt.Println("")
	fmt.Println("help    Print this message")
	fmt.Println("addresses <maker>")
	fmt.Println("        Print escrow (and vault) addresses of a maker by nonce")
	fmt.Println("init    Write config.toml and the app_state of the genesis file")
	fmt.Println("start   Run the abci server")
	fmt.Println("testgen Write sample encodings of all messages")
	fmt.Println("version Print the app version")
	fmt.Println("")
	flag.PrintDefaults()
}

func main() {
	flag.Parse()
	if flag.NArg() == 0 {
		fmt.Println("Missing command:")
		helpMessage()
		os.Exit(1)
	}

	cmd := flag.Arg(0)
	rest := flag.Args()[1:]

	conf, err := server.LoadConfig(*varHome)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	logger, closer, err := server.NewLogger(conf)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer closer.Close()
	logger = logger.With("module", "escrowd")

	switch cmd {
	case "help":
		helpMessage()
	case "addresses":
		err = AddressesCmd(os.Stdout, rest)
	case "init":
		err = server.InitCmd(GenInitOptions, logger, *varHome, rest)
	case "start":
		err = server.StartCmd(GenerateApp, logger, *varHome, conf, rest)
	case "testgen":
		err = commands.TestGenCmd(Examples(), rest)
	case "version":
		fmt.Println(ledger.Version())
	default:
		fmt.Printf("Unknown command: %s\n", cmd)
		helpMessage()
		os.Exit(1)
	}
	if err != nil {
		logger.Error("Command failed", "cmd", cmd, "err", err)
		closer.Close()
		os.Exit(1)
	}
}
