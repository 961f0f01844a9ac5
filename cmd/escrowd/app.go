package main

import (
	"encoding/hex"
	"encoding/json"
	"fmt"

	"github.com/iov-one/ledger"
	"github.com/iov-one/ledger/app"
	"github.com/iov-one/ledger/coin"
	"github.com/iov-one/ledger/commands"
	"github.com/iov-one/ledger/commands/server"
	"github.com/iov-one/ledger/crypto"
	"github.com/iov-one/ledger/errors"
	"github.com/iov-one/ledger/store/iavl"
	"github.com/iov-one/ledger/x/accounts"
	"github.com/iov-one/ledger/x/escrow"
	"github.com/iov-one/ledger/x/sigs"
	"github.com/iov-one/ledger/x/token"
	"github.com/iov-one/ledger/x/utils"
	"github.com/prometheus/client_golang/prometheus"
	abci "github.com/tendermint/tendermint/abci/types"
	"github.com/tendermint/tendermint/libs/log"
)

const appName = "escrowd"

// initialLamports funds the generated genesis account.
const initialLamports coin.Amount = 1000000000000

// GenerateApp opens the state under the configured data dir and builds
// the abci application on top of it.
func GenerateApp(home string, conf server.Config, logger log.Logger, reg prometheus.Registerer) (abci.Application, error) {
	db, err := iavl.NewCommitStore(conf.DataDir, "escrow")
	if err != nil {
		return nil, err
	}
	l, err := app.NewLedger(app.Config{
		Store:       db,
		Handler:     app.Stack(utils.NewMetrics("escrowd", reg)),
		Queries:     app.QueryRouter(),
		Initializer: app.Initializer(),
		Logger:      logger,
	})
	if err != nil {
		return nil, err
	}
	return app.NewBaseApp(appName, l, app.Decode, logger, conf.Debug), nil
}

// GenInitOptions creates a funded account and prints its secret seed. An
// address given as the first argument is funded instead.
func GenInitOptions(args []string) (json.RawMessage, error) {
	var addr ledger.Address
	if len(args) > 0 {
		a, err := ledger.ParseAddress(args[0])
		if err != nil {
			return nil, errors.Wrap(err, "funded address")
		}
		addr = a
	} else {
		key := crypto.GenPrivKeyEd25519()
		addr = key.Address()
		fmt.Printf("Generated key %s\nseed: %s\n", addr, hex.EncodeToString(key.Seed()))
	}

	opts := map[string]interface{}{
		"accounts": []accounts.GenesisAccount{
			{Address: addr, Lamports: initialLamports},
		},
		"escrow": []escrow.GenesisEscrow{},
	}
	raw, err := json.MarshalIndent(opts, "", "  ")
	if err != nil {
		return nil, errors.Wrap(errors.ErrInvalidInput, err.Error())
	}
	return raw, nil
}

// Examples returns one sample of every escrow instruction, wrapped in a
// signed transaction.
func Examples() []commands.Example {
	key, _ := crypto.PrivKeyEd25519FromSeed(make([]byte, 32))
	maker := key.Address()
	mintA := ledger.NewProgramID("example/mint-a")
	mintB := ledger.NewProgramID("example/mint-b")
	makerA, _, _ := token.AssociatedAddress(maker, mintA)

	addr, _, _ := escrow.EscrowAddress(maker, 1)
	vault, _ := escrow.VaultAddress(addr, mintA)
	init := &escrow.InitializeMsg{
		Maker:           maker,
		MintA:           mintA,
		MintB:           mintB,
		MakerAccountA:   makerA,
		Escrow:          addr,
		Vault:           vault,
		Nonce:           1,
		AmountExpected:  2,
		AmountDeposited: 10,
	}
	refund := &escrow.RefundMsg{
		Maker:         maker,
		MintA:         mintA,
		MakerAccountA: makerA,
		Escrow:        addr,
		Vault:         vault,
	}

	tx := &app.StdTx{Msg: init}
	sig, err := sigs.SignTx(key, tx, "escrow-local", 0)
	if err == nil {
		tx.Signatures = append(tx.Signatures, sig)
	}

	return []commands.Example{
		{Filename: "initialize_msg", Obj: init},
		{Filename: "refund_msg", Obj: refund},
		{Filename: "signed_tx", Obj: tx},
	}
}
