package app

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/iov-one/ledger"
	"github.com/iov-one/ledger/errors"
	abci "github.com/tendermint/tendermint/abci/types"
	"github.com/tendermint/tendermint/libs/log"
)

// BaseApp exposes a Ledger as an ABCI application.
//
// Errors on ABCI steps that take no user input (InitChain, Commit) are
// handled as panics, there is no way to report them gracefully.
type BaseApp struct {
	name    string
	ledger  *Ledger
	decoder ledger.TxDecoder
	logger  log.Logger
	debug   bool
}

var _ abci.Application = (*BaseApp)(nil)

// NewBaseApp constructs a basic abci application
func NewBaseApp(name string, l *Ledger, decoder ledger.TxDecoder, logger log.Logger, debug bool) *BaseApp {
	if logger == nil {
		logger = log.NewNopLogger()
	}
	return &BaseApp{
		name:    name,
		ledger:  l,
		decoder: decoder,
		logger:  logger,
		debug:   debug,
	}
}

// Info implements abci.Application. It returns the height and hash,
// as well as the abci name.
func (b *BaseApp) Info(req abci.RequestInfo) abci.ResponseInfo {
	info, err := b.ledger.CommitInfo()
	if err != nil {
		panic(err)
	}
	b.logger.Info("Info synced",
		"height", info.Version,
		"hash", fmt.Sprintf("%X", info.Hash))

	return abci.ResponseInfo{
		Data:             b.name,
		LastBlockHeight:  info.Version,
		LastBlockAppHash: info.Hash,
	}
}

// SetOption - ABCI
func (b *BaseApp) SetOption(abci.RequestSetOption) abci.ResponseSetOption {
	return abci.ResponseSetOption{Log: "Not Implemented"}
}

// InitChain loads the app state of the genesis file.
func (b *BaseApp) InitChain(req abci.RequestInitChain) abci.ResponseInitChain {
	if len(req.AppStateBytes) == 0 {
		panic("app_state not set in genesis.json")
	}
	var opts ledger.Options
	if err := json.Unmarshal(req.AppStateBytes, &opts); err != nil {
		panic(errors.Wrap(errors.ErrInvalidInput, err.Error()))
	}
	if err := b.ledger.InitGenesis(req.ChainId, opts); err != nil {
		panic(err)
	}
	return abci.ResponseInitChain{}
}

// BeginBlock passes height and time of the block to the ledger.
func (b *BaseApp) BeginBlock(req abci.RequestBeginBlock) abci.ResponseBeginBlock {
	b.ledger.BeginBlock(req.Header.Height, req.Header.Time)
	return abci.ResponseBeginBlock{}
}

// EndBlock - ABCI. The validator set is never changed.
func (b *BaseApp) EndBlock(abci.RequestEndBlock) abci.ResponseEndBlock {
	return abci.ResponseEndBlock{}
}

// DeliverTx - ABCI - dispatches to the handler
func (b *BaseApp) DeliverTx(txBytes []byte) abci.ResponseDeliverTx {
	tx, err := b.loadTx(txBytes)
	if err != nil {
		return ledger.DeliverTxError(err, b.debug)
	}
	res, err := b.ledger.Deliver(context.Background(), tx)
	return ledger.DeliverOrError(res, err, b.debug)
}

// CheckTx - ABCI - dispatches to the handler
func (b *BaseApp) CheckTx(txBytes []byte) abci.ResponseCheckTx {
	tx, err := b.loadTx(txBytes)
	if err != nil {
		return ledger.CheckTxError(err, b.debug)
	}
	res, err := b.ledger.Check(context.Background(), tx)
	return ledger.CheckOrError(res, err, b.debug)
}

// Commit implements abci.Application
func (b *BaseApp) Commit() abci.ResponseCommit {
	id, err := b.ledger.Commit()
	if err != nil {
		panic(err)
	}
	return abci.ResponseCommit{Data: id.Hash}
}

/*
Query gets data from the app store.
A query request has the following elements:
* Path - the type of query
* Data - what to query, interpreted based on Path

Path may be "/", "/<bucket>", or "/<bucket>/<index>"
It may be followed by "?prefix" to make a prefix query.

Key and Value in Results are always serialized ResultSet
objects, able to support 0 to N values. They must be the
same size.
*/
func (b *BaseApp) Query(req abci.RequestQuery) abci.ResponseQuery {
	info, err := b.ledger.CommitInfo()
	if err != nil {
		return b.queryError(err)
	}
	models, err := b.ledger.Query(req.Path, req.Data)
	if err != nil {
		return b.queryError(err)
	}

	var res abci.ResponseQuery
	res.Height = info.Version
	if res.Key, err = ResultsFromKeys(models).Marshal(); err != nil {
		return b.queryError(err)
	}
	if res.Value, err = ResultsFromValues(models).Marshal(); err != nil {
		return b.queryError(err)
	}
	return res
}

func (b *BaseApp) queryError(err error) abci.ResponseQuery {
	code, log := errors.ABCIInfo(err, b.debug)
	return abci.ResponseQuery{Code: code, Log: log}
}

// loadTx calls the decoder, and capture any panics
func (b *BaseApp) loadTx(txBytes []byte) (tx ledger.Tx, err error) {
	defer errors.Recover(&err)
	return b.decoder(txBytes)
}
