package app

import (
	"context"
	"sync"
	"time"

	"github.com/iov-one/ledger"
	"github.com/iov-one/ledger/errors"
	"github.com/tendermint/tendermint/libs/log"
)

// Ledger hosts the program stack over a committing store. All state
// changing calls are serialized: transactions are applied one at a time,
// each against the state left by the previous one.
type Ledger struct {
	mu sync.Mutex

	store       *CommitStore
	handler     ledger.Handler
	queries     ledger.QueryRouter
	initializer ledger.Initializer
	logger      log.Logger

	chainID string
	height  int64
	time    time.Time
}

// Config groups everything needed to construct a Ledger.
type Config struct {
	Store ledger.CommitKVStore
	// Handler processes every transaction. It must run a Savepoint on
	// delivery, failed transactions are not rolled back otherwise.
	Handler     ledger.Handler
	Queries     ledger.QueryRouter
	Initializer ledger.Initializer
	Logger      log.Logger
}

// NewLedger loads the latest committed state. A chain id stored by an
// earlier genesis is restored.
func NewLedger(conf Config) (*Ledger, error) {
	cs, err := NewCommitStore(conf.Store)
	if err != nil {
		return nil, err
	}
	logger := conf.Logger
	if logger == nil {
		logger = log.NewNopLogger()
	}
	chainID, err := loadChainID(cs.DeliverStore())
	if err != nil {
		return nil, err
	}
	info, err := cs.CommitInfo()
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, err.Error())
	}
	return &Ledger{
		store:       cs,
		handler:     conf.Handler,
		queries:     conf.Queries,
		initializer: conf.Initializer,
		logger:      logger,
		chainID:     chainID,
		height:      info.Version,
	}, nil
}

// ChainID returns the chain id set by genesis, or an empty string.
func (l *Ledger) ChainID() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.chainID
}

// InitGenesis stores the chain id and runs every initializer. It can be
// called only once in the lifetime of the state.
func (l *Ledger) InitGenesis(chainID string, opts ledger.Options) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.chainID != "" {
		return errors.Wrapf(errors.ErrInvalidState, "genesis already loaded for chain %s", l.chainID)
	}
	db := l.store.GenesisStore()
	if err := saveChainID(db, chainID); err != nil {
		db.Discard()
		return err
	}
	if l.initializer != nil {
		if err := l.initializer.FromGenesis(opts, db); err != nil {
			db.Discard()
			return errors.Wrap(err, "genesis")
		}
	}
	if err := db.Write(); err != nil {
		return err
	}
	l.chainID = chainID
	l.logger.Info("Genesis loaded", "chain_id", chainID)
	return nil
}

// BeginBlock sets the height and time seen by the following
// transactions.
func (l *Ledger) BeginBlock(height int64, t time.Time) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.height = height
	l.time = t
}

// context builds the context of a single transaction. Caller must hold
// the lock.
func (l *Ledger) context(ctx context.Context, call string, tx ledger.Tx) (context.Context, error) {
	if l.chainID == "" {
		return nil, errors.Wrap(errors.ErrInvalidState, "genesis not loaded")
	}
	ctx = ledger.WithChainID(ctx, l.chainID)
	ctx = ledger.WithHeight(ctx, l.height)
	if !l.time.IsZero() {
		ctx = ledger.WithBlockTime(ctx, l.time)
	}
	ctx = ledger.WithLogger(ctx, l.logger)
	return ledger.WithLogInfo(ctx, "call", call, "path", ledger.GetPath(tx)), nil
}

// Deliver applies the transaction to the pending state.
func (l *Ledger) Deliver(ctx context.Context, tx ledger.Tx) (*ledger.DeliverResult, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	ctx, err := l.context(ctx, "deliver_tx", tx)
	if err != nil {
		return nil, err
	}
	return l.handler.Deliver(ctx, l.store.DeliverStore(), tx)
}

// Check validates the transaction against the check state, as a mempool
// would do. Check state is reset on every Commit.
func (l *Ledger) Check(ctx context.Context, tx ledger.Tx) (*ledger.CheckResult, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	ctx, err := l.context(ctx, "check_tx", tx)
	if err != nil {
		return nil, err
	}
	return l.handler.Check(ctx, l.store.CheckStore(), tx)
}

// Commit persists the pending state.
func (l *Ledger) Commit() (ledger.CommitID, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	id, err := l.store.Commit()
	if err != nil {
		return id, errors.Wrap(errors.ErrDatabase, err.Error())
	}
	l.logger.Debug("Commit synced", "height", id.Version, "hash", id.Hash)
	return id, nil
}

// CommitInfo returns the version and hash of the last commit.
func (l *Ledger) CommitInfo() (ledger.CommitID, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.store.CommitInfo()
}

// Query reads committed state through a registered query handler. Path
// may be followed by "?prefix" to make a prefix query.
func (l *Ledger) Query(path string, data []byte) ([]ledger.Model, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.queries.Query(l.store.CommittedStore(), path, data)
}
