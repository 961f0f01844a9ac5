package app

import (
	"github.com/iov-one/ledger"
	"github.com/iov-one/ledger/x"
	"github.com/iov-one/ledger/x/accounts"
	"github.com/iov-one/ledger/x/escrow"
	"github.com/iov-one/ledger/x/sigs"
	"github.com/iov-one/ledger/x/token"
	"github.com/iov-one/ledger/x/utils"
)

// Routes registers the instructions of every program.
func Routes(auth x.Authenticator) *Router {
	r := NewRouter()
	token.RegisterRoutes(r, auth)
	escrow.RegisterRoutes(r, auth)
	return r
}

// Stack returns the full handler stack. Every transaction is logged and
// recovered from panics, runs inside a savepoint, has its signatures
// verified and finally reaches its program. metrics may be nil.
func Stack(metrics *utils.Metrics) ledger.Handler {
	authFn := sigs.Authenticate{}
	return ChainDecorators(
		utils.NewLogging(),
		utils.NewRecovery(),
		utils.NewSavepoint().OnCheck().OnDeliver(),
		metrics,
		sigs.NewDecorator(),
		utils.NewActionTagger(),
	).WithHandler(Routes(authFn))
}

// QueryRouter exposes the state of every program.
func QueryRouter() ledger.QueryRouter {
	r := ledger.NewQueryRouter()
	r.RegisterAll(
		sigs.RegisterQuery,
		accounts.RegisterQuery,
		token.RegisterQuery,
		escrow.RegisterQuery,
	)
	return r
}

// Initializer loads the genesis sections in dependency order.
func Initializer() ledger.Initializer {
	return ledger.ChainInitializers(
		accounts.Initializer{},
		token.Initializer{},
		escrow.Initializer{},
	)
}
