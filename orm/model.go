package orm

import "github.com/iov-one/ledger"

// Model is implemented by any entity that can be stored using ModelBucket.
type Model interface {
	ledger.Persistent
	Validate() error
}
