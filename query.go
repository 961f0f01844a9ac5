package ledger

import (
	"fmt"
	"sort"
	"strings"

	"github.com/iov-one/ledger/errors"
)

// Query modifiers, given after a "?" in the query path.
const (
	// KeyQueryMod looks up a single key.
	KeyQueryMod = ""
	// PrefixQueryMod lists all keys starting with the data.
	PrefixQueryMod = "prefix"
)

// Model is a key with its stored value, as returned by queries.
type Model struct {
	Key   []byte
	Value []byte
}

// Pair constructs a model from a key-value pair
func Pair(key, value []byte) Model {
	return Model{Key: key, Value: value}
}

// QueryHandler answers queries for one path.
type QueryHandler interface {
	Query(db ReadOnlyKVStore, mod string, data []byte) ([]Model, error)
}

// QueryRegister adds the handlers of one package to a router.
type QueryRegister func(QueryRouter)

// QueryRouter dispatches queries by path, like a net/http.ServeMux with
// exact matches only.
type QueryRouter struct {
	routes map[string]QueryHandler
}

// NewQueryRouter returns a router without routes.
func NewQueryRouter() QueryRouter {
	return QueryRouter{routes: make(map[string]QueryHandler)}
}

// RegisterAll runs every register function against this router.
func (r QueryRouter) RegisterAll(qr ...QueryRegister) {
	for _, q := range qr {
		q(r)
	}
}

// Register binds h to path. Paths must start with "/" and must not carry a
// modifier. Registering a path twice panics.
func (r QueryRouter) Register(path string, h QueryHandler) {
	if !strings.HasPrefix(path, "/") || strings.Contains(path, "?") {
		panic(fmt.Sprintf("invalid query path %q", path))
	}
	if _, ok := r.routes[path]; ok {
		panic(fmt.Sprintf("query path %q already registered", path))
	}
	r.routes[path] = h
}

// Handler returns the handler bound to path, or nil.
func (r QueryRouter) Handler(path string) QueryHandler {
	return r.routes[path]
}

// Paths lists the registered paths in order.
func (r QueryRouter) Paths() []string {
	paths := make([]string, 0, len(r.routes))
	for p := range r.routes {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

// Query runs a query given as "/path" or "/path?mod" against db.
func (r QueryRouter) Query(db ReadOnlyKVStore, path string, data []byte) ([]Model, error) {
	path, mod := SplitQueryPath(path)
	h := r.routes[path]
	if h == nil {
		return nil, errors.Wrapf(errors.ErrNotFound, "unexpected query path %q", path)
	}
	return h.Query(db, mod, data)
}

// SplitQueryPath separates the path from the modifier after "?".
func SplitQueryPath(path string) (string, string) {
	if i := strings.IndexByte(path, '?'); i >= 0 {
		return path[:i], path[i+1:]
	}
	return path, KeyQueryMod
}
