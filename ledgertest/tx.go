package ledgertest

import "github.com/iov-one/ledger"

// Tx represents a ledger transaction carrying a single message.
type Tx struct {
	// Msg is the message that is to be processed by this transaction.
	Msg ledger.Msg
	// Err if set is returned by any method call.
	Err error
}

var _ ledger.Tx = (*Tx)(nil)

func (tx *Tx) GetMsg() (ledger.Msg, error) {
	return tx.Msg, tx.Err
}

func (tx *Tx) Unmarshal([]byte) error {
	panic("not implemented")
}

func (tx *Tx) Marshal() ([]byte, error) {
	if tx.Err != nil {
		return nil, tx.Err
	}
	return tx.Msg.Marshal()
}

// Msg represents a ledger message.
type Msg struct {
	// RoutePath is returned by the path method, consumed by the router.
	RoutePath string
	// Serialized represents the serialized form of this message.
	Serialized []byte
	// Err if set is returned by any method call.
	Err error
}

var _ ledger.Msg = (*Msg)(nil)

func (m *Msg) Path() string {
	return m.RoutePath
}

func (m *Msg) Unmarshal(b []byte) error {
	m.Serialized = b
	return m.Err
}

func (m *Msg) Marshal() ([]byte, error) {
	return m.Serialized, m.Err
}

func (m *Msg) Validate() error {
	return m.Err
}
