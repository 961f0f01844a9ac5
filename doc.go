/*
Package ledger defines the interfaces used throughout the escrow ledger:
storage, transactions, handlers and account addressing. It also contains
the program address derivation that every module relies on to own
accounts without holding a private key.

Subpackages implement the runtime (app, store, orm), the external services
consumed by programs (x/accounts, x/token, x/sigs) and the escrow program
itself (x/escrow).
*/
package ledger
