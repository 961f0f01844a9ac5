/*
Package ledgertest provides mocks and helpers for testing ledger
extensions: authenticators, handlers, decorators, transactions and
keys.
*/
package ledgertest
