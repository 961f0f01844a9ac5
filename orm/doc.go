/*
Package orm provides an easy to use db wrapper.

Break state space into prefixed sections called buckets. Each bucket
contains only one type of model, keyed by its primary key, usually an
address. Lookups, existence checks and prefix iteration are exposed both
to handlers and, through Register, to ABCI queries.
*/
package orm
