/*
Package accounts allocates storage accounts and keeps native balances.

Every account that holds program data, like a token account or an escrow
record, is created through Create. Creation charges a rent deposit from a
payer, proportional to the size of the stored data. The deposit is held by
the account and returned to a chosen address when the owning program closes
it.
*/
package accounts
