/*
Package escrow implements a trustless token swap.

A maker locks an amount of token A in a vault and declares how much of
token B they want in return. Any taker that pays the declared amount of B
receives the whole vault content. Until that happens the maker can refund
the vault to themselves.

Every escrow lives at an address derived from the program identity, the
maker and a maker chosen nonce. The vault is the associated token account
of that address for token A, so the only authority able to move the vault
funds is this program, acting under the seeds of the escrow.

Lifecycle

	Initialize -> Open -> Exchange -> Closed
	                   -> Refund   -> Closed

Closed escrows are removed from the store, together with their vault, and
the rent of both accounts returns to the maker. Any instruction against a
closed escrow fails with ErrNotFound.
*/
package escrow
