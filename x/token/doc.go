/*
Package token implements fungible tokens.

A mint defines an asset: its decimals, its supply and the authority allowed
to issue more. Balances live in token accounts, each holding exactly one
mint and owned by a single address, the transfer authority. The owner is
either a key holder, authorized by signing, or a program derived address,
authorized by the program proving it can derive it.

The associated token account of an (owner, mint) pair lives at a derived
address, so anybody can compute where a given owner keeps a given asset.
*/
package token
