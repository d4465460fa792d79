/*
Package escrow implements a trustless swap of two assets.

A maker opens an escrow by locking a deposit of one mint in a vault and
declaring the exact amount of another mint wanted in exchange. The escrow
then ends in exactly one of two ways: the maker cancels and gets the deposit
back, or a taker fulfills it by paying the wanted amount and receiving the
whole deposit.

The escrow record is stored under an address derived from the maker and a
maker chosen seed. The vault is a cash account owned by that address, so
tokens can leave it only when the controller authorizes the transfer on
behalf of the record. Absence of the record is the only terminal state.
*/
package escrow
