/*
Package cash implements the token ledger.

A Mint declares an asset type. Tokens of a mint are held in Accounts, each
owned by a single address and holding a single mint. Opening an account may
cost a deposit that is returned to the payer when the account is closed.
Other extensions move tokens through the Controller, authorizing the owner of
the source account with an x.Authenticator.
*/
package cash
