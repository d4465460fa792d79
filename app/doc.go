/*
Package app contains the runtime that processes transactions against the
ledger state.

An Application holds a CommitKVStore and delivers transactions one by one
into a cache wrapped deliver store. Commit writes all delivered changes to
the underlying store at once. Each transaction passes through a stack of
decorators (see ChainDecorators) before it reaches the Router, which
dispatches it to the handler registered for the message path.
*/
package app
