/*
Package tokenswap defines all common interfaces to weave together the
various subpackages, as well as implementations of some of the simpler
components (when interfaces would be too much overhead).

The ledger is made of extensions living under x/. Each extension owns a
prefixed part of the key value store and exposes its functionality through a
controller (to be called by other extensions) and through handlers (to be
called by the application when processing a transaction).

We pass context through context.Context between app, middleware, and
handlers. To do so, tokenswap defines some common keys to store info, such as
block height and chain id. Each extension, such as sigs, may add its own keys
to enrich the context with specific data.

There should exist two functions for every XYZ of type T that we want to
support in Context:

  WithXYZ(Context, T) Context
  GetXYZ(Context) (val T, ok bool)

WithXYZ may panic if the value was previously set to avoid lower-level
modules overwriting the value (eg. height, chain id).
*/
package tokenswap
