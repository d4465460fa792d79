/*
Package x contains the helpers shared by all extensions.

Extensions live in subpackages. Each one owns a part of the store and
exposes a controller for other extensions and handlers for the application
router. Authentication is abstracted by the Authenticator interface so that
signatures and derived signers can be combined with ChainAuth.
*/
package x
