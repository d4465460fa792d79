/*
Package orm provides an easy to use db wrapper

Break state space into prefixed sections called Buckets.
Each bucket holds models of a single type, keyed by a primary key. A bucket
can maintain any number of secondary indexes, stored natively in the same
key value store, so that models can be looked up by any of their attributes.
*/
package orm
