// Package memory is an in-process implementation of the ports, used by the
// application and HTTP tests.
//
// Transactions are serialized: Begin takes the store's transaction lock and
// snapshots the whole state, Rollback restores that snapshot. Aggregates are
// stored as encoded snapshots so no caller ever shares memory with the store.
package memory
