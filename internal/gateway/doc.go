// Package gateway is the operation gateway at the heart of the server.  It
// receives a named operation with an untyped argument bag, validates and
// normalizes the arguments against the semantics of each MongoDB operation,
// enforces the process-wide read-only mode and the system-namespace denial,
// executes the operation against the shared database handle, infers
// lightweight schema information from sample data, and maps every failure
// into a fixed error taxonomy.
//
// The gateway is stateless between requests: only the database handle and
// the read-only flag outlive a single call, and both are immutable after
// startup.  Validation failures and guard denials are raised before any
// database round trip; driver failures are reclassified at the dispatch
// boundary and never escape raw.
package gateway
