package gateway

// In this file: the capability guard that gates every operation before it
// reaches the database.

import "strings"

// Operation names one of the fixed gateway operations.
type Operation string

const (
	OpQuery       Operation = "query"
	OpAggregate   Operation = "aggregate"
	OpCount       Operation = "count"
	OpDistinct    Operation = "distinct"
	OpUpdate      Operation = "update"
	OpInsert      Operation = "insert"
	OpCreateIndex Operation = "createIndex"
	OpServerInfo  Operation = "serverInfo"
)

// systemPrefix marks reserved collection namespaces that are never exposed.
const systemPrefix = "system."

// isWrite reports whether op modifies the database.
func isWrite(op Operation) bool {
	switch op {
	case OpUpdate, OpInsert, OpCreateIndex:
		return true
	}
	return false
}

// Authorize checks whether op may run against collection.  The system
// namespace rule applies regardless of mode; write operations are denied
// when the gateway is read-only.  A nil return means the operation is
// permitted.
func (g *Gateway) Authorize(op Operation, collection string) *Error {
	if strings.HasPrefix(collection, systemPrefix) {
		return errf(CodeUnauthorized, "access to system collection %q is denied", collection)
	}
	if g.readOnly && isWrite(op) {
		return errf(CodeUnauthorized, "%s is not permitted in read-only mode", op)
	}
	return nil
}
