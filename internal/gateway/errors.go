package gateway

// In this file: the fixed error taxonomy and driver error reclassification.

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.mongodb.org/mongo-driver/v2/mongo"
)

// Code identifies one failure class of the gateway's fixed error taxonomy.
type Code string

const (
	CodeInvalidQuery       Code = "INVALID_QUERY"
	CodeCollectionNotFound Code = "COLLECTION_NOT_FOUND"
	CodeDatabaseNotFound   Code = "DATABASE_NOT_FOUND"
	CodeInvalidPipeline    Code = "INVALID_PIPELINE"
	CodeInvalidProjection  Code = "INVALID_PROJECTION"
	CodeInvalidSort        Code = "INVALID_SORT"
	CodeConnectionError    Code = "CONNECTION_ERROR"
	CodeTimeout            Code = "TIMEOUT"
	CodeUnauthorized       Code = "UNAUTHORIZED"
)

// Error is the structured failure that crosses the gateway boundary.  Every
// operation either fully succeeds or returns one of these; raw driver errors
// never escape unmapped.
type Error struct {
	Code    Code   `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// errf builds an *Error with a formatted message.
func errf(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// nsNotFound is the server error code for a missing namespace.
const nsNotFound = 26

// reclassify maps a driver-level failure into the taxonomy, embedding the
// operation and collection in the message.  Validation errors produced by
// the gateway itself pass through unchanged.
func reclassify(op Operation, collection string, err error) *Error {
	var gwErr *Error
	if errors.As(err, &gwErr) {
		return gwErr
	}

	where := string(op)
	if collection != "" {
		where = fmt.Sprintf("%s on collection %q", op, collection)
	}

	switch {
	case mongo.IsTimeout(err) || errors.Is(err, context.DeadlineExceeded):
		return errf(CodeTimeout, "%s timed out: %v", where, err)
	case mongo.IsNetworkError(err):
		return errf(CodeConnectionError, "%s failed: %v", where, err)
	}

	var cmdErr mongo.CommandError
	if errors.As(err, &cmdErr) {
		lower := strings.ToLower(cmdErr.Message)
		switch {
		case cmdErr.Code == nsNotFound || cmdErr.Name == "NamespaceNotFound":
			return errf(CodeCollectionNotFound, "%s: collection not found: %v", where, err)
		case strings.Contains(lower, "database") && (strings.Contains(lower, "not found") || strings.Contains(lower, "does not exist")):
			return errf(CodeDatabaseNotFound, "%s: database not found: %v", where, err)
		}
	}

	// Everything else is a server-side rejection of the request itself.
	return errf(CodeInvalidQuery, "%s failed: %v", where, err)
}
