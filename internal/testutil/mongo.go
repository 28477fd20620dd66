// Package testutil provides shared test infrastructure, most notably a
// disposable MongoDB instance backed by testcontainers.
package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/testcontainers/testcontainers-go"
	tcmongo "github.com/testcontainers/testcontainers-go/modules/mongodb"
)

// mongoImage is the server image used for container tests.
const mongoImage = "mongo:7"

// startupTimeout bounds container startup; image pulls on a cold cache can
// be slow.
const startupTimeout = 120 * time.Second

// StartMongo starts a disposable MongoDB container and returns its base
// connection URI (without a database path).  The container is terminated via
// t.Cleanup.  Tests running with -short are skipped.
func StartMongo(t *testing.T) string {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping container test in short mode")
	}

	ctx, cancel := context.WithTimeout(context.Background(), startupTimeout)
	defer cancel()

	ctr, err := tcmongo.Run(ctx, mongoImage)
	if err != nil {
		t.Fatalf("failed to start mongodb container: %v", err)
	}
	t.Cleanup(func() {
		if err := testcontainers.TerminateContainer(ctr); err != nil {
			t.Logf("failed to terminate mongodb container: %v", err)
		}
	})

	uri, err := ctr.ConnectionString(ctx)
	if err != nil {
		t.Fatalf("failed to get mongodb connection string: %v", err)
	}
	return uri
}
