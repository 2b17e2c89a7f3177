//go:build unit || e2e

package dbtest

import "clinic-scheduler/internal/infra/postgres"

// DBLike accepts a pool or a transaction, the same handles the repositories take.
type DBLike = postgres.DBTX
