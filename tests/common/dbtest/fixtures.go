//go:build unit || e2e

package dbtest

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
)

// CreateTestResource inserts a resource with a Monday-to-Friday 08:00-17:00
// template using 30-minute slots on a 15-minute step.
func CreateTestResource(t *testing.T, db DBLike, name, kind, timezone string) uuid.UUID {
	t.Helper()

	ctx := context.Background()
	id := uuid.New()
	_, err := db.Exec(ctx,
		"INSERT INTO resources (id, name, kind, timezone) VALUES ($1, $2, $3, $4)",
		id, name, kind, timezone)
	require.NoError(t, err)

	_, err = db.Exec(ctx,
		"INSERT INTO availability_templates (resource_id, default_duration_minutes, buffer_minutes, step_interval_minutes) VALUES ($1, 30, 0, 15)",
		id)
	require.NoError(t, err)

	for weekday := 1; weekday <= 5; weekday++ {
		_, err = db.Exec(ctx,
			"INSERT INTO template_sessions (resource_id, weekday, start_minute, end_minute) VALUES ($1, $2, 480, 1020)",
			id, weekday)
		require.NoError(t, err)
	}
	return id
}

func CountBookings(t *testing.T, db DBLike, resourceID uuid.UUID, status string) int {
	t.Helper()

	var n int
	err := db.QueryRow(context.Background(),
		"SELECT count(*) FROM bookings WHERE resource_id = $1 AND status = $2", resourceID, status).Scan(&n)
	require.NoError(t, err)
	return n
}

var (
	buildTruncateOnce sync.Once
	truncateSQL       atomic.Value // string
)

// ResetDB truncates every application table.
func ResetDB(pool *pgxpool.Pool) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	buildTruncateOnce.Do(func() {
		rows, err := pool.Query(ctx, `
		  SELECT 'public.' || quote_ident(tablename)
		  FROM pg_tables
		  WHERE schemaname = 'public'
		    AND tablename NOT IN ('atlas_schema_revisions')`)
		if err != nil {
			truncateSQL.Store("")
			return
		}
		defer rows.Close()
		var tables []string
		for rows.Next() {
			var t string
			if err := rows.Scan(&t); err != nil {
				truncateSQL.Store("")
				return
			}
			tables = append(tables, t)
		}
		if rows.Err() != nil {
			truncateSQL.Store("")
			return
		}
		if len(tables) == 0 {
			truncateSQL.Store("SELECT 1")
			return
		}
		truncateSQL.Store("TRUNCATE " + strings.Join(tables, ", ") + " CASCADE;")
	})
	sqlAny := truncateSQL.Load()
	if sqlAny == nil || sqlAny.(string) == "" {
		return fmt.Errorf("failed to build TRUNCATE SQL")
	}
	_, err := pool.Exec(ctx, sqlAny.(string))
	return err
}
