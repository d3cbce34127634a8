package pgtest

import (
	"context"
	"fmt"
	"os"

	"github.com/amcontabilidade/punctuality-board/internal/pkg/database"
)

// TestDatabaseSetup holds the connection used by repository tests
type TestDatabaseSetup struct {
	DB *database.DB
}

// NewTestDatabase connects to TEST_DATABASE_URL. ok is false when the
// variable is unset and the tests should be skipped.
func NewTestDatabase() (setup *TestDatabaseSetup, ok bool, err error) {
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		return nil, false, nil
	}

	db, err := database.NewPostgreSQLDB(context.Background(), dsn, database.PoolOptions{MaxConns: 4, MinConns: 1})
	if err != nil {
		return nil, true, fmt.Errorf("failed to connect to test database: %w", err)
	}

	return &TestDatabaseSetup{DB: db}, true, nil
}

// schema shadows the real tables with session-local ones so tests never
// touch existing data.
const schema = `
	CREATE TEMP TABLE div_colab_b_rows (
		id          BIGSERIAL PRIMARY KEY,
		run_id      TEXT,
		captured_at TIMESTAMPTZ NOT NULL,
		category    TEXT,
		series_names TEXT[],
		"values"    NUMERIC[]
	) ON COMMIT DROP;
	CREATE TEMP TABLE weekly_history (
		id             BIGSERIAL PRIMARY KEY,
		reference_date DATE NOT NULL,
		payload        JSONB
	) ON COMMIT DROP;
`

// Close closes the pool
func (t *TestDatabaseSetup) Close() {
	t.DB.Close()
}
