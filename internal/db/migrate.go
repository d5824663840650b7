package db

import (
	"context"
	"fmt"

	"github.com/ClickHouse/clickhouse-go/v2"
)

const createStepDeltasTable = `
CREATE TABLE IF NOT EXISTS step_deltas
(
	source      String,
	start_time  DateTime64(3, 'UTC'),
	end_time    DateTime64(3, 'UTC'),
	steps       UInt64,
	ingested_at DateTime DEFAULT now()
)
ENGINE = ReplacingMergeTree
PARTITION BY toYYYYMM(start_time)
ORDER BY (source, start_time, end_time)
SETTINGS index_granularity = 8192;
`

// RunMigrations ensures required tables exist. This keeps the service
// self-contained without an external migration step.
func RunMigrations(ctx context.Context, conn clickhouse.Conn) error {
	if err := conn.Exec(ctx, createStepDeltasTable); err != nil {
		return fmt.Errorf("apply migrations: %w", err)
	}
	return nil
}
