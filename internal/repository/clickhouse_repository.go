package repository

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2"

	"daily-steps-service/internal/model"
)

// ClickHouseRepository serves step history from the step_deltas table and
// accepts new deltas into it.
type ClickHouseRepository interface {
	StepRepository
	DeltaRepository
}

type clickhouseRepository struct {
	conn clickhouse.Conn
}

// NewClickHouseRepository creates a repository backed by ClickHouse.
func NewClickHouseRepository(conn clickhouse.Conn) ClickHouseRepository {
	return &clickhouseRepository{conn: conn}
}

const (
	insertDeltaQuery = `INSERT INTO step_deltas (source, start_time, end_time, steps)`

	selectDeltasQuery = `
		SELECT start_time, steps
		FROM step_deltas FINAL
		WHERE start_time >= ? AND start_time < ?
		ORDER BY start_time
	`

	sumDeltasQuery = `
		SELECT sum(steps)
		FROM step_deltas FINAL
		WHERE start_time >= ? AND start_time < ?
	`
)

// ReadHistory buckets stored deltas by local calendar day. Every day of the
// window gets a bucket; days without deltas carry no data sets.
func (r *clickhouseRepository) ReadHistory(ctx context.Context, window model.Window) ([]model.Bucket, error) {
	rows, err := r.conn.Query(ctx, selectDeltasQuery, window.Start, window.End)
	if err != nil {
		return nil, fmt.Errorf("query step deltas: %w", err)
	}
	defer rows.Close()

	sums := make(map[model.DayKey]uint64)
	for rows.Next() {
		var (
			start time.Time
			steps uint64
		)
		if err := rows.Scan(&start, &steps); err != nil {
			return nil, fmt.Errorf("scan step delta: %w", err)
		}
		sums[model.Normalize(start)] += steps
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate step deltas: %w", err)
	}

	days := window.Days()
	buckets := make([]model.Bucket, 0, len(days))
	for _, day := range days {
		start := day.Midnight()
		end := start.AddDate(0, 0, 1)
		b := model.Bucket{Start: start, End: end}
		if steps, ok := sums[day]; ok {
			b.DataSets = []model.DataSet{stepDataSet(start, end, steps)}
		}
		buckets = append(buckets, b)
	}
	return buckets, nil
}

// ReadDailyTotal sums the deltas of asOf's day from local midnight up to asOf.
func (r *clickhouseRepository) ReadDailyTotal(ctx context.Context, asOf time.Time) (model.DataSet, error) {
	start := model.StartOfDay(asOf)

	var total uint64
	row := r.conn.QueryRow(ctx, sumDeltasQuery, start, asOf)
	if err := row.Err(); err != nil {
		return model.DataSet{}, fmt.Errorf("query daily total: %w", err)
	}
	if err := row.Scan(&total); err != nil {
		return model.DataSet{}, fmt.Errorf("scan daily total: %w", err)
	}

	return stepDataSet(start, asOf, total), nil
}

func (r *clickhouseRepository) CreateBatch(ctx context.Context, deltas []model.StepDelta) error {
	if len(deltas) == 0 {
		return nil
	}

	batch, err := r.conn.PrepareBatch(ctx, insertDeltaQuery)
	if err != nil {
		return fmt.Errorf("prepare batch: %w", err)
	}

	for _, d := range deltas {
		if err := batch.Append(d.Source, d.Start.UTC(), d.End.UTC(), d.Steps); err != nil {
			_ = batch.Abort()
			return fmt.Errorf("append delta: %w", err)
		}
	}

	if err := batch.Send(); err != nil {
		return fmt.Errorf("send batch: %w", err)
	}
	return nil
}

func stepDataSet(start, end time.Time, steps uint64) model.DataSet {
	return model.DataSet{
		DataType: StepDataType,
		Points: []model.DataPoint{{
			Start:  start,
			End:    end,
			Fields: []model.FieldValue{{Name: "steps", Value: strconv.FormatUint(steps, 10)}},
		}},
	}
}
