package mockclickhouserows

import (
	"errors"
	"fmt"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"
)

// Rows replays a fixed result set. Values are copied into Scan targets of
// type *time.Time, *uint64, *int64 and *string.
type Rows struct {
	Values  [][]any
	ScanErr error
	IterErr error
	Closed  bool

	pos int
}

var _ driver.Rows = &Rows{}

func (r *Rows) Next() bool {
	if r.pos >= len(r.Values) {
		return false
	}
	r.pos++
	return true
}

func (r *Rows) Scan(dest ...any) error {
	if r.ScanErr != nil {
		return r.ScanErr
	}
	if r.pos == 0 || r.pos > len(r.Values) {
		return errors.New("scan called without a current row")
	}
	return assign(r.Values[r.pos-1], dest)
}

func (r *Rows) ScanStruct(dest any) error {
	return errors.New("ScanStruct not supported")
}

func (r *Rows) ColumnTypes() []driver.ColumnType {
	return nil
}

func (r *Rows) Totals(dest ...any) error {
	return nil
}

func (r *Rows) Columns() []string {
	return nil
}

func (r *Rows) Close() error {
	r.Closed = true
	return nil
}

func (r *Rows) Err() error {
	return r.IterErr
}

// Row is a single-row result.
type Row struct {
	Values []any
	Error  error
}

var _ driver.Row = &Row{}

func (r *Row) Err() error {
	return r.Error
}

func (r *Row) Scan(dest ...any) error {
	if r.Error != nil {
		return r.Error
	}
	return assign(r.Values, dest)
}

func (r *Row) ScanStruct(dest any) error {
	return errors.New("ScanStruct not supported")
}

func assign(values []any, dest []any) error {
	if len(values) != len(dest) {
		return fmt.Errorf("scan: %d values for %d targets", len(values), len(dest))
	}
	for i := range dest {
		switch d := dest[i].(type) {
		case *time.Time:
			v, ok := values[i].(time.Time)
			if !ok {
				return fmt.Errorf("scan column %d: want time.Time, got %T", i, values[i])
			}
			*d = v
		case *uint64:
			v, ok := values[i].(uint64)
			if !ok {
				return fmt.Errorf("scan column %d: want uint64, got %T", i, values[i])
			}
			*d = v
		case *int64:
			v, ok := values[i].(int64)
			if !ok {
				return fmt.Errorf("scan column %d: want int64, got %T", i, values[i])
			}
			*d = v
		case *string:
			v, ok := values[i].(string)
			if !ok {
				return fmt.Errorf("scan column %d: want string, got %T", i, values[i])
			}
			*d = v
		default:
			return fmt.Errorf("scan column %d: unsupported target %T", i, dest[i])
		}
	}
	return nil
}
