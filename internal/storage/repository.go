package storage

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"tvparse/internal/series"
)

// ErrNotConfigured indicates the storage pool was not initialised.
var ErrNotConfigured = errors.New("storage: pool not configured")

const (
	createBarsTableSQL = `CREATE TABLE IF NOT EXISTS bars (
        bar_time   BIGINT PRIMARY KEY,
        open       DOUBLE PRECISION,
        high       DOUBLE PRECISION,
        low        DOUBLE PRECISION,
        close      DOUBLE PRECISION,
        volume     DOUBLE PRECISION,
        created_at TIMESTAMPTZ NOT NULL DEFAULT now()
    );`

	upsertBarSQL = `INSERT INTO bars (
        bar_time, open, high, low, close, volume
    ) VALUES (
        $1,$2,$3,$4,$5,$6
    )
    ON CONFLICT (bar_time) DO UPDATE
    SET open   = EXCLUDED.open,
        high   = EXCLUDED.high,
        low    = EXCLUDED.low,
        close  = EXCLUDED.close,
        volume = EXCLUDED.volume;`

	listBarsBetweenSQL = `SELECT bar_time, open, high, low, close, volume
    FROM bars
    WHERE bar_time >= $1
      AND bar_time <= $2
    ORDER BY bar_time;`

	listRecentBarsSQL = `SELECT bar_time, open, high, low, close, volume
    FROM bars
    ORDER BY bar_time DESC
    LIMIT $1;`

	countBarsSQL = `SELECT COUNT(*) FROM bars;`
)

// BarStore defines operations for archived bar persistence.
type BarStore interface {
	UpsertBars(ctx context.Context, bars series.Series) (int64, error)
	ListBarsBetween(ctx context.Context, from, to int64) (series.Series, error)
	ListRecentBars(ctx context.Context, limit int) (series.Series, error)
	CountBars(ctx context.Context) (int64, error)
}

// Store provides access to the bar archive.
type Store struct {
	pool *pgxpool.Pool
}

// NewStore wires a pgx pool into a Store.
func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// Close releases the underlying pool resources.
func (s *Store) Close() {
	if s == nil || s.pool == nil {
		return
	}
	s.pool.Close()
}

func (s *Store) getPool() (*pgxpool.Pool, error) {
	if s == nil || s.pool == nil {
		return nil, ErrNotConfigured
	}
	return s.pool, nil
}

// EnsureSchema creates the bars table when absent.
func (s *Store) EnsureSchema(ctx context.Context) error {
	pool, err := s.getPool()
	if err != nil {
		return err
	}
	if _, execErr := pool.Exec(ctx, createBarsTableSQL); execErr != nil {
		return fmt.Errorf("create bars table: %w", execErr)
	}
	return nil
}

// UpsertBars writes the series to the archive in one batch; re-archiving a
// timestamp replaces its previous values. Bars without a timestamp are
// ignored. Returns the number of bars written.
func (s *Store) UpsertBars(ctx context.Context, bars series.Series) (int64, error) {
	pool, err := s.getPool()
	if err != nil {
		return 0, err
	}

	batch := &pgx.Batch{}
	queued := int64(0)
	for _, b := range bars {
		if !b.HasTime {
			continue
		}
		batch.Queue(upsertBarSQL, b.Time,
			nullable(b.Open), nullable(b.High), nullable(b.Low), nullable(b.Close), nullable(b.Volume))
		queued++
	}
	if queued == 0 {
		return 0, nil
	}

	results := pool.SendBatch(ctx, batch)
	defer results.Close()
	for i := int64(0); i < queued; i++ {
		if _, execErr := results.Exec(); execErr != nil {
			return 0, fmt.Errorf("upsert bar: %w", execErr)
		}
	}
	return queued, nil
}

// ListBarsBetween lists archived bars inside an inclusive timestamp window.
func (s *Store) ListBarsBetween(ctx context.Context, from, to int64) (series.Series, error) {
	pool, err := s.getPool()
	if err != nil {
		return nil, err
	}

	rows, queryErr := pool.Query(ctx, listBarsBetweenSQL, from, to)
	if queryErr != nil {
		return nil, fmt.Errorf("list bars between: %w", queryErr)
	}
	defer rows.Close()

	return scanBars(rows)
}

// ListRecentBars lists the most recent archived bars, newest first.
func (s *Store) ListRecentBars(ctx context.Context, limit int) (series.Series, error) {
	pool, err := s.getPool()
	if err != nil {
		return nil, err
	}

	rows, queryErr := pool.Query(ctx, listRecentBarsSQL, limit)
	if queryErr != nil {
		return nil, fmt.Errorf("list recent bars: %w", queryErr)
	}
	defer rows.Close()

	return scanBars(rows)
}

// CountBars counts archived bars.
func (s *Store) CountBars(ctx context.Context) (int64, error) {
	pool, err := s.getPool()
	if err != nil {
		return 0, err
	}
	var count int64
	if scanErr := pool.QueryRow(ctx, countBarsSQL).Scan(&count); scanErr != nil {
		return 0, fmt.Errorf("count bars: %w", scanErr)
	}
	return count, nil
}

func scanBars(rows pgx.Rows) (series.Series, error) {
	out := make(series.Series, 0)
	for rows.Next() {
		var (
			barTime int64
			open    *float64
			high    *float64
			low     *float64
			closeP  *float64
			volume  *float64
		)
		if err := rows.Scan(&barTime, &open, &high, &low, &closeP, &volume); err != nil {
			return nil, err
		}
		out = append(out, series.Bar{
			Time:    barTime,
			HasTime: true,
			Open:    deref(open),
			High:    deref(high),
			Low:     deref(low),
			Close:   deref(closeP),
			Volume:  deref(volume),
		})
	}
	if rows.Err() != nil {
		return nil, rows.Err()
	}
	return out, nil
}

// nullable maps NaN (a missing field) to SQL NULL.
func nullable(v float64) *float64 {
	if math.IsNaN(v) {
		return nil
	}
	return &v
}

func deref(v *float64) float64 {
	if v == nil {
		return math.NaN()
	}
	return *v
}

var _ BarStore = (*Store)(nil)
