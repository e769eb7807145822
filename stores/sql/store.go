// Package sql persists stats Bundles to a local SQLite database, one table
// per stats sub-record, using INSERT OR REPLACE so a re-analyzed height
// simply overwrites its prior row.
package sql

import (
	"context"
	"database/sql"
	"fmt"
	"reflect"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	_ "modernc.org/sqlite" // registers the "sqlite" database/sql driver

	"github.com/blockstats/blockstatsd/errors"
	"github.com/blockstats/blockstatsd/model"
	"github.com/blockstats/blockstatsd/ulogger"
)

// DatabaseBatchSize is the number of heights written per transaction.
const DatabaseBatchSize = 100

var (
	prometheusStatsInserted prometheus.Counter
	prometheusStatsErrors   *prometheus.CounterVec
)

func init() {
	prometheusStatsInserted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "blockstatsd_stats_inserted",
		Help: "Number of per-block stats bundles persisted",
	})
	prometheusStatsErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "blockstatsd_stats_store_errors",
		Help: "Number of store errors by operation",
	}, []string{"operation"})
}

// Store wraps a SQLite database holding the six stats tables.
type Store struct {
	logger ulogger.Logger
	db     *sql.DB
}

// New opens (creating if necessary) a SQLite database at path and tunes it
// for a single-writer batch workload.
func New(logger ulogger.Logger, path string) (*Store, error) {
	dsn := fmt.Sprintf("%s?_pragma=busy_timeout=5000&_pragma=journal_mode=WAL&_pragma=synchronous=NORMAL&_pragma=cache_size=-64000", path)

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, errors.NewStoreError("opening sqlite database", err)
	}
	db.SetMaxOpenConns(1) // WAL mode, single writer; avoids SQLITE_BUSY under the errgroup writer

	s := &Store{logger: logger, db: db}
	if err := s.migrate(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) Close() error { return s.db.Close() }

// DB exposes the underlying connection for read-only export queries; the
// export package never writes through it.
func (s *Store) DB() *sql.DB { return s.db }

var tableTypes = map[string]reflect.Type{
	"block_stats":   reflect.TypeOf(model.BlockStats{}),
	"tx_stats":      reflect.TypeOf(model.TxStats{}),
	"input_stats":   reflect.TypeOf(model.InputStats{}),
	"output_stats":  reflect.TypeOf(model.OutputStats{}),
	"script_stats":  reflect.TypeOf(model.ScriptStats{}),
	"feerate_stats": reflect.TypeOf(model.FeerateStats{}),
}

func (s *Store) migrate() error {
	for table, t := range tableTypes {
		if _, err := s.db.Exec(createTableDDL(table, t)); err != nil {
			return errors.NewStoreError("creating table "+table, err)
		}
	}
	return nil
}

// HeightsUpToDate returns the set of heights already stored at stats version
// >= the given version, i.e. heights the orchestrator can skip reanalyzing.
func (s *Store) HeightsUpToDate(ctx context.Context, version int32) (map[int64]bool, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT height FROM block_stats WHERE stats_version >= ?", version)
	if err != nil {
		prometheusStatsErrors.WithLabelValues("heights_up_to_date").Inc()
		return nil, errors.NewStoreError("querying up-to-date heights", err)
	}
	defer rows.Close()

	out := make(map[int64]bool)
	for rows.Next() {
		var h int64
		if err := rows.Scan(&h); err != nil {
			return nil, errors.NewStoreError("scanning height", err)
		}
		out[h] = true
	}
	return out, rows.Err()
}

// InsertBatch persists every bundle, chunking into DatabaseBatchSize-sized
// transactions so a crash mid-batch only loses the in-flight chunk.
func (s *Store) InsertBatch(ctx context.Context, bundles []*model.Bundle) error {
	for start := 0; start < len(bundles); start += DatabaseBatchSize {
		end := start + DatabaseBatchSize
		if end > len(bundles) {
			end = len(bundles)
		}
		if err := s.insertChunk(ctx, bundles[start:end]); err != nil {
			return err
		}
	}
	return nil
}

func (s *Store) insertChunk(ctx context.Context, bundles []*model.Bundle) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		prometheusStatsErrors.WithLabelValues("begin_tx").Inc()
		return errors.NewStoreError("beginning transaction", err)
	}
	defer tx.Rollback() //nolint:errcheck

	stmts := make(map[string]*sql.Stmt, len(tableTypes))
	for table, t := range tableTypes {
		stmt, err := tx.PrepareContext(ctx, upsertDML(table, t))
		if err != nil {
			prometheusStatsErrors.WithLabelValues("prepare").Inc()
			return errors.NewStoreError("preparing upsert for "+table, err)
		}
		defer stmt.Close()
		stmts[table] = stmt
	}

	for _, b := range bundles {
		if err := execUpsert(ctx, stmts["block_stats"], b.Block); err != nil {
			return err
		}
		if err := execUpsert(ctx, stmts["tx_stats"], b.Tx); err != nil {
			return err
		}
		if err := execUpsert(ctx, stmts["input_stats"], b.Input); err != nil {
			return err
		}
		if err := execUpsert(ctx, stmts["output_stats"], b.Output); err != nil {
			return err
		}
		if err := execUpsert(ctx, stmts["script_stats"], b.Script); err != nil {
			return err
		}
		if err := execUpsert(ctx, stmts["feerate_stats"], b.Feerate); err != nil {
			return err
		}
		prometheusStatsInserted.Inc()
	}

	if err := tx.Commit(); err != nil {
		prometheusStatsErrors.WithLabelValues("commit").Inc()
		return errors.NewStoreError("committing batch", err)
	}
	return nil
}

func execUpsert(ctx context.Context, stmt *sql.Stmt, v interface{}) error {
	vals := valuesFor(reflect.ValueOf(v))
	if _, err := stmt.ExecContext(ctx, vals...); err != nil {
		prometheusStatsErrors.WithLabelValues("exec").Inc()
		return errors.NewStoreError("executing upsert", err)
	}
	return nil
}
