// Package export renders read-only SQL rollups over the stats tables into
// CSV artifacts (spec §4.5). Every report is a parameterized query plus a
// CSV writer; none of them mutate the store.
package export

import (
	"context"
	"database/sql"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"

	"github.com/blockstats/blockstatsd/errors"
)

// Report is one named CSV export: a query plus the column headers its rows
// produce.
type Report struct {
	Name    string
	Headers []string
	Query   string
}

// reports lists every export in the order the original pipeline runs them.
var reports = []Report{
	{
		Name:    "date",
		Headers: []string{"date", "blocks", "transactions", "inputs", "outputs"},
		Query:   `SELECT date, COUNT(*), SUM(transactions), SUM(inputs), SUM(outputs) FROM block_stats GROUP BY date ORDER BY date`,
	},
	{
		Name:    "metrics",
		Headers: []string{"height", "date", "size", "weight", "difficulty", "log2_work", "transactions", "payments"},
		Query:   `SELECT height, date, size, weight, difficulty, log2_work, transactions, payments FROM block_stats ORDER BY height`,
	},
	{
		Name:    "top5_miningpools",
		Headers: []string{"pool_id", "blocks"},
		Query:   `SELECT pool_id, COUNT(*) AS blocks FROM block_stats GROUP BY pool_id ORDER BY blocks DESC LIMIT 5`,
	},
	{
		Name:    "antpool_and_friends",
		Headers: []string{"date", "blocks"},
		Query:   `SELECT date, COUNT(*) FROM block_stats WHERE pool_id IN (SELECT pool_id FROM block_stats GROUP BY pool_id ORDER BY COUNT(*) DESC LIMIT 5) GROUP BY date ORDER BY date`,
	},
	{
		Name:    "mining_centralization_index",
		Headers: []string{"date", "hhi"},
		Query: `
			WITH per_pool AS (
				SELECT date, pool_id, COUNT(*) AS blocks FROM block_stats GROUP BY date, pool_id
			),
			per_date AS (
				SELECT date, SUM(blocks) AS total FROM per_pool GROUP BY date
			)
			SELECT p.date, SUM((CAST(p.blocks AS REAL) / d.total) * (CAST(p.blocks AS REAL) / d.total)) AS hhi
			FROM per_pool p JOIN per_date d ON p.date = d.date
			GROUP BY p.date ORDER BY p.date`,
	},
	{
		Name:    "mining_centralization_index_with_proxy_pools",
		Headers: []string{"date", "hhi"},
		// identical to the plain index until an operator-supplied proxy-pool
		// consolidation mapping is wired in; see DESIGN.md.
		Query: `
			WITH per_pool AS (
				SELECT date, pool_id, COUNT(*) AS blocks FROM block_stats GROUP BY date, pool_id
			),
			per_date AS (
				SELECT date, SUM(blocks) AS total FROM per_pool GROUP BY date
			)
			SELECT p.date, SUM((CAST(p.blocks AS REAL) / d.total) * (CAST(p.blocks AS REAL) / d.total)) AS hhi
			FROM per_pool p JOIN per_date d ON p.date = d.date
			GROUP BY p.date ORDER BY p.date`,
	},
	{
		Name:    "mining_pool_blocks_per_day",
		Headers: []string{"date", "pool_id", "blocks"},
		Query:   `SELECT date, pool_id, COUNT(*) FROM block_stats GROUP BY date, pool_id ORDER BY date, pool_id`,
	},
	{
		Name:    "pools_mining_ephemeral_dust",
		Headers: []string{"pool_id", "tx_spending_ephemeral_dust"},
		Query: `SELECT b.pool_id, SUM(t.tx_spending_ephemeral_dust)
			FROM block_stats b JOIN tx_stats t ON b.height = t.height
			GROUP BY b.pool_id ORDER BY b.pool_id`,
	},
	{
		Name:    "pools_mining_p2a",
		Headers: []string{"pool_id", "inputs_p2a", "outputs_p2a"},
		Query: `SELECT b.pool_id, SUM(i.inputs_p2a), SUM(o.outputs_p2a)
			FROM block_stats b
			JOIN input_stats i ON b.height = i.height
			JOIN output_stats o ON b.height = o.height
			GROUP BY b.pool_id ORDER BY b.pool_id`,
	},
	{
		Name:    "pools_mining_bip54_coinbase",
		Headers: []string{"pool_id", "bip54_coinbase_blocks"},
		Query: `SELECT pool_id, SUM(CASE WHEN coinbase_locktime_set_bip54 THEN 1 ELSE 0 END)
			FROM block_stats GROUP BY pool_id ORDER BY pool_id`,
	},
}

// All runs every report in order and writes one CSV file per report into
// dir, named "<report>.csv".
func All(ctx context.Context, db *sql.DB, dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.NewIOError("creating csv output directory", err)
	}
	for _, r := range reports {
		if err := r.writeCSV(ctx, db, dir); err != nil {
			return err
		}
	}
	return nil
}

func (r Report) writeCSV(ctx context.Context, db *sql.DB, dir string) error {
	rows, err := db.QueryContext(ctx, r.Query)
	if err != nil {
		return errors.NewStoreError("running export query "+r.Name, err)
	}
	defer rows.Close()

	path := filepath.Join(dir, r.Name+".csv")
	f, err := os.Create(path)
	if err != nil {
		return errors.NewIOError("creating "+path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(r.Headers); err != nil {
		return errors.NewIOError("writing header for "+r.Name, err)
	}

	cols := len(r.Headers)
	scanDest := make([]interface{}, cols)
	scanBuf := make([]sql.NullString, cols)
	for i := range scanBuf {
		scanDest[i] = &scanBuf[i]
	}

	for rows.Next() {
		if err := rows.Scan(scanDest...); err != nil {
			return errors.NewStoreError("scanning row for "+r.Name, err)
		}
		record := make([]string, cols)
		for i, v := range scanBuf {
			if v.Valid {
				record[i] = v.String
			}
		}
		if err := w.Write(record); err != nil {
			return errors.NewIOError(fmt.Sprintf("writing row for %s", r.Name), err)
		}
	}
	if err := rows.Err(); err != nil {
		return errors.NewStoreError("iterating rows for "+r.Name, err)
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return errors.NewIOError("flushing csv for "+r.Name, err)
	}
	return nil
}
