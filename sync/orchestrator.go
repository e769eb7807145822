// Package sync drives the three-stage fetch/analyze/write pipeline described
// in spec §4.4-§5: a bounded-concurrency fetcher pool, a CPU-bound analysis
// fan-out, and a single writer batching upserts into the store.
package sync

import (
	"context"

	"github.com/btcsuite/btcd/btcutil"
	"golang.org/x/sync/errgroup"

	"github.com/blockstats/blockstatsd/analysis"
	"github.com/blockstats/blockstatsd/errors"
	"github.com/blockstats/blockstatsd/model"
	"github.com/blockstats/blockstatsd/node"
	sqlstore "github.com/blockstats/blockstatsd/stores/sql"
	"github.com/blockstats/blockstatsd/ulogger"
)

// ReorgSafetyMargin is subtracted from the node's reported tip so the plan
// never touches heights that could still be reorganized away.
const ReorgSafetyMargin = 6

const (
	fetchQueueDepth    = 10
	transformQueueDepth = 100
)

// Orchestrator wires a node client, analysis engine, and store together and
// runs one batch sync pass per Run call.
type Orchestrator struct {
	logger     ulogger.Logger
	client     *node.Client
	engine     *analysis.Engine
	store      *sqlstore.Store
	numThreads int
}

func New(logger ulogger.Logger, client *node.Client, engine *analysis.Engine, store *sqlstore.Store, numThreads int) *Orchestrator {
	return &Orchestrator{logger: logger, client: client, engine: engine, store: store, numThreads: numThreads}
}

// Run executes one full sync pass: it computes the plan of heights to
// process, then fetches, analyzes, and persists each, per spec §4.4.
func (o *Orchestrator) Run(ctx context.Context, startHeight int64) error {
	info, err := o.client.ChainInfo(ctx)
	if err != nil {
		return err
	}
	if info.InitialBlockDownload {
		return errors.NewIBDNotDoneError(info.VerificationProgress)
	}

	fetchHeight := info.Blocks - ReorgSafetyMargin
	if fetchHeight < 0 {
		fetchHeight = 0
	}

	upToDate, err := o.store.HeightsUpToDate(ctx, model.STATSVersion)
	if err != nil {
		return err
	}

	var plan []int64
	for h := startHeight; h < fetchHeight; h++ {
		if !upToDate[h] {
			plan = append(plan, h)
		}
	}
	o.logger.Infof("plan has %d heights to process (tip=%d, fetch_height=%d)", len(plan), info.Blocks, fetchHeight)

	if len(plan) == 0 {
		return nil
	}

	return o.runPipeline(ctx, plan)
}

type fetchedBlock struct {
	height int64
	block  *model.Block
}

type analyzedBundle struct {
	height int64
	bundle *model.Bundle
}

func (o *Orchestrator) runPipeline(ctx context.Context, plan []int64) error {
	fetched := make(chan fetchedBlock, fetchQueueDepth)
	analyzed := make(chan analyzedBundle, transformQueueDepth)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		defer close(fetched)
		return o.runFetchStage(gctx, plan, fetched)
	})

	g.Go(func() error {
		defer close(analyzed)
		return o.runTransformStage(gctx, fetched, analyzed)
	})

	g.Go(func() error {
		return o.runWriterStage(gctx, analyzed)
	})

	return g.Wait()
}

// runFetchStage pulls heights off plan with a bounded worker pool and sends
// decoded blocks downstream, backpressured by the fetched channel's depth.
func (o *Orchestrator) runFetchStage(ctx context.Context, plan []int64, out chan<- fetchedBlock) error {
	heights := make(chan int64)
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		defer close(heights)
		for _, h := range plan {
			select {
			case heights <- h:
			case <-gctx.Done():
				return gctx.Err()
			}
		}
		return nil
	})

	workers := o.numThreads
	if workers < 1 {
		workers = 1
	}
	for i := 0; i < workers; i++ {
		g.Go(func() error {
			for h := range heights {
				block, err := o.client.BlockAtHeight(gctx, h)
				if err != nil {
					return err
				}
				select {
				case out <- fetchedBlock{height: h, block: block}:
				case <-gctx.Done():
					return gctx.Err()
				}
			}
			return nil
		})
	}

	return g.Wait()
}

// runTransformStage fans each fetched block out to the same CPU pool for
// analysis; the engine is pure, so no locking is needed across calls.
func (o *Orchestrator) runTransformStage(ctx context.Context, in <-chan fetchedBlock, out chan<- analyzedBundle) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(o.numThreads)

	for fb := range in {
		fb := fb
		g.Go(func() error {
			bundle, err := o.engine.Analyze(fb.block)
			if err != nil {
				return err
			}
			select {
			case out <- analyzedBundle{height: fb.height, bundle: bundle}:
			case <-gctx.Done():
				return gctx.Err()
			}
			return nil
		})
	}

	return g.Wait()
}

// runWriterStage is the single dedicated writer: it accumulates bundles into
// DATABASE_BATCH_SIZE-sized batches and flushes each in one transaction,
// flushing the final partial batch on channel close.
func (o *Orchestrator) runWriterStage(ctx context.Context, in <-chan analyzedBundle) error {
	batch := make([]*model.Bundle, 0, sqlstore.DatabaseBatchSize)
	written := 0
	var coinbaseTotal btcutil.Amount

	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		if err := o.store.InsertBatch(ctx, batch); err != nil {
			return err
		}
		written += len(batch)
		o.logger.Infof("wrote batch of %d (total written %d, coinbase value %s)", len(batch), written, coinbaseTotal)
		batch = batch[:0]
		coinbaseTotal = 0
		return nil
	}

	for ab := range in {
		batch = append(batch, ab.bundle)
		coinbaseTotal += btcutil.Amount(ab.bundle.Block.CoinbaseOutputAmount)
		if len(batch) >= sqlstore.DatabaseBatchSize {
			if err := flush(); err != nil {
				return err
			}
		}
	}
	return flush()
}
