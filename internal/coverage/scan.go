package coverage

import (
	"context"
	"fmt"
	"math"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/banshee-data/coverage.report/internal/monitoring"
	"github.com/banshee-data/coverage.report/internal/sensor"
	"github.com/banshee-data/coverage.report/internal/timeutil"
)

// DefaultShardRows is the number of consecutive rows handed to a worker at a
// time when ScanOptions.ShardRows is unset.
const DefaultShardRows = 10000

// ctxCheckInterval is how many rows a worker scans between context checks.
const ctxCheckInterval = 1024

// ScanOptions configures a Scanner. Zero values select defaults.
type ScanOptions struct {
	Workers   int // defaults to runtime.NumCPU()
	ShardRows int // defaults to DefaultShardRows
	Clock     timeutil.Clock
}

// ScanResult describes a completed gap scan.
type ScanResult struct {
	RunID     string          `json:"run_id"`
	Position  sensor.Position `json:"position"`
	Frequency int64           `json:"frequency"`
	Shards    int             `json:"shards"`
	Workers   int             `json:"workers"`
	Elapsed   time.Duration   `json:"elapsed_ns"`
}

// Scanner runs FindGap across a fixed-size worker pool. Rows are split into
// contiguous shards and every worker scans its shard with its own buffer.
// The result is always the lowest qualifying row, the same answer as the
// sequential FindGap.
type Scanner struct {
	sensors   *sensor.Set
	workers   int
	shardRows int
	clock     timeutil.Clock
}

// NewScanner creates a Scanner over an immutable sensor set.
func NewScanner(sensors *sensor.Set, opts ScanOptions) *Scanner {
	s := &Scanner{
		sensors:   sensors,
		workers:   opts.Workers,
		shardRows: opts.ShardRows,
		clock:     opts.Clock,
	}
	if s.workers <= 0 {
		s.workers = runtime.NumCPU()
	}
	if s.shardRows <= 0 {
		s.shardRows = DefaultShardRows
	}
	if s.clock == nil {
		s.clock = timeutil.RealClock{}
	}
	return s
}

// FindGap is the parallel equivalent of the package-level FindGap.
func (s *Scanner) FindGap(ctx context.Context, rows, cols Bounds) (sensor.Position, error) {
	res, err := s.Scan(ctx, rows, cols)
	if err != nil {
		return sensor.Position{}, err
	}
	return res.Position, nil
}

// Scan searches rows for the uncovered position and reports run metadata.
// It returns a *NotFoundError when no row qualifies, or the context's error
// if ctx is cancelled first.
func (s *Scanner) Scan(ctx context.Context, rows, cols Bounds) (*ScanResult, error) {
	if err := rows.Validate(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	if err := cols.Validate(); err != nil {
		return nil, fmt.Errorf("columns: %w", err)
	}

	runID := uuid.NewString()
	start := s.clock.Now()
	shards := shardCount(rows, s.shardRows)
	monitoring.Logf("gap scan %s: rows %s columns %s sensors=%d shards=%d workers=%d",
		runID, rows, cols, s.sensors.Len(), shards, s.workers)

	// best holds the lowest row with a gap found so far. Workers stop once
	// they pass it; shards below it keep going so the minimum wins.
	var best atomic.Int64
	best.Store(math.MaxInt64)

	var (
		mu    sync.Mutex
		found sensor.Position
		ok    bool
	)
	record := func(p sensor.Position) {
		mu.Lock()
		defer mu.Unlock()
		if !ok || p.Y < found.Y {
			found, ok = p, true
		}
		if int64(p.Y) < best.Load() {
			best.Store(int64(p.Y))
		}
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)
	// Shards are cut as they are dispatched. g.Go blocks while every worker
	// is busy, so the loop never runs ahead of the pool.
	for lo := rows.Min; ; {
		shard := nextShard(lo, rows, s.shardRows)
		if gctx.Err() != nil || int64(shard.Min) > best.Load() {
			break
		}
		g.Go(func() error {
			return s.scanShard(gctx, shard, cols, &best, record)
		})
		if shard.Max == rows.Max {
			break
		}
		lo = shard.Max + 1
	}
	if err := g.Wait(); err != nil {
		monitoring.Logf("gap scan %s: aborted: %v", runID, err)
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	elapsed := s.clock.Since(start)
	if !ok {
		monitoring.Logf("gap scan %s: no gap after %v", runID, elapsed)
		return nil, &NotFoundError{Rows: rows, Cols: cols}
	}
	monitoring.Logf("gap scan %s: found %s in %v", runID, found, elapsed)
	return &ScanResult{
		RunID:     runID,
		Position:  found,
		Frequency: TuningFrequency(found),
		Shards:    shards,
		Workers:   s.workers,
		Elapsed:   elapsed,
	}, nil
}

func (s *Scanner) scanShard(ctx context.Context, shard Bounds, cols Bounds, best *atomic.Int64, record func(sensor.Position)) error {
	buf := make([]Range, 0, s.sensors.Len())
	for y, n := shard.Min, 0; ; y, n = y+1, n+1 {
		if int64(y) > best.Load() {
			monitoring.Debugf("shard %s: stopped at row %d", shard, y)
			return nil
		}
		if n%ctxCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return err
			}
		}
		buf = AppendRow(buf, s.sensors, y)
		if x, ok := gapInRow(buf, cols); ok {
			record(sensor.Position{X: x, Y: y})
			return nil
		}
		if y == shard.Max {
			return nil
		}
	}
}

// nextShard returns the shard of at most size rows starting at lo, clipped
// to rows.Max.
func nextShard(lo int, rows Bounds, size int) Bounds {
	hi := lo + size - 1
	if hi > rows.Max || hi < lo {
		hi = rows.Max
	}
	return Bounds{Min: lo, Max: hi}
}

// shardCount returns how many shards of size rows cover rows, saturating at
// math.MaxInt for spans wider than int can count.
func shardCount(rows Bounds, size int) int {
	// Max-Min in uint64 cannot overflow, even for the full int range.
	span := uint64(rows.Max) - uint64(rows.Min)
	q := span / uint64(size)
	if q >= math.MaxInt {
		return math.MaxInt
	}
	return int(q) + 1
}
