package evm

import (
	"context"
	"fmt"
	"time"

	MapSet "github.com/deckarep/golang-set/v2"

	"mevwatcher/config"
	"mevwatcher/db"
	"mevwatcher/logger"
)

// Scanner reads stored transactions block range by block range and looks for sandwiches in each cluster.
// Verdicts are logged only.
type Scanner struct {
	DB          db.Database
	Finder      SandwichFinder
	Window      uint64 // blocks per cluster
	BatchBlocks uint64 // blocks read from DB at once
	Parallel    int
	PerSwap     bool // evaluate every swap in a cluster instead of only the first
}

func NewScanner(database db.Database) *Scanner {
	return &Scanner{
		DB:          database,
		Finder:      NewSandwichFinder(),
		Window:      config.SCAN_CLUSTER_BLOCK_WINDOW,
		BatchBlocks: config.SCAN_BATCH_BLOCKS,
		Parallel:    config.SCAN_PARALLEL_NUM,
	}
}

type ScanSummary struct {
	Blocks     uint64
	Txs        int
	Clusters   int
	Sandwiches int
	Attackers  MapSet.Set[string]
}

// Scan processes blocks [start, end]. The batch size is rounded up to a multiple of Window
// so that a cluster never straddles two DB reads.
func (s *Scanner) Scan(ctx context.Context, start, end uint64) (*ScanSummary, error) {
	if end < start {
		return nil, fmt.Errorf("end block (%d) is before start block (%d)", end, start)
	}
	window := max(s.Window, 1)
	batch := max(s.BatchBlocks, 1)
	if rem := batch % window; rem != 0 {
		batch += window - rem
	}

	summary := &ScanSummary{Attackers: MapSet.NewSet[string]()}
	// Align the first batch on a window boundary
	from := start - start%window
	for from <= end {
		if err := ctx.Err(); err != nil {
			return summary, err
		}
		to := min(from+batch-1, end)
		if to < from { // overflow near MaxUint64
			to = end
		}
		if err := s.scanBatch(ctx, max(from, start), to, summary); err != nil {
			return summary, err
		}
		summary.Blocks += to - max(from, start) + 1
		if to == end {
			break
		}
		from = to + 1
	}

	logger.ScanLogger.Info("Scan finished",
		"start", start,
		"end", end,
		"blocks", summary.Blocks,
		"txs", summary.Txs,
		"clusters", summary.Clusters,
		"sandwiches", summary.Sandwiches,
		"attackers", summary.Attackers.Cardinality(),
	)
	return summary, nil
}

func (s *Scanner) scanBatch(ctx context.Context, from, to uint64, summary *ScanSummary) error {
	timeDB := time.Now()
	txs, err := s.DB.QueryTransactionsByBlockRange(from, to)
	if err != nil {
		return fmt.Errorf("failed to query blocks %d-%d: %w", from, to, err)
	}
	logger.ScanLogger.Info("Fetched transactions", "from", from, "to", to, "num_txs", len(txs), "time_cost", time.Since(timeDB).String())

	clusters := BuildClusters(txs, s.Window)
	timeProcess := time.Now()
	results, err := s.Finder.ProcessClusters(ctx, clusters, s.Parallel, s.PerSwap)
	if err != nil {
		return err
	}

	found := 0
	for _, r := range results {
		for _, v := range r.Sandwiches() {
			found++
			summary.Attackers.Add(v.Attacker())
			logger.ScanLogger.Info("Sandwich detected",
				"first_block", r.Key.FirstBlock,
				"pending", r.Key.Pending,
				"attacker", v.Attacker(),
				"front_run", v.FrontRun.Hash,
				"victim", v.Victim.Hash,
				"back_run", v.BackRun.Hash,
				"victim_slippage", *v.Victim.SlippageTolerance,
			)
		}
	}
	summary.Txs += len(txs)
	summary.Clusters += len(clusters)
	summary.Sandwiches += found
	logger.ScanLogger.Info("Processed clusters", "from", from, "to", to, "num_clusters", len(clusters), "num_sandwiches", found, "process_time", time.Since(timeProcess).String())
	return nil
}

// RunScanCmd scans [start, end]; end 0 means up to the last stored block.
func RunScanCmd(ctx context.Context, s *Scanner, start, end uint64) error {
	if end == 0 {
		last, err := s.DB.QueryLastBlock()
		if err != nil {
			return fmt.Errorf("failed to query last block: %w", err)
		}
		end = last
		logger.ScanLogger.Info("Scan up to last stored block", "end", end)
	}
	if end < start {
		logger.ScanLogger.Warn("Start block is after end block, nothing to do", "start", start, "end", end)
		return nil
	}
	_, err := s.Scan(ctx, start, end)
	return err
}
