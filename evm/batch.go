package evm

import (
	"context"

	"golang.org/x/sync/errgroup"

	"mevwatcher/types"
)

// ClusterResult holds the verdicts for one cluster: a single one, or one per swap when split by victim.
type ClusterResult struct {
	Key      ClusterKey
	TxCount  int
	Verdicts []types.Verdict
}

// Sandwiches returns the positive verdicts only.
func (r ClusterResult) Sandwiches() []types.Verdict {
	res := make([]types.Verdict, 0)
	for _, v := range r.Verdicts {
		if v.Sandwich {
			res = append(res, v)
		}
	}
	return res
}

// ProcessClusters evaluates clusters on at most parallel goroutines. Results keep the order of clusters.
// Each evaluation is independent; the only shared state is the result slot owned by each goroutine.
func (f SandwichFinder) ProcessClusters(ctx context.Context, clusters []Cluster, parallel int, perSwap bool) ([]ClusterResult, error) {
	if parallel <= 0 {
		parallel = 1
	}
	results := make([]ClusterResult, len(clusters))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(parallel)
	for i, c := range clusters {
		if gctx.Err() != nil {
			break
		}
		i, c := i, c
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = f.processCluster(c, perSwap)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	// Scheduling may have stopped early without any goroutine failing
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return results, nil
}

func (f SandwichFinder) processCluster(c Cluster, perSwap bool) ClusterResult {
	res := ClusterResult{Key: c.Key, TxCount: len(c.Txs)}
	if !perSwap {
		res.Verdicts = []types.Verdict{f.Inspect(c.Txs)}
		return res
	}
	subs := SplitByVictim(c.Txs)
	if len(subs) == 0 {
		// No swap at all; still record why nothing was found
		res.Verdicts = []types.Verdict{f.Inspect(c.Txs)}
		return res
	}
	res.Verdicts = make([]types.Verdict, 0, len(subs))
	for _, sub := range subs {
		res.Verdicts = append(res.Verdicts, f.Inspect(sub))
	}
	return res
}
