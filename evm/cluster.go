package evm

import (
	"sort"

	"mevwatcher/types"
)

// ClusterKey identifies a group of consecutive blocks, or the pending pool.
type ClusterKey struct {
	Pending    bool
	FirstBlock uint64 // first block number covered by the cluster
}

// Cluster is the bounded set of transactions handed to one detection call.
type Cluster struct {
	Key ClusterKey
	Txs types.Transactions
}

// BuildClusters groups txs into clusters spanning window consecutive blocks.
// Pending transactions (block 0) are kept in a cluster of their own, placed first.
// Order of transactions inside a cluster is the input order.
func BuildClusters(txs types.Transactions, window uint64) []Cluster {
	if window == 0 {
		window = 1
	}

	buckets := make(map[ClusterKey]types.Transactions)
	for _, tx := range txs {
		if tx == nil {
			continue
		}
		var key ClusterKey
		if tx.BlockNumber == 0 {
			key = ClusterKey{Pending: true}
		} else {
			key = ClusterKey{FirstBlock: tx.BlockNumber - tx.BlockNumber%window}
		}
		buckets[key] = append(buckets[key], tx)
	}

	clusters := make([]Cluster, 0, len(buckets))
	for k, b := range buckets {
		clusters = append(clusters, Cluster{Key: k, Txs: b})
	}
	sort.Slice(clusters, func(i, j int) bool {
		if clusters[i].Key.Pending != clusters[j].Key.Pending {
			return clusters[i].Key.Pending
		}
		return clusters[i].Key.FirstBlock < clusters[j].Key.FirstBlock
	})
	return clusters
}

// SplitByVictim yields one sub-cluster per swap transaction so that every swap gets its own verdict.
// In each sub-cluster the other swaps stay in place as candidates but lose their swap flag,
// so the locator picks exactly the intended victim. Input order is kept.
func SplitByVictim(txs types.Transactions) []types.Transactions {
	res := make([]types.Transactions, 0)
	for i, victim := range txs {
		if victim == nil || !victim.IsSwap {
			continue
		}
		sub := make(types.Transactions, 0, len(txs))
		for j, tx := range txs {
			if tx == nil {
				continue
			}
			if tx.IsSwap && j != i {
				demoted := tx.Clone()
				demoted.IsSwap = false
				sub = append(sub, demoted)
				continue
			}
			sub = append(sub, tx)
		}
		res = append(res, sub)
	}
	return res
}
