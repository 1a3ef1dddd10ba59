package evm

import (
	"mevwatcher/types"
)

// FindVictim returns a copy of the first swap transaction in input order.
// Input order is assumed to already reflect sequencing, so the first swap is the stable choice
// when a cluster holds several; callers wanting per-swap analysis partition the cluster first.
func FindVictim(txs types.Transactions) (*types.Transaction, bool) {
	for _, tx := range txs {
		if tx != nil && tx.IsSwap {
			return tx.Clone(), true
		}
	}
	return nil, false
}
