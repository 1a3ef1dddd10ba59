package evm

import (
	"mevwatcher/types"
)

// FindMatchingTx finds the transaction closest in time to victim, on the given side of it,
// that hits the same destination contract. The victim itself never matches.
//
// Candidates on the wrong side of the victim are skipped before the distance is computed,
// so out-of-order timestamps cannot underflow into a bogus distance.
//
// Ties on distance are common: a whole block shares one timestamp. They are broken by input order
// relative to the victim. Before prefers candidates listed ahead of the victim, After those listed
// behind it, so F, V, B mined at one timestamp resolve to F and B. Remaining ties go to the
// earliest candidate in input order.
func FindMatchingTx(txs types.Transactions, victim *types.Transaction, dir types.Direction) (*types.Transaction, bool) {
	if victim == nil {
		return nil, false
	}
	victimAt := indexOf(txs, victim)

	var (
		best     *types.Transaction
		bestDist uint64
		bestSide int
	)
	for i, tx := range txs {
		if tx == nil || tx.To != victim.To || tx.Hash == victim.Hash {
			continue
		}
		dist, ok := distance(tx, victim, dir)
		if !ok {
			continue
		}
		side := sideRank(i, victimAt, dir)
		if best == nil || dist < bestDist || (dist == bestDist && side < bestSide) {
			best = tx
			bestDist = dist
			bestSide = side
		}
	}
	if best == nil {
		return nil, false
	}
	return best.Clone(), true
}

// distance returns how far candidate is from ref in direction dir, and false if candidate is on the other side.
func distance(candidate, ref *types.Transaction, dir types.Direction) (uint64, bool) {
	switch dir {
	case types.Before:
		if candidate.Timestamp > ref.Timestamp {
			return 0, false
		}
		return ref.Timestamp - candidate.Timestamp, true
	case types.After:
		if candidate.Timestamp < ref.Timestamp {
			return 0, false
		}
		return candidate.Timestamp - ref.Timestamp, true
	default:
		return 0, false
	}
}

// sideRank is 0 when position i lies on the dir side of the victim in input order, 1 otherwise.
// A victim not present in txs puts every candidate on rank 0.
func sideRank(i, victimAt int, dir types.Direction) int {
	if victimAt < 0 {
		return 0
	}
	if (dir == types.Before && i < victimAt) || (dir == types.After && i > victimAt) {
		return 0
	}
	return 1
}

func indexOf(txs types.Transactions, victim *types.Transaction) int {
	for i, tx := range txs {
		if tx.SameAs(victim) {
			return i
		}
	}
	return -1
}
