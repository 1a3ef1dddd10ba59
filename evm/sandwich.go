package evm

import (
	"mevwatcher/config"
	"mevwatcher/types"
	"mevwatcher/utils"
)

// SandwichFinder decides whether a cluster of transactions is a sandwich: front-run, victim swap, back-run.
// It holds no state between calls and is safe for concurrent use.
type SandwichFinder struct {
	MinClusterSize int     // fewer transactions than this can never form a sandwich
	MaxTimeGap     uint64  // front-run and back-run must be strictly less than this many seconds apart
	MinSlippage    float64 // victim slippage tolerance must be strictly above this fraction
}

func NewSandwichFinder() SandwichFinder {
	return SandwichFinder{
		MinClusterSize: config.MIN_CLUSTER_SIZE,
		MaxTimeGap:     config.SANDWICH_MAX_TIME_GAP,
		MinSlippage:    config.VICTIM_MIN_SLIPPAGE,
	}
}

var defaultFinder = NewSandwichFinder()

// Detect reports whether txs contain a sandwich attack, using the default thresholds.
func Detect(txs types.Transactions) bool {
	return defaultFinder.Detect(txs)
}

// Inspect is Detect with an explanation of how the decision was reached.
func Inspect(txs types.Transactions) types.Verdict {
	return defaultFinder.Inspect(txs)
}

func (f SandwichFinder) Detect(txs types.Transactions) bool {
	return f.Inspect(txs).Sandwich
}

func (f SandwichFinder) Inspect(txs types.Transactions) types.Verdict {
	v := types.Verdict{Stage: types.StageInsufficientData}
	if len(txs) < f.MinClusterSize {
		return v
	}

	victim, ok := FindVictim(txs)
	if !ok {
		v.Stage = types.StageNoVictim
		return v
	}
	v.Victim = victim

	frontTx, hasFront := FindMatchingTx(txs, victim, types.Before)
	backTx, hasBack := FindMatchingTx(txs, victim, types.After)
	if !hasFront || !hasBack {
		v.Stage = types.StageUnmatched
		return v
	}
	v.FrontRun = frontTx
	v.BackRun = backTx
	v.Stage = types.StageEvaluated

	v.SameSender = f.IsSameAttacker(frontTx, backTx)
	v.WithinWindow = f.IsWithinWindow(frontTx, backTx)
	v.HighSlippage = f.IsExploitable(victim)
	v.Sandwich = v.SameSender && v.WithinWindow && v.HighSlippage
	return v
}

// IsSameAttacker compares senders byte for byte; address case is not normalized.
func (f SandwichFinder) IsSameAttacker(frontTx, backTx *types.Transaction) bool {
	return frontTx.Sender == backTx.Sender
}

// IsWithinWindow does not depend on which of the two was observed first.
func (f SandwichFinder) IsWithinWindow(frontTx, backTx *types.Transaction) bool {
	return utils.AbsDiff(backTx.Timestamp, frontTx.Timestamp) < f.MaxTimeGap
}

func (f SandwichFinder) IsExploitable(victim *types.Transaction) bool {
	return victim.SlippageTolerance != nil && *victim.SlippageTolerance > f.MinSlippage
}
