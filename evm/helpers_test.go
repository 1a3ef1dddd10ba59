package evm

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"mevwatcher/types"
)

const pool = "0xP"

func newTx(hash, to, sender string, ts uint64) *types.Transaction {
	return &types.Transaction{
		Hash:        hash,
		From:        sender,
		To:          to,
		Value:       "0",
		GasPrice:    "1",
		GasLimit:    "21000",
		Input:       "0x",
		Timestamp:   ts,
		BlockNumber: 1,
		Sender:      sender,
	}
}

func newSwap(hash, to, sender string, ts uint64, slippage float64) *types.Transaction {
	tx := newTx(hash, to, sender, ts)
	tx.IsSwap = true
	tx.SlippageTolerance = &slippage
	return tx
}

// sandwichCluster is the reference positive scenario: F(995) V(1000) B(1010) on the same pool.
func sandwichCluster() (front, victim, back *types.Transaction) {
	front = newTx("0xF", pool, "0xA", 995)
	victim = newSwap("0xV", pool, "0xvictim", 1000, 0.10)
	back = newTx("0xB", pool, "0xA", 1010)
	return
}

func marshalDoc(t *testing.T, txs types.Transactions) []byte {
	t.Helper()
	doc, err := json.Marshal(txs)
	require.NoError(t, err)
	return doc
}
