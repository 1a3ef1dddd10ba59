package evm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mevwatcher/types"
)

func TestFindVictim(t *testing.T) {
	a := newTx("0x1", pool, "0xa", 1)
	s1 := newSwap("0x2", pool, "0xb", 2, 0.1)
	s2 := newSwap("0x3", pool, "0xc", 3, 0.2)

	v, ok := FindVictim(types.Transactions{a, nil, s1, s2})
	require.True(t, ok)
	assert.Equal(t, "0x2", v.Hash)
	// A copy, not the caller's record
	assert.NotSame(t, s1, v)

	_, ok = FindVictim(types.Transactions{a, newTx("0x4", pool, "0xa", 4)})
	assert.False(t, ok)

	_, ok = FindVictim(nil)
	assert.False(t, ok)
}

func TestFindMatchingTx_Nearest(t *testing.T) {
	victim := newSwap("0xV", pool, "0xv", 1000, 0.1)
	txs := types.Transactions{
		newTx("0xfar-before", pool, "0xa", 900),
		newTx("0xnear-before", pool, "0xa", 990),
		victim,
		newTx("0xother-pool", "0xQ", "0xa", 999),
		newTx("0xnear-after", pool, "0xa", 1005),
		newTx("0xfar-after", pool, "0xa", 1100),
	}

	front, ok := FindMatchingTx(txs, victim, types.Before)
	require.True(t, ok)
	assert.Equal(t, "0xnear-before", front.Hash)

	back, ok := FindMatchingTx(txs, victim, types.After)
	require.True(t, ok)
	assert.Equal(t, "0xnear-after", back.Hash)
}

func TestFindMatchingTx_DirectionConsistent(t *testing.T) {
	victim := newSwap("0xV", pool, "0xv", 1000, 0.1)
	// Input is out of time order on purpose
	txs := types.Transactions{
		newTx("0x1", pool, "0xa", 1500),
		victim,
		newTx("0x2", pool, "0xa", 10),
		newTx("0x3", pool, "0xa", 1001),
		newTx("0x4", pool, "0xa", 999),
		newTx("0x5", pool, "0xa", 0),
	}

	front, ok := FindMatchingTx(txs, victim, types.Before)
	require.True(t, ok)
	assert.LessOrEqual(t, front.Timestamp, victim.Timestamp)
	assert.Equal(t, "0x4", front.Hash)

	back, ok := FindMatchingTx(txs, victim, types.After)
	require.True(t, ok)
	assert.GreaterOrEqual(t, back.Timestamp, victim.Timestamp)
	assert.Equal(t, "0x3", back.Hash)
}

// A later timestamp must never wrap around into a tiny distance for Before, and vice versa.
func TestFindMatchingTx_WrongSideFiltered(t *testing.T) {
	victim := newSwap("0xV", pool, "0xv", 1000, 0.1)

	onlyAfter := types.Transactions{victim, newTx("0xlate", pool, "0xa", 1001)}
	_, ok := FindMatchingTx(onlyAfter, victim, types.Before)
	assert.False(t, ok)

	onlyBefore := types.Transactions{newTx("0xearly", pool, "0xa", 999), victim}
	_, ok = FindMatchingTx(onlyBefore, victim, types.After)
	assert.False(t, ok)

	// Extremes of the unsigned range
	edge := newSwap("0xE", pool, "0xv", 0, 0.1)
	_, ok = FindMatchingTx(types.Transactions{edge, newTx("0xmax", pool, "0xa", ^uint64(0))}, edge, types.Before)
	assert.False(t, ok)
	back, ok := FindMatchingTx(types.Transactions{edge, newTx("0xmax", pool, "0xa", ^uint64(0))}, edge, types.After)
	require.True(t, ok)
	assert.Equal(t, "0xmax", back.Hash)
}

func TestFindMatchingTx_TieBreakFirstInInputOrder(t *testing.T) {
	victim := newSwap("0xV", pool, "0xv", 1000, 0.1)
	txs := types.Transactions{
		newTx("0xfirst-before", pool, "0xa", 990),
		newTx("0xsecond-before", pool, "0xb", 990),
		victim,
		newTx("0xfirst-after", pool, "0xa", 1010),
		newTx("0xsecond-after", pool, "0xb", 1010),
	}

	for n := 0; n < 10; n++ {
		front, ok := FindMatchingTx(txs, victim, types.Before)
		require.True(t, ok)
		assert.Equal(t, "0xfirst-before", front.Hash)

		back, ok := FindMatchingTx(txs, victim, types.After)
		require.True(t, ok)
		assert.Equal(t, "0xfirst-after", back.Hash)
	}
}

func TestFindMatchingTx_ExcludesVictimAndOtherPools(t *testing.T) {
	victim := newSwap("0xV", pool, "0xv", 1000, 0.1)
	// Same hash as the victim, even as a distinct record
	dup := newTx("0xV", pool, "0xa", 999)
	txs := types.Transactions{dup, victim, newTx("0xQ", "0xother", "0xa", 1001)}

	_, ok := FindMatchingTx(txs, victim, types.Before)
	assert.False(t, ok)
	_, ok = FindMatchingTx(txs, victim, types.After)
	assert.False(t, ok)

	_, ok = FindMatchingTx(txs, nil, types.After)
	assert.False(t, ok)
}

func TestFindMatchingTx_ReturnsCopy(t *testing.T) {
	front, victim, back := sandwichCluster()
	got, ok := FindMatchingTx(types.Transactions{front, victim, back}, victim, types.Before)
	require.True(t, ok)
	got.Sender = "0xchanged"
	assert.Equal(t, "0xA", front.Sender)
}

func TestFindMatchingTx_EqualTimestampsFollowInputOrder(t *testing.T) {
	victim := newSwap("0xV", pool, "0xv", 1000, 0.1)
	txs := types.Transactions{
		newTx("0xF", pool, "0xa", 1000),
		victim,
		newTx("0xB", pool, "0xa", 1000),
	}

	front, ok := FindMatchingTx(txs, victim, types.Before)
	require.True(t, ok)
	assert.Equal(t, "0xF", front.Hash)

	back, ok := FindMatchingTx(txs, victim, types.After)
	require.True(t, ok)
	assert.Equal(t, "0xB", back.Hash)

	// Distance still decides before input order does
	txs[2].Timestamp = 1005
	back, ok = FindMatchingTx(txs, victim, types.After)
	require.True(t, ok)
	assert.Equal(t, "0xF", back.Hash)
}

func TestFindMatchingTx_VictimNotInList(t *testing.T) {
	victim := newSwap("0xV", pool, "0xv", 1000, 0.1)
	txs := types.Transactions{
		newTx("0x1", pool, "0xa", 1000),
		newTx("0x2", pool, "0xa", 1000),
	}

	front, ok := FindMatchingTx(txs, victim, types.Before)
	require.True(t, ok)
	assert.Equal(t, "0x1", front.Hash)
	back, ok := FindMatchingTx(txs, victim, types.After)
	require.True(t, ok)
	assert.Equal(t, "0x1", back.Hash)
}
