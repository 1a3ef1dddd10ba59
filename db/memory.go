package db

import (
	"sort"
	"sync"

	"mevwatcher/types"
)

// MemoryDB keeps transactions in process. Used for dry runs and tests.
// Rows are keyed like the ClickHouse table: re-inserting a hash in the same block replaces it.
type MemoryDB struct {
	mu  sync.RWMutex
	txs map[rowKey]*types.Transaction
}

type rowKey struct {
	block uint64
	hash  string
}

var _ Database = (*MemoryDB)(nil)

func NewMemoryDB() *MemoryDB {
	return &MemoryDB{txs: make(map[rowKey]*types.Transaction)}
}

func (d *MemoryDB) Close() error {
	return nil
}

func (d *MemoryDB) CreateTables() error {
	return nil
}

func (d *MemoryDB) DropTables() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.txs = make(map[rowKey]*types.Transaction)
	return nil
}

func (d *MemoryDB) InsertTransactions(txs types.Transactions) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, tx := range txs {
		if tx == nil {
			continue
		}
		d.txs[rowKey{block: tx.BlockNumber, hash: tx.Hash}] = tx.Clone()
	}
	return nil
}

func (d *MemoryDB) QueryTransactionsByBlockRange(start, end uint64) (types.Transactions, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	res := make(types.Transactions, 0)
	for _, tx := range d.txs {
		if tx.BlockNumber >= start && tx.BlockNumber <= end {
			res = append(res, tx.Clone())
		}
	}
	sort.Slice(res, func(i, j int) bool {
		if res[i].BlockNumber != res[j].BlockNumber {
			return res[i].BlockNumber < res[j].BlockNumber
		}
		if res[i].Position != res[j].Position {
			return res[i].Position < res[j].Position
		}
		return res[i].Hash < res[j].Hash
	})
	return res, nil
}

func (d *MemoryDB) QueryLastBlock() (uint64, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	var last uint64
	for _, tx := range d.txs {
		last = max(last, tx.BlockNumber)
	}
	return last, nil
}
