package db

import (
	"mevwatcher/types"
)

// Database is the source of observed transactions for the scanner.
// Detection results are never written back.
type Database interface {
	Close() error
	CreateTables() error
	DropTables() error

	// InsertTransactions replaces stored rows with the same (blockNumber, hash).
	InsertTransactions(txs types.Transactions) error

	// QueryTransactionsByBlockRange returns txs with start <= blockNumber <= end, ordered by (blockNumber, position, hash).
	QueryTransactionsByBlockRange(start, end uint64) (types.Transactions, error)
	// QueryLastBlock returns the highest stored block number, 0 if none.
	QueryLastBlock() (uint64, error)
}
