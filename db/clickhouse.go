package db

import (
	"context"
	"fmt"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2"
	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"
	"github.com/spf13/viper"

	"mevwatcher/config"
	"mevwatcher/logger"
	"mevwatcher/types"
)

type ClickhouseDB struct {
	conn driver.Conn
}

var _ Database = (*ClickhouseDB)(nil)

func NewClickhouse() (*ClickhouseDB, error) {
	opts := &clickhouse.Options{
		Addr: []string{viper.GetString("CLICKHOUSE_ADDR")},
		Auth: clickhouse.Auth{
			Database: viper.GetString("CLICKHOUSE_DATABASE"),
			Username: viper.GetString("CLICKHOUSE_USERNAME"),
			Password: viper.GetString("CLICKHOUSE_PASSWORD"),
		},
		DialTimeout:  config.DefaultDialTimeout,
		Compression:  &clickhouse.Compression{Method: clickhouse.CompressionLZ4},
		MaxOpenConns: config.DefaultMaxOpenConn,
	}

	conn, err := clickhouse.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to ClickHouse: %w", err)
	}
	return &ClickhouseDB{conn: conn}, nil
}

func (d *ClickhouseDB) Close() error {
	return d.conn.Close()
}

func (d *ClickhouseDB) table() string {
	return config.DatabaseName + "." + config.TransactionsTable
}

func (d *ClickhouseDB) EnsureDatabaseExists() error {
	query := fmt.Sprintf(`CREATE DATABASE IF NOT EXISTS %s`, config.DatabaseName)
	if err := d.conn.Exec(context.Background(), query); err != nil {
		return fmt.Errorf("failed to ensure database exists: %w", err)
	}
	logger.GlobalLogger.Info("Database ensured to exist", "database", config.DatabaseName)
	return nil
}

func (d *ClickhouseDB) CreateTables() error {
	if err := d.EnsureDatabaseExists(); err != nil {
		return err
	}

	queries := []string{
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s
		(
			hash String,
			fromAddr String,
			toAddr String,
			value String,
			gasPrice String,
			gasLimit String,
			input String,
			timestamp UInt64,
			blockNumber UInt64,
			position Int32,
			sender String,
			slippageTolerance Nullable(Float64),
			isSwap Bool,
			tokenIn Nullable(String),
			tokenOut Nullable(String),
			amountIn Nullable(String),
			amountOutMin Nullable(String)
		)
		ENGINE = ReplacingMergeTree
		ORDER BY (blockNumber, hash)
		SETTINGS index_granularity = 8192`, d.table()),
	}

	for _, q := range queries {
		if err := d.conn.Exec(context.Background(), q); err != nil {
			return err
		}
		logger.GlobalLogger.Info("Check or create table in DB", "query", q)
	}
	return nil
}

func (d *ClickhouseDB) DropTables() error {
	rows, err := d.conn.Query(context.Background(),
		fmt.Sprintf("SHOW TABLES FROM %s", config.DatabaseName))
	if err != nil {
		return fmt.Errorf("failed to list tables: %w", err)
	}
	defer rows.Close()

	var tables []string
	for rows.Next() {
		var t string
		if err := rows.Scan(&t); err != nil {
			return fmt.Errorf("failed to scan table name: %w", err)
		}
		tables = append(tables, t)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("rows iteration error: %w", err)
	}

	for _, t := range tables {
		q := fmt.Sprintf("DROP TABLE IF EXISTS %s.%s", config.DatabaseName, t)
		if err := d.conn.Exec(context.Background(), q); err != nil {
			return fmt.Errorf("failed to drop table %s: %w", t, err)
		}
	}
	return nil
}

func (d *ClickhouseDB) InsertTransactions(txs types.Transactions) error {
	if len(txs) == 0 {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	batch, err := d.conn.PrepareBatch(ctx, "INSERT INTO "+d.table())
	if err != nil {
		return err
	}
	for _, tx := range txs {
		if tx == nil {
			continue
		}
		if err := batch.Append(
			tx.Hash,
			tx.From,
			tx.To,
			tx.Value,
			tx.GasPrice,
			tx.GasLimit,
			tx.Input,
			tx.Timestamp,
			tx.BlockNumber,
			int32(tx.Position),
			tx.Sender,
			tx.SlippageTolerance,
			tx.IsSwap,
			tx.TokenIn,
			tx.TokenOut,
			tx.AmountIn,
			tx.AmountOutMin,
		); err != nil {
			return fmt.Errorf("failed to append tx %s: %w", tx.Hash, err)
		}
	}
	return batch.Send()
}

func (d *ClickhouseDB) QueryTransactionsByBlockRange(start, end uint64) (types.Transactions, error) {
	rows, err := d.conn.Query(context.Background(), fmt.Sprintf(`
		SELECT hash, fromAddr, toAddr, value, gasPrice, gasLimit, input, timestamp, blockNumber, position,
			sender, slippageTolerance, isSwap, tokenIn, tokenOut, amountIn, amountOutMin
		FROM %s FINAL
		WHERE blockNumber >= ? AND blockNumber <= ?
		ORDER BY blockNumber, position, hash`, d.table()), start, end)
	if err != nil {
		return nil, fmt.Errorf("query transactions failed: %w", err)
	}
	defer rows.Close()

	txs := make(types.Transactions, 0)
	for rows.Next() {
		var (
			tx       types.Transaction
			position int32
		)
		if err := rows.Scan(
			&tx.Hash,
			&tx.From,
			&tx.To,
			&tx.Value,
			&tx.GasPrice,
			&tx.GasLimit,
			&tx.Input,
			&tx.Timestamp,
			&tx.BlockNumber,
			&position,
			&tx.Sender,
			&tx.SlippageTolerance,
			&tx.IsSwap,
			&tx.TokenIn,
			&tx.TokenOut,
			&tx.AmountIn,
			&tx.AmountOutMin,
		); err != nil {
			return nil, fmt.Errorf("scan transaction failed: %w", err)
		}
		tx.Position = int(position)
		txs = append(txs, &tx)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}
	return txs, nil
}

func (d *ClickhouseDB) QueryLastBlock() (uint64, error) {
	row := d.conn.QueryRow(context.Background(),
		fmt.Sprintf(`SELECT ifNull(max(blockNumber), toUInt64(0)) FROM %s`, d.table()))
	var block uint64
	if err := row.Scan(&block); err != nil {
		return 0, fmt.Errorf("query last block failed: %w", err)
	}
	return block, nil
}
