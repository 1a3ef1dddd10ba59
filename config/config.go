package config

import "time"

// Path config
const (
	LogPath    = "./logs/"
	ConfigPath = "./"
)

// Database config
const (
	DatabaseName       = "mevwatcher"
	TransactionsTable  = "transactions"
	DefaultDialTimeout = 5 * time.Second
	DefaultMaxOpenConn = 10
)

// Detection config
const (
	MIN_CLUSTER_SIZE      = 3           // a sandwich needs at least front-run, victim and back-run
	SANDWICH_MAX_TIME_GAP = uint64(120) // seconds between front-run and back-run, ~10 Ethereum blocks
	VICTIM_MIN_SLIPPAGE   = 0.05        // victim slippage tolerance must be strictly above 5%
)

// Scan config
const (
	SCAN_CLUSTER_BLOCK_WINDOW = uint64(1)   // number of consecutive blocks grouped into one cluster
	SCAN_BATCH_BLOCKS         = uint64(100) // number of blocks read from DB each time
	SCAN_PARALLEL_NUM         = 8           // number of clusters evaluated in parallel
	SCAN_IDLE_INTERVAL        = 5 * time.Second
)

// Server config
const (
	DefaultServeAddr    = ":8080"
	DefaultReadTimeout  = 10 * time.Second
	DefaultWriteTimeout = 10 * time.Second
	MaxRequestBodyBytes = 8 << 20
)
