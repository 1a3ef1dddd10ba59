package types

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"

	MapSet "github.com/deckarep/golang-set/v2"
	"github.com/shopspring/decimal"
)

var (
	ErrMissingField     = errors.New("missing required field")
	ErrInvalidQuantity  = errors.New("invalid decimal quantity")
	ErrInvalidSlippage  = errors.New("invalid slippage tolerance")
	ErrDuplicateHash    = errors.New("duplicate transaction hash")
	ErrNullTransaction  = errors.New("null transaction")
	ErrEmptyTransaction = errors.New("transaction has empty hash")
)

// Transaction is one observed on-chain transaction, as supplied by the caller.
// Large quantities are kept as decimal strings so that they round-trip without precision loss.
type Transaction struct {
	// Unique identifier of this transaction within a cluster.
	Hash string `json:"hash"`
	// The account that signed and paid for the transaction.
	From string `json:"from"`
	// Destination contract, e.g. a DEX router or pool. Front-run, victim and back-run share it.
	To       string `json:"to"`
	Value    string `json:"value"`
	GasPrice string `json:"gas_price"`
	GasLimit string `json:"gas_limit"`
	// Raw calldata, never decoded here.
	Input string `json:"input"`
	// Seconds since epoch when the transaction was seen or mined.
	Timestamp uint64 `json:"timestamp"`
	// 0 if pending.
	BlockNumber uint64 `json:"block_number"`
	// The address a sandwich is attributed to. Usually equal to From, but a bot may route through a contract.
	Sender string `json:"sender"`
	// Fraction, e.g. 0.01 for 1%. nil when unknown.
	SlippageTolerance *float64 `json:"slippage_tolerance"`
	// Pre-classified by the caller: true if this is a Uniswap-like swap.
	IsSwap bool `json:"is_uniswap_swap"`

	TokenIn      *string `json:"token_in"`
	TokenOut     *string `json:"token_out"`
	AmountIn     *string `json:"amount_in"`
	AmountOutMin *string `json:"amount_out_min"`

	// Order in which the transaction was observed, only used to keep storage order stable.
	Position int `json:"-"`
}

type Transactions []*Transaction

// rawTransaction mirrors Transaction with pointers on required fields so that absence can be detected.
type rawTransaction struct {
	Hash              *string  `json:"hash"`
	From              *string  `json:"from"`
	To                *string  `json:"to"`
	Value             *string  `json:"value"`
	GasPrice          *string  `json:"gas_price"`
	GasLimit          *string  `json:"gas_limit"`
	Input             *string  `json:"input"`
	Timestamp         *uint64  `json:"timestamp"`
	BlockNumber       *uint64  `json:"block_number"`
	Sender            *string  `json:"sender"`
	SlippageTolerance *float64 `json:"slippage_tolerance"`
	IsSwap            *bool    `json:"is_uniswap_swap"`
	TokenIn           *string  `json:"token_in"`
	TokenOut          *string  `json:"token_out"`
	AmountIn          *string  `json:"amount_in"`
	AmountOutMin      *string  `json:"amount_out_min"`
}

func (tx *Transaction) UnmarshalJSON(data []byte) error {
	var raw rawTransaction
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	missing := make([]string, 0)
	requireString := func(name string, p *string, dst *string) {
		if p == nil {
			missing = append(missing, name)
			return
		}
		*dst = *p
	}
	requireUint := func(name string, p *uint64, dst *uint64) {
		if p == nil {
			missing = append(missing, name)
			return
		}
		*dst = *p
	}

	var out Transaction
	requireString("hash", raw.Hash, &out.Hash)
	requireString("from", raw.From, &out.From)
	requireString("to", raw.To, &out.To)
	requireString("value", raw.Value, &out.Value)
	requireString("gas_price", raw.GasPrice, &out.GasPrice)
	requireString("gas_limit", raw.GasLimit, &out.GasLimit)
	requireString("input", raw.Input, &out.Input)
	requireUint("timestamp", raw.Timestamp, &out.Timestamp)
	requireUint("block_number", raw.BlockNumber, &out.BlockNumber)
	requireString("sender", raw.Sender, &out.Sender)
	if raw.IsSwap == nil {
		missing = append(missing, "is_uniswap_swap")
	} else {
		out.IsSwap = *raw.IsSwap
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", ErrMissingField, strings.Join(missing, ", "))
	}

	out.SlippageTolerance = raw.SlippageTolerance
	out.TokenIn = raw.TokenIn
	out.TokenOut = raw.TokenOut
	out.AmountIn = raw.AmountIn
	out.AmountOutMin = raw.AmountOutMin

	if err := out.Validate(); err != nil {
		return err
	}
	*tx = out
	return nil
}

// Validate checks the invariants of a single transaction.
func (tx *Transaction) Validate() error {
	if tx.Hash == "" {
		return ErrEmptyTransaction
	}
	quantities := []struct {
		name  string
		value *string
	}{
		{"value", &tx.Value},
		{"gas_price", &tx.GasPrice},
		{"gas_limit", &tx.GasLimit},
		{"amount_in", tx.AmountIn},
		{"amount_out_min", tx.AmountOutMin},
	}
	for _, q := range quantities {
		if q.value == nil {
			continue // optional and absent
		}
		if _, err := parseQuantity(*q.value); err != nil {
			return fmt.Errorf("%w: %s of tx %s: %v", ErrInvalidQuantity, q.name, tx.Hash, err)
		}
	}
	if s := tx.SlippageTolerance; s != nil {
		if math.IsNaN(*s) || math.IsInf(*s, 0) || *s < 0 {
			return fmt.Errorf("%w: %v of tx %s", ErrInvalidSlippage, *s, tx.Hash)
		}
	}
	return nil
}

// SameAs reports whether both records describe the same transaction, i.e. share a hash.
func (tx *Transaction) SameAs(other *Transaction) bool {
	if tx == nil || other == nil {
		return false
	}
	return tx.Hash == other.Hash
}

// Clone returns a copy that shares no optional field pointers with tx.
func (tx *Transaction) Clone() *Transaction {
	if tx == nil {
		return nil
	}
	copied := *tx
	copied.SlippageTolerance = clonePtr(tx.SlippageTolerance)
	copied.TokenIn = clonePtr(tx.TokenIn)
	copied.TokenOut = clonePtr(tx.TokenOut)
	copied.AmountIn = clonePtr(tx.AmountIn)
	copied.AmountOutMin = clonePtr(tx.AmountOutMin)
	return &copied
}

func (tx *Transaction) ValueDecimal() (decimal.Decimal, error) {
	return parseQuantity(tx.Value)
}

func (tx *Transaction) GasPriceDecimal() (decimal.Decimal, error) {
	return parseQuantity(tx.GasPrice)
}

func (tx *Transaction) GasLimitDecimal() (decimal.Decimal, error) {
	return parseQuantity(tx.GasLimit)
}

// AmountInDecimal returns false if the amount is absent.
func (tx *Transaction) AmountInDecimal() (decimal.Decimal, bool, error) {
	return parseOptionalQuantity(tx.AmountIn)
}

// AmountOutMinDecimal returns false if the amount is absent.
func (tx *Transaction) AmountOutMinDecimal() (decimal.Decimal, bool, error) {
	return parseOptionalQuantity(tx.AmountOutMin)
}

// Hashes returns the hashes of txs in order.
func (txs Transactions) Hashes() []string {
	res := make([]string, 0, len(txs))
	for _, tx := range txs {
		if tx != nil {
			res = append(res, tx.Hash)
		}
	}
	return res
}

// ParseTransactions decodes a JSON array of transactions and checks cluster-level invariants.
// Position is set to the index of each transaction in the document.
func ParseTransactions(doc []byte) (Transactions, error) {
	var txs Transactions
	if err := json.Unmarshal(doc, &txs); err != nil {
		return nil, fmt.Errorf("failed to decode transactions: %w", err)
	}
	if err := txs.Validate(); err != nil {
		return nil, err
	}
	for i, tx := range txs {
		tx.Position = i
	}
	return txs, nil
}

// Validate checks that no entry is null and that hashes are unique.
func (txs Transactions) Validate() error {
	seen := MapSet.NewThreadUnsafeSet[string]()
	for i, tx := range txs {
		if tx == nil {
			return fmt.Errorf("%w at index %d", ErrNullTransaction, i)
		}
		if !seen.Add(tx.Hash) {
			return fmt.Errorf("%w: %s at index %d", ErrDuplicateHash, tx.Hash, i)
		}
	}
	return nil
}

func parseQuantity(s string) (decimal.Decimal, error) {
	switch {
	case s == "":
		return decimal.Zero, errors.New("empty string, expected a base-10 decimal string")
	case strings.HasPrefix(s, "0x"), strings.HasPrefix(s, "0X"):
		return decimal.Zero, fmt.Errorf("hex quantity %q, expected a base-10 decimal string", s)
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, err
	}
	if d.IsNegative() {
		return decimal.Zero, fmt.Errorf("negative quantity %s", s)
	}
	return d, nil
}

func parseOptionalQuantity(s *string) (decimal.Decimal, bool, error) {
	if s == nil {
		return decimal.Zero, false, nil
	}
	d, err := parseQuantity(*s)
	if err != nil {
		return decimal.Zero, true, err
	}
	return d, true, nil
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
