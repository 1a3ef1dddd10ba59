package evm

import (
	"fmt"
	"io"

	"mevwatcher/logger"
	"mevwatcher/types"
	"mevwatcher/utils"
)

// DetectJSON is the host-facing entry point: one JSON document in, one verdict out.
// Malformed input is logged and answered with false; it never panics the caller.
func DetectJSON(doc []byte) bool {
	return defaultFinder.DetectJSON(doc)
}

// DetectReader reads a whole document from r and runs DetectJSON on it.
func DetectReader(r io.Reader) bool {
	return defaultFinder.DetectReader(r)
}

// InspectJSON is DetectJSON returning the full verdict, or the parse error naming the offending field.
func InspectJSON(doc []byte) (types.Verdict, error) {
	return defaultFinder.InspectJSON(doc)
}

func (f SandwichFinder) DetectJSON(doc []byte) (detected bool) {
	defer func() {
		if r := recover(); r != nil {
			logger.DetectLogger.Error(utils.DETECT_PANIC, "panic", fmt.Sprint(r))
			detected = false
		}
	}()

	txs, err := types.ParseTransactions(doc)
	if err != nil {
		logger.DetectLogger.Error(utils.PARSE_FAILURE, "err", err)
		return false
	}
	return f.Detect(txs)
}

func (f SandwichFinder) DetectReader(r io.Reader) bool {
	doc, err := io.ReadAll(r)
	if err != nil {
		logger.DetectLogger.Error(utils.READ_FAILURE, "err", err)
		return false
	}
	return f.DetectJSON(doc)
}

func (f SandwichFinder) InspectJSON(doc []byte) (v types.Verdict, err error) {
	defer func() {
		if r := recover(); r != nil {
			logger.DetectLogger.Error(utils.DETECT_PANIC, "panic", fmt.Sprint(r))
			v = types.Verdict{}
			err = fmt.Errorf("%s: %v", utils.DETECT_PANIC, r)
		}
	}()

	txs, err := types.ParseTransactions(doc)
	if err != nil {
		logger.DetectLogger.Error(utils.PARSE_FAILURE, "err", err)
		return types.Verdict{}, fmt.Errorf("%s: %w", utils.PARSE_FAILURE, err)
	}
	return f.Inspect(txs), nil
}
