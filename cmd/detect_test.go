package cmd

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mevwatcher/config"
	"mevwatcher/db"
	"mevwatcher/evm"
	"mevwatcher/types"
	"mevwatcher/utils"
)

const clusterDoc = `[
	{"hash":"0xF","from":"0xA","to":"0xP","value":"0","gas_price":"3","gas_limit":"250000","input":"0x","timestamp":995,"block_number":7,"sender":"0xA","is_uniswap_swap":false},
	{"hash":"0xV","from":"0xU","to":"0xP","value":"0","gas_price":"2","gas_limit":"250000","input":"0x","timestamp":1000,"block_number":7,"sender":"0xU","slippage_tolerance":0.1,"is_uniswap_swap":true},
	{"hash":"0xB","from":"0xA","to":"0xP","value":"0","gas_price":"1","gas_limit":"250000","input":"0x","timestamp":1010,"block_number":7,"sender":"0xA","is_uniswap_swap":false}
]`

func TestRunDetect(t *testing.T) {
	finder := evm.NewSandwichFinder()
	var out, errOut bytes.Buffer
	assert.True(t, runDetect(finder, strings.NewReader(clusterDoc), &out, &errOut, false))
	assert.Equal(t, "true\n", out.String())
	assert.Empty(t, errOut.String())

	out.Reset()
	assert.False(t, runDetect(finder, strings.NewReader(`[]`), &out, &errOut, false))
	assert.Equal(t, "false\n", out.String())
	assert.Empty(t, errOut.String())

	out.Reset()
	assert.False(t, runDetect(finder, strings.NewReader(`{broken`), &out, &errOut, false))
	assert.Equal(t, "false\n", out.String())
	assert.Contains(t, errOut.String(), utils.PARSE_FAILURE)
}

func TestRunDetect_ReportsHexQuantity(t *testing.T) {
	doc := strings.Replace(clusterDoc, `"value":"0"`, `"value":"0x0"`, 1)

	var out, errOut bytes.Buffer
	assert.False(t, runDetect(evm.NewSandwichFinder(), strings.NewReader(doc), &out, &errOut, false))
	assert.Equal(t, "false\n", out.String())
	assert.Contains(t, errOut.String(), "value of tx 0xF")
	assert.Contains(t, errOut.String(), "hex quantity")
}

func TestRunDetect_Explain(t *testing.T) {
	var out, errOut bytes.Buffer
	require.True(t, runDetect(evm.NewSandwichFinder(), strings.NewReader(clusterDoc), &out, &errOut, true))

	var verdict map[string]any
	require.NoError(t, json.Unmarshal(out.Bytes(), &verdict))
	assert.Equal(t, "evaluated", verdict["stage"])
	assert.Equal(t, true, verdict["sandwich"])

	out.Reset()
	assert.False(t, runDetect(evm.NewSandwichFinder(), strings.NewReader(`{broken`), &out, &errOut, true))
	assert.Equal(t, "false\n", out.String())
}

// Thresholds from config.yaml reach detect the same way they reach scan.
func TestFinderFromConfig(t *testing.T) {
	finder := finderFromConfig()
	assert.Equal(t, config.SANDWICH_MAX_TIME_GAP, finder.MaxTimeGap)
	assert.Equal(t, config.VICTIM_MIN_SLIPPAGE, finder.MinSlippage)

	viper.Set("detect.min-slippage", 0.2)
	t.Cleanup(func() { viper.Set("detect.min-slippage", config.VICTIM_MIN_SLIPPAGE) })

	var out, errOut bytes.Buffer
	assert.False(t, runDetect(finderFromConfig(), strings.NewReader(clusterDoc), &out, &errOut, false))
	assert.Equal(t, "false\n", out.String())
	assert.Equal(t, 0.2, newScannerFromConfig(db.NewMemoryDB()).Finder.MinSlippage)
}

func TestReadTransactionsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "txs.json")
	require.NoError(t, os.WriteFile(path, []byte(clusterDoc), 0o644))

	txs, err := readTransactionsFile(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"0xF", "0xV", "0xB"}, txs.Hashes())

	_, err = readTransactionsFile(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)

	bad := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte(`[{"hash":"0x1"}]`), 0o644))
	_, err = readTransactionsFile(bad)
	assert.ErrorIs(t, err, types.ErrMissingField)
}

func TestDetectCommand_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "txs.json")
	require.NoError(t, os.WriteFile(path, []byte(clusterDoc), 0o644))

	var out bytes.Buffer
	RootCmd.SetOut(&out)
	RootCmd.SetArgs([]string{"detect", "--quiet", path})
	t.Cleanup(func() {
		RootCmd.SetOut(nil)
		RootCmd.SetArgs(nil)
	})
	require.NoError(t, RootCmd.Execute())
	assert.Equal(t, "true\n", out.String())
}
