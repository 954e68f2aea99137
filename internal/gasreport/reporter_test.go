package gasreport

import (
	"bytes"
	"math/big"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Dos-leg/harhhat-fund-me-fcc/internal/config"
)

func testConfig(t *testing.T) config.GasReporterConfig {
	return config.GasReporterConfig{
		Enabled:    true,
		OutputFile: filepath.Join(t.TempDir(), "gas-reporter.txt"),
		NoColors:   true,
		Currency:   "USD",
	}
}

func TestRecordOrdersEntries(t *testing.T) {
	r := New(testConfig(t))
	r.Record(Entry{Network: "hardhat", Contract: "MockV3Aggregator", GasUsed: 2})
	r.Record(Entry{Network: "hardhat", Contract: "FundMe", GasUsed: 1})

	entries := r.Entries()
	require.Len(t, entries, 2)
	assert.Equal(t, "FundMe", entries[0].Contract)
	assert.Equal(t, "deployment", entries[1].Method)
}

func TestRenderWithoutColors(t *testing.T) {
	r := New(testConfig(t))
	r.Record(Entry{
		Network:  "hardhat",
		Contract: "MockV3Aggregator",
		GasUsed:  100000,
		GasPrice: big.NewInt(2_000_000_000),
	})

	var buf bytes.Buffer
	r.Render(&buf)
	out := buf.String()

	assert.Contains(t, out, "currency: USD")
	assert.Contains(t, out, "MockV3Aggregator")
	assert.Contains(t, out, "GAS USED")
	assert.Contains(t, out, "100000")
	assert.Contains(t, out, "2.000000")
	assert.Contains(t, out, "0.000200")
	assert.NotContains(t, out, "\x1b[")
}

func TestRenderWithColors(t *testing.T) {
	cfg := testConfig(t)
	cfg.NoColors = false
	r := New(cfg)
	r.Record(Entry{Network: "hardhat", Contract: "MockV3Aggregator", GasUsed: 1})

	var buf bytes.Buffer
	r.Render(&buf)
	assert.Contains(t, buf.String(), "\x1b[")
}

func TestWriteFile(t *testing.T) {
	cfg := testConfig(t)
	r := New(cfg)
	r.Record(Entry{Network: "localhost", Contract: "MockV3Aggregator", GasUsed: 42})

	require.NoError(t, r.WriteFile())

	data, err := os.ReadFile(cfg.OutputFile)
	require.NoError(t, err)
	assert.Contains(t, string(data), "42")
}

func TestWriteFileDisabled(t *testing.T) {
	cfg := testConfig(t)
	cfg.Enabled = false
	r := New(cfg)
	r.Record(Entry{Contract: "MockV3Aggregator", GasUsed: 42})

	require.NoError(t, r.WriteFile())
	_, err := os.Stat(cfg.OutputFile)
	assert.True(t, os.IsNotExist(err))
}

func TestNilReporter(t *testing.T) {
	var r *Reporter
	assert.NotPanics(t, func() { r.Record(Entry{}) })
	assert.False(t, r.Enabled())
	assert.Nil(t, r.Entries())
	assert.NoError(t, r.WriteFile())

	var buf bytes.Buffer
	assert.NotPanics(t, func() { r.Render(&buf) })
	assert.Zero(t, buf.Len())
}
