// Package gasreport collects gas usage of deployments and renders it as a table.
package gasreport

import (
	"bytes"
	"fmt"
	"io"
	"math/big"
	"os"
	"sort"
	"strconv"
	"sync"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"

	"github.com/Dos-leg/harhhat-fund-me-fcc/internal/config"
)

// Entry is the gas usage of one deployment transaction.
type Entry struct {
	Network  string
	Contract string
	Method   string
	GasUsed  uint64
	GasPrice *big.Int
}

// Cost returns GasUsed * GasPrice in wei.
func (e Entry) Cost() *big.Int {
	if e.GasPrice == nil {
		return new(big.Int)
	}
	return new(big.Int).Mul(new(big.Int).SetUint64(e.GasUsed), e.GasPrice)
}

// Reporter accumulates entries for one run. Safe for concurrent use.
// A nil *Reporter ignores records.
type Reporter struct {
	cfg config.GasReporterConfig

	mu      sync.Mutex
	entries []Entry
}

// New creates a reporter.
func New(cfg config.GasReporterConfig) *Reporter {
	return &Reporter{cfg: cfg}
}

// Enabled reports whether the reporter writes output.
func (r *Reporter) Enabled() bool {
	return r != nil && r.cfg.Enabled
}

// Record adds an entry.
func (r *Reporter) Record(e Entry) {
	if r == nil {
		return
	}
	if e.Method == "" {
		e.Method = "deployment"
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, e)
}

// Entries returns a copy of the recorded entries ordered by contract name.
func (r *Reporter) Entries() []Entry {
	if r == nil {
		return nil
	}
	r.mu.Lock()
	out := make([]Entry, len(r.entries))
	copy(out, r.entries)
	r.mu.Unlock()

	sort.SliceStable(out, func(i, j int) bool { return out[i].Contract < out[j].Contract })
	return out
}

// Render writes the report table to w.
func (r *Reporter) Render(w io.Writer) {
	if r == nil {
		return
	}
	entries := r.Entries()

	title := color.New(color.FgCyan, color.Bold)
	gas := color.New(color.FgGreen)
	if r.cfg.NoColors {
		title.DisableColor()
		gas.DisableColor()
	} else {
		title.EnableColor()
		gas.EnableColor()
	}

	currency := r.cfg.Currency
	if currency == "" {
		currency = "USD"
	}
	fmt.Fprintln(w, title.Sprintf("Gas usage (currency: %s, no price feed configured)", currency))

	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Network", "Contract", "Method", "Gas used", "Gas price (gwei)", "Cost (ETH)"})

	var total uint64
	for _, e := range entries {
		total += e.GasUsed
		table.Append([]string{
			e.Network,
			e.Contract,
			e.Method,
			gas.Sprint(strconv.FormatUint(e.GasUsed, 10)),
			formatUnits(e.GasPrice, 9),
			formatUnits(e.Cost(), 18),
		})
	}
	table.SetFooter([]string{"", "", "Total", strconv.FormatUint(total, 10), "", ""})
	table.Render()
}

// WriteFile renders the report to the configured output file.
// It does nothing when the reporter is disabled or has no output file.
func (r *Reporter) WriteFile() error {
	if !r.Enabled() || r.cfg.OutputFile == "" {
		return nil
	}
	var buf bytes.Buffer
	r.Render(&buf)
	if err := os.WriteFile(r.cfg.OutputFile, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write gas report: %w", err)
	}
	return nil
}

// formatUnits renders v / 10^decimals with up to six fractional digits.
func formatUnits(v *big.Int, decimals int) string {
	if v == nil {
		return "-"
	}
	f := new(big.Float).SetInt(v)
	f.Quo(f, new(big.Float).SetInt(new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(decimals)), nil)))
	return f.Text('f', 6)
}
