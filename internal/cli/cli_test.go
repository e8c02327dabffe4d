package cli

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/rustyeddy/forward415/engine"
	"github.com/rustyeddy/forward415/operation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := NewRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestVersion(t *testing.T) {
	out, err := run(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "forward415 "+version+"\n", out)
}

func TestBadLogLevel(t *testing.T) {
	_, err := run(t, "--log-level", "loud", "version")
	assert.ErrorContains(t, err, "bad --log-level")
}

func TestTermCmd(t *testing.T) {
	out, err := run(t, "term", "--from", "2025-11-04", "--to", "2025-12-04")
	require.NoError(t, err)
	assert.Contains(t, out, "business days: 22\n")
	assert.Contains(t, out, "term:          21\n")

	_, err = run(t, "term", "--from", "04/11/2025", "--to", "2025-12-04")
	assert.ErrorContains(t, err, "bad --from")
}

func TestHolidaysCmd(t *testing.T) {
	out, err := run(t, "holidays", "2025")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	assert.Len(t, lines, 17)
	assert.Equal(t, "2025-01-01 Wednesday", lines[0])
	assert.Contains(t, out, "2025-11-17 Monday\n")
}

func TestRateCmd(t *testing.T) {
	dir := t.TempDir()
	curve := writeFile(t, dir, "ibr.csv", "21;0.0925\n30;0.093\n")

	out, err := run(t, "rate", "--curve", curve, "--tenor", "21")
	require.NoError(t, err)
	assert.Equal(t, "9.25\n", out)

	out, err = run(t, "rate", "--curve", curve, "--tenor", "22")
	require.NoError(t, err)
	assert.Equal(t, "0\n", out)

	out, err = run(t, "rate", "--curve", curve)
	require.NoError(t, err)
	assert.Equal(t, "  21 9.25\n  30 9.3\n", out)

	_, err = run(t, "rate", "--tenor", "21")
	assert.ErrorIs(t, err, engine.ErrNoCurve)
}

func TestCounterpartiesCmd(t *testing.T) {
	out, err := run(t, "counterparties")
	require.NoError(t, err)
	assert.Equal(t, "no counterparties\n", out)

	cfg := writeFile(t, t.TempDir(), "cfg.yaml", `
counterparties:
  - id: "900.123.456"
    name: ACME
    conversion_factor: 0.12
    credit_line: 5000000000
    cushion: 0.1
  - id: "800111222"
    name: Beta
journal:
  type: none
`)
	out, err = run(t, "--config", cfg, "counterparties")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "| NIT | Name | FC | Credit line | Cushion |", lines[0])
	assert.Equal(t, "| 800111222 | Beta | 0.12 (default) | 0.00 | 0 |", lines[1])
	assert.Equal(t, "| 900123456 | ACME | 0.12 | 5000000000.00 | 0.1 |", lines[2])
}

func TestConfigInitAndValidate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cfg.yaml")

	out, err := run(t, "config", "init", "--output", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Created default configuration")

	out, err = run(t, "config", "validate", "--file", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Calendar: CO (term floor 10)")
	assert.Contains(t, out, "Journal: sqlite")

	bad := writeFile(t, t.TempDir(), "bad.yaml", "journal:\n  type: kafka\n")
	_, err = run(t, "config", "validate", "--file", bad)
	assert.ErrorContains(t, err, "validation failed")
}

func TestSimulateAndJournal(t *testing.T) {
	dir := t.TempDir()
	curve := writeFile(t, dir, "ibr.csv", "21;0.0925\n")
	db := filepath.Join(dir, "journal.sqlite")
	cfg := writeFile(t, dir, "cfg.yaml", `
engine:
  term_floor: 10
  default_conversion_factor: 0.12
calendar:
  jurisdiction: CO
curve:
  path: `+curve+`
counterparties:
  - id: "900.123.456"
    name: ACME
    conversion_factor: 0.12
    credit_line: 5000000000
    cushion: 0.1
journal:
  type: sqlite
  db_path: `+db+`
`)
	batch := writeFile(t, dir, "ops.yaml", `
cutoff: 2025-11-04
operations:
  - counterparty: "900123456"
    deal: D-1
    direction: COMPRA
    notional_buy: 1000000
    notional_sell: 1000000
    spot: 4100
    forward_points: 0
    maturity: 2025-12-04
  - counterparty: "800111222"
    deal: D-2
    direction: SELL
    notional_sell: "250_000"
    spot: 4100
    maturity: 2026-01-15
`)

	out, err := run(t, "--config", cfg, "simulate", "--batch", batch,
		"--counterparty", "900-123-456", "--notional", "1000000", "--spot", "4100",
		"--maturity", "2025-12-04")
	require.NoError(t, err)

	assert.Contains(t, out, "Currency pair:     USD_COP\n")
	assert.Contains(t, out, "Counterparty:      900123456 ACME\n")
	assert.Contains(t, out, "Operations:        2 (1 simulated)\n")
	assert.Contains(t, out, "Total VNE:         2367136103.68\n")
	assert.Contains(t, out, "PFE:               284056332.44\n")
	assert.Contains(t, out, "mgp:               1.000000\n")
	assert.Contains(t, out, "Total exposure:    397678865.42\n")
	assert.Contains(t, out, "Outstanding:       198839432.71\n")
	assert.Contains(t, out, "Available:         4102321134.58\n")
	assert.Contains(t, out, "Utilization:       8.84%\n")
	assert.NotContains(t, out, "LIMIT EXCEEDED")

	m := regexp.MustCompile(`Run (\S+)`).FindStringSubmatch(out)
	require.Len(t, m, 2)
	runID := m[1]

	out, err = run(t, "--config", cfg, "journal", "runs")
	require.NoError(t, err)
	assert.Contains(t, out, ":RUN_ID: "+runID)
	assert.Contains(t, out, ":CUTOFF: 2025-11-04")

	out, err = run(t, "--db", db, "journal", "runs", "--counterparty", "800111222")
	require.NoError(t, err)
	assert.Equal(t, "no runs\n", out)

	out, err = run(t, "--db", db, "journal", "run", runID)
	require.NoError(t, err)
	assert.Contains(t, out, "| Total exposure | 397678865.42 |")
	assert.Contains(t, out, "| D-1 |  | BUY |")
	assert.Contains(t, out, "| SIM-")

	_, err = run(t, "--db", db, "journal", "run", "nope")
	assert.Error(t, err)
}

func TestSimulateRequiresCurve(t *testing.T) {
	dir := t.TempDir()
	_, err := run(t, "--db", filepath.Join(dir, "j.sqlite"), "simulate",
		"--counterparty", "1", "--notional", "1", "--spot", "4100")
	assert.ErrorIs(t, err, engine.ErrNoCurve)

	_, err = run(t, "simulate", "--notional", "1")
	assert.ErrorContains(t, err, "--counterparty is required")
}

func TestLoadBatch(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "ops.yaml", `
operations:
  - counterparty: "1"
    deal: A
    direction: venta
    notional_sell: "1e6"
    spot: "4100.5"
    fx_rate: ""
    trade_date: 2025-10-01
`)
	cutoff, recs, err := loadBatch(path)
	require.NoError(t, err)
	assert.True(t, cutoff.IsZero())
	require.Len(t, recs, 1)
	assert.Equal(t, operation.Sell, recs[0].Direction)
	assert.True(t, recs[0].NotionalSell.Equal(recs[0].ActiveNotional()))
	assert.Equal(t, "1000000", recs[0].NotionalSell.String())
	assert.Equal(t, "4100.5", recs[0].Spot.String())
	assert.True(t, recs[0].FXRate.IsZero())
	assert.True(t, recs[0].MaturityDate.IsZero())
	assert.Equal(t, 2025, recs[0].TradeDate.Year())

	bad := writeFile(t, dir, "bad.yaml", "operations:\n  - deal: X\n    direction: HOLD\n")
	_, _, err = loadBatch(bad)
	assert.ErrorContains(t, err, "batch row 1 (X)")

	badAmount := writeFile(t, dir, "amt.yaml", "operations:\n  - deal: Y\n    direction: BUY\n    spot: abc\n")
	_, _, err = loadBatch(badAmount)
	assert.ErrorContains(t, err, "spot")
}
