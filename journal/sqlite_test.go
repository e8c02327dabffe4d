package journal

import (
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/rustyeddy/forward415/operation"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func newTestSQLite(t *testing.T) (*SQLite, string) {
	t.Helper()

	path := filepath.Join(t.TempDir(), "test.db")
	j, err := NewSQLite(path)
	require.NoError(t, err)

	return j, path
}

func sampleRun(id, cp string, created time.Time) Run {
	return Run{
		RunID:                   id,
		Created:                 created,
		CounterpartyID:          cp,
		CutoffDate:              time.Date(2025, 11, 4, 0, 0, 0, 0, time.UTC),
		ConversionFactor:        d("0.12"),
		Existing:                1,
		Simulated:               1,
		TotalNotionalEquivalent: d("1183868051.8387"),
		TotalMarketValue:        d("0"),
		PotentialFutureExposure: d("142064166.220648"),
		MarketGainPotential:     d("1"),
		CurrentReplacementPrice: d("0"),
		Total:                   d("198889832.708907"),
		Outstanding:             d("50400"),
		Limit:                   d("4500000000"),
		Available:               d("4301110167.291093"),
	}
}

func sampleOperation(deal string, simulated bool) operation.Record {
	return operation.Record{
		CounterpartyID:          "900123456",
		DealID:                  deal,
		Direction:               operation.Buy,
		Simulated:               simulated,
		NotionalBuy:             d("1000000"),
		NotionalSell:            d("1000000"),
		Spot:                    d("4100"),
		ForwardPoints:           d("0"),
		FXRate:                  d("4100"),
		CutoffDate:              time.Date(2025, 11, 4, 0, 0, 0, 0, time.UTC),
		MaturityDate:            time.Date(2025, 12, 4, 0, 0, 0, 0, time.UTC),
		Term:                    21,
		ForwardRate:             d("4100"),
		ConversionFactor:        d("0.12"),
		TimeFactor:              d("0.2886751345948129"),
		NotionalEquivalent:      d("1183568051.83872889"),
		PotentialFutureExposure: d("142028166.2206474668"),
		MarketValue:             d("0"),
	}
}

func TestSQLiteSchemaCreated(t *testing.T) {
	t.Parallel()

	j, path := newTestSQLite(t)
	require.NoError(t, j.Close())

	db, err := sql.Open("sqlite3", path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	rows, err := db.Query(`SELECT name FROM sqlite_master WHERE type='table' AND name IN ('runs','operations')`)
	require.NoError(t, err)
	defer rows.Close()

	found := map[string]bool{}
	for rows.Next() {
		var name string
		require.NoError(t, rows.Scan(&name))
		found[name] = true
	}
	require.NoError(t, rows.Err())

	assert.True(t, found["runs"])
	assert.True(t, found["operations"])
}

func TestSQLiteDecimalsStoredAsText(t *testing.T) {
	t.Parallel()

	j, path := newTestSQLite(t)
	created := time.Date(2025, 11, 4, 15, 0, 0, 0, time.UTC)
	require.NoError(t, j.RecordRun(sampleRun("R1", "900123456", created)))
	require.NoError(t, j.RecordOperation("R1", sampleOperation("SIM-1", true)))
	require.NoError(t, j.Close())

	db, err := sql.Open("sqlite3", path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	var total, typ string
	require.NoError(t, db.QueryRow(`SELECT total, typeof(total) FROM runs`).Scan(&total, &typ))
	assert.Equal(t, "198889832.708907", total)
	assert.Equal(t, "text", typ)

	var vne string
	require.NoError(t, db.QueryRow(`SELECT vne FROM operations`).Scan(&vne))
	assert.Equal(t, "1183568051.83872889", vne)
}

func TestNewSQLiteBadPath(t *testing.T) {
	t.Parallel()

	_, err := NewSQLite(filepath.Join(t.TempDir(), "missing", "dir", "x.db"))
	assert.Error(t, err)
}
