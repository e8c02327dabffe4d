package journal

// Decimal columns are TEXT so amounts round-trip without float loss.
const Schema = `
CREATE TABLE IF NOT EXISTS runs (
	run_id TEXT PRIMARY KEY,
	created DATETIME NOT NULL,
	counterparty_id TEXT NOT NULL,
	cutoff_date TEXT NOT NULL,
	conversion_factor TEXT NOT NULL,
	default_fc INTEGER NOT NULL,
	existing INTEGER NOT NULL,
	simulated INTEGER NOT NULL,
	total_vne TEXT NOT NULL,
	total_vr TEXT NOT NULL,
	pfe TEXT NOT NULL,
	mgp TEXT NOT NULL,
	crp TEXT NOT NULL,
	total TEXT NOT NULL,
	outstanding TEXT NOT NULL,
	credit_limit TEXT NOT NULL,
	available TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_runs_counterparty ON runs(counterparty_id, created);

CREATE TABLE IF NOT EXISTS operations (
	seq INTEGER PRIMARY KEY AUTOINCREMENT,
	run_id TEXT NOT NULL REFERENCES runs(run_id),
	deal_id TEXT NOT NULL,
	counterparty_id TEXT NOT NULL,
	simulated INTEGER NOT NULL,
	direction TEXT NOT NULL,
	notional_buy TEXT NOT NULL,
	notional_sell TEXT NOT NULL,
	spot TEXT NOT NULL,
	forward_points TEXT NOT NULL,
	fx_rate TEXT NOT NULL,
	cutoff_date TEXT NOT NULL,
	maturity_date TEXT NOT NULL,
	term INTEGER NOT NULL,
	forward_rate TEXT NOT NULL,
	ibr_rate TEXT NOT NULL,
	discount_factor TEXT NOT NULL,
	right_value TEXT NOT NULL,
	obligation TEXT NOT NULL,
	fair_value TEXT NOT NULL,
	priced INTEGER NOT NULL,
	conversion_factor TEXT NOT NULL,
	time_factor TEXT NOT NULL,
	vne TEXT NOT NULL,
	epfp TEXT NOT NULL,
	vr TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_operations_run ON operations(run_id);
`
