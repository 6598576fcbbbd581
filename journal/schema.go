package journal

// Schema is applied on open. Dates are stored as YYYY-MM-DD text, the run's
// created time as RFC3339.
const Schema = `
CREATE TABLE IF NOT EXISTS runs (
	run_id TEXT PRIMARY KEY,
	created TEXT NOT NULL,
	ticker TEXT NOT NULL,
	dataset TEXT NOT NULL,
	initial REAL NOT NULL,
	trading_days_per_year INTEGER NOT NULL,
	config BLOB
);

CREATE TABLE IF NOT EXISTS horizons (
	run_id TEXT NOT NULL REFERENCES runs(run_id),
	years REAL NOT NULL,
	start_index INTEGER NOT NULL,
	start_date TEXT NOT NULL,
	end_date TEXT NOT NULL,
	baseline_final REAL NOT NULL,
	strategy_final REAL NOT NULL,
	transactions INTEGER NOT NULL,
	final_position TEXT NOT NULL,
	error TEXT NOT NULL,
	PRIMARY KEY (run_id, years)
);

CREATE TABLE IF NOT EXISTS trades (
	run_id TEXT NOT NULL REFERENCES runs(run_id),
	years REAL NOT NULL,
	day INTEGER NOT NULL,
	date TEXT NOT NULL,
	side TEXT NOT NULL,
	price REAL NOT NULL,
	strategy_value REAL NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_trades_run ON trades(run_id, years, day);

CREATE TABLE IF NOT EXISTS equity (
	run_id TEXT NOT NULL REFERENCES runs(run_id),
	years REAL NOT NULL,
	day INTEGER NOT NULL,
	date TEXT NOT NULL,
	strategy REAL NOT NULL,
	baseline REAL NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_equity_run ON equity(run_id, years, day);
`
