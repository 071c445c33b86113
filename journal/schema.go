// journal/schema.go
package journal

// Monetary columns are TEXT on purpose: decimals round-trip exactly as
// strings, while SQLite REAL would reintroduce float drift into the balance
// chain. Dates are TEXT in YYYY-MM-DD, which compares correctly as a string.
const Schema = `
CREATE TABLE IF NOT EXISTS trades (
	trade_id TEXT PRIMARY KEY,
	symbol TEXT NOT NULL,
	position_size TEXT NOT NULL,
	entry_price TEXT NOT NULL,
	exit_price TEXT NOT NULL,
	stop_loss TEXT,
	take_profit TEXT,
	trade_date TEXT NOT NULL,
	day_id TEXT
);

CREATE INDEX IF NOT EXISTS idx_trades_day ON trades(day_id);
CREATE INDEX IF NOT EXISTS idx_trades_date ON trades(trade_date);

CREATE TABLE IF NOT EXISTS days (
	day_id TEXT PRIMARY KEY,
	date TEXT NOT NULL UNIQUE,
	day_pl TEXT NOT NULL DEFAULT '0',
	entry_balance TEXT NOT NULL DEFAULT '0',
	current_balance TEXT NOT NULL DEFAULT '0',
	risk10 TEXT NOT NULL DEFAULT '0',
	week_id TEXT
);

CREATE INDEX IF NOT EXISTS idx_days_week ON days(week_id);

CREATE TABLE IF NOT EXISTS weeks (
	week_id TEXT PRIMARY KEY,
	start_date TEXT NOT NULL UNIQUE,
	end_date TEXT NOT NULL,
	starting_balance TEXT NOT NULL DEFAULT '0',
	week_pl TEXT NOT NULL DEFAULT '0'
);
`
