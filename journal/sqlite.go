package journal

import (
	"database/sql"
	"fmt"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// SQLite is a Journal backed by a SQLite file.
type SQLite struct {
	db *sql.DB
	mu sync.Mutex
}

func NewSQLite(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	for _, pragma := range []string{"PRAGMA journal_mode=WAL", "PRAGMA synchronous=NORMAL"} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("%s: %w", pragma, err)
		}
	}
	if _, err := db.Exec(Schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}

	return &SQLite{db: db}, nil
}

func (j *SQLite) RecordRun(r RunRecord) error {
	j.mu.Lock()
	defer j.mu.Unlock()

	_, err := j.db.Exec(`
		INSERT INTO runs
		(run_id, created, ticker, dataset, initial, trading_days_per_year, config)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		r.RunID, r.Created.UTC().Format(time.RFC3339Nano), r.Ticker, r.Dataset,
		r.Initial, r.TradingDaysPerYear, r.Config,
	)
	return err
}

func (j *SQLite) RecordHorizon(h HorizonRecord) error {
	j.mu.Lock()
	defer j.mu.Unlock()

	_, err := j.db.Exec(`
		INSERT INTO horizons
		(run_id, years, start_index, start_date, end_date, baseline_final, strategy_final, transactions, final_position, error)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		h.RunID, h.Years, h.StartIndex, formatDate(h.StartDate), formatDate(h.EndDate),
		h.BaselineFinal, h.StrategyFinal, h.Transactions, h.FinalPosition, h.Error,
	)
	return err
}

func (j *SQLite) RecordTrade(t TradeRecord) error {
	j.mu.Lock()
	defer j.mu.Unlock()

	_, err := j.db.Exec(`
		INSERT INTO trades
		(run_id, years, day, date, side, price, strategy_value)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		t.RunID, t.Years, t.Day, formatDate(t.Date), t.Side, t.Price, t.StrategyValue,
	)
	return err
}

func (j *SQLite) RecordEquity(e EquityRecord) error {
	j.mu.Lock()
	defer j.mu.Unlock()

	_, err := j.db.Exec(`
		INSERT INTO equity
		(run_id, years, day, date, strategy, baseline)
		VALUES (?, ?, ?, ?, ?, ?)`,
		e.RunID, e.Years, e.Day, formatDate(e.Date), e.Strategy, e.Baseline,
	)
	return err
}

func (j *SQLite) Close() error {
	return j.db.Close()
}
