package journal

import (
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// ErrNotFound is returned when a run does not exist.
var ErrNotFound = errors.New("not found")

const runColumns = `run_id, created, ticker, dataset, initial, trading_days_per_year, config`

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(s scanner) (RunRecord, error) {
	var (
		rec     RunRecord
		created string
	)
	if err := s.Scan(&rec.RunID, &created, &rec.Ticker, &rec.Dataset, &rec.Initial, &rec.TradingDaysPerYear, &rec.Config); err != nil {
		return RunRecord{}, err
	}
	t, err := time.Parse(time.RFC3339Nano, created)
	if err != nil {
		return RunRecord{}, fmt.Errorf("run %s: bad created time %q: %w", rec.RunID, created, err)
	}
	rec.Created = t
	return rec, nil
}

// GetRun returns a single run by ID.
func (j *SQLite) GetRun(runID string) (RunRecord, error) {
	row := j.db.QueryRow(`SELECT `+runColumns+` FROM runs WHERE run_id = ?`, runID)
	rec, err := scanRun(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return RunRecord{}, fmt.Errorf("run %q %w", runID, ErrNotFound)
		}
		return RunRecord{}, err
	}
	return rec, nil
}

// ListRuns returns every run, newest first.
func (j *SQLite) ListRuns() ([]RunRecord, error) {
	rows, err := j.db.Query(`SELECT ` + runColumns + ` FROM runs ORDER BY run_id DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []RunRecord
	for rows.Next() {
		rec, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// ListHorizons returns a run's horizons, shortest first.
func (j *SQLite) ListHorizons(runID string) ([]HorizonRecord, error) {
	rows, err := j.db.Query(`
		SELECT run_id, years, start_index, start_date, end_date, baseline_final, strategy_final, transactions, final_position, error
		FROM horizons
		WHERE run_id = ?
		ORDER BY years ASC`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []HorizonRecord
	for rows.Next() {
		var (
			rec        HorizonRecord
			start, end string
		)
		if err := rows.Scan(
			&rec.RunID,
			&rec.Years,
			&rec.StartIndex,
			&start,
			&end,
			&rec.BaselineFinal,
			&rec.StrategyFinal,
			&rec.Transactions,
			&rec.FinalPosition,
			&rec.Error,
		); err != nil {
			return nil, err
		}
		if rec.StartDate, err = parseDate(start); err != nil {
			return nil, err
		}
		if rec.EndDate, err = parseDate(end); err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// ListTrades returns the transactions of one horizon in day order.
func (j *SQLite) ListTrades(runID string, years float64) ([]TradeRecord, error) {
	rows, err := j.db.Query(`
		SELECT run_id, years, day, date, side, price, strategy_value
		FROM trades
		WHERE run_id = ? AND years = ?
		ORDER BY day ASC`, runID, years)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []TradeRecord
	for rows.Next() {
		var (
			rec  TradeRecord
			date string
		)
		if err := rows.Scan(&rec.RunID, &rec.Years, &rec.Day, &date, &rec.Side, &rec.Price, &rec.StrategyValue); err != nil {
			return nil, err
		}
		if rec.Date, err = parseDate(date); err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// ListEquity returns the equity curve of one horizon in day order.
func (j *SQLite) ListEquity(runID string, years float64) ([]EquityRecord, error) {
	rows, err := j.db.Query(`
		SELECT run_id, years, day, date, strategy, baseline
		FROM equity
		WHERE run_id = ? AND years = ?
		ORDER BY day ASC`, runID, years)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []EquityRecord
	for rows.Next() {
		var (
			rec  EquityRecord
			date string
		)
		if err := rows.Scan(&rec.RunID, &rec.Years, &rec.Day, &date, &rec.Strategy, &rec.Baseline); err != nil {
			return nil, err
		}
		if rec.Date, err = parseDate(date); err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
