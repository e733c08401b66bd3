// Package gateway persists cycle output to SQLite. Each table holds only
// the latest cycle: writes replace the previous contents inside one
// transaction, so readers never observe a half-written cycle.
package gateway

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"market-signal-bot/internal/logger"
	"market-signal-bot/internal/types"
)

// SQLiteGateway persists pipeline output to a SQLite database.
type SQLiteGateway struct {
	db *sql.DB
	mu sync.Mutex
}

// NewSQLiteGateway opens (or creates) the SQLite database and runs migrations.
func NewSQLiteGateway(dbPath string) (*SQLiteGateway, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// WAL mode so dashboards can read while a cycle writes.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	g := &SQLiteGateway{db: db}
	if err := g.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	logger.Info(context.Background(), "SQLite gateway opened", "path", dbPath)
	return g, nil
}

func (g *SQLiteGateway) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS news_articles (
			id           INTEGER PRIMARY KEY AUTOINCREMENT,
			instrument   TEXT NOT NULL,
			source       TEXT,
			title        TEXT,
			description  TEXT,
			url          TEXT,
			sentiment    TEXT,
			published_at TEXT,
			created_at   INTEGER NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_news_instrument ON news_articles(instrument)`,

		`CREATE TABLE IF NOT EXISTS market_prices (
			id          INTEGER PRIMARY KEY AUTOINCREMENT,
			instrument  TEXT NOT NULL,
			price       REAL NOT NULL,
			observed_at INTEGER NOT NULL
		)`,

		`CREATE TABLE IF NOT EXISTS price_predictions (
			id         INTEGER PRIMARY KEY AUTOINCREMENT,
			instrument TEXT NOT NULL,
			trend      TEXT NOT NULL,
			confidence REAL NOT NULL,
			created_at INTEGER NOT NULL
		)`,

		`CREATE TABLE IF NOT EXISTS news_risks (
			id          INTEGER PRIMARY KEY AUTOINCREMENT,
			instrument  TEXT NOT NULL,
			risk_level  TEXT NOT NULL,
			risk_reason TEXT NOT NULL,
			created_at  INTEGER NOT NULL
		)`,

		`CREATE TABLE IF NOT EXISTS trade_recommendations (
			id         INTEGER PRIMARY KEY AUTOINCREMENT,
			instrument TEXT NOT NULL,
			action     TEXT NOT NULL,
			confidence REAL NOT NULL,
			created_at INTEGER NOT NULL
		)`,

		`CREATE TABLE IF NOT EXISTS macro_indicators (
			id         INTEGER PRIMARY KEY AUTOINCREMENT,
			indicator  TEXT NOT NULL,
			value      TEXT,
			unit       TEXT,
			country    TEXT,
			source     TEXT,
			created_at INTEGER NOT NULL
		)`,

		`CREATE TABLE IF NOT EXISTS macro_events (
			id         INTEGER PRIMARY KEY AUTOINCREMENT,
			event_name TEXT NOT NULL,
			event_date TEXT NOT NULL,
			source     TEXT,
			created_at INTEGER NOT NULL
		)`,
	}

	for _, s := range stmts {
		if _, err := g.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

// replace runs fn inside a transaction after clearing the named table.
func (g *SQLiteGateway) replace(ctx context.Context, table string, fn func(tx *sql.Tx) error) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	tx, err := g.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	if _, err := tx.Exec("DELETE FROM " + table); err != nil {
		tx.Rollback()
		return fmt.Errorf("clear %s: %w", table, err)
	}
	if err := fn(tx); err != nil {
		tx.Rollback()
		return fmt.Errorf("insert into %s: %w", table, err)
	}
	return tx.Commit()
}

func (g *SQLiteGateway) ReplaceNews(ctx context.Context, items []types.NewsItem, at time.Time) error {
	return g.replace(ctx, "news_articles", func(tx *sql.Tx) error {
		for _, it := range items {
			_, err := tx.Exec(`INSERT INTO news_articles
				(instrument, source, title, description, url, sentiment, published_at, created_at)
				VALUES (?,?,?,?,?,?,?,?)`,
				it.Instrument, it.Source, it.Title, it.Description,
				it.URL, string(it.Sentiment), it.PublishedAt, at.Unix(),
			)
			if err != nil {
				return err
			}
		}
		return nil
	})
}

func (g *SQLiteGateway) ReplacePrices(ctx context.Context, quotes []types.PriceQuote) error {
	return g.replace(ctx, "market_prices", func(tx *sql.Tx) error {
		for _, q := range quotes {
			_, err := tx.Exec(`INSERT INTO market_prices
				(instrument, price, observed_at) VALUES (?,?,?)`,
				q.Instrument, q.Price, q.ObservedAt.Unix(),
			)
			if err != nil {
				return err
			}
		}
		return nil
	})
}

func (g *SQLiteGateway) ReplacePredictions(ctx context.Context, preds []types.TrendPrediction, at time.Time) error {
	return g.replace(ctx, "price_predictions", func(tx *sql.Tx) error {
		for _, p := range preds {
			_, err := tx.Exec(`INSERT INTO price_predictions
				(instrument, trend, confidence, created_at) VALUES (?,?,?,?)`,
				p.Instrument, string(p.Trend), p.Confidence, at.Unix(),
			)
			if err != nil {
				return err
			}
		}
		return nil
	})
}

func (g *SQLiteGateway) ReplaceRisks(ctx context.Context, risks []types.RiskFinding, at time.Time) error {
	return g.replace(ctx, "news_risks", func(tx *sql.Tx) error {
		for _, r := range risks {
			_, err := tx.Exec(`INSERT INTO news_risks
				(instrument, risk_level, risk_reason, created_at) VALUES (?,?,?,?)`,
				r.Instrument, string(r.Level), r.Reason, at.Unix(),
			)
			if err != nil {
				return err
			}
		}
		return nil
	})
}

func (g *SQLiteGateway) ReplaceRecommendations(ctx context.Context, recs []types.TradeRecommendation, at time.Time) error {
	return g.replace(ctx, "trade_recommendations", func(tx *sql.Tx) error {
		for _, r := range recs {
			_, err := tx.Exec(`INSERT INTO trade_recommendations
				(instrument, action, confidence, created_at) VALUES (?,?,?,?)`,
				r.Instrument, string(r.Action), r.Confidence, at.Unix(),
			)
			if err != nil {
				return err
			}
		}
		return nil
	})
}

func (g *SQLiteGateway) ReplaceMacroIndicators(ctx context.Context, inds []types.MacroIndicator, at time.Time) error {
	return g.replace(ctx, "macro_indicators", func(tx *sql.Tx) error {
		for _, m := range inds {
			_, err := tx.Exec(`INSERT INTO macro_indicators
				(indicator, value, unit, country, source, created_at) VALUES (?,?,?,?,?,?)`,
				m.Name, m.Value, m.Unit, m.Country, m.Source, at.Unix(),
			)
			if err != nil {
				return err
			}
		}
		return nil
	})
}

func (g *SQLiteGateway) ReplaceMacroEvents(ctx context.Context, events []types.MacroEvent, at time.Time) error {
	return g.replace(ctx, "macro_events", func(tx *sql.Tx) error {
		for _, e := range events {
			_, err := tx.Exec(`INSERT INTO macro_events
				(event_name, event_date, source, created_at) VALUES (?,?,?,?)`,
				e.Name, e.Date.Format("2006-01-02"), e.Source, at.Unix(),
			)
			if err != nil {
				return err
			}
		}
		return nil
	})
}

func (g *SQLiteGateway) Close() error {
	logger.Info(context.Background(), "Closing SQLite gateway")
	return g.db.Close()
}
