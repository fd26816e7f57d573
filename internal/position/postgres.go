package position

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"
)

// PostgresStore keeps the record set in a single table with the same
// load-all/save-all semantics as FileStore. The save replaces the whole set
// inside one transaction, so a failed pass never leaves a partial set.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore opens the connection and ensures the schema exists.
func NewPostgresStore(connStr string) (*PostgresStore, error) {
	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("opening postgres: %w", err)
	}
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("pinging postgres: %w", err)
	}

	s := &PostgresStore{db: db}
	if err := s.createSchema(context.Background()); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *PostgresStore) createSchema(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS position_records (
			symbol           TEXT PRIMARY KEY,
			entry_price      DOUBLE PRECISION NOT NULL,
			target_deviation DOUBLE PRECISION NOT NULL,
			buy_size         DOUBLE PRECISION NOT NULL DEFAULT 0,
			buy_price        DOUBLE PRECISION NOT NULL DEFAULT 0,
			last_candle_open DOUBLE PRECISION NOT NULL DEFAULT 0
		)`)
	if err != nil {
		return fmt.Errorf("creating position_records schema: %w", err)
	}
	return nil
}

func (s *PostgresStore) Load(ctx context.Context) (Book, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT symbol, entry_price, target_deviation, buy_size, buy_price, last_candle_open
		FROM position_records`)
	if err != nil {
		return nil, fmt.Errorf("loading position records: %w", err)
	}
	defer rows.Close()

	book := Book{}
	for rows.Next() {
		var symbol string
		var r Record
		if err := rows.Scan(&symbol, &r.EntryPrice, &r.TargetDeviation, &r.BuySize, &r.BuyPrice, &r.LastCandleOpen); err != nil {
			return nil, fmt.Errorf("scanning position record: %w", err)
		}
		book[symbol] = r
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating position records: %w", err)
	}
	return book, nil
}

func (s *PostgresStore) Save(ctx context.Context, book Book) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning save transaction: %w", err)
	}

	save := func() error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM position_records`); err != nil {
			return fmt.Errorf("clearing position records: %w", err)
		}
		stmt, err := tx.PrepareContext(ctx, `
			INSERT INTO position_records
				(symbol, entry_price, target_deviation, buy_size, buy_price, last_candle_open)
			VALUES ($1, $2, $3, $4, $5, $6)`)
		if err != nil {
			return fmt.Errorf("preparing insert: %w", err)
		}
		defer stmt.Close()

		for symbol, r := range book {
			if _, err := stmt.ExecContext(ctx, symbol, r.EntryPrice, r.TargetDeviation, r.BuySize, r.BuyPrice, r.LastCandleOpen); err != nil {
				return fmt.Errorf("inserting record for %s: %w", symbol, err)
			}
		}
		return nil
	}

	if err := save(); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("save rollback failed: %w (original error: %v)", rbErr, err)
		}
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing position records: %w", err)
	}
	return nil
}

// Close releases the underlying connection pool.
func (s *PostgresStore) Close() error { return s.db.Close() }
