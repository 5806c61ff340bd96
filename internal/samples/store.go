package samples

import (
	"context"
	"database/sql"
	"fmt"
)

// Store keeps samples in the samples table.
type Store struct {
	db        *sql.DB
	BatchSize int
}

func NewStore(db *sql.DB) *Store { return &Store{db: db, BatchSize: 200} }

// Seed swaps the stored samples for pts in one transaction.
func (s *Store) Seed(ctx context.Context, pts []Point) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM samples`); err != nil {
		return fmt.Errorf("clear samples: %w", err)
	}
	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO samples (credit_score, annual_income, approved) VALUES ($1,$2,$3)`)
	if err != nil {
		return err
	}
	defer stmt.Close()
	for _, p := range pts {
		if _, err := stmt.ExecContext(ctx, p.CreditScore, p.AnnualIncome, p.Approved); err != nil {
			return fmt.Errorf("insert sample: %w", err)
		}
	}
	return tx.Commit()
}

// Random returns up to n samples in random order.
func (s *Store) Random(ctx context.Context, n int) ([]Point, error) {
	if n <= 0 {
		n = 200
	}
	return s.query(ctx, `SELECT credit_score, annual_income, approved FROM samples ORDER BY RANDOM() LIMIT $1`, n)
}

func (s *Store) All(ctx context.Context) ([]Point, error) {
	return s.query(ctx, `SELECT credit_score, annual_income, approved FROM samples ORDER BY id`)
}

func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM samples`).Scan(&n)
	return n, err
}

func (s *Store) query(ctx context.Context, q string, args ...any) ([]Point, error) {
	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Point
	for rows.Next() {
		var p Point
		if err := rows.Scan(&p.CreditScore, &p.AnnualIncome, &p.Approved); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// Samples serves a random batch of BatchSize points, so a Store can stand in
// for the remote sample service.
func (s *Store) Samples(ctx context.Context) ([]Point, error) {
	return s.Random(ctx, s.BatchSize)
}
