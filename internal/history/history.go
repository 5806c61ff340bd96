// Package history is an append-only log of successful predictions.
package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

type Kind string

const (
	KindLoan   Kind = "loan"
	KindCredit Kind = "credit"
)

type Record struct {
	ID          string          `json:"id"`
	Kind        Kind            `json:"kind"`
	RequestJSON json.RawMessage `json:"request"`
	Result      float64         `json:"result"`
	Category    string          `json:"category"`
	CreatedAt   int64           `json:"createdAt"`
}

type Repo struct {
	db  *sql.DB
	now func() time.Time
}

func NewRepo(db *sql.DB) *Repo { return &Repo{db: db, now: time.Now} }

// Append stores one prediction. ID and CreatedAt are filled in when empty.
func (r *Repo) Append(ctx context.Context, rec Record) (Record, error) {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if rec.CreatedAt == 0 {
		rec.CreatedAt = r.now().Unix()
	}
	if len(rec.RequestJSON) == 0 {
		rec.RequestJSON = json.RawMessage("{}")
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO predictions (id, kind, request_json, result, category, created_at)
		 VALUES ($1,$2,$3,$4,$5,$6)`,
		rec.ID, string(rec.Kind), string(rec.RequestJSON), rec.Result, rec.Category, rec.CreatedAt)
	if err != nil {
		return Record{}, fmt.Errorf("append prediction: %w", err)
	}
	return rec, nil
}

// List returns the newest records first. An empty kind lists both kinds.
func (r *Repo) List(ctx context.Context, kind Kind, limit int) ([]Record, error) {
	if limit <= 0 || limit > 1000 {
		limit = 100
	}
	q := `SELECT id, kind, request_json, result, category, created_at FROM predictions`
	args := []any{}
	if kind != "" {
		q += ` WHERE kind = $1 ORDER BY created_at DESC, id LIMIT $2`
		args = append(args, string(kind), limit)
	} else {
		q += ` ORDER BY created_at DESC, id LIMIT $1`
		args = append(args, limit)
	}
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		var (
			rec  Record
			k    string
			body string
		)
		if err := rows.Scan(&rec.ID, &k, &body, &rec.Result, &rec.Category, &rec.CreatedAt); err != nil {
			return nil, err
		}
		rec.Kind = Kind(k)
		rec.RequestJSON = json.RawMessage(body)
		out = append(out, rec)
	}
	return out, rows.Err()
}
