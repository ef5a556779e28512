package questionbank

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// LoadFromPostgres reads the full question set once at startup from the
// questions table (created by db/migrations). Options are stored as a
// text[] column; authored order is preserved by the serial id.
func LoadFromPostgres(ctx context.Context, pool *pgxpool.Pool) (*Store, error) {
	rows, err := pool.Query(ctx,
		`SELECT week_key, question, options, answer FROM questions ORDER BY week_key, id`)
	if err != nil {
		return nil, fmt.Errorf("query questions: %w", err)
	}
	defer rows.Close()

	weeks := make(map[string][]Question)
	for rows.Next() {
		var week string
		var q Question
		if err := rows.Scan(&week, &q.Text, &q.Options, &q.Answer); err != nil {
			return nil, fmt.Errorf("scan question row: %w", err)
		}
		weeks[week] = append(weeks[week], q)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read questions: %w", err)
	}
	return New(weeks), nil
}
