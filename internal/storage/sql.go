package storage

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jmoiron/sqlx"

	"lms-evaluation/internal/db"
	"lms-evaluation/internal/schemas"
)

// SQLStore keeps one row per evaluation. Save replaces every row in a single
// transaction, so the table always holds a complete list.
type SQLStore struct {
	DB *sqlx.DB
}

func NewSQLStore(dbx *sqlx.DB) *SQLStore {
	return &SQLStore{DB: dbx}
}

func (s *SQLStore) Ping(ctx context.Context) error {
	return s.DB.PingContext(ctx)
}

func (s *SQLStore) Load(ctx context.Context) ([]schemas.EvaluationData, error) {
	var rows []db.EvaluationRow
	if err := s.DB.SelectContext(ctx, &rows, `select position, id, body, created_at from evaluations order by position`); err != nil {
		return nil, fmt.Errorf("select evaluations: %w", err)
	}
	list := make([]schemas.EvaluationData, 0, len(rows))
	for _, r := range rows {
		var ev schemas.EvaluationData
		if err := json.Unmarshal([]byte(r.Body), &ev); err != nil {
			return nil, fmt.Errorf("%w: row %s: %v", ErrCorrupt, r.ID, err)
		}
		list = append(list, ev)
	}
	return list, nil
}

func (s *SQLStore) Save(ctx context.Context, list []schemas.EvaluationData) error {
	return db.WithTx(ctx, s.DB, func(tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx, `delete from evaluations`); err != nil {
			return fmt.Errorf("clear evaluations: %w", err)
		}
		insert := tx.Rebind(`insert into evaluations(position, id, body, created_at) values(?,?,?,?)`)
		for i, ev := range list {
			body, err := json.Marshal(ev)
			if err != nil {
				return err
			}
			if _, err := tx.ExecContext(ctx, insert, i, ev.ID, string(body), ev.Timestamp); err != nil {
				return fmt.Errorf("insert evaluation %s: %w", ev.ID, err)
			}
		}
		return nil
	})
}
