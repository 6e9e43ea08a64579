package db

// EvaluationRow is one stored evaluation. Position keeps insertion order;
// Body is the JSON-encoded record.
type EvaluationRow struct {
	Position  int64  `db:"position"`
	ID        string `db:"id"`
	Body      string `db:"body"`
	CreatedAt string `db:"created_at"`
}
