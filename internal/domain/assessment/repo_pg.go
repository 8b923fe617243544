package assessment

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type historyRepoPG struct{ pool *pgxpool.Pool }

// NewHistoryRepoPG returns a Postgres-backed history repository.
func NewHistoryRepoPG(pool *pgxpool.Pool) HistoryRepository {
	return &historyRepoPG{pool: pool}
}

const recordCols = `id, user_id, datetime, gender, age, height, weight,
	bmi, status, color, bg_color, advice, created_at`

func scanRecord(row pgx.Row) (*Record, error) {
	var r Record
	err := row.Scan(&r.ID, &r.UserID, &r.Datetime, &r.Gender, &r.Age, &r.Height, &r.Weight,
		&r.BMI, &r.Status, &r.Color, &r.BGColor, &r.Advice, &r.CreatedAt)
	return &r, err
}

// Init is a no-op for the Postgres backend: a user's history is the set
// of rows bearing their user_id, so an empty history needs no setup.
func (r *historyRepoPG) Init(ctx context.Context, userID uuid.UUID) error {
	return nil
}

func (r *historyRepoPG) Append(ctx context.Context, rec *Record) error {
	if rec.ID == uuid.Nil {
		rec.ID = uuid.New()
	}
	_, err := r.pool.Exec(ctx, `
		INSERT INTO assessment_records (id, user_id, datetime, gender, age, height, weight,
			bmi, status, color, bg_color, advice, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)`,
		rec.ID, rec.UserID, rec.Datetime, rec.Gender, rec.Age, rec.Height, rec.Weight,
		rec.BMI, rec.Status, rec.Color, rec.BGColor, rec.Advice, rec.CreatedAt)
	return err
}

func (r *historyRepoPG) Load(ctx context.Context, userID uuid.UUID) ([]*Record, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+recordCols+`
		FROM assessment_records WHERE user_id = $1 ORDER BY created_at ASC, id ASC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	records := []*Record{}
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

func (r *historyRepoPG) List(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*Record, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM assessment_records WHERE user_id = $1`, userID).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.pool.Query(ctx, `SELECT `+recordCols+`
		FROM assessment_records WHERE user_id = $1 ORDER BY created_at DESC, id DESC LIMIT $2 OFFSET $3`,
		userID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	records := []*Record{}
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, 0, err
		}
		records = append(records, rec)
	}
	return records, total, rows.Err()
}

func (r *historyRepoPG) GetByID(ctx context.Context, userID, id uuid.UUID) (*Record, error) {
	rec, err := scanRecord(r.pool.QueryRow(ctx, `SELECT `+recordCols+`
		FROM assessment_records WHERE user_id = $1 AND id = $2`, userID, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return rec, nil
}
