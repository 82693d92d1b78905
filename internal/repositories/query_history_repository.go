package repositories

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"sqlgenie/internal/models"
)

type QueryHistoryRepository struct {
	pool *pgxpool.Pool
}

func NewQueryHistoryRepository(pool *pgxpool.Pool) *QueryHistoryRepository {
	return &QueryHistoryRepository{pool: pool}
}

func (r *QueryHistoryRepository) Create(ctx context.Context, queryHistory *models.QueryHistory) error {
	queryHistory.Prepare()

	query := `
		INSERT INTO query_history (id, user_id, query_text, description, source, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.pool.Exec(ctx, query,
		queryHistory.ID,
		queryHistory.UserID,
		queryHistory.QueryText,
		queryHistory.Description,
		queryHistory.Source,
		queryHistory.CreatedAt,
	)

	return err
}

func (r *QueryHistoryRepository) GetByUserID(ctx context.Context, userID uuid.UUID, limit int) ([]models.QueryHistory, error) {
	if limit <= 0 {
		limit = 100 // Default limit
	}

	query := `
		SELECT id, user_id, query_text, description, source, created_at
		FROM query_history WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`

	rows, err := r.pool.Query(ctx, query, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var queries []models.QueryHistory
	for rows.Next() {
		var qh models.QueryHistory
		err := rows.Scan(
			&qh.ID,
			&qh.UserID,
			&qh.QueryText,
			&qh.Description,
			&qh.Source,
			&qh.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		queries = append(queries, qh)
	}

	return queries, rows.Err()
}
