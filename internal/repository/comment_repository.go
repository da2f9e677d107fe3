package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/comtooin/support-center/internal/domain"
)

// CommentRepository manages administrator remarks on requests.
type CommentRepository interface {
	Create(ctx context.Context, comment *domain.Comment) error
	ListByRequest(ctx context.Context, requestID int64) ([]domain.Comment, error)
	DeleteByRequest(ctx context.Context, requestID int64) error
}

type commentRepository struct {
	pool *pgxpool.Pool
}

// NewCommentRepository builds repository.
func NewCommentRepository(pool *pgxpool.Pool) CommentRepository {
	return &commentRepository{pool: pool}
}

func (r *commentRepository) Create(ctx context.Context, comment *domain.Comment) error {
	const query = `
        INSERT INTO comments (request_id, comment)
        VALUES ($1,$2)
        RETURNING id, created_at`
	return r.pool.QueryRow(ctx, query,
		comment.RequestID,
		comment.Comment,
	).Scan(&comment.ID, &comment.CreatedAt)
}

func (r *commentRepository) ListByRequest(ctx context.Context, requestID int64) ([]domain.Comment, error) {
	const query = `
        SELECT id, request_id, comment, created_at
        FROM comments WHERE request_id=$1 ORDER BY created_at ASC`
	rows, err := r.pool.Query(ctx, query, requestID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Comment
	for rows.Next() {
		var comment domain.Comment
		if err := rows.Scan(
			&comment.ID,
			&comment.RequestID,
			&comment.Comment,
			&comment.CreatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, comment)
	}
	return result, rows.Err()
}

func (r *commentRepository) DeleteByRequest(ctx context.Context, requestID int64) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM comments WHERE request_id=$1`, requestID)
	return err
}
