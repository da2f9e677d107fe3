package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/comtooin/support-center/internal/domain"
)

// GuideRepository manages published self-help articles.
type GuideRepository interface {
	Create(ctx context.Context, guide *domain.Guide) error
	GetByID(ctx context.Context, id int64) (*domain.Guide, error)
	List(ctx context.Context) ([]domain.Guide, error)
	Update(ctx context.Context, guide *domain.Guide) error
	Delete(ctx context.Context, id int64) error
}

type guideRepository struct {
	pool *pgxpool.Pool
}

// NewGuideRepository builds repository.
func NewGuideRepository(pool *pgxpool.Pool) GuideRepository {
	return &guideRepository{pool: pool}
}

func (r *guideRepository) Create(ctx context.Context, guide *domain.Guide) error {
	const query = `
        INSERT INTO guides (title, content)
        VALUES ($1,$2)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		guide.Title,
		guide.Content,
	).Scan(&guide.ID, &guide.CreatedAt, &guide.UpdatedAt)
}

func (r *guideRepository) GetByID(ctx context.Context, id int64) (*domain.Guide, error) {
	const query = `
        SELECT id, title, content, created_at, updated_at
        FROM guides WHERE id=$1`
	var guide domain.Guide
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&guide.ID,
		&guide.Title,
		&guide.Content,
		&guide.CreatedAt,
		&guide.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &guide, nil
}

func (r *guideRepository) List(ctx context.Context) ([]domain.Guide, error) {
	const query = `
        SELECT id, title, content, created_at, updated_at
        FROM guides ORDER BY created_at DESC`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Guide
	for rows.Next() {
		var guide domain.Guide
		if err := rows.Scan(
			&guide.ID,
			&guide.Title,
			&guide.Content,
			&guide.CreatedAt,
			&guide.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, guide)
	}
	return result, rows.Err()
}

func (r *guideRepository) Update(ctx context.Context, guide *domain.Guide) error {
	const query = `
        UPDATE guides SET title=$1, content=$2, updated_at=NOW()
        WHERE id=$3
        RETURNING created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		guide.Title,
		guide.Content,
		guide.ID,
	).Scan(&guide.CreatedAt, &guide.UpdatedAt)
}

func (r *guideRepository) Delete(ctx context.Context, id int64) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM guides WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
