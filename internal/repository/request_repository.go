package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/comtooin/support-center/internal/domain"
)

// RequestFilter captures admin listing parameters. Month is a "YYYY-MM"
// calendar month of creation. An unrecognized SortField falls back to
// created_at, an unrecognized SortDir to desc.
type RequestFilter struct {
	CustomerName string
	Month        string
	Status       string
	SortField    string
	SortDir      string
}

// StatusCount is an aggregate row of tickets grouped by status.
type StatusCount struct {
	Status domain.RequestStatus `json:"status"`
	Count  int                  `json:"count"`
}

// MonthCount is an aggregate row of tickets grouped by calendar month.
type MonthCount struct {
	Month string `json:"month"`
	Count int    `json:"count"`
}

// RequestRepository encapsulates request persistence.
type RequestRepository interface {
	Create(ctx context.Context, req *domain.Request) error
	GetByID(ctx context.Context, id int64) (*domain.Request, error)
	ListByUserName(ctx context.Context, userName string) ([]domain.Request, error)
	ListWithFilter(ctx context.Context, filter RequestFilter) ([]domain.Request, error)
	Update(ctx context.Context, req *domain.Request) error
	UpdateStatus(ctx context.Context, id int64, status domain.RequestStatus) error
	Delete(ctx context.Context, id int64) error
	DistinctCustomers(ctx context.Context) ([]string, error)
	CountByStatus(ctx context.Context, filter RequestFilter) ([]StatusCount, error)
	CountByMonth(ctx context.Context, filter RequestFilter) ([]MonthCount, error)
}

type requestRepository struct {
	pool *pgxpool.Pool
}

// NewRequestRepository instantiates repository.
func NewRequestRepository(pool *pgxpool.Pool) RequestRepository {
	return &requestRepository{pool: pool}
}

const requestColumns = `id, customer_name, user_name, password, email, content, images, status, created_at, updated_at`

func (r *requestRepository) Create(ctx context.Context, req *domain.Request) error {
	const query = `
        INSERT INTO requests (customer_name, user_name, password, email, content, images, status)
        VALUES ($1,$2,$3,$4,$5,$6,$7)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		req.CustomerName,
		req.UserName,
		req.SecretHash,
		req.Email,
		req.Content,
		encodeImages(req.Images),
		req.Status,
	).Scan(&req.ID, &req.CreatedAt, &req.UpdatedAt)
}

func (r *requestRepository) GetByID(ctx context.Context, id int64) (*domain.Request, error) {
	query := fmt.Sprintf(`SELECT %s FROM requests WHERE id=$1`, requestColumns)
	row := r.pool.QueryRow(ctx, query, id)
	return scanRequest(row)
}

func (r *requestRepository) ListByUserName(ctx context.Context, userName string) ([]domain.Request, error) {
	query := fmt.Sprintf(`SELECT %s FROM requests WHERE user_name=$1 ORDER BY created_at DESC`, requestColumns)
	rows, err := r.pool.Query(ctx, query, userName)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanRequests(rows)
}

func (r *requestRepository) ListWithFilter(ctx context.Context, filter RequestFilter) ([]domain.Request, error) {
	where, args := filterClauses(filter)
	query := fmt.Sprintf(`SELECT %s FROM requests%s ORDER BY %s`,
		requestColumns, where, sortClause(filter.SortField, filter.SortDir))

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanRequests(rows)
}

func (r *requestRepository) Update(ctx context.Context, req *domain.Request) error {
	const query = `
        UPDATE requests SET customer_name=$1, user_name=$2, email=$3, content=$4, images=$5, updated_at=NOW()
        WHERE id=$6
        RETURNING created_at, updated_at, status`
	return r.pool.QueryRow(ctx, query,
		req.CustomerName,
		req.UserName,
		req.Email,
		req.Content,
		encodeImages(req.Images),
		req.ID,
	).Scan(&req.CreatedAt, &req.UpdatedAt, &req.Status)
}

func (r *requestRepository) UpdateStatus(ctx context.Context, id int64, status domain.RequestStatus) error {
	const query = `UPDATE requests SET status=$1, updated_at=NOW() WHERE id=$2`
	cmd, err := r.pool.Exec(ctx, query, status, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *requestRepository) Delete(ctx context.Context, id int64) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM requests WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *requestRepository) DistinctCustomers(ctx context.Context) ([]string, error) {
	rows, err := r.pool.Query(ctx, `SELECT DISTINCT customer_name FROM requests ORDER BY customer_name ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		result = append(result, name)
	}
	return result, rows.Err()
}

func (r *requestRepository) CountByStatus(ctx context.Context, filter RequestFilter) ([]StatusCount, error) {
	where, args := filterClauses(filter)
	query := fmt.Sprintf(`SELECT status, COUNT(*)::int FROM requests%s GROUP BY status`, where)
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []StatusCount
	for rows.Next() {
		var c StatusCount
		if err := rows.Scan(&c.Status, &c.Count); err != nil {
			return nil, err
		}
		result = append(result, c)
	}
	return result, rows.Err()
}

func (r *requestRepository) CountByMonth(ctx context.Context, filter RequestFilter) ([]MonthCount, error) {
	where, args := filterClauses(filter)
	query := fmt.Sprintf(`SELECT TO_CHAR(created_at, 'YYYY-MM') AS month, COUNT(*)::int
        FROM requests%s GROUP BY month ORDER BY month`, where)
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []MonthCount
	for rows.Next() {
		var c MonthCount
		if err := rows.Scan(&c.Month, &c.Count); err != nil {
			return nil, err
		}
		result = append(result, c)
	}
	return result, rows.Err()
}

func filterClauses(filter RequestFilter) (string, []any) {
	clauses := []string{}
	args := []any{}

	if filter.CustomerName != "" {
		args = append(args, filter.CustomerName)
		clauses = append(clauses, fmt.Sprintf("customer_name=$%d", len(args)))
	}
	if filter.Month != "" {
		args = append(args, filter.Month)
		clauses = append(clauses, fmt.Sprintf("TO_CHAR(created_at, 'YYYY-MM')=$%d", len(args)))
	}
	if filter.Status != "" {
		args = append(args, filter.Status)
		clauses = append(clauses, fmt.Sprintf("status=$%d", len(args)))
	}

	if len(clauses) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(clauses, " AND "), args
}

var sortableColumns = map[string]struct{}{
	"id":            {},
	"created_at":    {},
	"customer_name": {},
	"user_name":     {},
	"status":        {},
}

// sortClause whitelists the sort column and direction, falling back to
// created_at DESC for anything unrecognized.
func sortClause(field, dir string) string {
	if _, ok := sortableColumns[field]; !ok {
		field = "created_at"
	}
	switch strings.ToLower(dir) {
	case "asc":
		dir = "ASC"
	case "desc":
		dir = "DESC"
	default:
		dir = "DESC"
	}
	return field + " " + dir
}

func scanRequest(row pgx.Row) (*domain.Request, error) {
	var req domain.Request
	var images []byte
	if err := row.Scan(
		&req.ID,
		&req.CustomerName,
		&req.UserName,
		&req.SecretHash,
		&req.Email,
		&req.Content,
		&images,
		&req.Status,
		&req.CreatedAt,
		&req.UpdatedAt,
	); err != nil {
		return nil, err
	}
	req.Images = decodeImages(images)
	return &req, nil
}

func scanRequests(rows pgx.Rows) ([]domain.Request, error) {
	var result []domain.Request
	for rows.Next() {
		req, err := scanRequest(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *req)
	}
	return result, rows.Err()
}

func encodeImages(images []string) []byte {
	if images == nil {
		images = []string{}
	}
	encoded, err := json.Marshal(images)
	if err != nil {
		return []byte("[]")
	}
	return encoded
}

// decodeImages normalizes the stored attachment field to a list of reference
// strings. Legacy rows hold either a native JSON array or a doubly encoded
// text form; anything unparsable reads as an empty list rather than an error.
func decodeImages(raw []byte) []string {
	trimmed := strings.TrimSpace(string(raw))
	if trimmed == "" || trimmed == "null" {
		return []string{}
	}

	var list []string
	if err := json.Unmarshal([]byte(trimmed), &list); err == nil {
		return list
	}

	var nested string
	if err := json.Unmarshal([]byte(trimmed), &nested); err == nil {
		if err := json.Unmarshal([]byte(nested), &list); err == nil {
			return list
		}
	}
	return []string{}
}
