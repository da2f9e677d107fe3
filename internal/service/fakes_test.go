package service

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/comtooin/support-center/internal/domain"
	"github.com/comtooin/support-center/internal/events"
	"github.com/comtooin/support-center/internal/repository"
)

// fakeRequestRepo is an in-memory RequestRepository for service tests.
type fakeRequestRepo struct {
	mu     sync.Mutex
	nextID int64
	rows   map[int64]domain.Request
}

func newFakeRequestRepo() *fakeRequestRepo {
	return &fakeRequestRepo{rows: make(map[int64]domain.Request)}
}

// seed inserts a row as-is, assigning an ID when absent.
func (f *fakeRequestRepo) seed(req domain.Request) domain.Request {
	f.mu.Lock()
	defer f.mu.Unlock()
	if req.ID == 0 {
		f.nextID++
		req.ID = f.nextID
	} else if req.ID > f.nextID {
		f.nextID = req.ID
	}
	if req.Status == "" {
		req.Status = domain.RequestStatusOpen
	}
	f.rows[req.ID] = req
	return req
}

func (f *fakeRequestRepo) Create(_ context.Context, req *domain.Request) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	req.ID = f.nextID
	req.CreatedAt = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC).Add(time.Duration(f.nextID) * time.Minute)
	req.UpdatedAt = req.CreatedAt
	f.rows[req.ID] = *req
	return nil
}

func (f *fakeRequestRepo) GetByID(_ context.Context, id int64) (*domain.Request, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	row, ok := f.rows[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := row
	return &copied, nil
}

func (f *fakeRequestRepo) ListByUserName(_ context.Context, userName string) ([]domain.Request, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var result []domain.Request
	for _, row := range f.rows {
		if row.UserName == userName {
			result = append(result, row)
		}
	}
	sortNewestFirst(result)
	return result, nil
}

func (f *fakeRequestRepo) ListWithFilter(_ context.Context, filter repository.RequestFilter) ([]domain.Request, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var result []domain.Request
	for _, row := range f.rows {
		if matchesFilter(row, filter) {
			result = append(result, row)
		}
	}
	if filter.SortField == "id" && filter.SortDir == "asc" {
		sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	} else {
		sortNewestFirst(result)
	}
	return result, nil
}

func (f *fakeRequestRepo) Update(_ context.Context, req *domain.Request) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	existing, ok := f.rows[req.ID]
	if !ok {
		return pgx.ErrNoRows
	}
	existing.CustomerName = req.CustomerName
	existing.UserName = req.UserName
	existing.Email = req.Email
	existing.Content = req.Content
	existing.Images = req.Images
	existing.UpdatedAt = existing.UpdatedAt.Add(time.Minute)
	f.rows[req.ID] = existing
	req.CreatedAt = existing.CreatedAt
	req.UpdatedAt = existing.UpdatedAt
	req.Status = existing.Status
	return nil
}

func (f *fakeRequestRepo) UpdateStatus(_ context.Context, id int64, status domain.RequestStatus) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	row, ok := f.rows[id]
	if !ok {
		return pgx.ErrNoRows
	}
	row.Status = status
	f.rows[id] = row
	return nil
}

func (f *fakeRequestRepo) Delete(_ context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.rows[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(f.rows, id)
	return nil
}

func (f *fakeRequestRepo) DistinctCustomers(_ context.Context) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	seen := map[string]struct{}{}
	var result []string
	for _, row := range f.rows {
		if _, ok := seen[row.CustomerName]; !ok {
			seen[row.CustomerName] = struct{}{}
			result = append(result, row.CustomerName)
		}
	}
	sort.Strings(result)
	return result, nil
}

func (f *fakeRequestRepo) CountByStatus(_ context.Context, filter repository.RequestFilter) ([]repository.StatusCount, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	counts := map[domain.RequestStatus]int{}
	for _, row := range f.rows {
		if matchesFilter(row, filter) {
			counts[row.Status]++
		}
	}
	var result []repository.StatusCount
	for status, count := range counts {
		result = append(result, repository.StatusCount{Status: status, Count: count})
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Status < result[j].Status })
	return result, nil
}

func (f *fakeRequestRepo) CountByMonth(_ context.Context, filter repository.RequestFilter) ([]repository.MonthCount, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	counts := map[string]int{}
	for _, row := range f.rows {
		if matchesFilter(row, filter) {
			counts[row.CreatedAt.Format("2006-01")]++
		}
	}
	var result []repository.MonthCount
	for month, count := range counts {
		result = append(result, repository.MonthCount{Month: month, Count: count})
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Month < result[j].Month })
	return result, nil
}

func matchesFilter(row domain.Request, filter repository.RequestFilter) bool {
	if filter.CustomerName != "" && row.CustomerName != filter.CustomerName {
		return false
	}
	if filter.Month != "" && row.CreatedAt.Format("2006-01") != filter.Month {
		return false
	}
	if filter.Status != "" && string(row.Status) != filter.Status {
		return false
	}
	return true
}

func sortNewestFirst(rows []domain.Request) {
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].CreatedAt.Equal(rows[j].CreatedAt) {
			return rows[i].ID > rows[j].ID
		}
		return rows[i].CreatedAt.After(rows[j].CreatedAt)
	})
}

// fakeCommentRepo is an in-memory CommentRepository.
type fakeCommentRepo struct {
	mu     sync.Mutex
	nextID int64
	rows   []domain.Comment
}

func newFakeCommentRepo() *fakeCommentRepo {
	return &fakeCommentRepo{}
}

func (f *fakeCommentRepo) Create(_ context.Context, comment *domain.Comment) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	comment.ID = f.nextID
	comment.CreatedAt = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC).Add(time.Duration(f.nextID) * time.Minute)
	f.rows = append(f.rows, *comment)
	return nil
}

func (f *fakeCommentRepo) ListByRequest(_ context.Context, requestID int64) ([]domain.Comment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var result []domain.Comment
	for _, row := range f.rows {
		if row.RequestID == requestID {
			result = append(result, row)
		}
	}
	return result, nil
}

func (f *fakeCommentRepo) DeleteByRequest(_ context.Context, requestID int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	kept := f.rows[:0]
	for _, row := range f.rows {
		if row.RequestID != requestID {
			kept = append(kept, row)
		}
	}
	f.rows = kept
	return nil
}

// fakeObjectStore records saves and deletes in memory.
type fakeObjectStore struct {
	mu      sync.Mutex
	saved   map[string][]byte
	deleted []string
	saveErr error
}

func newFakeObjectStore() *fakeObjectStore {
	return &fakeObjectStore{saved: make(map[string][]byte)}
}

func (f *fakeObjectStore) Save(_ context.Context, name string, data []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.saveErr != nil {
		return f.saveErr
	}
	f.saved[name] = data
	return nil
}

func (f *fakeObjectStore) Delete(_ context.Context, name string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.saved, name)
	f.deleted = append(f.deleted, name)
	return nil
}

func (f *fakeObjectStore) URL(name string) string {
	return "/uploads/" + name
}

func (f *fakeObjectStore) savedCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.saved)
}

// captureDispatcher records published events synchronously so tests can
// assert on them without waiting for goroutines.
type captureDispatcher struct {
	mu     sync.Mutex
	events []events.Event
}

func (d *captureDispatcher) Publish(event events.Event) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.events = append(d.events, event)
}

func (d *captureDispatcher) Subscribe(events.EventType, events.EventHandler) {}

func (d *captureDispatcher) Wait() {}

func (d *captureDispatcher) published() []events.Event {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]events.Event{}, d.events...)
}

// fakeGuideRepo is an in-memory GuideRepository.
type fakeGuideRepo struct {
	mu     sync.Mutex
	nextID int64
	rows   map[int64]domain.Guide
}

func newFakeGuideRepo() *fakeGuideRepo {
	return &fakeGuideRepo{rows: make(map[int64]domain.Guide)}
}

func (f *fakeGuideRepo) Create(_ context.Context, guide *domain.Guide) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	guide.ID = f.nextID
	guide.CreatedAt = time.Now()
	guide.UpdatedAt = guide.CreatedAt
	f.rows[guide.ID] = *guide
	return nil
}

func (f *fakeGuideRepo) GetByID(_ context.Context, id int64) (*domain.Guide, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	row, ok := f.rows[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := row
	return &copied, nil
}

func (f *fakeGuideRepo) List(_ context.Context) ([]domain.Guide, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var result []domain.Guide
	for _, row := range f.rows {
		result = append(result, row)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID > result[j].ID })
	return result, nil
}

func (f *fakeGuideRepo) Update(_ context.Context, guide *domain.Guide) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	existing, ok := f.rows[guide.ID]
	if !ok {
		return pgx.ErrNoRows
	}
	existing.Title = guide.Title
	existing.Content = guide.Content
	existing.UpdatedAt = existing.UpdatedAt.Add(time.Minute)
	f.rows[guide.ID] = existing
	guide.CreatedAt = existing.CreatedAt
	guide.UpdatedAt = existing.UpdatedAt
	return nil
}

func (f *fakeGuideRepo) Delete(_ context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.rows[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(f.rows, id)
	return nil
}

// pngBytes renders a solid test image of the given dimensions.
func pngBytes(t *testing.T, width, height int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for x := 0; x < width; x++ {
		for y := 0; y < height; y++ {
			img.Set(x, y, color.RGBA{R: 120, G: 40, B: 200, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return buf.Bytes()
}
