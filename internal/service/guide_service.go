package service

import (
	"context"
	"strings"

	"github.com/comtooin/support-center/internal/domain"
	"github.com/comtooin/support-center/internal/repository"
	apperrors "github.com/comtooin/support-center/pkg/util"
)

// GuideService manages published self-help articles: public read,
// administrator-only write.
type GuideService struct {
	guides repository.GuideRepository
}

// NewGuideService constructs the service.
func NewGuideService(guides repository.GuideRepository) *GuideService {
	return &GuideService{guides: guides}
}

// List returns all guides, most recently created first.
func (s *GuideService) List(ctx context.Context) ([]domain.Guide, error) {
	guides, err := s.guides.List(ctx)
	if err != nil {
		return nil, err
	}
	if guides == nil {
		guides = []domain.Guide{}
	}
	return guides, nil
}

// Get returns one guide.
func (s *GuideService) Get(ctx context.Context, id int64) (*domain.Guide, error) {
	guide, err := s.guides.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundOnNoRows(err, "guide")
	}
	return guide, nil
}

// Create validates and persists a new guide.
func (s *GuideService) Create(ctx context.Context, title, content string) (*domain.Guide, error) {
	if err := validateGuide(title, content); err != nil {
		return nil, err
	}
	guide := &domain.Guide{Title: title, Content: content}
	if err := s.guides.Create(ctx, guide); err != nil {
		return nil, err
	}
	return guide, nil
}

// Update validates and replaces the guide's title and content.
func (s *GuideService) Update(ctx context.Context, id int64, title, content string) (*domain.Guide, error) {
	if err := validateGuide(title, content); err != nil {
		return nil, err
	}
	guide := &domain.Guide{ID: id, Title: title, Content: content}
	if err := s.guides.Update(ctx, guide); err != nil {
		return nil, notFoundOnNoRows(err, "guide")
	}
	return guide, nil
}

// Delete removes the guide.
func (s *GuideService) Delete(ctx context.Context, id int64) error {
	if err := s.guides.Delete(ctx, id); err != nil {
		return notFoundOnNoRows(err, "guide")
	}
	return nil
}

func validateGuide(title, content string) error {
	if strings.TrimSpace(title) == "" || strings.TrimSpace(content) == "" {
		return apperrors.NewValidationError("title and content are required", nil)
	}
	return nil
}
