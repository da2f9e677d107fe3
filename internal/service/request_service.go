package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/comtooin/support-center/internal/auth"
	"github.com/comtooin/support-center/internal/domain"
	"github.com/comtooin/support-center/internal/events"
	"github.com/comtooin/support-center/internal/imaging"
	"github.com/comtooin/support-center/internal/repository"
	"github.com/comtooin/support-center/internal/storage"
	apperrors "github.com/comtooin/support-center/pkg/util"
)

// RequestService coordinates the support request lifecycle: anonymous
// submission with image attachments, password-gated self service, and
// administrative triage.
//
// Status gating of self-service edit/delete (status must be OPEN) is owned by
// the client application; the service checks only the submitter's secret.
type RequestService struct {
	requests   repository.RequestRepository
	comments   repository.CommentRepository
	store      storage.ObjectStore
	dispatcher events.Dispatcher
	logger     *zap.Logger
	bcryptCost int
}

// RequestDependencies bundles collaborators for the request service.
type RequestDependencies struct {
	RequestRepo repository.RequestRepository
	CommentRepo repository.CommentRepository
	Store       storage.ObjectStore
	Dispatcher  events.Dispatcher
	Logger      *zap.Logger
	BcryptCost  int
}

// Upload is a raw multipart file before image processing.
type Upload struct {
	FileName    string
	ContentType string
	Size        int64
	Data        []byte
}

// SubmitInput describes the submission payload.
type SubmitInput struct {
	CustomerName string
	UserName     string
	Secret       string
	Email        string
	Content      string
	Attachments  []Upload
}

// SelfUpdateInput describes a submitter-initiated edit. KeptImages are the
// attachment references the caller wants to retain; new uploads are processed
// identically to submission and appended.
type SelfUpdateInput struct {
	CustomerName string
	UserName     string
	Email        string
	Content      string
	KeptImages   []string
	Attachments  []Upload
}

// RequestView pairs a request with its ordered remarks. The secret hash never
// leaves the service layer.
type RequestView struct {
	Request  domain.Request
	Comments []domain.Comment
}

// NewRequestService constructs the service.
func NewRequestService(deps RequestDependencies) *RequestService {
	cost := deps.BcryptCost
	if cost <= 0 {
		cost = 10
	}
	return &RequestService{
		requests:   deps.RequestRepo,
		comments:   deps.CommentRepo,
		store:      deps.Store,
		dispatcher: deps.Dispatcher,
		logger:     deps.Logger,
		bcryptCost: cost,
	}
}

// Submit creates a request with status OPEN. Validation failures occur before
// any attachment is stored or any row is written.
func (s *RequestService) Submit(ctx context.Context, input SubmitInput) (*RequestView, error) {
	if strings.TrimSpace(input.CustomerName) == "" ||
		strings.TrimSpace(input.UserName) == "" ||
		input.Secret == "" ||
		strings.TrimSpace(input.Content) == "" {
		return nil, apperrors.NewValidationError("customer name, user name, password and content are required", nil)
	}
	if err := validateUploads(input.Attachments); err != nil {
		return nil, err
	}

	imageNames, err := s.storeAttachments(ctx, input.Attachments)
	if err != nil {
		return nil, err
	}

	hash, err := auth.HashSecret(input.Secret, s.bcryptCost)
	if err != nil {
		return nil, apperrors.NewUpstreamError(err)
	}

	req := &domain.Request{
		CustomerName: strings.TrimSpace(input.CustomerName),
		UserName:     strings.TrimSpace(input.UserName),
		SecretHash:   hash,
		Email:        strings.TrimSpace(input.Email),
		Content:      input.Content,
		Images:       imageNames,
		Status:       domain.RequestStatusOpen,
	}
	if err := s.requests.Create(ctx, req); err != nil {
		return nil, err
	}

	s.publish(events.Event{
		Type:      events.EventRequestSubmitted,
		Timestamp: time.Now(),
		Request:   events.Snapshot(req),
	})

	return &RequestView{Request: *req, Comments: []domain.Comment{}}, nil
}

// Get returns the request with its ordered remarks.
func (s *RequestService) Get(ctx context.Context, id int64) (*RequestView, error) {
	req, err := s.requests.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundOnNoRows(err, "request")
	}
	return s.withComments(ctx, req)
}

// Authenticate returns the submitter's requests whose stored secret matches
// the supplied one, newest first. A name with no requests at all is
// NotFoundError; a name where no secret matches is AuthError. One matching
// secret grants the submitter's whole matching set, there is no per-request
// session.
func (s *RequestService) Authenticate(ctx context.Context, userName, secret string) ([]RequestView, error) {
	if strings.TrimSpace(userName) == "" || secret == "" {
		return nil, apperrors.NewValidationError("user name and password are required", nil)
	}

	candidates, err := s.requests.ListByUserName(ctx, userName)
	if err != nil {
		return nil, err
	}
	if len(candidates) == 0 {
		return nil, apperrors.NewNotFound("request", map[string]any{"user_name": userName})
	}

	matched := make([]RequestView, 0, len(candidates))
	for i := range candidates {
		if auth.CompareSecret(candidates[i].SecretHash, secret) != nil {
			continue
		}
		view, err := s.withComments(ctx, &candidates[i])
		if err != nil {
			return nil, err
		}
		matched = append(matched, *view)
	}
	if len(matched) == 0 {
		return nil, apperrors.NewUnauthorized("password does not match")
	}
	return matched, nil
}

// SelfUpdate replaces the submitter-editable fields and rebuilds the
// attachment list from the kept references plus any new uploads. Reachable
// only after a successful Authenticate in the client flow; no secret re-check
// happens here.
func (s *RequestService) SelfUpdate(ctx context.Context, id int64, input SelfUpdateInput) (*RequestView, error) {
	if err := validateUploads(input.Attachments); err != nil {
		return nil, err
	}

	newNames, err := s.storeAttachments(ctx, input.Attachments)
	if err != nil {
		return nil, err
	}

	images := make([]string, 0, len(input.KeptImages)+len(newNames))
	for _, name := range input.KeptImages {
		if name = strings.TrimSpace(name); name != "" {
			images = append(images, name)
		}
	}
	images = append(images, newNames...)

	req := &domain.Request{
		ID:           id,
		CustomerName: input.CustomerName,
		UserName:     input.UserName,
		Email:        input.Email,
		Content:      input.Content,
		Images:       images,
	}
	if err := s.requests.Update(ctx, req); err != nil {
		return nil, notFoundOnNoRows(err, "request")
	}
	return s.withComments(ctx, req)
}

// SelfDelete verifies the secret and deletes the request, its remarks and,
// best effort, its stored attachments.
func (s *RequestService) SelfDelete(ctx context.Context, id int64, secret string) error {
	req, err := s.requests.GetByID(ctx, id)
	if err != nil {
		return notFoundOnNoRows(err, "request")
	}
	if auth.CompareSecret(req.SecretHash, secret) != nil {
		return apperrors.NewUnauthorized("password does not match")
	}
	return s.deleteCascade(ctx, req)
}

// AdminList returns all matching requests with remarks, sorted server-side.
func (s *RequestService) AdminList(ctx context.Context, filter repository.RequestFilter) ([]RequestView, error) {
	reqs, err := s.requests.ListWithFilter(ctx, filter)
	if err != nil {
		return nil, err
	}
	views := make([]RequestView, 0, len(reqs))
	for i := range reqs {
		view, err := s.withComments(ctx, &reqs[i])
		if err != nil {
			return nil, err
		}
		views = append(views, *view)
	}
	return views, nil
}

// Customers returns the distinct customer names on file.
func (s *RequestService) Customers(ctx context.Context) ([]string, error) {
	return s.requests.DistinctCustomers(ctx)
}

// AdminUpdate applies a status change and/or appends a remark, then returns
// the refreshed request. A status change on a request with a contact email
// triggers a best-effort notification. The fetch/update/insert/re-fetch
// sequence is deliberately not transactional; a concurrent delete surfaces as
// NotFoundError downstream.
func (s *RequestService) AdminUpdate(ctx context.Context, id int64, newStatus domain.RequestStatus, comment string) (*RequestView, error) {
	if newStatus != "" && !domain.ValidStatus(newStatus) {
		return nil, apperrors.NewValidationError("unknown status", map[string]any{"status": newStatus})
	}

	original, err := s.requests.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundOnNoRows(err, "request")
	}

	if newStatus != "" {
		if err := s.requests.UpdateStatus(ctx, id, newStatus); err != nil {
			return nil, notFoundOnNoRows(err, "request")
		}
	}
	if trimmed := strings.TrimSpace(comment); trimmed != "" {
		remark := &domain.Comment{RequestID: id, Comment: comment}
		if err := s.comments.Create(ctx, remark); err != nil {
			return nil, err
		}
	}

	if newStatus != "" && newStatus != original.Status && original.Email != "" {
		s.publish(events.Event{
			Type:      events.EventRequestStatusChanged,
			Timestamp: time.Now(),
			Request:   events.Snapshot(original),
			NewStatus: newStatus,
		})
	}

	refreshed, err := s.requests.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundOnNoRows(err, "request")
	}
	return s.withComments(ctx, refreshed)
}

// AdminDelete deletes the request with its remarks and attachments, no secret
// required.
func (s *RequestService) AdminDelete(ctx context.Context, id int64) error {
	req, err := s.requests.GetByID(ctx, id)
	if err != nil {
		return notFoundOnNoRows(err, "request")
	}
	return s.deleteCascade(ctx, req)
}

func (s *RequestService) deleteCascade(ctx context.Context, req *domain.Request) error {
	for _, name := range req.Images {
		if err := s.store.Delete(ctx, name); err != nil {
			s.logger.Warn("failed to delete attachment",
				zap.Int64("request_id", req.ID),
				zap.String("image", name),
				zap.Error(err))
		}
	}
	if err := s.comments.DeleteByRequest(ctx, req.ID); err != nil {
		return err
	}
	if err := s.requests.Delete(ctx, req.ID); err != nil {
		return notFoundOnNoRows(err, "request")
	}
	return nil
}

func (s *RequestService) withComments(ctx context.Context, req *domain.Request) (*RequestView, error) {
	comments, err := s.comments.ListByRequest(ctx, req.ID)
	if err != nil {
		return nil, err
	}
	if comments == nil {
		comments = []domain.Comment{}
	}
	return &RequestView{Request: *req, Comments: comments}, nil
}

func (s *RequestService) storeAttachments(ctx context.Context, uploads []Upload) ([]string, error) {
	names := make([]string, 0, len(uploads))
	for _, up := range uploads {
		processed, err := imaging.Process(up.Data)
		if err != nil {
			return nil, apperrors.NewValidationError("could not process image upload", map[string]any{
				"file":  up.FileName,
				"cause": err.Error(),
			})
		}
		if err := s.store.Save(ctx, processed.Name, processed.Data); err != nil {
			return nil, apperrors.NewUpstreamError(err)
		}
		names = append(names, processed.Name)
	}
	return names, nil
}

func (s *RequestService) publish(event events.Event) {
	if s.dispatcher == nil {
		return
	}
	s.dispatcher.Publish(event)
}

func validateUploads(uploads []Upload) error {
	if len(uploads) > imaging.MaxFiles {
		return apperrors.NewValidationError("at most 5 images may be attached", nil)
	}
	for _, up := range uploads {
		if !imaging.AllowedContentType(up.ContentType) {
			return apperrors.NewValidationError("only image files may be uploaded", map[string]any{
				"file":         up.FileName,
				"content_type": up.ContentType,
			})
		}
		if up.Size > imaging.MaxFileSize || int64(len(up.Data)) > imaging.MaxFileSize {
			return apperrors.NewValidationError("image exceeds the 10 MB size limit", map[string]any{
				"file": up.FileName,
			})
		}
	}
	return nil
}

func notFoundOnNoRows(err error, resource string) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return apperrors.NewNotFound(resource, nil)
	}
	return err
}
