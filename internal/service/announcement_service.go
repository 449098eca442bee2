package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/acadhub/gradebook-api/internal/models"
	"github.com/acadhub/gradebook-api/pkg/config"
	appErrors "github.com/acadhub/gradebook-api/pkg/errors"
)

type announcementRepository interface {
	List(ctx context.Context, classID string, limit int) ([]models.Announcement, error)
	FindByID(ctx context.Context, id string) (*models.Announcement, error)
	Create(ctx context.Context, announcement *models.Announcement) error
	Delete(ctx context.Context, id string) error
}

type contentDrafter interface {
	Draft(ctx context.Context, prompt string) (string, error)
}

// AnnouncementService manages announcements, optionally drafting the body
// through the generative content service.
type AnnouncementService struct {
	repo      announcementRepository
	drafter   contentDrafter
	validator *validator.Validate
	logger    *zap.Logger
	cfg       config.GenAIConfig
}

// NewAnnouncementService constructs an AnnouncementService.
func NewAnnouncementService(repo announcementRepository, drafter contentDrafter, validate *validator.Validate, logger *zap.Logger, cfg config.GenAIConfig) *AnnouncementService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &AnnouncementService{repo: repo, drafter: drafter, validator: validate, logger: logger, cfg: cfg}
}

// List returns announcements, optionally scoped to one class.
func (s *AnnouncementService) List(ctx context.Context, classID string, limit int) ([]models.Announcement, error) {
	announcements, err := s.repo.List(ctx, classID, limit)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list announcements")
	}
	return announcements, nil
}

// Create posts a new announcement. When AIAssist is requested and the body is
// empty, the content service drafts it from the prompt; a drafting failure
// falls back to the title so the post still lands.
func (s *AnnouncementService) Create(ctx context.Context, actor *models.JWTClaims, req models.AnnouncementRequest) (*models.Announcement, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid announcement payload")
	}
	if actor == nil {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "missing identity")
	}

	body := req.Body
	drafted := false
	if req.AIAssist && body == "" {
		if !s.cfg.Enabled || s.drafter == nil {
			return nil, appErrors.Clone(appErrors.ErrPreconditionFailed, "content drafting is not enabled")
		}
		prompt := req.Prompt
		if prompt == "" {
			prompt = req.Title
		}
		text, err := s.drafter.Draft(ctx, prompt)
		if err != nil {
			s.logger.Warn("announcement draft failed", zap.Error(err))
			body = req.Title
		} else {
			body = text
			drafted = true
		}
	}
	if body == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "announcement body is required")
	}

	announcement := &models.Announcement{
		AuthorID: actor.UserID,
		ClassID:  req.ClassID,
		Title:    req.Title,
		Body:     body,
		AIAssist: drafted,
	}
	if err := s.repo.Create(ctx, announcement); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create announcement")
	}
	return announcement, nil
}

// Delete removes an announcement. Only the author or an admin may delete.
func (s *AnnouncementService) Delete(ctx context.Context, id string, actor *models.JWTClaims) error {
	announcement, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "announcement not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load announcement")
	}
	if actor == nil || (actor.Role != models.RoleAdmin && announcement.AuthorID != actor.UserID) {
		return appErrors.Clone(appErrors.ErrForbidden, "announcement belongs to another author")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete announcement")
	}
	return nil
}
