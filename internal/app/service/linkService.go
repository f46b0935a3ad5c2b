package service

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"go.uber.org/zap"

	"github.com/atinyakov/bearlink/internal/models"
	"github.com/atinyakov/bearlink/internal/preview"
	"github.com/atinyakov/bearlink/internal/storage"
)

var (
	ErrInvalidURL  = errors.New("url must be an absolute http or https address")
	ErrInvalidName = errors.New("name must not be empty")
	ErrForbidden   = errors.New("link belongs to another user")
)

type LinkService struct {
	repository Storage
	guard      Guard
	queue      Queue
	publisher  Publisher
	logger     *zap.Logger
}

func NewLinkService(repo Storage, guard Guard, queue Queue, logger *zap.Logger) *LinkService {
	return &LinkService{
		repository: repo,
		guard:      guard,
		queue:      queue,
		logger:     logger,
	}
}

// WithPublisher makes room link changes visible to room subscribers.
func (s *LinkService) WithPublisher(p Publisher) *LinkService {
	s.publisher = p
	return s
}

func (s *LinkService) PingContext(ctx context.Context) error {
	return s.repository.PingContext(ctx)
}

func (s *LinkService) CreateCategory(ctx context.Context, userID, name string) (*models.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrInvalidName
	}
	return s.repository.CreateCategory(ctx, models.Category{UserID: userID, Name: name})
}

func (s *LinkService) CreateRoom(ctx context.Context, userID, name string) (*models.Room, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrInvalidName
	}
	return s.repository.CreateRoom(ctx, models.Room{OwnerID: userID, Name: name})
}

func (s *LinkService) CreateCategoryLink(ctx context.Context, userID, categoryID string, req models.CreateLinkRequest) (*models.Link, error) {
	rawURL, err := validateURL(req.URL)
	if err != nil {
		return nil, err
	}

	ok, err := s.repository.CategoryExists(ctx, categoryID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, storage.ErrContainerNotFound
	}

	link, err := s.repository.CreateLink(ctx, models.Link{
		UserID:     userID,
		CategoryID: categoryID,
		URL:        rawURL,
		Title:      models.StringPtr(req.Title),
	})
	if err != nil {
		return nil, err
	}

	s.SubmitForResolution(ctx, link)
	return link, nil
}

func (s *LinkService) CreateRoomLink(ctx context.Context, userID, roomID string, req models.CreateLinkRequest) (*models.Link, error) {
	rawURL, err := validateURL(req.URL)
	if err != nil {
		return nil, err
	}

	ok, err := s.repository.RoomExists(ctx, roomID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, storage.ErrContainerNotFound
	}

	link, err := s.repository.CreateLink(ctx, models.Link{
		UserID: userID,
		RoomID: roomID,
		URL:    rawURL,
		Title:  models.StringPtr(req.Title),
	})
	if err != nil {
		return nil, err
	}

	s.SubmitForResolution(ctx, link)
	s.publish(models.EventLinkAdd, *link)
	return link, nil
}

// SubmitForResolution hands a freshly created link to the worker. The
// guard suppresses a second enqueue of the same URL while the first is
// in flight. Failures are logged only: the worker also scans for
// PENDING links, so a lost enqueue delays resolution without losing it.
func (s *LinkService) SubmitForResolution(ctx context.Context, link *models.Link) {
	log := s.logger.With(zap.String("link_id", link.ID), zap.String("url", link.URL))

	claimed, err := s.guard.TryClaim(ctx, link.URL)
	if err != nil {
		log.Warn("enqueue guard unavailable, leaving link to the pending scan", zap.Error(err))
		return
	}
	if !claimed {
		log.Debug("url already queued")
		return
	}

	if err := s.queue.Push(ctx, link.ID); err != nil {
		log.Warn("enqueue failed, leaving link to the pending scan", zap.Error(err))
		return
	}
	log.Debug("link queued for resolution")
}

func (s *LinkService) GetLink(ctx context.Context, id string) (*models.Link, error) {
	return s.repository.GetByID(ctx, id)
}

func (s *LinkService) ListCategoryLinks(ctx context.Context, categoryID string) ([]models.Link, error) {
	return s.repository.ListByCategory(ctx, categoryID)
}

func (s *LinkService) ListRoomLinks(ctx context.Context, roomID string) ([]models.Link, error) {
	return s.repository.ListByRoom(ctx, roomID)
}

// VideoIDs returns the video IDs of the category's links in list order,
// skipping links that do not point at a video.
func (s *LinkService) VideoIDs(ctx context.Context, categoryID string) ([]string, error) {
	links, err := s.repository.ListByCategory(ctx, categoryID)
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(links))
	for _, l := range links {
		if id, ok := preview.VideoID(l.URL); ok {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

func (s *LinkService) UpdateTitle(ctx context.Context, userID, id string, title string) (*models.Link, error) {
	if _, err := s.ownedLink(ctx, userID, id); err != nil {
		return nil, err
	}

	link, err := s.repository.UpdateTitle(ctx, id, models.StringPtr(title))
	if err != nil {
		return nil, err
	}

	s.publish(models.EventLinkUpdate, *link)
	return link, nil
}

func (s *LinkService) DeleteLink(ctx context.Context, userID, id string) error {
	link, err := s.ownedLink(ctx, userID, id)
	if err != nil {
		return err
	}

	if err := s.repository.Delete(ctx, id); err != nil {
		return err
	}

	s.publish(models.EventLinkDelete, models.Link{ID: link.ID, RoomID: link.RoomID})
	return nil
}

func (s *LinkService) Stats(ctx context.Context) (models.Stats, error) {
	return s.repository.CountByStatus(ctx)
}

func (s *LinkService) ownedLink(ctx context.Context, userID, id string) (*models.Link, error) {
	link, err := s.repository.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if link.UserID != userID {
		return nil, ErrForbidden
	}
	return link, nil
}

func (s *LinkService) publish(t models.EventType, link models.Link) {
	if s.publisher == nil || link.RoomID == "" {
		return
	}
	s.publisher.Publish(models.RoomEvent{Type: t, RoomID: link.RoomID, Link: link})
}

func validateURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidURL, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return "", ErrInvalidURL
	}
	return raw, nil
}
