package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/atinyakov/bearlink/internal/app/service"
	"github.com/atinyakov/bearlink/internal/models"
)

type PostHandler struct {
	service service.LinkServiceIface
	logger  *zap.Logger
}

func NewPost(s service.LinkServiceIface, l *zap.Logger) *PostHandler {
	return &PostHandler{
		service: s,
		logger:  l,
	}
}

// CategoryLink saves a link into the category named in the path. The
// link is returned right away with status PENDING.
func (h *PostHandler) CategoryLink(res http.ResponseWriter, req *http.Request) {
	h.createLink(res, req, func(ctx context.Context, userID string, body models.CreateLinkRequest) (*models.Link, error) {
		return h.service.CreateCategoryLink(ctx, userID, chi.URLParam(req, "categoryID"), body)
	})
}

// RoomLink saves a link into a shared room.
func (h *PostHandler) RoomLink(res http.ResponseWriter, req *http.Request) {
	h.createLink(res, req, func(ctx context.Context, userID string, body models.CreateLinkRequest) (*models.Link, error) {
		return h.service.CreateRoomLink(ctx, userID, chi.URLParam(req, "roomID"), body)
	})
}

func (h *PostHandler) createLink(
	res http.ResponseWriter,
	req *http.Request,
	create func(ctx context.Context, userID string, body models.CreateLinkRequest) (*models.Link, error),
) {
	ctx, cancel := context.WithTimeout(req.Context(), 3*time.Second)
	defer cancel()

	userID, ok := userIDFrom(req)
	if !ok {
		http.Error(res, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
		return
	}

	var body models.CreateLinkRequest
	if err := decodeJSONBody(res, req, &body); err != nil {
		writeDecodeError(res, err, h.logger)
		return
	}

	link, err := create(ctx, userID, body)
	if err != nil {
		writeServiceError(res, err, h.logger)
		return
	}

	h.logger.Info("link saved", zap.String("link_id", link.ID), zap.String("url", link.URL))
	writeJSON(res, http.StatusCreated, link)
}

func (h *PostHandler) Category(res http.ResponseWriter, req *http.Request) {
	h.createContainer(res, req, func(ctx context.Context, userID, name string) (interface{}, error) {
		return h.service.CreateCategory(ctx, userID, name)
	})
}

func (h *PostHandler) Room(res http.ResponseWriter, req *http.Request) {
	h.createContainer(res, req, func(ctx context.Context, userID, name string) (interface{}, error) {
		return h.service.CreateRoom(ctx, userID, name)
	})
}

func (h *PostHandler) createContainer(
	res http.ResponseWriter,
	req *http.Request,
	create func(ctx context.Context, userID, name string) (interface{}, error),
) {
	ctx, cancel := context.WithTimeout(req.Context(), 3*time.Second)
	defer cancel()

	userID, ok := userIDFrom(req)
	if !ok {
		http.Error(res, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
		return
	}

	var body models.CreateContainerRequest
	if err := decodeJSONBody(res, req, &body); err != nil {
		writeDecodeError(res, err, h.logger)
		return
	}

	created, err := create(ctx, userID, body.Name)
	if err != nil {
		writeServiceError(res, err, h.logger)
		return
	}

	writeJSON(res, http.StatusCreated, created)
}
