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

type GetHandler struct {
	service service.LinkServiceIface
	logger  *zap.Logger
}

func NewGet(s service.LinkServiceIface, l *zap.Logger) *GetHandler {
	return &GetHandler{
		service: s,
		logger:  l,
	}
}

// Link returns a single link with its current preview status.
func (h *GetHandler) Link(res http.ResponseWriter, req *http.Request) {
	ctx, cancel := context.WithTimeout(req.Context(), 3*time.Second)
	defer cancel()

	link, err := h.service.GetLink(ctx, chi.URLParam(req, "linkID"))
	if err != nil {
		writeServiceError(res, err, h.logger)
		return
	}

	writeJSON(res, http.StatusOK, link)
}

func (h *GetHandler) CategoryLinks(res http.ResponseWriter, req *http.Request) {
	h.list(res, req, func(ctx context.Context) ([]models.Link, error) {
		return h.service.ListCategoryLinks(ctx, chi.URLParam(req, "categoryID"))
	})
}

func (h *GetHandler) RoomLinks(res http.ResponseWriter, req *http.Request) {
	h.list(res, req, func(ctx context.Context) ([]models.Link, error) {
		return h.service.ListRoomLinks(ctx, chi.URLParam(req, "roomID"))
	})
}

func (h *GetHandler) list(res http.ResponseWriter, req *http.Request, fetch func(ctx context.Context) ([]models.Link, error)) {
	ctx, cancel := context.WithTimeout(req.Context(), 3*time.Second)
	defer cancel()

	links, err := fetch(ctx)
	if err != nil {
		writeServiceError(res, err, h.logger)
		return
	}

	if len(links) == 0 {
		res.WriteHeader(http.StatusNoContent)
		return
	}

	writeJSON(res, http.StatusOK, links)
}

// VideoIDs lists the video identifiers among a category's links.
func (h *GetHandler) VideoIDs(res http.ResponseWriter, req *http.Request) {
	ctx, cancel := context.WithTimeout(req.Context(), 3*time.Second)
	defer cancel()

	ids, err := h.service.VideoIDs(ctx, chi.URLParam(req, "categoryID"))
	if err != nil {
		writeServiceError(res, err, h.logger)
		return
	}

	writeJSON(res, http.StatusOK, models.VideoIDsResponse{VideoIDs: ids})
}

func (h *GetHandler) PingDB(res http.ResponseWriter, req *http.Request) {
	ctx, cancel := context.WithTimeout(req.Context(), 3*time.Second)
	defer cancel()
	if err := h.service.PingContext(ctx); err != nil {
		http.Error(res, err.Error(), http.StatusInternalServerError)
		return
	}

	res.WriteHeader(http.StatusOK)
}

// Stats reports how many links are in each preview status.
func (h *GetHandler) Stats(res http.ResponseWriter, req *http.Request) {
	ctx, cancel := context.WithTimeout(req.Context(), 3*time.Second)
	defer cancel()

	stats, err := h.service.Stats(ctx)
	if err != nil {
		writeServiceError(res, err, h.logger)
		return
	}

	writeJSON(res, http.StatusOK, stats)
}
