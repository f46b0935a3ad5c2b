package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/atinyakov/bearlink/internal/app/service"
)

type DeleteHandler struct {
	service service.LinkServiceIface
	logger  *zap.Logger
}

func NewDelete(s service.LinkServiceIface, l *zap.Logger) *DeleteHandler {
	return &DeleteHandler{
		service: s,
		logger:  l,
	}
}

func (h *DeleteHandler) Link(res http.ResponseWriter, req *http.Request) {
	ctx, cancel := context.WithTimeout(req.Context(), 3*time.Second)
	defer cancel()

	userID, ok := userIDFrom(req)
	if !ok {
		http.Error(res, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
		return
	}

	linkID := chi.URLParam(req, "linkID")
	if err := h.service.DeleteLink(ctx, userID, linkID); err != nil {
		writeServiceError(res, err, h.logger)
		return
	}

	h.logger.Info("link deleted", zap.String("link_id", linkID))
	res.WriteHeader(http.StatusNoContent)
}
