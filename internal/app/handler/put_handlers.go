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

type PutHandler struct {
	service service.LinkServiceIface
	logger  *zap.Logger
}

func NewPut(s service.LinkServiceIface, l *zap.Logger) *PutHandler {
	return &PutHandler{
		service: s,
		logger:  l,
	}
}

// Title renames a link owned by the caller. Status and URL are untouched.
func (h *PutHandler) Title(res http.ResponseWriter, req *http.Request) {
	ctx, cancel := context.WithTimeout(req.Context(), 3*time.Second)
	defer cancel()

	userID, ok := userIDFrom(req)
	if !ok {
		http.Error(res, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
		return
	}

	var body models.UpdateTitleRequest
	if err := decodeJSONBody(res, req, &body); err != nil {
		writeDecodeError(res, err, h.logger)
		return
	}

	link, err := h.service.UpdateTitle(ctx, userID, chi.URLParam(req, "linkID"), body.Title)
	if err != nil {
		writeServiceError(res, err, h.logger)
		return
	}

	writeJSON(res, http.StatusOK, link)
}
