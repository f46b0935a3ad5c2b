// Package server mounts the HTTP API of the link service on a chi router.
package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/atinyakov/bearlink/internal/app/handler"
	"github.com/atinyakov/bearlink/internal/app/service"
	"github.com/atinyakov/bearlink/internal/middleware"
)

// RoomStream upgrades room subscriptions to WebSocket connections.
type RoomStream interface {
	ServeWS(w http.ResponseWriter, r *http.Request)
}

func Init(
	s service.LinkServiceIface,
	auth service.AuthIface,
	rooms RoomStream,
	logger *zap.Logger,
	trustedSubnet string,
) *chi.Mux {
	get := handler.NewGet(s, logger)
	post := handler.NewPost(s, logger)
	put := handler.NewPut(s, logger)
	del := handler.NewDelete(s, logger)

	r := chi.NewRouter()
	r.Use(middleware.WithRequestLogging(logger))

	r.Get("/ping", get.PingDB)

	if rooms != nil {
		r.Get("/ws/rooms/{roomID}", rooms.ServeWS)
	}

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.Decompress)
		r.Use(middleware.Compress)

		r.With(middleware.WithSubnet(trustedSubnet)).Get("/internal/stats", get.Stats)

		r.Group(func(r chi.Router) {
			r.Use(middleware.WithJWT(auth))

			r.Post("/categories", post.Category)
			r.Post("/rooms", post.Room)

			r.Route("/categories/{categoryID}/links", func(r chi.Router) {
				r.Post("/", post.CategoryLink)
				r.Get("/", get.CategoryLinks)
				r.Get("/video-ids", get.VideoIDs)
			})

			r.Route("/rooms/{roomID}/links", func(r chi.Router) {
				r.Post("/", post.RoomLink)
				r.Get("/", get.RoomLinks)
			})

			r.Route("/links/{linkID}", func(r chi.Router) {
				r.Get("/", get.Link)
				r.Put("/", put.Title)
				r.Delete("/", del.Link)
			})
		})
	})

	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "Route not found", http.StatusNotFound)
	})

	return r
}
