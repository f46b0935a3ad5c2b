package service

import (
	"context"

	"github.com/atinyakov/bearlink/internal/models"
)

// Storage is the part of the link store the service needs.
type Storage interface {
	CreateCategory(ctx context.Context, c models.Category) (*models.Category, error)
	CreateRoom(ctx context.Context, r models.Room) (*models.Room, error)
	CategoryExists(ctx context.Context, id string) (bool, error)
	RoomExists(ctx context.Context, id string) (bool, error)
	CreateLink(ctx context.Context, l models.Link) (*models.Link, error)
	GetByID(ctx context.Context, id string) (*models.Link, error)
	ListByCategory(ctx context.Context, categoryID string) ([]models.Link, error)
	ListByRoom(ctx context.Context, roomID string) ([]models.Link, error)
	UpdateTitle(ctx context.Context, id string, title *string) (*models.Link, error)
	Delete(ctx context.Context, id string) error
	CountByStatus(ctx context.Context) (models.Stats, error)
	PingContext(ctx context.Context) error
}

type Guard interface {
	TryClaim(ctx context.Context, url string) (bool, error)
}

type Queue interface {
	Push(ctx context.Context, linkID string) error
}

// Publisher delivers room events to connected clients.
type Publisher interface {
	Publish(event models.RoomEvent)
}

// LinkServiceIface is what the HTTP and gRPC layers call.
type LinkServiceIface interface {
	CreateCategory(ctx context.Context, userID, name string) (*models.Category, error)
	CreateRoom(ctx context.Context, userID, name string) (*models.Room, error)
	CreateCategoryLink(ctx context.Context, userID, categoryID string, req models.CreateLinkRequest) (*models.Link, error)
	CreateRoomLink(ctx context.Context, userID, roomID string, req models.CreateLinkRequest) (*models.Link, error)
	GetLink(ctx context.Context, id string) (*models.Link, error)
	ListCategoryLinks(ctx context.Context, categoryID string) ([]models.Link, error)
	ListRoomLinks(ctx context.Context, roomID string) ([]models.Link, error)
	VideoIDs(ctx context.Context, categoryID string) ([]string, error)
	UpdateTitle(ctx context.Context, userID, id string, title string) (*models.Link, error)
	DeleteLink(ctx context.Context, userID, id string) error
	Stats(ctx context.Context) (models.Stats, error)
	PingContext(ctx context.Context) error
}
