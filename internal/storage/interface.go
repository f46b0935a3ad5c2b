package storage

import (
	"context"
	"time"

	"github.com/atinyakov/bearlink/internal/models"
)

// LinkStore is the link record store. MemoryStorage and the PostgreSQL
// repository implement it.
type LinkStore interface {
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

	// ClaimByID leases one PENDING link to the caller for lease.
	ClaimByID(ctx context.Context, id string, lease time.Duration) (*models.Link, error)
	// ClaimOldestPending leases the oldest unclaimed PENDING link.
	ClaimOldestPending(ctx context.Context, lease time.Duration) (*models.Link, error)
	// UpdateResolution records the outcome of a claim. title is written
	// only when the link has none and a nil thumbnail keeps the stored
	// value. Repeating the same terminal status is a no-op.
	UpdateResolution(ctx context.Context, id string, title, thumbnailURL *string, status models.Status) error

	PingContext(ctx context.Context) error
}
