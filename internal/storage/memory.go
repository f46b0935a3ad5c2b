package storage

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/atinyakov/bearlink/internal/models"
)

type memoryLink struct {
	link         models.Link
	claimedUntil time.Time
	seq          int
}

// MemoryStorage is the link store used when no database is configured.
type MemoryStorage struct {
	mu         sync.Mutex
	links      map[string]*memoryLink
	categories map[string]models.Category
	rooms      map[string]models.Room
	seq        int
	now        func() time.Time
}

func CreateMemoryStorage() *MemoryStorage {
	return &MemoryStorage{
		links:      make(map[string]*memoryLink),
		categories: make(map[string]models.Category),
		rooms:      make(map[string]models.Room),
		now:        time.Now,
	}
}

// WithClock replaces the time source used for creation times and leases.
func (m *MemoryStorage) WithClock(now func() time.Time) *MemoryStorage {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.now = now
	return m
}

func (m *MemoryStorage) CreateCategory(_ context.Context, c models.Category) (*models.Category, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	c.CreatedAt = m.now()
	m.categories[c.ID] = c
	return &c, nil
}

func (m *MemoryStorage) CreateRoom(_ context.Context, r models.Room) (*models.Room, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	r.CreatedAt = m.now()
	m.rooms[r.ID] = r
	return &r, nil
}

func (m *MemoryStorage) CategoryExists(_ context.Context, id string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.categories[id]
	return ok, nil
}

func (m *MemoryStorage) RoomExists(_ context.Context, id string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.rooms[id]
	return ok, nil
}

func (m *MemoryStorage) CreateLink(_ context.Context, l models.Link) (*models.Link, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	switch {
	case l.CategoryID != "":
		if _, ok := m.categories[l.CategoryID]; !ok {
			return nil, ErrContainerNotFound
		}
	case l.RoomID != "":
		if _, ok := m.rooms[l.RoomID]; !ok {
			return nil, ErrContainerNotFound
		}
	default:
		return nil, ErrContainerNotFound
	}

	if l.ID == "" {
		l.ID = uuid.NewString()
	}
	l.Status = models.StatusPending
	l.CreatedAt = m.now()
	l.ThumbnailURL = nil

	m.seq++
	m.links[l.ID] = &memoryLink{link: l, seq: m.seq}
	return copyLink(l), nil
}

func (m *MemoryStorage) GetByID(_ context.Context, id string) (*models.Link, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	ml, ok := m.links[id]
	if !ok {
		return nil, ErrNotFound
	}
	return copyLink(ml.link), nil
}

func (m *MemoryStorage) list(match func(models.Link) bool) []models.Link {
	m.mu.Lock()
	defer m.mu.Unlock()

	var found []*memoryLink
	for _, ml := range m.links {
		if match(ml.link) {
			found = append(found, ml)
		}
	}
	sort.Slice(found, func(i, j int) bool { return found[i].seq < found[j].seq })

	out := make([]models.Link, 0, len(found))
	for _, ml := range found {
		out = append(out, *copyLink(ml.link))
	}
	return out
}

func (m *MemoryStorage) ListByCategory(_ context.Context, categoryID string) ([]models.Link, error) {
	return m.list(func(l models.Link) bool { return l.CategoryID == categoryID }), nil
}

func (m *MemoryStorage) ListByRoom(_ context.Context, roomID string) ([]models.Link, error) {
	return m.list(func(l models.Link) bool { return l.RoomID == roomID }), nil
}

func (m *MemoryStorage) UpdateTitle(_ context.Context, id string, title *string) (*models.Link, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	ml, ok := m.links[id]
	if !ok {
		return nil, ErrNotFound
	}
	ml.link.Title = cloneString(title)
	return copyLink(ml.link), nil
}

func (m *MemoryStorage) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.links[id]; !ok {
		return ErrNotFound
	}
	delete(m.links, id)
	return nil
}

func (m *MemoryStorage) CountByStatus(_ context.Context) (models.Stats, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var s models.Stats
	for _, ml := range m.links {
		switch ml.link.Status {
		case models.StatusPending:
			s.Pending++
		case models.StatusComplete:
			s.Complete++
		case models.StatusFailed:
			s.Failed++
		}
	}
	return s, nil
}

func (m *MemoryStorage) claimable(ml *memoryLink, now time.Time) bool {
	return ml.link.Status == models.StatusPending && !now.Before(ml.claimedUntil)
}

func (m *MemoryStorage) ClaimByID(_ context.Context, id string, lease time.Duration) (*models.Link, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	ml, ok := m.links[id]
	if !ok {
		return nil, ErrNotFound
	}
	now := m.now()
	if !m.claimable(ml, now) {
		return nil, ErrNotClaimable
	}
	ml.claimedUntil = now.Add(lease)
	return copyLink(ml.link), nil
}

func (m *MemoryStorage) ClaimOldestPending(_ context.Context, lease time.Duration) (*models.Link, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	var oldest *memoryLink
	for _, ml := range m.links {
		if m.claimable(ml, now) && (oldest == nil || ml.seq < oldest.seq) {
			oldest = ml
		}
	}
	if oldest == nil {
		return nil, ErrNoPending
	}
	oldest.claimedUntil = now.Add(lease)
	return copyLink(oldest.link), nil
}

func (m *MemoryStorage) UpdateResolution(_ context.Context, id string, title, thumbnailURL *string, status models.Status) error {
	if !status.Terminal() {
		return ErrInvalidStatus
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	ml, ok := m.links[id]
	if !ok {
		return ErrNotFound
	}
	if ml.link.Status != models.StatusPending {
		if ml.link.Status == status {
			return nil
		}
		return ErrStatusConflict
	}

	if !ml.link.HasTitle() && title != nil {
		ml.link.Title = cloneString(title)
	}
	if thumbnailURL != nil {
		ml.link.ThumbnailURL = cloneString(thumbnailURL)
	}
	ml.link.Status = status
	ml.claimedUntil = time.Time{}
	return nil
}

func (m *MemoryStorage) PingContext(context.Context) error {
	return nil
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}

func copyLink(l models.Link) *models.Link {
	l.Title = cloneString(l.Title)
	l.ThumbnailURL = cloneString(l.ThumbnailURL)
	return &l
}

var _ LinkStore = (*MemoryStorage)(nil)
