package models

import (
	"strings"
	"time"
)

// Status is the preview lifecycle state of a link.
type Status string

const (
	StatusPending  Status = "PENDING"
	StatusComplete Status = "COMPLETE"
	StatusFailed   Status = "FAILED"
)

// Terminal reports whether the status can no longer change.
func (s Status) Terminal() bool {
	return s == StatusComplete || s == StatusFailed
}

// Valid reports whether s is one of the known statuses.
func (s Status) Valid() bool {
	return s == StatusPending || s.Terminal()
}

// Link is a user-submitted URL attached to exactly one category or room.
type Link struct {
	ID           string    `json:"id"`
	UserID       string    `json:"user_id"`
	CategoryID   string    `json:"category_id,omitempty"`
	RoomID       string    `json:"room_id,omitempty"`
	URL          string    `json:"url"`
	Title        *string   `json:"title"`
	ThumbnailURL *string   `json:"thumbnail_url"`
	Status       Status    `json:"preview_status"`
	CreatedAt    time.Time `json:"created_at"`
}

// ContainerID returns the category or room the link belongs to.
func (l Link) ContainerID() string {
	if l.RoomID != "" {
		return l.RoomID
	}
	return l.CategoryID
}

// HasTitle reports whether the link carries a non-blank title.
func (l Link) HasTitle() bool {
	return l.Title != nil && strings.TrimSpace(*l.Title) != ""
}

// Preview is the metadata derived for a URL. Both fields are optional.
type Preview struct {
	Title        *string `json:"title,omitempty"`
	ThumbnailURL *string `json:"thumbnail_url,omitempty"`
}

// Empty reports whether the preview carries no usable field.
func (p *Preview) Empty() bool {
	if p == nil {
		return true
	}
	return blank(p.Title) && blank(p.ThumbnailURL)
}

func blank(s *string) bool {
	return s == nil || strings.TrimSpace(*s) == ""
}

// StringPtr returns a pointer to s, or nil when s is blank.
func StringPtr(s string) *string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return &s
}

// Stats counts links per preview status.
type Stats struct {
	Pending  int `json:"pending"`
	Complete int `json:"complete"`
	Failed   int `json:"failed"`
}

// Category is a user's private folder of links.
type Category struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// Room is a shared space whose members see each other's links live.
type Room struct {
	ID        string    `json:"id"`
	OwnerID   string    `json:"owner_id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}
