// Package models defines the link records and the request and response
// data structures exchanged with clients of the link service.
package models

// CreateLinkRequest represents a request to save a URL into a category or room.
type CreateLinkRequest struct {
	// URL is the address being saved.
	URL string `json:"url"`

	// Title is an optional user-supplied title. Resolution never overwrites it.
	Title string `json:"title,omitempty"`
}

// UpdateTitleRequest represents a request to rename a saved link.
type UpdateTitleRequest struct {
	// Title is the new title. A blank value clears it.
	Title string `json:"title"`
}

// VideoIDsResponse lists the video identifiers found among a category's links.
type VideoIDsResponse struct {
	// VideoIDs holds identifiers in link creation order.
	VideoIDs []string `json:"video_ids"`
}

// EventType names a change delivered to room subscribers.
type EventType string

const (
	EventLinkAdd     EventType = "LINK_ADD"
	EventLinkUpdate  EventType = "LINK_UPDATE"
	EventLinkDelete  EventType = "LINK_DELETE"
	EventLinkPreview EventType = "LINK_PREVIEW"
)

// RoomEvent is pushed to every socket subscribed to a room.
type RoomEvent struct {
	// Type is the kind of change.
	Type EventType `json:"type"`

	// RoomID identifies the room the link belongs to.
	RoomID string `json:"room_id"`

	// Link is the link after the change. For deletions only the ID is set.
	Link Link `json:"link"`
}

// CreateContainerRequest represents a request to create a category or room.
type CreateContainerRequest struct {
	// Name is the display name.
	Name string `json:"name"`
}
