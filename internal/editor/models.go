package editor

import (
	"time"
)

// DefaultItemDuration is the final fallback when neither the item, its
// content, nor the playlist specify a duration.
const DefaultItemDuration = 10

// Bounds for per-item duration overrides, in seconds.
const (
	MinItemDuration = 1
	MaxItemDuration = 3600
)

// ApprovalStatus of a playlist. Transitions are driven by the approval
// subsystem; the editor only stores and displays the value.
type ApprovalStatus string

const (
	ApprovalDraft    ApprovalStatus = "draft"
	ApprovalInReview ApprovalStatus = "in_review"
	ApprovalApproved ApprovalStatus = "approved"
	ApprovalRejected ApprovalStatus = "rejected"
)

// Playlist represents playlist metadata. Items are modelled separately and
// ordered by Position.
type Playlist struct {
	ID              string         `json:"id"`
	OwnerID         string         `json:"ownerId"`
	Name            string         `json:"name"`
	Description     string         `json:"description"`
	Shuffle         bool           `json:"shuffle"`
	Loop            bool           `json:"loop"`
	DefaultDuration int            `json:"defaultDuration"` // seconds
	ApprovalStatus  ApprovalStatus `json:"approvalStatus"`
	CreatedAt       time.Time      `json:"createdAt"`
}

// PlaylistItem belongs to a playlist. Positions are 0-based and dense: at
// rest they are exactly {0..count-1} with no gaps or duplicates.
type PlaylistItem struct {
	ID         string    `json:"id"`
	PlaylistID string    `json:"playlistId"`
	ItemType   ItemType  `json:"itemType"`
	ContentRef string    `json:"contentRef"`
	Position   int       `json:"position"`
	Duration   *int      `json:"duration,omitempty"` // override in seconds
	CreatedAt  time.Time `json:"createdAt"`

	Content *Content `json:"content,omitempty"` // joined at load time
}

// EffectiveDuration resolves the item's play duration: explicit override,
// then the content's intrinsic duration, then the playlist default, then
// DefaultItemDuration.
func (it PlaylistItem) EffectiveDuration(playlistDefault int) int {
	if it.Duration != nil && *it.Duration > 0 {
		return *it.Duration
	}
	if it.Content != nil {
		if d := it.Content.IntrinsicDuration(); d > 0 {
			return d
		}
	}
	if playlistDefault > 0 {
		return playlistDefault
	}
	return DefaultItemDuration
}
