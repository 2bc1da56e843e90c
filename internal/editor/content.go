package editor

// ItemType discriminates what a playlist item's ContentRef points to.
type ItemType string

const (
	ItemTypeMedia  ItemType = "media"
	ItemTypeLayout ItemType = "layout"
)

func (t ItemType) Valid() bool {
	return t == ItemTypeMedia || t == ItemTypeLayout
}

// Media is a library asset. Read-only from the editor's perspective;
// uploads and transcoding belong to the media service.
type Media struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	Type         string  `json:"type"` // "image" | "video"
	URL          string  `json:"url"`
	ThumbnailURL string  `json:"thumbnailUrl,omitempty"`
	Duration     int     `json:"duration"` // intrinsic duration in seconds, 0 when unknown
	FolderID     *string `json:"folderId,omitempty"`
}

// Layout is a zone-based screen design referenced by layout items.
type Layout struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Orientation  string `json:"orientation"` // "landscape" | "portrait"
	ThumbnailURL string `json:"thumbnailUrl,omitempty"`
}

// Content is the denormalized snapshot joined onto a playlist item at load
// time. Exactly one of Media or Layout is set, selected by Kind; consumers
// switch on Kind instead of probing optional fields.
type Content struct {
	Kind   ItemType `json:"kind"`
	Media  *Media   `json:"media,omitempty"`
	Layout *Layout  `json:"layout,omitempty"`
}

func MediaContent(m Media) Content {
	return Content{Kind: ItemTypeMedia, Media: &m}
}

func LayoutContent(l Layout) Content {
	return Content{Kind: ItemTypeLayout, Layout: &l}
}

func (c Content) Name() string {
	switch c.Kind {
	case ItemTypeMedia:
		if c.Media != nil {
			return c.Media.Name
		}
	case ItemTypeLayout:
		if c.Layout != nil {
			return c.Layout.Name
		}
	}
	return ""
}

// IntrinsicDuration returns the content's own duration in seconds, or 0
// when it has none (images, layouts).
func (c Content) IntrinsicDuration() int {
	if c.Kind == ItemTypeMedia && c.Media != nil {
		return c.Media.Duration
	}
	return 0
}
