package editor

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEffectiveDurationFallbackChain(t *testing.T) {
	override := 20
	video := MediaContent(Media{Name: "clip", Type: "video", Duration: 35})
	image := MediaContent(Media{Name: "still", Type: "image"})

	tests := []struct {
		name            string
		item            PlaylistItem
		playlistDefault int
		want            int
	}{
		{"override wins", PlaylistItem{Duration: &override, Content: &video}, 8, 20},
		{"intrinsic duration", PlaylistItem{Content: &video}, 8, 35},
		{"playlist default", PlaylistItem{Content: &image}, 8, 8},
		{"fixed fallback", PlaylistItem{Content: &image}, 0, DefaultItemDuration},
		{"no snapshot", PlaylistItem{}, 0, DefaultItemDuration},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.item.EffectiveDuration(tt.playlistDefault))
		})
	}
}

func TestContentVariants(t *testing.T) {
	c := LayoutContent(Layout{Name: "menu", Orientation: "portrait"})
	assert.Equal(t, ItemTypeLayout, c.Kind)
	assert.Nil(t, c.Media)
	assert.Equal(t, "menu", c.Name())
	assert.Zero(t, c.IntrinsicDuration())

	assert.True(t, ItemTypeMedia.Valid())
	assert.False(t, ItemType("widget").Valid())
}
