package editor

import (
	"context"
)

// DragOrigin identifies where an active drag started.
type DragOrigin string

const (
	OriginNone    DragOrigin = ""
	OriginReorder DragOrigin = "reorder"
	OriginLibrary DragOrigin = "library"
)

// NoHover marks the absence of an insertion indicator.
const NoHover = -1

// The two session kinds are kept as distinct variants rather than a
// boolean flag: a reorder must adjust the drop slot for the removed item,
// a library insert must not, and conflating the paths is a known source of
// off-by-one bugs.
type dragSession interface {
	origin() DragOrigin
}

type reorderDrag struct {
	sourceIndex int
}

func (reorderDrag) origin() DragOrigin { return OriginReorder }

type libraryDrag struct {
	contentRef string
	itemType   ItemType
}

func (libraryDrag) origin() DragOrigin { return OriginLibrary }

// DragController translates pointer drag events into discrete reorder and
// insert intents against a Store. At most one session is active at a time;
// drop, drag-end and cancel all reset it regardless of mutation outcome.
//
// Slot indices passed to DragOver and Drop count the insertion gaps of the
// timeline: slot i sits before the item currently at index i, and slot
// len(items) is the end.
type DragController struct {
	store *Store

	session    dragSession
	hoverIndex int
	// Last observed hover slot, tracked separately so redundant dragover
	// events do not emit state changes.
	lastHover int
}

func NewDragController(store *Store) *DragController {
	return &DragController{store: store, hoverIndex: NoHover, lastHover: NoHover}
}

// StartReorder begins moving the existing timeline item at sourceIndex.
func (c *DragController) StartReorder(sourceIndex int) error {
	if c.session != nil {
		return ErrDragActive
	}
	if sourceIndex < 0 || sourceIndex >= c.store.Len() {
		return ErrIndexOutOfRange
	}
	c.session = reorderDrag{sourceIndex: sourceIndex}
	return nil
}

// StartLibraryDrag begins dragging unplaced content from the library panel.
func (c *DragController) StartLibraryDrag(contentRef string, itemType ItemType) error {
	if c.session != nil {
		return ErrDragActive
	}
	if !itemType.Valid() {
		return ErrInvalidItemType
	}
	c.session = libraryDrag{contentRef: contentRef, itemType: itemType}
	return nil
}

// DragOver records the slot under the pointer and reports whether the
// observed value differs from the last one, so callers only re-render on
// real changes. The slot of the drag source itself never shows an
// indicator.
func (c *DragController) DragOver(slot int) bool {
	if c.session == nil {
		return false
	}
	if r, ok := c.session.(reorderDrag); ok && slot == r.sourceIndex {
		slot = NoHover
	}
	if slot == c.lastHover {
		return false
	}
	c.lastHover = slot
	c.hoverIndex = slot
	return true
}

// DragLeave handles the pointer leaving the drop container. A library drag
// ends entirely (there is nothing to return to); a reorder keeps its
// session and only clears the indicator. The caller filters the spurious
// leave events fired when moving between children of the container.
// Reports whether visible state changed.
func (c *DragController) DragLeave() bool {
	if c.session == nil {
		return false
	}
	if c.session.origin() == OriginLibrary {
		c.reset()
		return true
	}
	changed := c.hoverIndex != NoHover
	c.hoverIndex = NoHover
	c.lastHover = NoHover
	return changed
}

// Drop applies the session's intent at the given slot and always returns
// the controller to idle; mutation failures are reported by the Store
// operation itself, not by the controller.
func (c *DragController) Drop(ctx context.Context, slot int) error {
	session := c.session
	c.reset()

	switch d := session.(type) {
	case reorderDrag:
		// Once the source is removed, slots after it shift down by one.
		target := slot
		if slot > d.sourceIndex {
			target = slot - 1
		}
		return c.store.Reorder(ctx, d.sourceIndex, target)
	case libraryDrag:
		_, err := c.store.InsertAt(ctx, slot, d.contentRef, d.itemType)
		return err
	default:
		return ErrNoDrag
	}
}

// Cancel aborts the session, e.g. on drag-end without a drop.
func (c *DragController) Cancel() {
	c.reset()
}

func (c *DragController) reset() {
	c.session = nil
	c.hoverIndex = NoHover
	c.lastHover = NoHover
}

// Origin reports the active session's kind, or OriginNone.
func (c *DragController) Origin() DragOrigin {
	if c.session == nil {
		return OriginNone
	}
	return c.session.origin()
}

// HoverIndex returns the current insertion indicator slot, or NoHover.
func (c *DragController) HoverIndex() int { return c.hoverIndex }

// Active reports whether a drag session is in progress.
func (c *DragController) Active() bool { return c.session != nil }
