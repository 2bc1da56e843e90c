package editor

// Overscan is the number of extra rows rendered beyond the viewport on
// each side, to reduce pop-in during fast scrolling.
const Overscan = 2

// Window describes a virtualized grid with a fixed per-row pixel height
// and a fixed number of items per row.
type Window struct {
	RowHeight   int
	ItemsPerRow int
}

// VisibleRange computes the [start, end) item index range that must be
// rendered for the given scroll offset and viewport height. Start is
// always aligned to a row boundary. Pure function; throttling of scroll
// events is the caller's concern.
func (w Window) VisibleRange(scrollTop, viewportHeight, itemCount int) (start, end int) {
	if itemCount <= 0 || w.RowHeight <= 0 || w.ItemsPerRow <= 0 {
		return 0, 0
	}
	if scrollTop < 0 {
		scrollTop = 0
	}
	if viewportHeight < 0 {
		viewportHeight = 0
	}

	firstRow := scrollTop/w.RowHeight - Overscan
	if firstRow < 0 {
		firstRow = 0
	}
	lastRow := (scrollTop+viewportHeight+w.RowHeight-1)/w.RowHeight + Overscan

	start = firstRow * w.ItemsPerRow
	end = lastRow * w.ItemsPerRow
	if end > itemCount {
		end = itemCount
	}
	if start > end {
		start = end
	}
	return start, end
}
