package slotgrid

import (
	"errors"

	"github.com/google/uuid"

	"github.com/venuedesk/venuedesk-api/internal/pkg/timeutil"
)

// Mode selects how pointer input is interpreted.
type Mode string

const (
	ModeClick Mode = "click"
	ModeDrag  Mode = "drag"
)

// DragType distinguishes the active drag interaction.
type DragType string

const (
	DragNew         DragType = "new"
	DragMove        DragType = "move"
	DragResizeStart DragType = "resize-start"
	DragResizeEnd   DragType = "resize-end"
)

// Edge identifies which handle of a block a resize grabs.
type Edge string

const (
	EdgeStart Edge = "start"
	EdgeEnd   Edge = "end"
)

const minDurationMinutes = 30

var (
	ErrInvalidSlotSize = errors.New("slot size must be 15, 30 or 60 minutes")
	ErrInvalidGrid     = errors.New("grid close must be after open")
)

// Interval is a half-open [Start, End) span in minutes from midnight.
type Interval struct {
	Start int
	End   int
}

// Duration returns the interval length in minutes.
func (i Interval) Duration() int { return i.End - i.Start }

// Times renders the interval as ("HH:MM", "HH:MM").
func (i Interval) Times() (string, string) {
	return timeutil.FromMinutes(i.Start), timeutil.FromMinutes(i.End)
}

// Selection is the committed outcome of one completed interaction.
type Selection struct {
	VenueID uuid.UUID
	Start   int
	End     int
}

type stateKind int

const (
	stateIdle stateKind = iota
	stateClickPending
	stateDragging
)

// Editor is the slot-grid selection state machine. All positions are
// minutes from midnight; callers translate pixels to minutes before
// feeding events in. The editor is single-threaded by contract.
//
// Every completed interaction commits exactly once, through the return
// value of the committing event (second click, or pointer-up). Between
// events Preview reports the current candidate interval, if any.
type Editor struct {
	openMin  int
	closeMin int
	slotMin  int

	mode  Mode
	state stateKind

	venueID uuid.UUID

	// click mode
	anchor int

	// drag mode
	dragType DragType
	grabbed  int // pointer offset into the block at grab, minutes

	preview    Interval
	hasPreview bool
}

// NewEditor creates an editor over a venue-local grid spanning
// [openMin, closeMin) minutes from midnight.
func NewEditor(openMin, closeMin, slotMin int) (*Editor, error) {
	if closeMin <= openMin {
		return nil, ErrInvalidGrid
	}
	if !validSlotSize(slotMin) {
		return nil, ErrInvalidSlotSize
	}
	return &Editor{
		openMin:  openMin,
		closeMin: closeMin,
		slotMin:  slotMin,
		mode:     ModeClick,
	}, nil
}

func validSlotSize(m int) bool {
	return m == 15 || m == 30 || m == 60
}

// Mode returns the active interaction mode.
func (e *Editor) Mode() Mode { return e.mode }

// SlotSize returns the grid discretization in minutes.
func (e *Editor) SlotSize() int { return e.slotMin }

// Preview returns the current candidate interval. ok is false when no
// selection is in progress.
func (e *Editor) Preview() (Interval, bool) {
	return e.preview, e.hasPreview
}

// SetMode switches between click and drag interaction. Any pending
// selection is discarded.
func (e *Editor) SetMode(m Mode) {
	if m != ModeClick && m != ModeDrag {
		return
	}
	e.mode = m
	e.reset()
}

// SetSlotSize changes the grid discretization. A pending selection no
// longer lines up with the new grid, so it is discarded too.
func (e *Editor) SetSlotSize(m int) error {
	if !validSlotSize(m) {
		return ErrInvalidSlotSize
	}
	e.slotMin = m
	e.reset()
	return nil
}

func (e *Editor) reset() {
	e.state = stateIdle
	e.hasPreview = false
	e.preview = Interval{}
}

// snap floors a pointer position to its slot boundary and clamps it to
// the last slot that still fits inside the grid.
func (e *Editor) snap(min int) int {
	if min < e.openMin {
		min = e.openMin
	}
	if max := e.closeMin - e.slotMin; min > max {
		min = max
	}
	return e.openMin + ((min-e.openMin)/e.slotMin)*e.slotMin
}

// slotSpan returns the interval covered from the anchor slot to the
// target slot, order-independent: the earlier slot is always the start.
func (e *Editor) slotSpan(a, b int) Interval {
	if b < a {
		a, b = b, a
	}
	return Interval{Start: a, End: b + e.slotMin}
}

// Click handles a click on a slot in click mode. The first click
// anchors a pending selection; a second click on the same venue commits
// and returns the selection. Clicking a different venue while pending
// discards the old anchor and re-anchors there.
func (e *Editor) Click(venueID uuid.UUID, posMin int) (*Selection, bool) {
	if e.mode != ModeClick {
		return nil, false
	}
	slot := e.snap(posMin)

	switch e.state {
	case stateIdle:
		e.beginClick(venueID, slot)
		return nil, false

	case stateClickPending:
		if venueID != e.venueID {
			e.beginClick(venueID, slot)
			return nil, false
		}
		// The committed span runs from the anchor to the clicked slot,
		// whether or not a hover preview got there first.
		span := e.slotSpan(e.anchor, slot)
		sel := &Selection{VenueID: e.venueID, Start: span.Start, End: span.End}
		e.reset()
		return sel, true

	default:
		return nil, false
	}
}

func (e *Editor) beginClick(venueID uuid.UUID, slot int) {
	e.state = stateClickPending
	e.venueID = venueID
	e.anchor = slot
	e.preview = Interval{Start: slot, End: slot + e.slotMin}
	e.hasPreview = true
}

// Hover extends the live preview toward the hovered slot while a click
// selection is pending. Outside that state it is a no-op.
func (e *Editor) Hover(posMin int) {
	if e.state != stateClickPending {
		return
	}
	e.preview = e.slotSpan(e.anchor, e.snap(posMin))
}

// PointerDownEmpty begins a "new" drag on an empty slot in drag mode.
func (e *Editor) PointerDownEmpty(venueID uuid.UUID, posMin int) {
	if e.mode != ModeDrag || e.state != stateIdle {
		return
	}
	slot := e.snap(posMin)
	e.state = stateDragging
	e.dragType = DragNew
	e.venueID = venueID
	e.anchor = slot
	e.preview = Interval{Start: slot, End: slot + e.slotMin}
	e.hasPreview = true
}

// PointerDownBody begins a "move" drag on an existing block. posMin is
// the pointer position inside the block; the grab offset is remembered
// so the block stays under the pointer as it moves.
func (e *Editor) PointerDownBody(venueID uuid.UUID, block Interval, posMin int) {
	if e.mode != ModeDrag || e.state != stateIdle {
		return
	}
	grab := posMin - block.Start
	if grab < 0 {
		grab = 0
	}
	if grab > block.Duration() {
		grab = block.Duration()
	}
	e.state = stateDragging
	e.dragType = DragMove
	e.venueID = venueID
	e.grabbed = grab
	e.preview = block
	e.hasPreview = true
}

// PointerDownEdge begins a resize drag on a block's start or end handle.
func (e *Editor) PointerDownEdge(venueID uuid.UUID, block Interval, edge Edge) {
	if e.mode != ModeDrag || e.state != stateIdle {
		return
	}
	e.state = stateDragging
	if edge == EdgeStart {
		e.dragType = DragResizeStart
	} else {
		e.dragType = DragResizeEnd
	}
	e.venueID = venueID
	e.preview = block
	e.hasPreview = true
}

// PointerMove updates the drag preview from the latest pointer
// position. Dropping intermediate moves never changes the committed
// result; only the last position before pointer-up matters.
func (e *Editor) PointerMove(posMin int) {
	if e.state != stateDragging {
		return
	}

	switch e.dragType {
	case DragNew:
		e.preview = e.slotSpan(e.anchor, e.snap(posMin))

	case DragMove:
		duration := e.preview.Duration()
		start := e.snap(posMin - e.grabbed)
		// Clamp so the block never crosses the grid bounds.
		if start < e.openMin {
			start = e.openMin
		}
		if start+duration > e.closeMin {
			start = e.closeMin - duration
		}
		e.preview = Interval{Start: start, End: start + duration}

	case DragResizeStart:
		start := e.snap(posMin)
		if e.preview.End-start < minDurationMinutes {
			return
		}
		e.preview.Start = start

	case DragResizeEnd:
		// End positions snap to the boundary above the pointer slot.
		end := e.snap(posMin) + e.slotMin
		if end-e.preview.Start < minDurationMinutes {
			return
		}
		e.preview.End = end
	}
}

// PointerUp commits the in-progress drag using the last preview.
// Releasing outside the grid behaves identically to releasing inside.
func (e *Editor) PointerUp() (*Selection, bool) {
	if e.state != stateDragging {
		return nil, false
	}
	sel := &Selection{VenueID: e.venueID, Start: e.preview.Start, End: e.preview.End}
	e.reset()
	return sel, true
}
