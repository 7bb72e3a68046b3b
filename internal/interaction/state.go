package interaction

// State is the pointer gesture currently in progress.
type State int

const (
	Idle State = iota
	DraggingMove
	DraggingBatchMove
	ResizingLeft
	ResizingRight
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case DraggingMove:
		return "dragging-move"
	case DraggingBatchMove:
		return "dragging-batch-move"
	case ResizingLeft:
		return "resizing-left"
	case ResizingRight:
		return "resizing-right"
	default:
		return "unknown"
	}
}

// Zone is the part of a segment under the pointer.
type Zone int

const (
	ZoneNone Zone = iota
	ZoneBody
	ZoneLeftHandle
	ZoneRightHandle
)

// Command is a keyboard action routed through the controller.
type Command int

const (
	CmdDelete Command = iota
	CmdMerge
	CmdAlign
	CmdToggleSnap
	CmdCancel
)

type span struct {
	start, end int64
}

// session is the transient state of one drag or resize. orig is captured
// at pointer-down and every frame is computed from it, never from the live
// snapshot, so repeated frames cannot drift.
type session struct {
	state   State
	id      int // pressed segment
	ids     []int
	orig    map[int]span
	last    map[int]span
	exclude map[int]bool
	startX  float64
	started bool // DragStart emitted

	// collapse is set when a plain press lands on an already multi-selected
	// segment; releasing without moving narrows the selection to it.
	collapse bool
}

func newSession(state State, id int, ids []int, orig map[int]span, x float64) *session {
	exclude := make(map[int]bool, len(ids))
	for _, id := range ids {
		exclude[id] = true
	}
	return &session{
		state:   state,
		id:      id,
		ids:     ids,
		orig:    orig,
		last:    make(map[int]span, len(ids)),
		exclude: exclude,
		startX:  x,
	}
}

// groupSpan is the smallest span covering every original bound.
func (s *session) groupSpan() span {
	g := span{start: s.orig[s.ids[0]].start, end: s.orig[s.ids[0]].end}
	for _, id := range s.ids[1:] {
		g.start = min(g.start, s.orig[id].start)
		g.end = max(g.end, s.orig[id].end)
	}
	return g
}
