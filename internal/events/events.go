// Package events defines the outbound contract between the timeline engine
// and its host. The engine never mutates the segment list itself; every
// change is proposed as one of these values and the host re-supplies an
// updated snapshot on the next frame.
package events

// Event is one outbound request to the host.
type Event interface {
	isEvent()
}

// Seek asks the audio player to jump to Time (seconds).
type Seek struct {
	Time float64
}

// UpdateSegment proposes new bounds for one segment.
type UpdateSegment struct {
	ID      int
	StartMs int64
	EndMs   int64
}

// UpdateSegments proposes new bounds for several segments at once.
type UpdateSegments struct {
	Batch []UpdateSegment
}

// SelectSegments reports the new selection set.
type SelectSegments struct {
	IDs []int
}

// SplitSegment asks the host to split ID into two at AtMs.
type SplitSegment struct {
	ID   int
	AtMs int64
}

// DragStart opens an editable transaction for undo grouping.
type DragStart struct {
	IDs []int
}

// DragEnd closes the transaction opened by DragStart.
type DragEnd struct{}

// DeleteSelected asks the host to delete the given segments.
type DeleteSelected struct {
	IDs []int
}

// RequestMerge asks the host to merge the current selection.
type RequestMerge struct{}

// RequestAlignToWaveform asks the host to fit the selection to detected voice.
type RequestAlignToWaveform struct{}

// RequestToggleSnap asks the host to flip the snapping preference.
type RequestToggleSnap struct{}

func (Seek) isEvent()                   {}
func (UpdateSegment) isEvent()          {}
func (UpdateSegments) isEvent()         {}
func (SelectSegments) isEvent()         {}
func (SplitSegment) isEvent()           {}
func (DragStart) isEvent()              {}
func (DragEnd) isEvent()                {}
func (DeleteSelected) isEvent()         {}
func (RequestMerge) isEvent()           {}
func (RequestAlignToWaveform) isEvent() {}
func (RequestToggleSnap) isEvent()      {}
