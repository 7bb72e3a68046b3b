package app

import (
	"slices"
	"strings"

	"github.com/jwulff/waveline/internal/events"
	"github.com/jwulff/waveline/internal/segment"
	"github.com/jwulff/waveline/internal/split"
)

// Document is the editor's working copy of a project's segments. The
// timeline engine only proposes changes; Document applies them and keeps a
// linear undo history, one entry per transaction.
type Document struct {
	segs       []segment.Segment
	durationMs int64
	nextID     int

	undo    [][]segment.Segment
	redo    [][]segment.Segment
	inTx    bool
	txSaved bool // the open transaction has pushed its undo entry
}

// NewDocument copies snap into a new document.
func NewDocument(snap segment.Snapshot) *Document {
	d := &Document{
		segs:       slices.Clone(snap.Segments),
		durationMs: snap.DurationMs,
	}
	for _, seg := range d.segs {
		d.nextID = max(d.nextID, seg.ID+1)
	}
	return d
}

// Snapshot returns an immutable view for the next frame.
func (d *Document) Snapshot() segment.Snapshot {
	return segment.NewSnapshot(slices.Clone(d.segs), d.durationMs)
}

// Len returns the number of segments.
func (d *Document) Len() int { return len(d.segs) }

// CanUndo reports whether there is anything to undo.
func (d *Document) CanUndo() bool { return len(d.undo) > 0 }

func (d *Document) index(id int) int {
	return slices.IndexFunc(d.segs, func(s segment.Segment) bool { return s.ID == id })
}

func (d *Document) checkpoint() {
	if d.inTx {
		if d.txSaved {
			return
		}
		d.txSaved = true
	}
	d.undo = append(d.undo, slices.Clone(d.segs))
	d.redo = nil
}

// Begin opens a transaction; every change until End undoes as one step.
// A transaction with no applied change leaves no undo entry.
func (d *Document) Begin() {
	if d.inTx {
		return
	}
	d.inTx = true
	d.txSaved = false
}

// End closes the open transaction.
func (d *Document) End() { d.inTx = false }

func (d *Document) valid(startMs, endMs int64) bool {
	if startMs < 0 || endMs-startMs < segment.MinDurationMs {
		return false
	}
	return d.durationMs <= 0 || endMs <= d.durationMs
}

// Update applies one bound change. Invalid bounds are refused.
func (d *Document) Update(u events.UpdateSegment) bool {
	return d.UpdateBatch([]events.UpdateSegment{u})
}

// UpdateBatch applies bound changes atomically: if any is invalid none
// are applied.
func (d *Document) UpdateBatch(batch []events.UpdateSegment) bool {
	idx := make([]int, len(batch))
	for i, u := range batch {
		idx[i] = d.index(u.ID)
		if idx[i] < 0 || !d.valid(u.StartMs, u.EndMs) {
			return false
		}
	}
	if len(batch) == 0 {
		return false
	}
	d.checkpoint()
	for i, u := range batch {
		d.segs[idx[i]].StartMs = u.StartMs
		d.segs[idx[i]].EndMs = u.EndMs
	}
	return true
}

// Split cuts id in two at atMs, dividing its text proportionally. Cuts
// that leave a part under the minimum duration are refused.
func (d *Document) Split(id int, atMs int64) bool {
	i := d.index(id)
	if i < 0 {
		return false
	}
	seg := d.segs[i]
	if atMs-seg.StartMs < segment.MinDurationMs || seg.EndMs-atMs < segment.MinDurationMs {
		return false
	}
	plan, err := split.NewAt(seg, atMs)
	if err != nil {
		return false
	}
	return d.ApplyPlan(plan)
}

// ApplyPlan replaces the plan's source segment with its parts. The first
// part keeps the source id.
func (d *Document) ApplyPlan(p *split.Plan) bool {
	i := d.index(p.Source.ID)
	if i < 0 {
		return false
	}
	src := d.segs[i]
	parts := p.Parts()
	out := make([]segment.Segment, len(parts))
	for k, part := range parts {
		id := src.ID
		if k > 0 {
			id = d.nextID
			d.nextID++
		}
		out[k] = segment.Segment{ID: id, StartMs: part.StartMs, EndMs: part.EndMs, Text: part.Text, Track: src.Track}
	}
	d.checkpoint()
	d.segs = slices.Replace(d.segs, i, i+1, out...)
	return true
}

// Delete removes ids and returns how many were removed.
func (d *Document) Delete(ids []int) int {
	drop := make(map[int]bool, len(ids))
	for _, id := range ids {
		if d.index(id) >= 0 {
			drop[id] = true
		}
	}
	if len(drop) == 0 {
		return 0
	}
	d.checkpoint()
	d.segs = slices.DeleteFunc(d.segs, func(s segment.Segment) bool { return drop[s.ID] })
	return len(drop)
}

// Merge joins ids into the earliest of them: min start, max end, and text
// joined in start order. It returns the surviving id.
func (d *Document) Merge(ids []int) (int, bool) {
	var segs []segment.Segment
	for _, id := range ids {
		if i := d.index(id); i >= 0 {
			segs = append(segs, d.segs[i])
		}
	}
	if len(segs) < 2 {
		return 0, false
	}
	slices.SortStableFunc(segs, func(a, b segment.Segment) int {
		switch {
		case a.StartMs < b.StartMs:
			return -1
		case a.StartMs > b.StartMs:
			return 1
		}
		return 0
	})

	merged := segs[0]
	texts := make([]string, 0, len(segs))
	for _, s := range segs {
		merged.StartMs = min(merged.StartMs, s.StartMs)
		merged.EndMs = max(merged.EndMs, s.EndMs)
		if t := strings.TrimSpace(s.Text); t != "" {
			texts = append(texts, t)
		}
	}
	merged.Text = strings.Join(texts, " ")

	d.checkpoint()
	rest := make(map[int]bool, len(segs)-1)
	for _, s := range segs[1:] {
		rest[s.ID] = true
	}
	d.segs = slices.DeleteFunc(d.segs, func(s segment.Segment) bool { return rest[s.ID] })
	d.segs[d.index(merged.ID)] = merged
	return merged.ID, true
}

// Undo restores the state before the last transaction.
func (d *Document) Undo() bool {
	if len(d.undo) == 0 {
		return false
	}
	d.inTx = false
	d.redo = append(d.redo, d.segs)
	d.segs = d.undo[len(d.undo)-1]
	d.undo = d.undo[:len(d.undo)-1]
	return true
}

// Redo reapplies the last undone transaction.
func (d *Document) Redo() bool {
	if len(d.redo) == 0 {
		return false
	}
	d.undo = append(d.undo, d.segs)
	d.segs = d.redo[len(d.redo)-1]
	d.redo = d.redo[:len(d.redo)-1]
	return true
}
