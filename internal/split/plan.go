// Package split plans dividing one segment into several contiguous parts,
// redistributing its text in proportion to each part's duration.
package split

import (
	"errors"
	"fmt"
	"math"
	"slices"

	"github.com/jwulff/waveline/internal/segment"
)

// Limits on a plan.
const (
	MinParts = 2
	MaxParts = 5

	// MinGapMs is the shortest part a plan may contain.
	MinGapMs = segment.MinDurationMs
)

var (
	ErrMaxParts   = errors.New("split: maximum number of parts reached")
	ErrMinParts   = errors.New("split: minimum number of parts reached")
	ErrTooShort   = errors.New("split: part would be shorter than the minimum duration")
	ErrOutOfRange = errors.New("split: position out of range")
)

// Part is one planned sub-segment.
type Part struct {
	StartMs int64
	EndMs   int64
	Text    string
}

// Plan divides Source at strictly increasing interior split times. Parts
// always partition [Source.StartMs, Source.EndMs] exactly.
type Plan struct {
	Source segment.Segment

	splits []int64
	texts  []string
}

// New plans an even split of src into k parts.
func New(src segment.Segment, k int) (*Plan, error) {
	if k < MinParts || k > MaxParts {
		return nil, fmt.Errorf("split into %d parts: %w", k, ErrOutOfRange)
	}
	dur := src.DurationMs()
	if dur/int64(k) < MinGapMs {
		return nil, ErrTooShort
	}
	splits := make([]int64, 0, k-1)
	for i := 1; i < k; i++ {
		splits = append(splits, src.StartMs+dur*int64(i)/int64(k))
	}
	p := &Plan{Source: src, splits: splits}
	p.texts = sliceText(src.Text, src.StartMs, src.EndMs, splits)
	return p, nil
}

// NewAt plans a two-part split at atMs, the point the user picked before
// opening the plan. The point is clamped to keep both parts at least
// MinGapMs long.
func NewAt(src segment.Segment, atMs int64) (*Plan, error) {
	if src.DurationMs() < 2*MinGapMs {
		return nil, ErrTooShort
	}
	atMs = min(max(atMs, src.StartMs+MinGapMs), src.EndMs-MinGapMs)
	p := &Plan{Source: src, splits: []int64{atMs}}
	p.texts = sliceText(src.Text, src.StartMs, src.EndMs, p.splits)
	return p, nil
}

// sliceText cuts text at character offsets proportional to each split's
// position in [start, end].
func sliceText(text string, start, end int64, splits []int64) []string {
	runes := []rune(text)
	n := len(runes)
	dur := float64(end - start)
	out := make([]string, 0, len(splits)+1)
	prev := 0
	for _, s := range splits {
		idx := int(math.Round(float64(n) * float64(s-start) / dur))
		idx = min(max(idx, prev), n)
		out = append(out, string(runes[prev:idx]))
		prev = idx
	}
	return append(out, string(runes[prev:]))
}

// Count returns the number of parts.
func (p *Plan) Count() int { return len(p.splits) + 1 }

// Splits returns a copy of the interior split times.
func (p *Plan) Splits() []int64 { return slices.Clone(p.splits) }

func (p *Plan) bounds(i int) (start, end int64) {
	start, end = p.Source.StartMs, p.Source.EndMs
	if i > 0 {
		start = p.splits[i-1]
	}
	if i < len(p.splits) {
		end = p.splits[i]
	}
	return start, end
}

// Parts returns the planned sub-segments in order.
func (p *Plan) Parts() []Part {
	parts := make([]Part, p.Count())
	for i := range parts {
		start, end := p.bounds(i)
		parts[i] = Part{StartMs: start, EndMs: end, Text: p.texts[i]}
	}
	return parts
}

// SetText replaces the text of part i. Later split drags keep it.
func (p *Plan) SetText(i int, text string) error {
	if i < 0 || i >= p.Count() {
		return ErrOutOfRange
	}
	p.texts[i] = text
	return nil
}

// SetCount steps the part count to k one boundary at a time.
func (p *Plan) SetCount(k int) error {
	for p.Count() < k {
		if err := p.Increase(); err != nil {
			return err
		}
	}
	for p.Count() > k {
		if err := p.Decrease(); err != nil {
			return err
		}
	}
	return nil
}

// Increase re-splits the last part at its midpoint; the second half of its
// text moves into the new final part.
func (p *Plan) Increase() error {
	if p.Count() >= MaxParts {
		return ErrMaxParts
	}
	last := p.Count() - 1
	start, end := p.bounds(last)
	mid := start + (end-start)/2
	if mid-start < MinGapMs || end-mid < MinGapMs {
		return ErrTooShort
	}
	halves := sliceText(p.texts[last], start, end, []int64{mid})
	p.splits = append(p.splits, mid)
	p.texts = append(p.texts[:last], halves...)
	return nil
}

// Decrease merges the last two parts, concatenating their text.
func (p *Plan) Decrease() error {
	if p.Count() <= MinParts {
		return ErrMinParts
	}
	last := p.Count() - 1
	p.texts[last-1] += p.texts[last]
	p.texts = p.texts[:last]
	p.splits = p.splits[:len(p.splits)-1]
	return nil
}

// MoveSplit moves interior boundary i to atMs, clamped between its
// neighbours with MinGapMs to spare. Text is not re-sliced. It returns the
// applied time.
func (p *Plan) MoveSplit(i int, atMs int64) (int64, error) {
	if i < 0 || i >= len(p.splits) {
		return 0, ErrOutOfRange
	}
	lo := p.Source.StartMs + MinGapMs
	if i > 0 {
		lo = p.splits[i-1] + MinGapMs
	}
	hi := p.Source.EndMs - MinGapMs
	if i < len(p.splits)-1 {
		hi = p.splits[i+1] - MinGapMs
	}
	p.splits[i] = min(max(atMs, lo), hi)
	return p.splits[i], nil
}

// SplitAtChar splits part i at character offset, placing the new boundary
// at the same fraction of the part's duration.
func (p *Plan) SplitAtChar(i, offset int) error {
	if i < 0 || i >= p.Count() {
		return ErrOutOfRange
	}
	if p.Count() >= MaxParts {
		return ErrMaxParts
	}
	runes := []rune(p.texts[i])
	if offset <= 0 || offset >= len(runes) {
		return ErrOutOfRange
	}
	start, end := p.bounds(i)
	at := start + int64(math.Round(float64(end-start)*float64(offset)/float64(len(runes))))
	if at-start < MinGapMs || end-at < MinGapMs {
		return ErrTooShort
	}

	p.splits = slices.Insert(p.splits, i, at)
	p.texts = slices.Insert(p.texts, i+1, string(runes[offset:]))
	p.texts[i] = string(runes[:offset])
	return nil
}
