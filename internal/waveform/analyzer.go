package waveform

import (
	"math"
	"slices"
)

// Analysis tuning. The region scoring weights are heuristics kept for
// behavioural compatibility; they can be retuned without breaking callers.
const (
	SmoothingWindow     = 5
	BoundaryPadding     = 0.5 // seconds added each side of a boundary search
	MinDynamicRange     = 0.02
	ThresholdFraction   = 0.3
	DefaultSearchWindow = 2.0 // seconds
	MinWindowSamples    = 10
	RegionMergeGap      = 0.150 // seconds
	RegionPadBefore     = 0.150
	RegionPadAfter      = 0.050

	OverlapWeight  = 10.0
	LengthScoreCap = 100.0
)

// Smooth applies a centred moving average of SmoothingWindow points. Edge
// points average over the neighbours that exist.
func Smooth(values []float64) []float64 {
	out := make([]float64, len(values))
	half := SmoothingWindow / 2
	for i := range values {
		lo := max(0, i-half)
		hi := min(len(values)-1, i+half)
		sum := 0.0
		for j := lo; j <= hi; j++ {
			sum += values[j]
		}
		out[i] = sum / float64(hi-lo+1)
	}
	return out
}

func percentile(sorted []float64, p float64) float64 {
	i := int(math.Floor(float64(len(sorted)) * p))
	return sorted[min(max(i, 0), len(sorted)-1)]
}

// Threshold returns the adaptive voice threshold p25 + (p75-p25)*0.3 over
// amps. ok is false when the spread is under MinDynamicRange: silence and
// clipping both flatten the distribution and would produce false edges.
func Threshold(amps []float64) (threshold float64, ok bool) {
	if len(amps) == 0 {
		return 0, false
	}
	sorted := slices.Clone(amps)
	slices.Sort(sorted)
	p25 := percentile(sorted, 0.25)
	p75 := percentile(sorted, 0.75)
	if p75-p25 < MinDynamicRange {
		return 0, false
	}
	return p25 + (p75-p25)*ThresholdFraction, true
}

// window returns the inclusive pair range covering [start, end] seconds.
func (b Buffer) window(start, end float64) (lo, hi int, ok bool) {
	if b.Empty() {
		return 0, 0, false
	}
	start = max(0, start)
	end = min(b.Duration, end)
	if end < start {
		return 0, 0, false
	}
	return b.IndexAt(start), b.IndexAt(end), true
}

// DetectVoiceBoundaries returns the times (seconds) inside the search
// window, widened by BoundaryPadding, where the smoothed amplitude crosses
// the adaptive threshold. Only the requested window is examined.
func DetectVoiceBoundaries(b Buffer, searchStart, searchEnd float64) []float64 {
	lo, hi, ok := b.window(searchStart-BoundaryPadding, searchEnd+BoundaryPadding)
	if !ok {
		return nil
	}
	amps := b.Magnitudes(lo, hi)
	threshold, ok := Threshold(amps)
	if !ok {
		return nil
	}

	smoothed := Smooth(amps)
	var boundaries []float64
	above := smoothed[0] > threshold
	for i := 1; i < len(smoothed); i++ {
		now := smoothed[i] > threshold
		if now != above {
			boundaries = append(boundaries, b.TimeAt(lo+i))
			above = now
		}
	}
	return boundaries
}

// Region is a span of detected voice in seconds.
type Region struct {
	Start float64
	End   float64
}

// Duration returns End-Start.
func (r Region) Duration() float64 { return r.End - r.Start }

// FindVoiceRegion looks for the voiced span that best explains a segment
// currently at [currentStart, currentEnd], searching searchWindow seconds
// either side (DefaultSearchWindow when searchWindow <= 0). Short pauses
// up to RegionMergeGap are bridged. Regions are scored by
//
//	overlap*10 - distanceIfNoOverlap + min(length, 100)
//
// with all terms in milliseconds, and the winner is padded by
// RegionPadBefore/RegionPadAfter. ok is false when the window holds fewer
// than MinWindowSamples pairs, the dynamic range is too small, or nothing
// is voiced; the caller must then leave the segment as it is.
func FindVoiceRegion(b Buffer, currentStart, currentEnd, searchWindow float64) (Region, bool) {
	if searchWindow <= 0 {
		searchWindow = DefaultSearchWindow
	}
	lo, hi, ok := b.window(currentStart-searchWindow, currentEnd+searchWindow)
	if !ok || hi-lo+1 < MinWindowSamples {
		return Region{}, false
	}
	amps := b.Magnitudes(lo, hi)
	threshold, ok := Threshold(amps)
	if !ok {
		return Region{}, false
	}
	smoothed := Smooth(amps)

	var regions []Region
	runStart := -1
	for i, v := range smoothed {
		if v > threshold {
			if runStart < 0 {
				runStart = i
			}
			continue
		}
		if runStart >= 0 {
			regions = append(regions, Region{Start: b.TimeAt(lo + runStart), End: b.TimeAt(lo + i)})
			runStart = -1
		}
	}
	if runStart >= 0 {
		regions = append(regions, Region{Start: b.TimeAt(lo + runStart), End: b.TimeAt(hi + 1)})
	}
	if len(regions) == 0 {
		return Region{}, false
	}

	merged := mergeRegions(regions, RegionMergeGap)
	best := merged[0]
	bestScore := math.Inf(-1)
	for _, r := range merged {
		if s := scoreRegion(r, currentStart, currentEnd); s > bestScore {
			best, bestScore = r, s
		}
	}

	out := Region{
		Start: max(0, best.Start-RegionPadBefore),
		End:   min(b.Duration, best.End+RegionPadAfter),
	}
	if out.End <= out.Start {
		return Region{}, false
	}
	return out, true
}

func mergeRegions(regions []Region, maxGap float64) []Region {
	merged := []Region{regions[0]}
	for _, r := range regions[1:] {
		last := &merged[len(merged)-1]
		if r.Start-last.End <= maxGap {
			last.End = r.End
			continue
		}
		merged = append(merged, r)
	}
	return merged
}

func scoreRegion(r Region, curStart, curEnd float64) float64 {
	const ms = 1000.0
	overlap := max(0, min(r.End, curEnd)-max(r.Start, curStart)) * ms
	var distance float64
	if overlap == 0 {
		if r.Start >= curEnd {
			distance = (r.Start - curEnd) * ms
		} else {
			distance = (curStart - r.End) * ms
		}
	}
	length := (r.End - r.Start) * ms
	return overlap*OverlapWeight - distance + min(length, LengthScoreCap)
}
