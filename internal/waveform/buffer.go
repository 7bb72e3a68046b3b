// Package waveform analyses and rasterizes the decoded audio envelope that
// backs the timeline.
//
// The analyzer is pure: every function takes a Buffer and returns a result
// or nothing at all. Insufficient data (an empty buffer, too few samples in
// a window, no dynamic range) yields no boundaries and no region rather
// than a guess, and callers leave segments untouched in that case.
//
// The renderer owns two caches: the smoothed amplitude series, keyed by a
// cheap fingerprint of the sample buffer, and the last rasterized pixel
// window, keyed by scroll offset, viewport width and zoom.
package waveform

import "math"

// Buffer is a decoded envelope of alternating (min, max) pairs spanning
// Duration seconds.
type Buffer struct {
	Samples  []float32
	Duration float64
}

// NewBuffer wraps alternating (min, max) samples. A trailing unpaired value
// is ignored.
func NewBuffer(samples []float32, duration float64) Buffer {
	return Buffer{Samples: samples[:len(samples)&^1], Duration: duration}
}

// FromPeaks builds a buffer from one absolute peak per bucket, the format
// the offline waveform generator emits.
func FromPeaks(peaks []float32, duration float64) Buffer {
	samples := make([]float32, 0, len(peaks)*2)
	for _, p := range peaks {
		p = float32(math.Abs(float64(p)))
		samples = append(samples, -p, p)
	}
	return Buffer{Samples: samples, Duration: duration}
}

// Len returns the number of (min, max) pairs.
func (b Buffer) Len() int { return len(b.Samples) / 2 }

// Empty reports whether there is nothing to analyse.
func (b Buffer) Empty() bool { return b.Len() == 0 || b.Duration <= 0 }

// Magnitude returns the larger absolute value of pair i.
func (b Buffer) Magnitude(i int) float64 {
	lo := math.Abs(float64(b.Samples[2*i]))
	hi := math.Abs(float64(b.Samples[2*i+1]))
	return max(lo, hi)
}

// Magnitudes returns the per-pair magnitudes for pairs [from, to].
func (b Buffer) Magnitudes(from, to int) []float64 {
	if from > to {
		return nil
	}
	out := make([]float64, 0, to-from+1)
	for i := from; i <= to; i++ {
		out = append(out, b.Magnitude(i))
	}
	return out
}

// IndexAt returns the pair covering t seconds, clamped to the buffer.
func (b Buffer) IndexAt(t float64) int {
	n := b.Len()
	if n == 0 || b.Duration <= 0 {
		return 0
	}
	i := int(math.Floor(t / b.Duration * float64(n)))
	return min(max(i, 0), n-1)
}

// TimeAt returns the start time of pair i in seconds.
func (b Buffer) TimeAt(i int) float64 {
	n := b.Len()
	if n == 0 {
		return 0
	}
	return float64(i) * b.Duration / float64(n)
}

// Fingerprint is a cheap identity for a sample buffer.
type Fingerprint struct {
	Len         int
	First, Last float32
	Duration    float64
}

// Fingerprint returns the cache key for b.
func (b Buffer) Fingerprint() Fingerprint {
	fp := Fingerprint{Len: len(b.Samples), Duration: b.Duration}
	if len(b.Samples) > 0 {
		fp.First = b.Samples[0]
		fp.Last = b.Samples[len(b.Samples)-1]
	}
	return fp
}
