// Package delay provides history buffers for streaming processors.
package delay

// MirroredLine is a fixed-capacity circular history buffer that stores every
// value at two physical slots, size-1 apart, so a window starting at the
// head can be indexed forward across the logical wrap point without modulo
// arithmetic.
//
// The head moves backwards through the buffer on every Push; offset 0 is the
// most recently pushed value and offset size-1 the oldest. Offsets up to
// 2*size-2 remain addressable through the mirrored region and alias the
// corresponding logical slot.
type MirroredLine struct {
	buf  []float64 // 2*size - 1 physical slots
	size int
	head int
}

// NewMirrored returns a zero-filled mirrored line holding size samples.
// Sizes below 1 are clamped to 1.
func NewMirrored(size int) *MirroredLine {
	if size < 1 {
		size = 1
	}
	return &MirroredLine{
		buf:  make([]float64, 2*size-1),
		size: size,
	}
}

// Size returns the logical capacity in samples.
func (l *MirroredLine) Size() int {
	return l.size
}

// Push makes sample the new head value and returns the value it displaces,
// which was pushed size calls earlier.
func (l *MirroredLine) Push(sample float64) float64 {
	l.head--
	if l.head < 0 {
		l.head += l.size
	}
	out := l.buf[l.head]
	l.buf[l.head] = sample
	if l.head <= l.size-2 {
		l.buf[l.head+l.size] = sample
	}
	return out
}

// At returns the value offset steps behind the head. Offsets in
// [0, size-1] are always addressable; offsets of size and above alias the
// matching logical slot through the mirrored region for as long as
// head+offset stays inside the physical buffer.
func (l *MirroredLine) At(offset int) float64 {
	return l.buf[l.head+offset]
}

// Set overwrites the value offset steps behind the head, updating both
// physical copies so subsequent reads at any aliasing offset observe it.
func (l *MirroredLine) Set(offset int, v float64) {
	i := l.head + offset
	l.buf[i] = v
	if i >= l.size {
		l.buf[i-l.size] = v
	} else if i <= l.size-2 {
		l.buf[i+l.size] = v
	}
}

// Reset zeroes the buffer and rewinds the head.
func (l *MirroredLine) Reset() {
	for i := range l.buf {
		l.buf[i] = 0
	}
	l.head = 0
}
