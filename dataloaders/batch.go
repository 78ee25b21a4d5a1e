package dataloaders

import (
	"encoding/binary"
	"math"
	"math/bits"

	"github.com/cespare/xxhash"
	"gorgonia.org/tensor"
)

// Batch is a set of encoded positions and their labels. The tensors are
// views over slices allocated once; refilling a batch never reallocates.
type Batch struct {
	size     int
	slotSize int

	positionData []float32
	labelData    []int32

	positions *tensor.Dense
	labels    *tensor.Dense
}

// NewBatch allocates a batch of size examples, each a width x width x depth
// position.
func NewBatch(size, width, depth int) *Batch {
	b := &Batch{
		size:         size,
		slotSize:     width * width * depth,
		positionData: make([]float32, size*width*width*depth),
		labelData:    make([]int32, size),
	}
	b.positions = tensor.New(tensor.WithShape(size, width, width, depth), tensor.WithBacking(b.positionData))
	b.labels = tensor.New(tensor.WithShape(size), tensor.WithBacking(b.labelData))
	return b
}

func (b *Batch) Size() int {
	return b.size
}

// Positions has shape (size, width, width, depth).
func (b *Batch) Positions() *tensor.Dense {
	return b.positions
}

// Labels has shape (size,).
func (b *Batch) Labels() *tensor.Dense {
	return b.labels
}

// PositionData is the backing slice of Positions.
func (b *Batch) PositionData() []float32 {
	return b.positionData
}

// LabelData is the backing slice of Labels.
func (b *Batch) LabelData() []int32 {
	return b.labelData
}

// Slot returns the values of example i.
func (b *Batch) Slot(i int) []float32 {
	return b.positionData[i*b.slotSize : (i+1)*b.slotSize]
}

func (b *Batch) Clear() {
	clear(b.positionData)
	clear(b.labelData)
}

// Fingerprint hashes the batch contents. Two batches with equal
// fingerprints hold, for all practical purposes, the same examples.
func (b *Batch) Fingerprint() uint64 {
	d := xxhash.New()
	// Writes to a hash never fail.
	_ = binary.Write(d, binary.LittleEndian, b.positionData)
	_ = binary.Write(d, binary.LittleEndian, b.labelData)
	return d.Sum64()
}

// SizeInBytes is the memory held by a batch of the given dimensions. ok is
// false when the batch could not be addressed on this platform.
func SizeInBytes(size, width, depth int) (n uint64, ok bool) {
	if size < 0 {
		return 0, false
	}
	hi, lo := bits.Mul64(uint64(size), uint64(width*width*depth)*4+4)
	if hi != 0 || lo > math.MaxInt {
		return 0, false
	}
	return lo, true
}
