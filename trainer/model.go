package trainer

import (
	"errors"
	"fmt"
	"io"
	"math"

	"gonum.org/v1/gonum/floats"
	"gopkg.in/yaml.v3"
	"gorgonia.org/tensor"

	"github.com/domino14/movenet/features"
	"github.com/domino14/movenet/move"
)

// Model is a move predictor trained on batches of encoded positions. The
// tensors passed in are only valid for the duration of the call.
type Model interface {
	Train(positions, labels *tensor.Dense) error
	Accuracy(positions, labels *tensor.Dense) (float64, error)
	Save(w io.Writer) error
	Load(r io.Reader) error
}

// PriorModel predicts the most frequently played point among the empty
// points of a position. It is a baseline for the network, and a cheap way
// to exercise the training driver.
type PriorModel struct {
	enc    *features.Encoder
	counts []float64
	seen   int

	scratch []float64
}

type priorCheckpoint struct {
	BoardSize int       `yaml:"board_size"`
	Examples  int       `yaml:"examples"`
	Counts    []float64 `yaml:"counts"`
}

func NewPriorModel(enc *features.Encoder) *PriorModel {
	n := enc.Codec().NumPoints()
	return &PriorModel{
		enc:     enc,
		counts:  make([]float64, n),
		scratch: make([]float64, n),
	}
}

func (m *PriorModel) unpack(positions, labels *tensor.Dense) ([]float32, []int32, error) {
	pdata, ok := positions.Data().([]float32)
	if !ok {
		return nil, nil, fmt.Errorf("positions have type %v, expected float32", positions.Dtype())
	}
	ldata, ok := labels.Data().([]int32)
	if !ok {
		return nil, nil, fmt.Errorf("labels have type %v, expected int32", labels.Dtype())
	}
	if len(pdata) != len(ldata)*m.enc.SlotSize() {
		return nil, nil, fmt.Errorf("%d positions for %d labels", len(pdata)/m.enc.SlotSize(), len(ldata))
	}
	return pdata, ldata, nil
}

func (m *PriorModel) Train(positions, labels *tensor.Dense) error {
	_, ldata, err := m.unpack(positions, labels)
	if err != nil {
		return err
	}
	for _, l := range ldata {
		if !m.enc.Codec().Valid(move.Index(l)) {
			return fmt.Errorf("label %d off the board", l)
		}
		m.counts[l]++
	}
	m.seen += len(ldata)
	return nil
}

// Predict returns the move the model would play in the encoded position.
func (m *PriorModel) Predict(slot []float32) move.Index {
	copy(m.scratch, m.counts)
	for p := range m.scratch {
		if slot[m.enc.Offset(move.Index(p), features.PlaneEmpty)] == 0 {
			m.scratch[p] = math.Inf(-1)
		}
	}
	return move.Index(floats.MaxIdx(m.scratch))
}

func (m *PriorModel) Accuracy(positions, labels *tensor.Dense) (float64, error) {
	pdata, ldata, err := m.unpack(positions, labels)
	if err != nil {
		return 0, err
	}
	if len(ldata) == 0 {
		return 0, errors.New("empty batch")
	}
	ss := m.enc.SlotSize()
	correct := 0
	for i, l := range ldata {
		if m.Predict(pdata[i*ss:(i+1)*ss]) == move.Index(l) {
			correct++
		}
	}
	return float64(correct) / float64(len(ldata)), nil
}

// Distribution returns the fraction of training labels played at each point.
func (m *PriorModel) Distribution() []float64 {
	d := make([]float64, len(m.counts))
	copy(d, m.counts)
	if m.seen > 0 {
		floats.Scale(1/float64(m.seen), d)
	}
	return d
}

func (m *PriorModel) Save(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	err := enc.Encode(priorCheckpoint{
		BoardSize: m.enc.Codec().Size(),
		Examples:  m.seen,
		Counts:    m.counts,
	})
	if err != nil {
		return err
	}
	return enc.Close()
}

func (m *PriorModel) Load(r io.Reader) error {
	var cp priorCheckpoint
	if err := yaml.NewDecoder(r).Decode(&cp); err != nil {
		return fmt.Errorf("decoding checkpoint: %w", err)
	}
	if cp.BoardSize != m.enc.Codec().Size() || len(cp.Counts) != len(m.counts) {
		return fmt.Errorf("checkpoint is for a %dx%d board, model is %dx%d",
			cp.BoardSize, cp.BoardSize, m.enc.Codec().Size(), m.enc.Codec().Size())
	}
	copy(m.counts, cp.Counts)
	m.seen = cp.Examples
	return nil
}
