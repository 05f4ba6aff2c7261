package strategy

import "github.com/Borislavv/go-ash-evict/model"

// ClassState is everything the strategy remembers about one allocation class.
type ClassState struct {
	Threshold ThresholdWindow
	// Benefit holds inverse allocation latencies, 0 means no estimate yet.
	Benefit Pair
	// Pending holds the gap between target watermark and observed free space.
	Pending Pair
	// Latency holds raw latency estimates in nanoseconds.
	Latency Pair

	key       model.ClassKey
	evaluated bool
}

// StateStore is a dense, fixed-shape arena of ClassState addressed by Shape.Index.
// It is sized once from the Shape and never grows. A key outside of the Shape
// is a programming error and panics on access.
//
// The store is not synchronized: it belongs to the goroutine which drives the strategy.
type StateStore struct {
	shape  model.Shape
	states []ClassState
}

func NewStateStore(shape model.Shape, initialThreshold float64) *StateStore {
	states := make([]ClassState, shape.Size())
	for i := range states {
		states[i].Threshold = newThresholdWindow(initialThreshold)
	}
	return &StateStore{shape: shape, states: states}
}

func (s *StateStore) Shape() model.Shape { return s.shape }

// Get returns a mutable handle to the state of the class.
func (s *StateStore) Get(key model.ClassKey) *ClassState {
	return &s.states[s.shape.Index(key)]
}

func (s *StateStore) Shift(key model.ClassKey, threshold float64) {
	s.touch(key).Threshold.Shift(threshold)
}

func (s *StateStore) ShiftBenefit(key model.ClassKey, benefit float64) {
	s.touch(key).Benefit.Shift(benefit)
}

func (s *StateStore) ShiftPending(key model.ClassKey, pending float64) {
	s.touch(key).Pending.Shift(pending)
}

func (s *StateStore) ShiftLatency(key model.ClassKey, latencyNs float64) {
	s.touch(key).Latency.Shift(latencyNs)
}

// Walk visits classes whose state has been written at least once, in dense index order.
func (s *StateStore) Walk(fn func(key model.ClassKey, state *ClassState)) {
	for i := range s.states {
		if st := &s.states[i]; st.evaluated {
			fn(st.key, st)
		}
	}
}

func (s *StateStore) touch(key model.ClassKey) *ClassState {
	st := &s.states[s.shape.Index(key)]
	if !st.evaluated {
		st.key, st.evaluated = key, true
	}
	return st
}
