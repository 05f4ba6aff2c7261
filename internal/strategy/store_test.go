package strategy

import (
	"github.com/Borislavv/go-ash-evict/model"
	"github.com/stretchr/testify/require"
	"testing"
)

// TestStateStore_InitialState pre-allocates every class of the shape with the initial watermark.
func TestStateStore_InitialState(t *testing.T) {
	shape := testShape(t)
	s := NewStateStore(shape, 5)

	for _, key := range shape.Keys() {
		st := s.Get(key)
		require.Equal(t, ThresholdWindow{5, 5, 5}, st.Threshold)
		require.Equal(t, Pair{}, st.Benefit)
		require.Equal(t, Pair{}, st.Pending)
	}
}

// TestStateStore_ShiftIsPerClass rotates only the addressed class.
func TestStateStore_ShiftIsPerClass(t *testing.T) {
	shape := testShape(t)
	s := NewStateStore(shape, 5)
	a, b := shape.MustKey(0, 1, 2), shape.MustKey(1, 1, 2)

	s.Shift(a, 4.5)
	s.ShiftBenefit(a, 0.01)
	s.ShiftPending(a, 3.5)

	require.Equal(t, ThresholdWindow{4.5, 5, 5}, s.Get(a).Threshold)
	require.Equal(t, Pair{Current: 0.01}, s.Get(a).Benefit)
	require.Equal(t, Pair{Current: 3.5}, s.Get(a).Pending)
	require.Equal(t, ThresholdWindow{5, 5, 5}, s.Get(b).Threshold)
}

// TestStateStore_GetIsMutable returns a handle, not a copy.
func TestStateStore_GetIsMutable(t *testing.T) {
	shape := testShape(t)
	s := NewStateStore(shape, 5)
	k := shape.MustKey(0, 0, 1)

	s.Get(k).Threshold.Current = 7
	require.Equal(t, 7.0, s.Get(k).Threshold.Current)
}

// TestStateStore_Walk visits only written classes in index order.
func TestStateStore_Walk(t *testing.T) {
	shape := testShape(t)
	s := NewStateStore(shape, 5)
	late, early := shape.MustKey(1, 0, 0), shape.MustKey(0, 0, 3)

	s.Shift(late, 4)
	s.ShiftPending(early, 1)

	var visited []model.ClassKey
	s.Walk(func(key model.ClassKey, _ *ClassState) {
		visited = append(visited, key)
	})
	require.Equal(t, []model.ClassKey{early, late}, visited)
}

// TestStateStore_ForeignKeyPanics treats a key of a larger shape as a programming error.
func TestStateStore_ForeignKeyPanics(t *testing.T) {
	small, err := model.NewShape(1, 1, 1)
	require.NoError(t, err)
	big, err := model.NewShape(4, 4, 4)
	require.NoError(t, err)

	s := NewStateStore(small, 5)
	require.Panics(t, func() { s.Get(big.MustKey(3, 3, 3)) })
}
