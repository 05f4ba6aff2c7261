package strategy

import (
	"github.com/Borislavv/go-ash-evict/config"
	"github.com/Borislavv/go-ash-evict/model"
)

// Stats is a copy of the strategy state for monitoring. It is never fed back into the controller.
type Stats struct {
	Mode     config.StrategyMode
	Classes  []ClassSnapshot
	Counters Counters
}

type ClassSnapshot struct {
	Key       model.ClassKey
	Threshold ThresholdWindow
	Benefit   Pair
	Pending   Pair
	Latency   Pair
}

// Class looks a class up by key.
func (s *Stats) Class(key model.ClassKey) (ClassSnapshot, bool) {
	for _, c := range s.Classes {
		if c.Key == key {
			return c, true
		}
	}
	return ClassSnapshot{}, false
}

func snapshotClasses(store *StateStore) []ClassSnapshot {
	var out []ClassSnapshot
	store.Walk(func(key model.ClassKey, st *ClassState) {
		out = append(out, ClassSnapshot{
			Key:       key,
			Threshold: st.Threshold,
			Benefit:   st.Benefit,
			Pending:   st.Pending,
			Latency:   st.Latency,
		})
	})
	return out
}
