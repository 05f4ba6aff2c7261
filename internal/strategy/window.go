package strategy

// ThresholdWindow keeps the last three high watermarks of a class, in percents.
type ThresholdWindow struct {
	Current      float64
	Previous     float64
	PrevPrevious float64
}

func newThresholdWindow(initial float64) ThresholdWindow {
	return ThresholdWindow{Current: initial, Previous: initial, PrevPrevious: initial}
}

// Shift rotates the window: prevPrevious <- previous <- current <- v.
func (w *ThresholdWindow) Shift(v float64) {
	w.PrevPrevious = w.Previous
	w.Previous = w.Current
	w.Current = v
}

// rising reports whether the last recorded move raised the threshold.
func (w *ThresholdWindow) rising() bool { return w.Previous > w.PrevPrevious }

// falling reports whether the last recorded move lowered the threshold.
func (w *ThresholdWindow) falling() bool { return w.Previous < w.PrevPrevious }

// Pair is a two slot window: the value of this cycle and of the one before.
type Pair struct {
	Current  float64
	Previous float64
}

// Shift rotates the window: previous <- current <- v.
func (p *Pair) Shift(v float64) {
	p.Previous = p.Current
	p.Current = v
}
