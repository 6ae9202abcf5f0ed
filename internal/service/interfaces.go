package service

// Recorder receives lifecycle metrics.
type Recorder interface {
	PuzzleTransition(status string)
	// AddUnsolved moves the unsolved gauge after a committed create or solve.
	AddUnsolved(delta int)
	// SetUnsolved resyncs the gauge from a full listing.
	SetUnsolved(n int)
}

type nopRecorder struct{}

func (nopRecorder) PuzzleTransition(string) {}
func (nopRecorder) AddUnsolved(int)         {}
func (nopRecorder) SetUnsolved(int)         {}
