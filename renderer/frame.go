package renderer

// Frame holds everything recorded for one render cycle.
//
// The service owns exactly two frames. At any time one is the submit frame, written only by
// the producer, and the other is the render frame, read only by the backend.
type Frame struct {
	// Number increases by one every time the frame is committed
	Number uint64
	Passes []*PassData
	// Dirty is true once anything was recorded since the last Reset
	Dirty bool
}

// GetPassById returns the first pass recorded with id, or nil
func (f *Frame) GetPassById(id string) *PassData {

	for i := 0; i < len(f.Passes); i++ {
		if f.Passes[i].Id == id {
			return f.Passes[i]
		}
	}

	return nil
}

func (f *Frame) BatchCount() int {

	count := 0
	for i := 0; i < len(f.Passes); i++ {
		count += len(f.Passes[i].Batches)
	}

	return count
}

// Reset clears the recorded passes while keeping the allocated slice
func (f *Frame) Reset() {
	clear(f.Passes)
	f.Passes = f.Passes[:0]
	f.Dirty = false
}
