package renderer

// PassData is one pass as recorded into a frame.
//
// States starts as a copy of the pipeline's descriptor states and may be changed for this
// frame only. The shader is always taken from the descriptor by Id.
type PassData struct {
	Id      string
	Target  RenderTarget
	States  RenderStates
	Batches []*RenderBatchData
}

func (p *PassData) GetBatchByName(name string) *RenderBatchData {

	for i := 0; i < len(p.Batches); i++ {
		if p.Batches[i].Name == name {
			return p.Batches[i]
		}
	}

	return nil
}
