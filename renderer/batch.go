package renderer

import "github.com/bloeys/gglm/gglm"

// RenderBatchData is the draw state recorded between BeginRenderBatch and EndRenderBatch
type RenderBatchData struct {
	Name     string
	Matrices []NamedMatrix
	Uniforms []Uniform
	Meshes   []MeshInstance

	// Sealed is set by EndRenderBatch. A sealed batch is not modified again.
	Sealed bool
}

func (b *RenderBatchData) GetMatrix(name string) (gglm.Mat4, bool) {

	for i := 0; i < len(b.Matrices); i++ {
		if b.Matrices[i].Name == name {
			return b.Matrices[i].Mat, true
		}
	}

	return gglm.Mat4{}, false
}

func (b *RenderBatchData) GetUniform(name string) (Uniform, bool) {

	for i := 0; i < len(b.Uniforms); i++ {
		if b.Uniforms[i].Name == name {
			return b.Uniforms[i], true
		}
	}

	return Uniform{}, false
}

func (b *RenderBatchData) setMatrix(name string, m *gglm.Mat4) {

	for i := 0; i < len(b.Matrices); i++ {
		if b.Matrices[i].Name == name {
			b.Matrices[i].Mat = *m
			return
		}
	}

	b.Matrices = append(b.Matrices, NamedMatrix{Name: name, Mat: *m})
}

func (b *RenderBatchData) setUniform(u Uniform) {

	for i := 0; i < len(b.Uniforms); i++ {
		if b.Uniforms[i].Name == u.Name {
			b.Uniforms[i] = u
			return
		}
	}

	b.Uniforms = append(b.Uniforms, u)
}
