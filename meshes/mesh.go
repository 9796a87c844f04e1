package meshes

import (
	"github.com/bloeys/nrend/buffers"
)

type SubMesh struct {
	// BaseVertex is added to every index of the submesh
	BaseVertex int32
	// BaseIndex is the first index of the submesh in the index buffer
	BaseIndex  uint32
	IndexCount int32
}

type Mesh struct {
	Name string
	/*
		Vao has the following shader attribute layout:
			- Loc0: Pos
			- Loc1: Normal
			- Loc2: Tangent
			- Loc3: UV0
			- (Optional) Loc4: Color
	*/
	Vao       buffers.VertexArray
	SubMeshes []SubMesh
}

// MeshName lets a mesh be recorded into a render batch
func (m *Mesh) MeshName() string {
	return m.Name
}

func (m *Mesh) IndexCount() int32 {

	var count int32
	for i := 0; i < len(m.SubMeshes); i++ {
		count += m.SubMeshes[i].IndexCount
	}

	return count
}

// Delete frees the GPU buffers of the mesh. Must be called on the thread owning the GL context.
func (m *Mesh) Delete() {
	m.Vao.Delete()
	m.SubMeshes = nil
}
