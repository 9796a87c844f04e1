package meshes

import (
	"github.com/bloeys/assimp-go/asig"
	"github.com/bloeys/gglm/gglm"
	"github.com/bloeys/nrend/assert"
	"github.com/bloeys/nrend/buffers"
	"github.com/pkg/errors"
)

var (
	// DefaultMeshLoadFlags are always applied when loading a mesh regardless
	// of the post process flags passed to NewMesh.
	//
	// Defaults to: asig.PostProcessTriangulate | asig.PostProcessCalcTangentSpace
	DefaultMeshLoadFlags asig.PostProcess = asig.PostProcessTriangulate | asig.PostProcessCalcTangentSpace
)

var vertexLayout = []buffers.Element{
	{ElementType: buffers.DataTypeVec3}, // Position
	{ElementType: buffers.DataTypeVec3}, // Normals
	{ElementType: buffers.DataTypeVec3}, // Tangents
	{ElementType: buffers.DataTypeVec2}, // UV0
}

// NewMesh imports a model file into one vao holding all of its submeshes.
// The GL context must be current on the calling thread.
func NewMesh(name, modelPath string, postProcessFlags asig.PostProcess) (Mesh, error) {

	scene, release, err := asig.ImportFile(modelPath, DefaultMeshLoadFlags|postProcessFlags)
	if err != nil {
		return Mesh{}, errors.Wrapf(err, "failed to load model '%s'", modelPath)
	}
	defer release()

	if len(scene.Meshes) == 0 {
		return Mesh{}, errors.Errorf("no meshes found in file '%s'", modelPath)
	}

	// One vbo serves every submesh, so they must all share the first submesh's layout
	hasColor := len(scene.Meshes[0].ColorSets) > 0 && len(scene.Meshes[0].ColorSets[0]) > 0
	layout := make([]buffers.Element, len(vertexLayout), len(vertexLayout)+1)
	copy(layout, vertexLayout)
	if hasColor {
		layout = append(layout, buffers.Element{ElementType: buffers.DataTypeVec4})
	}

	vao, err := buffers.NewVertexArray()
	if err != nil {
		return Mesh{}, err
	}

	vbo, err := buffers.NewVertexBuffer(layout...)
	if err != nil {
		vao.Delete()
		return Mesh{}, err
	}

	ibo, err := buffers.NewIndexBuffer()
	if err != nil {
		vbo.Delete()
		vao.Delete()
		return Mesh{}, err
	}

	mesh := Mesh{
		Name:      name,
		Vao:       vao,
		SubMeshes: make([]SubMesh, 0, len(scene.Meshes)),
	}

	vertexBufData := make([]float32, 0, len(scene.Meshes[0].Vertices)*int(vbo.Stride/4))
	indexBufData := make([]uint32, 0, len(scene.Meshes[0].Faces)*3)

	for i := 0; i < len(scene.Meshes); i++ {

		sceneMesh := scene.Meshes[i]
		meshHasColor := len(sceneMesh.ColorSets) > 0 && len(sceneMesh.ColorSets[0]) > 0
		if meshHasColor != hasColor {
			vbo.Delete()
			ibo.Delete()
			mesh.Delete()
			return Mesh{}, errors.Errorf("vertex layout of submesh '%d' of mesh '%s' at path '%s' does not equal the layout of the first submesh", i, name, modelPath)
		}

		if len(sceneMesh.Tangents) == 0 {
			sceneMesh.Tangents = make([]gglm.Vec3, len(sceneMesh.Vertices))
		}

		if len(sceneMesh.TexCoords[0]) == 0 {
			sceneMesh.TexCoords[0] = make([]gglm.Vec3, len(sceneMesh.Vertices))
		}

		arrs := []arrToInterleave{
			{V3s: sceneMesh.Vertices},
			{V3s: sceneMesh.Normals},
			{V3s: sceneMesh.Tangents},
			{V2s: v3sToV2s(sceneMesh.TexCoords[0])},
		}

		if hasColor {
			arrs = append(arrs, arrToInterleave{V4s: sceneMesh.ColorSets[0]})
		}

		indices := flattenFaces(sceneMesh.Faces)
		mesh.SubMeshes = append(mesh.SubMeshes, SubMesh{
			BaseVertex: int32(len(vertexBufData)*4) / vbo.Stride,
			BaseIndex:  uint32(len(indexBufData)),
			IndexCount: int32(len(indices)),
		})

		vertexBufData = append(vertexBufData, interleave(arrs...)...)
		indexBufData = append(indexBufData, indices...)
	}

	vbo.SetData(vertexBufData, buffers.BufUsage_Static_Draw)
	ibo.SetData(indexBufData)

	mesh.Vao.AddVertexBuffer(vbo)
	mesh.Vao.SetIndexBuffer(ibo)

	// So the next mesh loaded doesn't attach its buffers to this vao
	mesh.Vao.UnBind()

	return mesh, nil
}

func v3sToV2s(v3s []gglm.Vec3) []gglm.Vec2 {

	v2s := make([]gglm.Vec2, len(v3s))
	for i := 0; i < len(v3s); i++ {
		v2s[i] = gglm.Vec2{
			Data: [2]float32{v3s[i].Data[0], v3s[i].Data[1]},
		}
	}

	return v2s
}

// arrToInterleave holds exactly one of its arrays
type arrToInterleave struct {
	V2s []gglm.Vec2
	V3s []gglm.Vec3
	V4s []gglm.Vec4
}

func (a *arrToInterleave) count() int {

	if len(a.V2s) > 0 {
		return len(a.V2s)
	} else if len(a.V3s) > 0 {
		return len(a.V3s)
	}

	return len(a.V4s)
}

func (a *arrToInterleave) compCount() int {

	if len(a.V2s) > 0 {
		return 2
	} else if len(a.V3s) > 0 {
		return 3
	}

	return 4
}

func (a *arrToInterleave) get(i int) []float32 {

	if len(a.V2s) > 0 {
		return a.V2s[i].Data[:]
	} else if len(a.V3s) > 0 {
		return a.V3s[i].Data[:]
	}

	return a.V4s[i].Data[:]
}

// interleave turns per attribute arrays into one float slice where the attributes of vertex i
// are adjacent, in the order of arrs
func interleave(arrs ...arrToInterleave) []float32 {

	assert.T(len(arrs) > 0, "No input sent to interleave")

	elementCount := arrs[0].count()
	totalSize := 0
	for i := 0; i < len(arrs); i++ {
		assert.T(arrs[i].count() == elementCount, "Mesh vertex data given to interleave is not the same length. Expected %d but array %d has %d", elementCount, i, arrs[i].count())
		totalSize += elementCount * arrs[i].compCount()
	}

	out := make([]float32, 0, totalSize)
	for i := 0; i < elementCount; i++ {
		for arrToUse := 0; arrToUse < len(arrs); arrToUse++ {
			out = append(out, arrs[arrToUse].get(i)...)
		}
	}

	return out
}

func flattenFaces(faces []asig.Face) []uint32 {

	uints := make([]uint32, 0, len(faces)*3)
	for i := 0; i < len(faces); i++ {

		// Triangulation is always requested so anything else is a point or line we don't draw
		if len(faces[i].Indices) != 3 {
			continue
		}

		uints = append(uints,
			uint32(faces[i].Indices[0]),
			uint32(faces[i].Indices[1]),
			uint32(faces[i].Indices[2]),
		)
	}

	return uints
}
