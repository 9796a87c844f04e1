package meshes

import (
	"testing"

	"github.com/bloeys/gglm/gglm"
	"github.com/stretchr/testify/require"
)

func TestInterleave(t *testing.T) {

	pos := []gglm.Vec3{
		{Data: [3]float32{1, 2, 3}},
		{Data: [3]float32{4, 5, 6}},
	}
	uvs := []gglm.Vec2{
		{Data: [2]float32{0.1, 0.2}},
		{Data: [2]float32{0.3, 0.4}},
	}
	colors := []gglm.Vec4{
		{Data: [4]float32{1, 1, 1, 1}},
		{Data: [4]float32{0, 0, 0, 1}},
	}

	out := interleave(
		arrToInterleave{V3s: pos},
		arrToInterleave{V2s: uvs},
		arrToInterleave{V4s: colors},
	)

	require.Equal(t, []float32{
		1, 2, 3, 0.1, 0.2, 1, 1, 1, 1,
		4, 5, 6, 0.3, 0.4, 0, 0, 0, 1,
	}, out)
}

func TestV3sToV2s(t *testing.T) {

	v2s := v3sToV2s([]gglm.Vec3{{Data: [3]float32{7, 8, 9}}})
	require.Len(t, v2s, 1)
	require.Equal(t, [2]float32{7, 8}, v2s[0].Data)
}

func TestMeshNameAndIndexCount(t *testing.T) {

	m := &Mesh{
		Name: "cube",
		SubMeshes: []SubMesh{
			{IndexCount: 36},
			{BaseIndex: 36, IndexCount: 6},
		},
	}

	require.Equal(t, "cube", m.MeshName())
	require.Equal(t, int32(42), m.IndexCount())
}
