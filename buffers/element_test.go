package buffers

import (
	"testing"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/stretchr/testify/require"
)

func TestElementTypeInfo(t *testing.T) {

	tests := []struct {
		dt        ElementType
		glType    uint32
		compCount int32
		size      int32
		name      string
	}{
		{DataTypeUint32, gl.UNSIGNED_INT, 1, 4, "uint32"},
		{DataTypeInt32, gl.INT, 1, 4, "int32"},
		{DataTypeFloat32, gl.FLOAT, 1, 4, "float32"},
		{DataTypeVec2, gl.FLOAT, 2, 8, "Vec2"},
		{DataTypeVec3, gl.FLOAT, 3, 12, "Vec3"},
		{DataTypeVec4, gl.FLOAT, 4, 16, "Vec4"},
	}

	for _, tt := range tests {
		require.Equal(t, tt.glType, tt.dt.GLType(), tt.name)
		require.Equal(t, tt.compCount, tt.dt.CompCount(), tt.name)
		require.Equal(t, tt.size, tt.dt.Size(), tt.name)
		require.Equal(t, tt.name, tt.dt.String())
	}

	require.Equal(t, "Unknown", ElementType(99).String())
	require.Zero(t, DataTypeUnknown.Size())
}

func TestSetLayoutComputesOffsets(t *testing.T) {

	// SetLayout is pure bookkeeping so no GL context is needed
	vb := VertexBuffer{}
	vb.SetLayout(
		Element{ElementType: DataTypeVec3},
		Element{ElementType: DataTypeVec3},
		Element{ElementType: DataTypeVec2},
		Element{ElementType: DataTypeVec4},
	)

	layout := vb.GetLayout()
	require.Equal(t, []int{0, 12, 24, 32}, []int{layout[0].Offset, layout[1].Offset, layout[2].Offset, layout[3].Offset})
	require.Equal(t, int32(48), vb.Stride)

	// GetLayout hands out a copy
	layout[0].Offset = 100
	require.Equal(t, 0, vb.GetLayout()[0].Offset)
}
