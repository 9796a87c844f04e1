package rend3dgl

import (
	"testing"

	"github.com/bloeys/nrend/renderer"
	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/stretchr/testify/require"
)

func TestClearMaskToGl(t *testing.T) {

	require.Equal(t, uint32(0), clearMaskToGl(renderer.ClearFlags_None))
	require.Equal(t, uint32(gl.COLOR_BUFFER_BIT), clearMaskToGl(renderer.ClearFlags_Color))
	require.Equal(t,
		uint32(gl.COLOR_BUFFER_BIT|gl.DEPTH_BUFFER_BIT|gl.STENCIL_BUFFER_BIT),
		clearMaskToGl(renderer.ClearFlags_Color|renderer.ClearFlags_Depth|renderer.ClearFlags_Stencil),
	)
}

func TestStateMappers(t *testing.T) {

	tests := []struct {
		name string
		got  uint32
		want uint32
	}{
		{"compare less", compareFuncToGl(renderer.CompareFunc_Less), gl.LESS},
		{"compare lequal", compareFuncToGl(renderer.CompareFunc_LessEqual), gl.LEQUAL},
		{"compare always", compareFuncToGl(renderer.CompareFunc_Always), gl.ALWAYS},
		{"compare never", compareFuncToGl(renderer.CompareFunc_Never), gl.NEVER},
		{"cull back", cullFaceToGl(renderer.CullFace_Back), gl.BACK},
		{"cull front", cullFaceToGl(renderer.CullFace_Front), gl.FRONT},
		{"front ccw", frontFaceToGl(renderer.FrontFace_CCW), gl.CCW},
		{"front cw", frontFaceToGl(renderer.FrontFace_CW), gl.CW},
		{"blend one", blendFactorToGl(renderer.BlendFactor_One), gl.ONE},
		{"blend src alpha", blendFactorToGl(renderer.BlendFactor_SrcAlpha), gl.SRC_ALPHA},
		{"blend one minus src alpha", blendFactorToGl(renderer.BlendFactor_OneMinusSrcAlpha), gl.ONE_MINUS_SRC_ALPHA},
		{"equation add", blendEquationToGl(renderer.BlendEquation_Add), gl.FUNC_ADD},
		{"equation max", blendEquationToGl(renderer.BlendEquation_Max), gl.MAX},
		{"stencil keep", stencilOpToGl(renderer.StencilOp_Keep), gl.KEEP},
		{"stencil replace", stencilOpToGl(renderer.StencilOp_Replace), gl.REPLACE},
		{"stencil incr wrap", stencilOpToGl(renderer.StencilOp_IncrWrap), gl.INCR_WRAP},
	}

	for _, tt := range tests {
		require.Equal(t, tt.want, tt.got, tt.name)
	}
}

func TestSamplerMappers(t *testing.T) {

	require.Equal(t, int32(gl.LINEAR_MIPMAP_LINEAR), filterModeToGl(renderer.FilterMode_LinearMipmapLinear))
	require.Equal(t, int32(gl.NEAREST), filterModeToGl(renderer.FilterMode_Nearest))

	// Mag filters can't use mipmaps
	require.Equal(t, int32(gl.LINEAR), magFilterToGl(renderer.FilterMode_LinearMipmapLinear))
	require.Equal(t, int32(gl.NEAREST), magFilterToGl(renderer.FilterMode_NearestMipmapNearest))

	require.Equal(t, int32(gl.REPEAT), wrapModeToGl(renderer.WrapMode_Repeat))
	require.Equal(t, int32(gl.CLAMP_TO_EDGE), wrapModeToGl(renderer.WrapMode_ClampToEdge))
}
