package rend3dgl

import (
	"github.com/bloeys/nrend/renderer"
	"github.com/go-gl/gl/v4.1-core/gl"
)

func clearMaskToGl(cf renderer.ClearFlags) uint32 {

	var mask uint32
	if cf.Has(renderer.ClearFlags_Color) {
		mask |= gl.COLOR_BUFFER_BIT
	}

	if cf.Has(renderer.ClearFlags_Depth) {
		mask |= gl.DEPTH_BUFFER_BIT
	}

	if cf.Has(renderer.ClearFlags_Stencil) {
		mask |= gl.STENCIL_BUFFER_BIT
	}

	return mask
}

func compareFuncToGl(f renderer.CompareFunc) uint32 {

	switch f {
	case renderer.CompareFunc_Less:
		return gl.LESS
	case renderer.CompareFunc_LessEqual:
		return gl.LEQUAL
	case renderer.CompareFunc_Equal:
		return gl.EQUAL
	case renderer.CompareFunc_NotEqual:
		return gl.NOTEQUAL
	case renderer.CompareFunc_Greater:
		return gl.GREATER
	case renderer.CompareFunc_GreaterEqual:
		return gl.GEQUAL
	case renderer.CompareFunc_Never:
		return gl.NEVER
	default:
		return gl.ALWAYS
	}
}

func cullFaceToGl(f renderer.CullFace) uint32 {

	switch f {
	case renderer.CullFace_Front:
		return gl.FRONT
	case renderer.CullFace_FrontAndBack:
		return gl.FRONT_AND_BACK
	default:
		return gl.BACK
	}
}

func frontFaceToGl(f renderer.FrontFace) uint32 {

	if f == renderer.FrontFace_CW {
		return gl.CW
	}

	return gl.CCW
}

func blendFactorToGl(f renderer.BlendFactor) uint32 {

	switch f {
	case renderer.BlendFactor_Zero:
		return gl.ZERO
	case renderer.BlendFactor_SrcColor:
		return gl.SRC_COLOR
	case renderer.BlendFactor_OneMinusSrcColor:
		return gl.ONE_MINUS_SRC_COLOR
	case renderer.BlendFactor_DstColor:
		return gl.DST_COLOR
	case renderer.BlendFactor_OneMinusDstColor:
		return gl.ONE_MINUS_DST_COLOR
	case renderer.BlendFactor_SrcAlpha:
		return gl.SRC_ALPHA
	case renderer.BlendFactor_OneMinusSrcAlpha:
		return gl.ONE_MINUS_SRC_ALPHA
	case renderer.BlendFactor_DstAlpha:
		return gl.DST_ALPHA
	case renderer.BlendFactor_OneMinusDstAlpha:
		return gl.ONE_MINUS_DST_ALPHA
	default:
		return gl.ONE
	}
}

func blendEquationToGl(e renderer.BlendEquation) uint32 {

	switch e {
	case renderer.BlendEquation_Subtract:
		return gl.FUNC_SUBTRACT
	case renderer.BlendEquation_ReverseSubtract:
		return gl.FUNC_REVERSE_SUBTRACT
	case renderer.BlendEquation_Min:
		return gl.MIN
	case renderer.BlendEquation_Max:
		return gl.MAX
	default:
		return gl.FUNC_ADD
	}
}

func stencilOpToGl(op renderer.StencilOp) uint32 {

	switch op {
	case renderer.StencilOp_Zero:
		return gl.ZERO
	case renderer.StencilOp_Replace:
		return gl.REPLACE
	case renderer.StencilOp_Incr:
		return gl.INCR
	case renderer.StencilOp_IncrWrap:
		return gl.INCR_WRAP
	case renderer.StencilOp_Decr:
		return gl.DECR
	case renderer.StencilOp_DecrWrap:
		return gl.DECR_WRAP
	case renderer.StencilOp_Invert:
		return gl.INVERT
	default:
		return gl.KEEP
	}
}

// filterModeToGl returns an int32 because sampler parameters are set with glSamplerParameteri
func filterModeToGl(f renderer.FilterMode) int32 {

	switch f {
	case renderer.FilterMode_Nearest:
		return gl.NEAREST
	case renderer.FilterMode_LinearMipmapLinear:
		return gl.LINEAR_MIPMAP_LINEAR
	case renderer.FilterMode_NearestMipmapNearest:
		return gl.NEAREST_MIPMAP_NEAREST
	default:
		return gl.LINEAR
	}
}

// magFilterToGl drops the mipmap part, which is invalid for magnification
func magFilterToGl(f renderer.FilterMode) int32 {

	switch f {
	case renderer.FilterMode_Nearest, renderer.FilterMode_NearestMipmapNearest:
		return gl.NEAREST
	default:
		return gl.LINEAR
	}
}

func wrapModeToGl(w renderer.WrapMode) int32 {

	switch w {
	case renderer.WrapMode_ClampToEdge:
		return gl.CLAMP_TO_EDGE
	case renderer.WrapMode_MirroredRepeat:
		return gl.MIRRORED_REPEAT
	default:
		return gl.REPEAT
	}
}

func setEnabled(capability uint32, enabled bool) {

	if enabled {
		gl.Enable(capability)
	} else {
		gl.Disable(capability)
	}
}

// applyStates sets the fixed function state of a pass. Clearing is done separately by clearTarget.
func applyStates(s *renderer.RenderStates) {

	setEnabled(gl.DEPTH_TEST, s.Depth.Enabled)
	gl.DepthMask(s.Depth.Write)
	gl.DepthFunc(compareFuncToGl(s.Depth.Func))

	setEnabled(gl.CULL_FACE, s.Cull.Enabled)
	gl.CullFace(cullFaceToGl(s.Cull.Face))
	gl.FrontFace(frontFaceToGl(s.Cull.FrontFace))

	setEnabled(gl.BLEND, s.Blend.Enabled)
	gl.BlendFunc(blendFactorToGl(s.Blend.Src), blendFactorToGl(s.Blend.Dst))
	gl.BlendEquation(blendEquationToGl(s.Blend.Equation))

	setEnabled(gl.STENCIL_TEST, s.Stencil.Enabled)
	gl.StencilFunc(compareFuncToGl(s.Stencil.Func), s.Stencil.Ref, s.Stencil.ReadMask)
	gl.StencilMask(s.Stencil.WriteMask)
	gl.StencilOp(stencilOpToGl(s.Stencil.Fail), stencilOpToGl(s.Stencil.DepthFail), stencilOpToGl(s.Stencil.Pass))
}

// clearTarget clears the bound framebuffer. Write masks are opened first because
// glClear respects them and the previous pass may have closed them.
func clearTarget(c *renderer.ClearState) {

	mask := clearMaskToGl(c.Flags)
	if mask == 0 {
		return
	}

	gl.ColorMask(true, true, true, true)
	gl.DepthMask(true)
	gl.StencilMask(0xFF)

	gl.ClearColor(c.Color.Data[0], c.Color.Data[1], c.Color.Data[2], c.Color.Data[3])
	gl.ClearDepth(float64(c.Depth))
	gl.ClearStencil(c.Stencil)
	gl.Clear(mask)
}

func newSampler(s *renderer.SamplerState) uint32 {

	var id uint32
	gl.GenSamplers(1, &id)

	gl.SamplerParameteri(id, gl.TEXTURE_MIN_FILTER, filterModeToGl(s.MinFilter))
	gl.SamplerParameteri(id, gl.TEXTURE_MAG_FILTER, magFilterToGl(s.MagFilter))
	gl.SamplerParameteri(id, gl.TEXTURE_WRAP_S, wrapModeToGl(s.WrapS))
	gl.SamplerParameteri(id, gl.TEXTURE_WRAP_T, wrapModeToGl(s.WrapT))
	gl.SamplerParameteri(id, gl.TEXTURE_WRAP_R, wrapModeToGl(s.WrapR))

	return id
}
