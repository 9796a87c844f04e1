package renderer

import (
	"github.com/bloeys/gglm/gglm"
	"github.com/mandykoh/prism/srgb"
)

type ClearFlags uint8

const (
	ClearFlags_None  ClearFlags = 0
	ClearFlags_Color ClearFlags = 1 << (iota - 1)
	ClearFlags_Depth
	ClearFlags_Stencil
)

func (cf *ClearFlags) Set(flags ClearFlags) {
	*cf |= flags
}

func (cf *ClearFlags) Remove(flags ClearFlags) {
	*cf &= ^flags
}

func (cf ClearFlags) Has(flags ClearFlags) bool {
	return cf&flags == flags
}

type CompareFunc uint8

const (
	CompareFunc_Less CompareFunc = iota
	CompareFunc_LessEqual
	CompareFunc_Equal
	CompareFunc_NotEqual
	CompareFunc_Greater
	CompareFunc_GreaterEqual
	CompareFunc_Always
	CompareFunc_Never
)

type CullFace uint8

const (
	CullFace_Back CullFace = iota
	CullFace_Front
	CullFace_FrontAndBack
)

type FrontFace uint8

const (
	FrontFace_CCW FrontFace = iota
	FrontFace_CW
)

type BlendFactor uint8

const (
	BlendFactor_One BlendFactor = iota
	BlendFactor_Zero
	BlendFactor_SrcColor
	BlendFactor_OneMinusSrcColor
	BlendFactor_DstColor
	BlendFactor_OneMinusDstColor
	BlendFactor_SrcAlpha
	BlendFactor_OneMinusSrcAlpha
	BlendFactor_DstAlpha
	BlendFactor_OneMinusDstAlpha
)

type BlendEquation uint8

const (
	BlendEquation_Add BlendEquation = iota
	BlendEquation_Subtract
	BlendEquation_ReverseSubtract
	BlendEquation_Min
	BlendEquation_Max
)

type StencilOp uint8

const (
	StencilOp_Keep StencilOp = iota
	StencilOp_Zero
	StencilOp_Replace
	StencilOp_Incr
	StencilOp_IncrWrap
	StencilOp_Decr
	StencilOp_DecrWrap
	StencilOp_Invert
)

type FilterMode uint8

const (
	FilterMode_Linear FilterMode = iota
	FilterMode_Nearest
	FilterMode_LinearMipmapLinear
	FilterMode_NearestMipmapNearest
)

type WrapMode uint8

const (
	WrapMode_Repeat WrapMode = iota
	WrapMode_ClampToEdge
	WrapMode_MirroredRepeat
)

type ClearState struct {
	Flags ClearFlags
	// Color is in linear space
	Color   gglm.Vec4
	Depth   float32
	Stencil int32
}

type DepthState struct {
	Enabled bool
	Write   bool
	Func    CompareFunc
}

type CullState struct {
	Enabled   bool
	Face      CullFace
	FrontFace FrontFace
}

type BlendState struct {
	Enabled  bool
	Src      BlendFactor
	Dst      BlendFactor
	Equation BlendEquation
}

type SamplerState struct {
	Enabled bool
	// Unit is the texture unit the sampler binds to
	Unit      uint32
	MinFilter FilterMode
	MagFilter FilterMode
	WrapS     WrapMode
	WrapT     WrapMode
	WrapR     WrapMode
}

type StencilState struct {
	Enabled   bool
	Func      CompareFunc
	Ref       int32
	ReadMask  uint32
	WriteMask uint32
	Fail      StencilOp
	DepthFail StencilOp
	Pass      StencilOp
}

// RenderStates is the fixed state a pass runs with
type RenderStates struct {
	Clear   ClearState
	Depth   DepthState
	Cull    CullState
	Blend   BlendState
	Sampler SamplerState
	Stencil StencilState
}

// DefaultRenderStates matches the GL state the engine sets up on renderer creation:
// depth testing with less-than, back face culling, alpha blending off, and a full clear.
func DefaultRenderStates() RenderStates {
	return RenderStates{
		Clear: ClearState{
			Flags: ClearFlags_Color | ClearFlags_Depth | ClearFlags_Stencil,
			Color: gglm.Vec4{Data: [4]float32{0, 0, 0, 1}},
			Depth: 1,
		},
		Depth: DepthState{Enabled: true, Write: true, Func: CompareFunc_Less},
		Cull:  CullState{Enabled: true, Face: CullFace_Back, FrontFace: FrontFace_CCW},
		Blend: BlendState{Src: BlendFactor_SrcAlpha, Dst: BlendFactor_OneMinusSrcAlpha, Equation: BlendEquation_Add},
		Sampler: SamplerState{
			MinFilter: FilterMode_LinearMipmapLinear,
			MagFilter: FilterMode_Linear,
		},
		Stencil: StencilState{
			Func:      CompareFunc_Always,
			ReadMask:  0xFF,
			WriteMask: 0xFF,
		},
	}
}

// SrgbColor converts an 8-bit sRGB color to the linear color clear states expect.
// Alpha is not gamma encoded and is only normalized.
func SrgbColor(r, g, b, a uint8) gglm.Vec4 {
	return gglm.Vec4{
		Data: [4]float32{
			srgb.From8Bit(r),
			srgb.From8Bit(g),
			srgb.From8Bit(b),
			float32(a) / 255,
		},
	}
}
