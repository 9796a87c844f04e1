package config

import (
	"encoding/hex"
	"strings"

	"github.com/bloeys/gglm/gglm"
	"github.com/bloeys/nrend/renderer"
	"github.com/pkg/errors"
)

// PipelineConfig describes a renderer.Pipeline. With no passes the default pipeline is used.
//
// Every state block is optional and starts from renderer.DefaultRenderStates. A block that is
// present sets its booleans, while enum names and colors left empty keep the default.
type PipelineConfig struct {
	Name    string         `toml:"name" yaml:"name"`
	Targets []TargetConfig `toml:"targets" yaml:"targets"`
	Passes  []PassConfig   `toml:"passes" yaml:"passes"`
}

type TargetConfig struct {
	Name         string `toml:"name" yaml:"name"`
	Width        int32  `toml:"width" yaml:"width"`
	Height       int32  `toml:"height" yaml:"height"`
	Format       string `toml:"format" yaml:"format"`
	DepthStencil bool   `toml:"depth_stencil" yaml:"depth_stencil"`
}

type PassConfig struct {
	Id     string `toml:"id" yaml:"id"`
	Shader string `toml:"shader" yaml:"shader"`
	// Target names one of the pipeline targets. Empty means the window.
	Target string `toml:"target" yaml:"target"`

	Clear   *ClearConfig   `toml:"clear" yaml:"clear"`
	Depth   *DepthConfig   `toml:"depth" yaml:"depth"`
	Cull    *CullConfig    `toml:"cull" yaml:"cull"`
	Blend   *BlendConfig   `toml:"blend" yaml:"blend"`
	Stencil *StencilConfig `toml:"stencil" yaml:"stencil"`
	Sampler *SamplerConfig `toml:"sampler" yaml:"sampler"`
}

type ClearConfig struct {
	// Flags is any of "color", "depth" and "stencil". Leaving it out keeps the default flags
	// and an empty list disables clearing.
	Flags []string `toml:"flags" yaml:"flags"`
	// Color is an sRGB hex color, '#RRGGBB' or '#RRGGBBAA'
	Color   string   `toml:"color" yaml:"color"`
	Depth   *float32 `toml:"depth" yaml:"depth"`
	Stencil int32    `toml:"stencil" yaml:"stencil"`
}

type DepthConfig struct {
	Enabled bool   `toml:"enabled" yaml:"enabled"`
	Write   bool   `toml:"write" yaml:"write"`
	Func    string `toml:"func" yaml:"func"`
}

type CullConfig struct {
	Enabled   bool   `toml:"enabled" yaml:"enabled"`
	Face      string `toml:"face" yaml:"face"`
	FrontFace string `toml:"front_face" yaml:"front_face"`
}

type BlendConfig struct {
	Enabled  bool   `toml:"enabled" yaml:"enabled"`
	Src      string `toml:"src" yaml:"src"`
	Dst      string `toml:"dst" yaml:"dst"`
	Equation string `toml:"equation" yaml:"equation"`
}

type StencilConfig struct {
	Enabled   bool    `toml:"enabled" yaml:"enabled"`
	Func      string  `toml:"func" yaml:"func"`
	Ref       int32   `toml:"ref" yaml:"ref"`
	ReadMask  *uint32 `toml:"read_mask" yaml:"read_mask"`
	WriteMask *uint32 `toml:"write_mask" yaml:"write_mask"`
	Fail      string  `toml:"fail" yaml:"fail"`
	DepthFail string  `toml:"depth_fail" yaml:"depth_fail"`
	Pass      string  `toml:"pass" yaml:"pass"`
}

type SamplerConfig struct {
	Enabled   bool   `toml:"enabled" yaml:"enabled"`
	Unit      uint32 `toml:"unit" yaml:"unit"`
	MinFilter string `toml:"min_filter" yaml:"min_filter"`
	MagFilter string `toml:"mag_filter" yaml:"mag_filter"`
	WrapS     string `toml:"wrap_s" yaml:"wrap_s"`
	WrapT     string `toml:"wrap_t" yaml:"wrap_t"`
	WrapR     string `toml:"wrap_r" yaml:"wrap_r"`
}

var (
	clearFlagNames = map[string]renderer.ClearFlags{
		"color":   renderer.ClearFlags_Color,
		"depth":   renderer.ClearFlags_Depth,
		"stencil": renderer.ClearFlags_Stencil,
	}

	compareFuncNames = map[string]renderer.CompareFunc{
		"less":          renderer.CompareFunc_Less,
		"less_equal":    renderer.CompareFunc_LessEqual,
		"equal":         renderer.CompareFunc_Equal,
		"not_equal":     renderer.CompareFunc_NotEqual,
		"greater":       renderer.CompareFunc_Greater,
		"greater_equal": renderer.CompareFunc_GreaterEqual,
		"always":        renderer.CompareFunc_Always,
		"never":         renderer.CompareFunc_Never,
	}

	cullFaceNames = map[string]renderer.CullFace{
		"back":           renderer.CullFace_Back,
		"front":          renderer.CullFace_Front,
		"front_and_back": renderer.CullFace_FrontAndBack,
	}

	frontFaceNames = map[string]renderer.FrontFace{
		"ccw": renderer.FrontFace_CCW,
		"cw":  renderer.FrontFace_CW,
	}

	blendFactorNames = map[string]renderer.BlendFactor{
		"one":                 renderer.BlendFactor_One,
		"zero":                renderer.BlendFactor_Zero,
		"src_color":           renderer.BlendFactor_SrcColor,
		"one_minus_src_color": renderer.BlendFactor_OneMinusSrcColor,
		"dst_color":           renderer.BlendFactor_DstColor,
		"one_minus_dst_color": renderer.BlendFactor_OneMinusDstColor,
		"src_alpha":           renderer.BlendFactor_SrcAlpha,
		"one_minus_src_alpha": renderer.BlendFactor_OneMinusSrcAlpha,
		"dst_alpha":           renderer.BlendFactor_DstAlpha,
		"one_minus_dst_alpha": renderer.BlendFactor_OneMinusDstAlpha,
	}

	blendEquationNames = map[string]renderer.BlendEquation{
		"add":              renderer.BlendEquation_Add,
		"subtract":         renderer.BlendEquation_Subtract,
		"reverse_subtract": renderer.BlendEquation_ReverseSubtract,
		"min":              renderer.BlendEquation_Min,
		"max":              renderer.BlendEquation_Max,
	}

	stencilOpNames = map[string]renderer.StencilOp{
		"keep":      renderer.StencilOp_Keep,
		"zero":      renderer.StencilOp_Zero,
		"replace":   renderer.StencilOp_Replace,
		"incr":      renderer.StencilOp_Incr,
		"incr_wrap": renderer.StencilOp_IncrWrap,
		"decr":      renderer.StencilOp_Decr,
		"decr_wrap": renderer.StencilOp_DecrWrap,
		"invert":    renderer.StencilOp_Invert,
	}

	filterModeNames = map[string]renderer.FilterMode{
		"linear":                 renderer.FilterMode_Linear,
		"nearest":                renderer.FilterMode_Nearest,
		"linear_mipmap_linear":   renderer.FilterMode_LinearMipmapLinear,
		"nearest_mipmap_nearest": renderer.FilterMode_NearestMipmapNearest,
	}

	wrapModeNames = map[string]renderer.WrapMode{
		"repeat":          renderer.WrapMode_Repeat,
		"clamp_to_edge":   renderer.WrapMode_ClampToEdge,
		"mirrored_repeat": renderer.WrapMode_MirroredRepeat,
	}

	targetFormatNames = map[string]renderer.TargetFormat{
		"rgba8":  renderer.TargetFormat_RGBA8,
		"srgba":  renderer.TargetFormat_SRGBA,
		"r32int": renderer.TargetFormat_R32Int,
	}
)

// parseEnum looks up a case insensitive name. An empty name keeps def.
func parseEnum[T any](kind, name string, def T, names map[string]T) (T, error) {

	if name == "" {
		return def, nil
	}

	v, ok := names[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return def, errors.Errorf("unknown %s '%s'", kind, name)
	}

	return v, nil
}

// ParseHexColor parses an sRGB '#RRGGBB' or '#RRGGBBAA' color into the linear color render states use
func ParseHexColor(s string) (gglm.Vec4, error) {

	h := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(h) != 6 && len(h) != 8 {
		return gglm.Vec4{}, errors.Errorf("color '%s' must be in the form '#RRGGBB' or '#RRGGBBAA'", s)
	}

	b, err := hex.DecodeString(h)
	if err != nil {
		return gglm.Vec4{}, errors.Wrapf(err, "color '%s' is not valid hex", s)
	}

	if len(b) == 3 {
		b = append(b, 255)
	}

	return renderer.SrgbColor(b[0], b[1], b[2], b[3]), nil
}

// Build validates the config and creates the pipeline it describes
func (pc *PipelineConfig) Build() (*renderer.Pipeline, error) {

	if len(pc.Passes) == 0 {
		return renderer.DefaultPipeline(), nil
	}

	name := pc.Name
	if name == "" {
		name = renderer.DefaultPipelineName
	}

	targets := make(map[string]*renderer.OffscreenTarget, len(pc.Targets))
	for i := 0; i < len(pc.Targets); i++ {

		tc := &pc.Targets[i]
		t, err := tc.build()
		if err != nil {
			return nil, errors.Wrapf(err, "target at index %d of pipeline '%s'", i, name)
		}

		if _, ok := targets[t.Name]; ok {
			return nil, errors.Errorf("pipeline '%s' has more than one target named '%s'", name, t.Name)
		}
		targets[t.Name] = t
	}

	descs := make([]renderer.RenderPassDesc, 0, len(pc.Passes))
	for i := 0; i < len(pc.Passes); i++ {

		pass := &pc.Passes[i]
		desc, err := pass.build(targets)
		if err != nil {
			return nil, errors.Wrapf(err, "pass '%s' of pipeline '%s'", pass.Id, name)
		}

		descs = append(descs, desc)
	}

	return renderer.NewPipeline(name, descs...)
}

func (tc *TargetConfig) build() (*renderer.OffscreenTarget, error) {

	if tc.Name == "" {
		return nil, errors.New("target name can not be empty")
	}

	if tc.Width <= 0 || tc.Height <= 0 {
		return nil, errors.Errorf("target '%s' size must be positive, got %dx%d", tc.Name, tc.Width, tc.Height)
	}

	format, err := parseEnum("target format", tc.Format, renderer.TargetFormat_RGBA8, targetFormatNames)
	if err != nil {
		return nil, err
	}

	return &renderer.OffscreenTarget{
		Name:         tc.Name,
		Width:        tc.Width,
		Height:       tc.Height,
		Format:       format,
		DepthStencil: tc.DepthStencil,
	}, nil
}

func (pc *PassConfig) build(targets map[string]*renderer.OffscreenTarget) (renderer.RenderPassDesc, error) {

	desc := renderer.RenderPassDesc{
		Id:     pc.Id,
		Shader: pc.Shader,
		States: renderer.DefaultRenderStates(),
	}

	if pc.Target != "" {
		t, ok := targets[pc.Target]
		if !ok {
			return desc, errors.Errorf("unknown target '%s'", pc.Target)
		}
		desc.Target = t
	}

	s := &desc.States
	var err error

	if c := pc.Clear; c != nil {

		if c.Flags != nil {
			s.Clear.Flags = renderer.ClearFlags_None
			for _, f := range c.Flags {
				flag, err := parseEnum("clear flag", f, renderer.ClearFlags_None, clearFlagNames)
				if err != nil {
					return desc, err
				}
				s.Clear.Flags.Set(flag)
			}
		}

		if c.Color != "" {
			if s.Clear.Color, err = ParseHexColor(c.Color); err != nil {
				return desc, err
			}
		}

		if c.Depth != nil {
			s.Clear.Depth = *c.Depth
		}
		s.Clear.Stencil = c.Stencil
	}

	if d := pc.Depth; d != nil {
		s.Depth.Enabled = d.Enabled
		s.Depth.Write = d.Write
		if s.Depth.Func, err = parseEnum("compare func", d.Func, s.Depth.Func, compareFuncNames); err != nil {
			return desc, err
		}
	}

	if c := pc.Cull; c != nil {
		s.Cull.Enabled = c.Enabled
		if s.Cull.Face, err = parseEnum("cull face", c.Face, s.Cull.Face, cullFaceNames); err != nil {
			return desc, err
		}
		if s.Cull.FrontFace, err = parseEnum("front face", c.FrontFace, s.Cull.FrontFace, frontFaceNames); err != nil {
			return desc, err
		}
	}

	if b := pc.Blend; b != nil {
		s.Blend.Enabled = b.Enabled
		if s.Blend.Src, err = parseEnum("blend factor", b.Src, s.Blend.Src, blendFactorNames); err != nil {
			return desc, err
		}
		if s.Blend.Dst, err = parseEnum("blend factor", b.Dst, s.Blend.Dst, blendFactorNames); err != nil {
			return desc, err
		}
		if s.Blend.Equation, err = parseEnum("blend equation", b.Equation, s.Blend.Equation, blendEquationNames); err != nil {
			return desc, err
		}
	}

	if st := pc.Stencil; st != nil {
		s.Stencil.Enabled = st.Enabled
		s.Stencil.Ref = st.Ref
		if st.ReadMask != nil {
			s.Stencil.ReadMask = *st.ReadMask
		}
		if st.WriteMask != nil {
			s.Stencil.WriteMask = *st.WriteMask
		}

		if s.Stencil.Func, err = parseEnum("compare func", st.Func, s.Stencil.Func, compareFuncNames); err != nil {
			return desc, err
		}
		if s.Stencil.Fail, err = parseEnum("stencil op", st.Fail, s.Stencil.Fail, stencilOpNames); err != nil {
			return desc, err
		}
		if s.Stencil.DepthFail, err = parseEnum("stencil op", st.DepthFail, s.Stencil.DepthFail, stencilOpNames); err != nil {
			return desc, err
		}
		if s.Stencil.Pass, err = parseEnum("stencil op", st.Pass, s.Stencil.Pass, stencilOpNames); err != nil {
			return desc, err
		}
	}

	if sm := pc.Sampler; sm != nil {
		s.Sampler.Enabled = sm.Enabled
		s.Sampler.Unit = sm.Unit
		if s.Sampler.MinFilter, err = parseEnum("filter mode", sm.MinFilter, s.Sampler.MinFilter, filterModeNames); err != nil {
			return desc, err
		}
		if s.Sampler.MagFilter, err = parseEnum("filter mode", sm.MagFilter, s.Sampler.MagFilter, filterModeNames); err != nil {
			return desc, err
		}
		if s.Sampler.WrapS, err = parseEnum("wrap mode", sm.WrapS, s.Sampler.WrapS, wrapModeNames); err != nil {
			return desc, err
		}
		if s.Sampler.WrapT, err = parseEnum("wrap mode", sm.WrapT, s.Sampler.WrapT, wrapModeNames); err != nil {
			return desc, err
		}
		if s.Sampler.WrapR, err = parseEnum("wrap mode", sm.WrapR, s.Sampler.WrapR, wrapModeNames); err != nil {
			return desc, err
		}
	}

	return desc, nil
}
