package renderer

import (
	"github.com/pkg/errors"
)

const (
	DefaultPipelineName = "default"

	PassId_Scene   = "scene"
	PassId_Overlay = "overlay"

	DefaultSceneShaderPath   = "./res/shaders/unlit.glsl"
	DefaultOverlayShaderPath = "./res/shaders/unlit.glsl"
)

// RenderPassDesc is the static description of one pass of a pipeline
type RenderPassDesc struct {
	Id string
	// Shader is the path of a combined shader file ('//shader:vertex', '//shader:fragment', ...)
	Shader string
	// Target is nil for the default framebuffer
	Target RenderTarget
	States RenderStates
}

// Pipeline is the ordered list of passes an application runs every frame.
// It is not modified after creation, which is what lets the producer and the render
// worker hold the same pointer.
type Pipeline struct {
	name   string
	passes []RenderPassDesc
}

func NewPipeline(name string, passes ...RenderPassDesc) (*Pipeline, error) {

	if name == "" {
		return nil, errors.New("pipeline name can not be empty")
	}

	seen := make(map[string]struct{}, len(passes))
	for i := 0; i < len(passes); i++ {

		id := passes[i].Id
		if id == "" {
			return nil, errors.Errorf("pass at index %d of pipeline '%s' has an empty id", i, name)
		}

		if _, ok := seen[id]; ok {
			return nil, errors.Errorf("pipeline '%s' has more than one pass with id '%s'", name, id)
		}
		seen[id] = struct{}{}
	}

	p := &Pipeline{
		name:   name,
		passes: make([]RenderPassDesc, len(passes)),
	}
	copy(p.passes, passes)

	return p, nil
}

// DefaultPipeline has a 'scene' pass drawing opaque geometry with depth testing and culling,
// followed by an 'overlay' pass with alpha blending and no depth test
func DefaultPipeline() *Pipeline {

	scene := RenderPassDesc{
		Id:     PassId_Scene,
		Shader: DefaultSceneShaderPath,
		States: DefaultRenderStates(),
	}
	scene.States.Clear.Color = SrgbColor(20, 20, 20, 255)

	overlay := RenderPassDesc{
		Id:     PassId_Overlay,
		Shader: DefaultOverlayShaderPath,
		States: DefaultRenderStates(),
	}
	overlay.States.Clear.Flags = ClearFlags_None
	overlay.States.Depth.Enabled = false
	overlay.States.Depth.Write = false
	overlay.States.Cull.Enabled = false
	overlay.States.Blend.Enabled = true

	p, err := NewPipeline(DefaultPipelineName, scene, overlay)
	if err != nil {
		panic("default pipeline is invalid: " + err.Error())
	}

	return p
}

func (p *Pipeline) Name() string {
	return p.name
}

func (p *Pipeline) Len() int {
	return len(p.passes)
}

// Passes returns a copy of the pass descriptors in execution order
func (p *Pipeline) Passes() []RenderPassDesc {

	out := make([]RenderPassDesc, len(p.passes))
	copy(out, p.passes)
	return out
}

func (p *Pipeline) GetPassDesc(id string) (RenderPassDesc, bool) {

	for i := 0; i < len(p.passes); i++ {
		if p.passes[i].Id == id {
			return p.passes[i], true
		}
	}

	return RenderPassDesc{}, false
}

func (p *Pipeline) HasPass(id string) bool {
	_, ok := p.GetPassDesc(id)
	return ok
}
