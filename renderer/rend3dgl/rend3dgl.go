// Package rend3dgl is the OpenGL backend of the render worker. All of its methods run on the
// worker goroutine, which is the only goroutine that ever has the GL context current.
package rend3dgl

import (
	"github.com/bloeys/assimp-go/asig"
	"github.com/bloeys/nrend/buffers"
	"github.com/bloeys/nrend/logging"
	"github.com/bloeys/nrend/meshes"
	"github.com/bloeys/nrend/renderer"
	"github.com/bloeys/nrend/shaders"
	"github.com/bloeys/nrend/systask"
	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// EventType_LoadMesh asks the backend to import a model, as meshes can only be created
// while the GL context is current
const EventType_LoadMesh = systask.EventType_User + 1

// LoadMeshEventData is filled in by the backend. Read Mesh and Err only after
// the service's Await returns.
type LoadMeshEventData struct {
	Name             string
	Path             string
	PostProcessFlags asig.PostProcess

	Mesh *meshes.Mesh
	Err  error
}

var _ systask.EventHandler = &Rend3DGL{}

type passResources struct {
	prog      *shaders.ShaderProgram
	samplerId uint32
}

type Rend3DGL struct {
	BoundVaoId     uint32
	BoundProgramId uint32
	BoundFboId     uint32

	log *logrus.Entry

	win      renderer.WindowHandle
	hasCtx   bool
	viewport renderer.Viewport

	pipeline *renderer.Pipeline
	// programs is keyed by shader path so passes sharing a shader share the program
	programs     map[string]*shaders.ShaderProgram
	passes       map[string]passResources
	framebuffers map[*renderer.OffscreenTarget]*buffers.Framebuffer

	meshes []*meshes.Mesh

	// FramesRendered counts RenderFrame events that were drawn and presented
	FramesRendered uint64
}

func (r *Rend3DGL) OnEvent(ev systask.EventType, data any) {

	switch ev {
	case renderer.EventType_CreateRenderer:
		d, ok := data.(*renderer.CreateRendererEventData)
		if !ok {
			r.badPayload(ev, data)
			return
		}
		r.create(d)

	case renderer.EventType_DestroyRenderer:
		r.destroy()

	case renderer.EventType_Resize:
		d, ok := data.(*renderer.ResizeEventData)
		if !ok {
			r.badPayload(ev, data)
			return
		}
		r.setViewport(renderer.Viewport{Width: d.Width, Height: d.Height})

	case renderer.EventType_SetViewport:
		d, ok := data.(*renderer.ViewportEventData)
		if !ok {
			r.badPayload(ev, data)
			return
		}
		r.setViewport(d.Viewport)

	case renderer.EventType_SetPipeline:
		d, ok := data.(*renderer.SetPipelineEventData)
		if !ok {
			r.badPayload(ev, data)
			return
		}
		r.setPipeline(d.Pipeline)

	case renderer.EventType_RenderFrame:
		d, ok := data.(*renderer.RenderFrameEventData)
		if !ok {
			r.badPayload(ev, data)
			return
		}
		r.renderFrame(d.Frame)

	case EventType_LoadMesh:
		d, ok := data.(*LoadMeshEventData)
		if !ok {
			r.badPayload(ev, data)
			return
		}
		r.loadMesh(d)

	case renderer.EventType_Shutdown:
		r.log.Infoln("Render worker shutting down")

	default:
		r.log.Warnf("Unhandled event '%s'\n", ev)
	}
}

func (r *Rend3DGL) badPayload(ev systask.EventType, data any) {
	r.log.Errorf("Event '%s' has unexpected payload type %T\n", ev, data)
}

func (r *Rend3DGL) create(d *renderer.CreateRendererEventData) {

	if r.hasCtx {
		r.log.Warnln("CreateRenderer received while a renderer already exists. Ignoring")
		return
	}

	if d.Window == nil {
		r.log.Errorln("CreateRenderer received without a window")
		return
	}

	if err := d.Window.MakeContextCurrent(); err != nil {
		r.log.Errorf("Failed to make OpenGL context current. Err: %v\n", err)
		return
	}

	if err := gl.Init(); err != nil {
		r.log.Errorf("Failed to init OpenGL. Err: %v\n", err)
		d.Window.ReleaseContext()
		return
	}

	r.win = d.Window
	r.hasCtx = true

	states := renderer.DefaultRenderStates()
	applyStates(&states)

	setEnabled(gl.MULTISAMPLE, d.MSAA)
	setEnabled(gl.FRAMEBUFFER_SRGB, d.SrgbFramebuffer)

	swapInterval := 0
	if d.VSync {
		swapInterval = 1
	}

	if err := r.win.SetSwapInterval(swapInterval); err != nil {
		r.log.Warnf("Failed to set swap interval to %d. Err: %v\n", swapInterval, err)
	}

	w, h := r.win.DrawableSize()
	r.setViewport(renderer.Viewport{Width: w, Height: h})

	// Get rid of the blinding white startup screen
	gl.ClearColor(0, 0, 0, 1)
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT | gl.STENCIL_BUFFER_BIT)
	r.win.SwapBuffers()

	r.log.WithFields(logrus.Fields{
		"vendor":   gl.GoStr(gl.GetString(gl.VENDOR)),
		"renderer": gl.GoStr(gl.GetString(gl.RENDERER)),
		"version":  gl.GoStr(gl.GetString(gl.VERSION)),
	}).Infoln("OpenGL renderer created")
}

func (r *Rend3DGL) destroy() {

	if !r.hasCtx {
		return
	}

	r.releasePipeline()

	for i := 0; i < len(r.meshes); i++ {
		r.meshes[i].Delete()
	}
	r.meshes = nil

	if err := r.win.ReleaseContext(); err != nil {
		r.log.Warnf("Failed to release OpenGL context. Err: %v\n", err)
	}

	r.win = nil
	r.hasCtx = false
	r.FrameEnd()

	r.log.Infof("OpenGL renderer destroyed after %d frames\n", r.FramesRendered)
}

func (r *Rend3DGL) setViewport(vp renderer.Viewport) {

	r.viewport = vp
	if !r.hasCtx {
		return
	}

	gl.Viewport(vp.X, vp.Y, vp.Width, vp.Height)
}

// setPipeline builds the GPU objects every pass of p needs and frees those of the previous pipeline
func (r *Rend3DGL) setPipeline(p *renderer.Pipeline) {

	if !r.hasCtx {
		r.log.Errorln("SetPipeline received before CreateRenderer")
		return
	}

	r.releasePipeline()
	if p == nil {
		return
	}

	r.pipeline = p
	r.programs = make(map[string]*shaders.ShaderProgram)
	r.passes = make(map[string]passResources, p.Len())
	r.framebuffers = make(map[*renderer.OffscreenTarget]*buffers.Framebuffer)

	passes := p.Passes()
	for i := 0; i < len(passes); i++ {

		desc := &passes[i]
		res := passResources{}

		if desc.Shader != "" {
			prog, err := r.getProgram(desc.Shader)
			if err != nil {
				r.log.Errorf("Pass '%s' of pipeline '%s' has no usable shader, its batches will not be drawn. Err: %v\n", desc.Id, p.Name(), err)
			}
			res.prog = prog
		}

		if desc.States.Sampler.Enabled {
			res.samplerId = newSampler(&desc.States.Sampler)
		}

		if t, ok := desc.Target.(*renderer.OffscreenTarget); ok {
			if _, err := r.getFramebuffer(t); err != nil {
				r.log.Errorf("Failed to create target '%s' of pass '%s'. Err: %v\n", t.Name, desc.Id, err)
			}
		}

		r.passes[desc.Id] = res
	}

	r.log.WithField("pipeline", p.Name()).Infof("Pipeline set with %d passes\n", p.Len())
}

func (r *Rend3DGL) getProgram(shaderPath string) (*shaders.ShaderProgram, error) {

	if prog, ok := r.programs[shaderPath]; ok {
		return prog, nil
	}

	prog, err := shaders.LoadAndCompileCombinedShader(shaderPath)
	if err != nil {
		return nil, err
	}

	r.programs[shaderPath] = &prog
	return &prog, nil
}

func (r *Rend3DGL) getFramebuffer(t *renderer.OffscreenTarget) (*buffers.Framebuffer, error) {

	if fbo, ok := r.framebuffers[t]; ok {
		return fbo, nil
	}

	fbo, err := buffers.NewFramebuffer(t.Width, t.Height)
	if err != nil {
		return nil, err
	}

	format := buffers.FramebufferAttachmentDataFormat_RGBA8
	switch t.Format {
	case renderer.TargetFormat_SRGBA:
		format = buffers.FramebufferAttachmentDataFormat_SRGBA
	case renderer.TargetFormat_R32Int:
		format = buffers.FramebufferAttachmentDataFormat_R32Int
	}

	err = fbo.NewColorAttachment(buffers.FramebufferAttachmentType_Texture, format)
	if err == nil && t.DepthStencil {
		err = fbo.NewDepthStencilAttachment(buffers.FramebufferAttachmentType_Renderbuffer, buffers.FramebufferAttachmentDataFormat_Depth24Stencil8)
	}

	if err == nil && !fbo.IsComplete() {
		err = errors.Errorf("framebuffer of target '%s' is incomplete", t.Name)
	}

	fbo.UnBind()
	if err != nil {
		fbo.Delete()
		return nil, err
	}

	r.framebuffers[t] = &fbo
	return &fbo, nil
}

func (r *Rend3DGL) releasePipeline() {

	for _, prog := range r.programs {
		prog.Delete()
	}

	for _, res := range r.passes {
		if res.samplerId != 0 {
			gl.DeleteSamplers(1, &res.samplerId)
		}
	}

	for _, fbo := range r.framebuffers {
		fbo.Delete()
	}

	r.pipeline = nil
	r.programs = nil
	r.passes = nil
	r.framebuffers = nil
	r.BoundProgramId = 0
	r.BoundFboId = 0
}

func (r *Rend3DGL) loadMesh(d *LoadMeshEventData) {

	if !r.hasCtx {
		d.Err = errors.New("mesh loaded before the renderer was created")
		return
	}

	mesh, err := meshes.NewMesh(d.Name, d.Path, d.PostProcessFlags)
	if err != nil {
		d.Err = err
		r.log.Errorf("Failed to load mesh '%s'. Err: %v\n", d.Name, err)
		return
	}

	d.Mesh = &mesh
	r.meshes = append(r.meshes, d.Mesh)

	// Loading binds the mesh vao, so forget whatever we thought was bound
	r.BoundVaoId = 0
}

func (r *Rend3DGL) FrameEnd() {
	r.BoundVaoId = 0
	r.BoundProgramId = 0
	r.BoundFboId = 0
}

func NewRend3DGL() *Rend3DGL {
	return &Rend3DGL{
		log: logging.WithTask("rend3dgl"),
	}
}
