package rend3dgl

import (
	"github.com/bloeys/gglm/gglm"
	"github.com/bloeys/nrend/buffers"
	"github.com/bloeys/nrend/meshes"
	"github.com/bloeys/nrend/renderer"
	"github.com/bloeys/nrend/shaders"
	"github.com/go-gl/gl/v4.1-core/gl"
)

// renderFrame draws every recorded pass in order then presents.
// The frame belongs to the producer again once this returns, so nothing from it is kept.
func (r *Rend3DGL) renderFrame(f *renderer.Frame) {

	if !r.hasCtx {
		r.log.Errorln("RenderFrame received before CreateRenderer")
		return
	}

	if f == nil {
		return
	}

	for i := 0; i < len(f.Passes); i++ {
		r.drawPass(f.Passes[i])
	}

	r.win.SwapBuffers()
	r.FramesRendered++
	r.FrameEnd()
}

func (r *Rend3DGL) drawPass(p *renderer.PassData) {

	if r.pipeline == nil {
		r.log.Errorf("Pass '%s' can't be drawn as no pipeline was set\n", p.Id)
		return
	}

	if !r.bindTarget(p) {
		return
	}

	clearTarget(&p.States.Clear)
	applyStates(&p.States)

	res := r.passes[p.Id]
	if p.States.Sampler.Enabled && res.samplerId != 0 {
		gl.BindSampler(p.States.Sampler.Unit, res.samplerId)
		defer gl.BindSampler(p.States.Sampler.Unit, 0)
	}

	if res.prog == nil {
		return
	}

	if res.prog.Id != r.BoundProgramId {
		res.prog.Bind()
		r.BoundProgramId = res.prog.Id
	}

	for i := 0; i < len(p.Batches); i++ {
		r.drawBatch(res.prog, p.Batches[i])
	}
}

func (r *Rend3DGL) bindTarget(p *renderer.PassData) bool {

	var fbo *buffers.Framebuffer
	switch t := p.Target.(type) {
	case nil:
	case *renderer.OffscreenTarget:
		var err error
		fbo, err = r.getFramebuffer(t)
		if err != nil {
			r.log.Errorf("Skipping pass '%s', its target '%s' is unusable. Err: %v\n", p.Id, t.Name, err)
			return false
		}
	case *buffers.Framebuffer:
		fbo = t
	default:
		r.log.Errorf("Skipping pass '%s', target type %T is not supported by this backend\n", p.Id, p.Target)
		return false
	}

	if fbo == nil {
		if r.BoundFboId != 0 {
			gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
			r.BoundFboId = 0
		}
		gl.Viewport(r.viewport.X, r.viewport.Y, r.viewport.Width, r.viewport.Height)
		return true
	}

	fbo.BindWithViewport()
	r.BoundFboId = fbo.Id
	return true
}

func (r *Rend3DGL) drawBatch(prog *shaders.ShaderProgram, b *renderer.RenderBatchData) {

	for i := 0; i < len(b.Matrices); i++ {
		prog.SetUnifMat4(b.Matrices[i].Name, &b.Matrices[i].Mat)
	}

	for i := 0; i < len(b.Uniforms); i++ {
		setUniform(prog, &b.Uniforms[i])
	}

	for i := 0; i < len(b.Meshes); i++ {

		inst := &b.Meshes[i]
		mesh, ok := inst.Mesh.(*meshes.Mesh)
		if !ok {
			r.log.Errorf("Batch '%s' has mesh '%s' of type %T which this backend can't draw\n", b.Name, inst.Mesh.MeshName(), inst.Mesh)
			continue
		}

		r.drawMesh(mesh, inst.InstanceCount)
	}
}

func (r *Rend3DGL) drawMesh(mesh *meshes.Mesh, instanceCount int32) {

	if mesh.Vao.Id != r.BoundVaoId {
		mesh.Vao.Bind()
		r.BoundVaoId = mesh.Vao.Id
	}

	for i := 0; i < len(mesh.SubMeshes); i++ {
		sm := &mesh.SubMeshes[i]
		gl.DrawElementsInstancedBaseVertexWithOffset(gl.TRIANGLES, sm.IndexCount, gl.UNSIGNED_INT, uintptr(sm.BaseIndex*4), instanceCount, sm.BaseVertex)
	}
}

func setUniform(prog *shaders.ShaderProgram, u *renderer.Uniform) {

	switch v := u.Value.(type) {
	case int32:
		prog.SetUnifInt32(u.Name, v)
	case float32:
		prog.SetUnifFloat32(u.Name, v)
	case gglm.Vec2:
		prog.SetUnifVec2(u.Name, &v)
	case gglm.Vec3:
		prog.SetUnifVec3(u.Name, &v)
	case gglm.Vec4:
		prog.SetUnifVec4(u.Name, &v)
	case gglm.Mat3:
		prog.SetUnifMat3(u.Name, &v)
	case gglm.Mat4:
		prog.SetUnifMat4(u.Name, &v)
	}
}
