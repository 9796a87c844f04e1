package shaders

import (
	"github.com/bloeys/gglm/gglm"
	"github.com/bloeys/nrend/logging"
	"github.com/go-gl/gl/v4.1-core/gl"
)

type ShaderProgram struct {
	Id           uint32
	VertShaderId uint32
	FragShaderId uint32
	GeomShaderId uint32

	// UnifLocs caches uniform locations, including -1 for names the program doesn't have
	UnifLocs map[string]int32
}

func (sp *ShaderProgram) AttachShader(shader Shader) {

	gl.AttachShader(sp.Id, shader.Id)
	switch shader.Type {
	case ShaderType_Vertex:
		sp.VertShaderId = shader.Id
	case ShaderType_Fragment:
		sp.FragShaderId = shader.Id
	case ShaderType_Geometry:
		sp.GeomShaderId = shader.Id
	default:
		logging.ErrLog.Errorf("Unknown shader type '%d' for shader id '%d'\n", shader.Type, shader.Id)
	}
}

// Link links the attached shaders then deletes them, as the program keeps what it needs
func (sp *ShaderProgram) Link() error {

	gl.LinkProgram(sp.Id)

	for _, id := range [...]uint32{sp.VertShaderId, sp.FragShaderId, sp.GeomShaderId} {
		if id != 0 {
			gl.DeleteShader(id)
		}
	}

	return getProgramLinkErrors(sp.Id)
}

func (sp *ShaderProgram) Bind() {
	gl.UseProgram(sp.Id)
}

func (sp *ShaderProgram) UnBind() {
	gl.UseProgram(0)
}

func (sp *ShaderProgram) Delete() {
	gl.DeleteProgram(sp.Id)
	sp.Id = 0
	sp.UnifLocs = nil
}

// GetUnifLoc returns the location of a uniform or -1 if the program doesn't use it.
// Batches may carry uniforms a pass shader ignores, and GL treats -1 as a no-op.
func (sp *ShaderProgram) GetUnifLoc(uniformName string) int32 {

	loc, ok := sp.UnifLocs[uniformName]
	if ok {
		return loc
	}

	if sp.UnifLocs == nil {
		sp.UnifLocs = make(map[string]int32)
	}

	loc = gl.GetUniformLocation(sp.Id, gl.Str(uniformName+"\x00"))
	sp.UnifLocs[uniformName] = loc
	return loc
}

func (sp *ShaderProgram) SetUnifInt32(uniformName string, val int32) {
	gl.ProgramUniform1i(sp.Id, sp.GetUnifLoc(uniformName), val)
}

func (sp *ShaderProgram) SetUnifFloat32(uniformName string, val float32) {
	gl.ProgramUniform1f(sp.Id, sp.GetUnifLoc(uniformName), val)
}

func (sp *ShaderProgram) SetUnifVec2(uniformName string, vec2 *gglm.Vec2) {
	gl.ProgramUniform2fv(sp.Id, sp.GetUnifLoc(uniformName), 1, &vec2.Data[0])
}

func (sp *ShaderProgram) SetUnifVec3(uniformName string, vec3 *gglm.Vec3) {
	gl.ProgramUniform3fv(sp.Id, sp.GetUnifLoc(uniformName), 1, &vec3.Data[0])
}

func (sp *ShaderProgram) SetUnifVec4(uniformName string, vec4 *gglm.Vec4) {
	gl.ProgramUniform4fv(sp.Id, sp.GetUnifLoc(uniformName), 1, &vec4.Data[0])
}

func (sp *ShaderProgram) SetUnifMat3(uniformName string, mat3 *gglm.Mat3) {
	gl.ProgramUniformMatrix3fv(sp.Id, sp.GetUnifLoc(uniformName), 1, false, &mat3.Data[0][0])
}

func (sp *ShaderProgram) SetUnifMat4(uniformName string, mat4 *gglm.Mat4) {
	gl.ProgramUniformMatrix4fv(sp.Id, sp.GetUnifLoc(uniformName), 1, false, &mat4.Data[0][0])
}
