package buffers

import (
	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/pkg/errors"
)

type VertexArray struct {
	Id          uint32
	Vbos        []VertexBuffer
	IndexBuffer IndexBuffer

	// nextAttrib is the first attribute location not yet used by an added vertex buffer
	nextAttrib uint32
}

func (va *VertexArray) Bind() {
	gl.BindVertexArray(va.Id)
}

func (va *VertexArray) UnBind() {
	gl.BindVertexArray(0)
}

// AddVertexBuffer binds the attributes of vbo to the next free attribute locations,
// so a second buffer (e.g. per instance data) continues where the first one stopped
func (va *VertexArray) AddVertexBuffer(vbo VertexBuffer) {

	// NOTE: VBOs are only bound at 'VertexAttribPointer' (and related) calls
	va.Bind()
	vbo.Bind()

	for i := 0; i < len(vbo.layout); i++ {

		l := &vbo.layout[i]
		loc := va.nextAttrib

		gl.EnableVertexAttribArray(loc)
		if l.ElementType.IsInteger() {
			gl.VertexAttribIPointerWithOffset(loc, l.ElementType.CompCount(), l.ElementType.GLType(), vbo.Stride, uintptr(l.Offset))
		} else {
			gl.VertexAttribPointerWithOffset(loc, l.ElementType.CompCount(), l.ElementType.GLType(), false, vbo.Stride, uintptr(l.Offset))
		}

		va.nextAttrib++
	}

	va.Vbos = append(va.Vbos, vbo)
}

func (va *VertexArray) SetIndexBuffer(ib IndexBuffer) {
	va.Bind()
	ib.Bind()
	va.IndexBuffer = ib
}

// Delete frees the vao together with the buffers attached to it
func (va *VertexArray) Delete() {

	for i := 0; i < len(va.Vbos); i++ {
		va.Vbos[i].Delete()
	}
	va.Vbos = nil
	va.IndexBuffer.Delete()

	if va.Id != 0 {
		gl.DeleteVertexArrays(1, &va.Id)
		va.Id = 0
	}
}

func NewVertexArray() (VertexArray, error) {

	vao := VertexArray{}

	gl.GenVertexArrays(1, &vao.Id)
	if vao.Id == 0 {
		return VertexArray{}, errors.Errorf("failed to create OpenGL vertex array object. GlError=%d", gl.GetError())
	}

	return vao, nil
}
