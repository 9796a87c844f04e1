package renderer

import "github.com/bloeys/gglm/gglm"

// Uniform is a named shader variable captured into a batch.
//
// Value holds a copy of the data and must be one of:
// int32, float32, gglm.Vec2, gglm.Vec3, gglm.Vec4, gglm.Mat3, gglm.Mat4
type Uniform struct {
	Name  string
	Value any
}

func (u *Uniform) IsValid() bool {

	if u.Name == "" {
		return false
	}

	switch u.Value.(type) {
	case int32, float32, gglm.Vec2, gglm.Vec3, gglm.Vec4, gglm.Mat3, gglm.Mat4:
		return true
	default:
		return false
	}
}

type MatrixType uint8

const (
	MatrixType_Model MatrixType = iota
	MatrixType_View
	MatrixType_Projection
	MatrixType_ViewProjection
	MatrixType_ModelViewProjection
)

// UniformName is the shader uniform the matrix type is uploaded to
func (mt MatrixType) UniformName() string {

	switch mt {
	case MatrixType_Model:
		return "modelMat"
	case MatrixType_View:
		return "viewMat"
	case MatrixType_Projection:
		return "projMat"
	case MatrixType_ViewProjection:
		return "projViewMat"
	case MatrixType_ModelViewProjection:
		return "mvpMat"
	default:
		return ""
	}
}

type NamedMatrix struct {
	Name string
	Mat  gglm.Mat4
}
