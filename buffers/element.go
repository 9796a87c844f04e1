package buffers

import (
	"github.com/bloeys/nrend/assert"
	"github.com/go-gl/gl/v4.1-core/gl"
)

// Element is one attribute of an interleaved vertex (e.g. a Vec3 normal at byte offset 12)
type Element struct {
	Offset int
	ElementType
}

// ElementType is the data type of one vertex attribute
type ElementType uint8

const (
	DataTypeUnknown ElementType = iota

	DataTypeUint32
	DataTypeInt32
	DataTypeFloat32

	DataTypeVec2
	DataTypeVec3
	DataTypeVec4
)

type elementInfo struct {
	name      string
	glType    uint32
	compCount int32
}

// All supported element types use 4 byte components
var elementInfos = [...]elementInfo{
	DataTypeUnknown: {name: "Unknown"},
	DataTypeUint32:  {name: "uint32", glType: gl.UNSIGNED_INT, compCount: 1},
	DataTypeInt32:   {name: "int32", glType: gl.INT, compCount: 1},
	DataTypeFloat32: {name: "float32", glType: gl.FLOAT, compCount: 1},
	DataTypeVec2:    {name: "Vec2", glType: gl.FLOAT, compCount: 2},
	DataTypeVec3:    {name: "Vec3", glType: gl.FLOAT, compCount: 3},
	DataTypeVec4:    {name: "Vec4", glType: gl.FLOAT, compCount: 4},
}

func (dt ElementType) info() elementInfo {

	if dt == DataTypeUnknown || int(dt) >= len(elementInfos) {
		assert.T(false, "Unknown data type passed. DataType '%d'", dt)
		return elementInfo{name: "Unknown"}
	}

	return elementInfos[dt]
}

func (dt ElementType) GLType() uint32 {
	return dt.info().glType
}

// IsInteger reports whether the attribute must go through glVertexAttribIPointer
func (dt ElementType) IsInteger() bool {
	return dt == DataTypeUint32 || dt == DataTypeInt32
}

// CompCount returns the number of components in the element (e.g. for Vec2 its 2)
func (dt ElementType) CompCount() int32 {
	return dt.info().compCount
}

// Size returns the total size in bytes (e.g. for vec3 its 3*4=12 bytes)
func (dt ElementType) Size() int32 {
	return dt.info().compCount * 4
}

func (dt ElementType) String() string {

	if int(dt) >= len(elementInfos) {
		return "Unknown"
	}

	return elementInfos[dt].name
}
