package shaders

import (
	"bytes"
	"os"
	"strings"

	"github.com/bloeys/nrend/logging"
	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/pkg/errors"
)

const combinedShaderMarker = "//shader:"

type Shader struct {
	Id   uint32
	Type ShaderType
}

func (s *Shader) Delete() {
	gl.DeleteShader(s.Id)
	s.Id = 0
}

type ShaderSource struct {
	Type ShaderType
	Src  []byte
}

// SplitCombinedShader splits a combined shader file into its stages.
//
// Each stage starts with a '//shader:vertex', '//shader:fragment' or '//shader:geometry' line.
// A vertex and a fragment stage are required.
func SplitCombinedShader(combinedSrc []byte) ([]ShaderSource, error) {

	parts := bytes.Split(combinedSrc, []byte(combinedShaderMarker))
	if len(parts) < 2 {
		return nil, errors.New("failed to read combined shader. The minimum shader types to have are '//shader:vertex' and '//shader:fragment'")
	}

	out := make([]ShaderSource, 0, len(parts))
	hasVert, hasFrag := false, false
	for i := 0; i < len(parts); i++ {

		src := parts[i]

		// Happens when the file starts with a marker
		if len(bytes.TrimSpace(src)) == 0 {
			continue
		}

		// Anything before the first marker (license headers and such) isn't a stage
		if i == 0 {
			continue
		}

		shdrType := ShaderType_Unknown
		for _, t := range [...]ShaderType{ShaderType_Vertex, ShaderType_Fragment, ShaderType_Geometry} {
			if bytes.HasPrefix(src, []byte(t.String())) {
				shdrType = t
				src = src[len(t.String()):]
				break
			}
		}

		switch shdrType {
		case ShaderType_Vertex:
			hasVert = true
		case ShaderType_Fragment:
			hasFrag = true
		case ShaderType_Unknown:
			return nil, errors.New("unknown shader type. Must be '//shader:vertex' or '//shader:fragment' or '//shader:geometry'")
		}

		out = append(out, ShaderSource{Type: shdrType, Src: src})
	}

	if !hasVert {
		return nil, errors.New("no valid vertex shader found. Please put '//shader:vertex' before your vertex shader")
	}

	if !hasFrag {
		return nil, errors.New("no valid fragment shader found. Please put '//shader:fragment' before your fragment shader")
	}

	return out, nil
}

func NewShaderProgram() (ShaderProgram, error) {

	id := gl.CreateProgram()
	if id == 0 {
		return ShaderProgram{}, errors.New("failed to create shader program")
	}

	return ShaderProgram{Id: id, UnifLocs: make(map[string]int32)}, nil
}

func LoadAndCompileCombinedShader(shaderPath string) (ShaderProgram, error) {

	combinedSource, err := os.ReadFile(shaderPath)
	if err != nil {
		return ShaderProgram{}, errors.Wrapf(err, "failed to read shader '%s'", shaderPath)
	}

	prog, err := LoadAndCompileCombinedShaderSrc(combinedSource)
	if err != nil {
		return ShaderProgram{}, errors.Wrapf(err, "failed to build shader '%s'", shaderPath)
	}

	return prog, nil
}

func LoadAndCompileCombinedShaderSrc(shaderSrc []byte) (ShaderProgram, error) {

	sources, err := SplitCombinedShader(shaderSrc)
	if err != nil {
		return ShaderProgram{}, err
	}

	shdrProg, err := NewShaderProgram()
	if err != nil {
		return ShaderProgram{}, err
	}

	for i := 0; i < len(sources); i++ {

		shdr, err := CompileShaderOfType(sources[i].Src, sources[i].Type)
		if err != nil {
			shdrProg.Delete()
			return ShaderProgram{}, errors.Wrapf(err, "failed to compile %s shader", sources[i].Type)
		}

		shdrProg.AttachShader(shdr)
	}

	if err := shdrProg.Link(); err != nil {
		shdrProg.Delete()
		return ShaderProgram{}, err
	}

	return shdrProg, nil
}

func CompileShaderOfType(shaderSource []byte, shaderType ShaderType) (Shader, error) {

	shaderId := gl.CreateShader(shaderType.ToGl())
	if shaderId == 0 {
		return Shader{}, errors.Errorf("failed to create OpenGl shader. OpenGl Error=%d", gl.GetError())
	}

	shaderCStr, shaderFree := gl.Strs(string(shaderSource) + "\x00")
	defer shaderFree()
	gl.ShaderSource(shaderId, 1, shaderCStr, nil)

	gl.CompileShader(shaderId)
	if err := getShaderCompileErrors(shaderId); err != nil {
		gl.DeleteShader(shaderId)
		return Shader{}, err
	}

	return Shader{Id: shaderId, Type: shaderType}, nil
}

func getShaderCompileErrors(shaderId uint32) error {

	var compiledSuccessfully int32
	gl.GetShaderiv(shaderId, gl.COMPILE_STATUS, &compiledSuccessfully)
	if compiledSuccessfully == gl.TRUE {
		return nil
	}

	var logLength int32
	gl.GetShaderiv(shaderId, gl.INFO_LOG_LENGTH, &logLength)

	log := gl.Str(strings.Repeat("\x00", int(logLength+1)))
	gl.GetShaderInfoLog(shaderId, logLength, nil, log)

	errMsg := gl.GoStr(log)
	logging.ErrLog.Errorf("Compilation of shader with id %d failed. Err: %s\n", shaderId, errMsg)
	return errors.New(errMsg)
}

func getProgramLinkErrors(progId uint32) error {

	var linked int32
	gl.GetProgramiv(progId, gl.LINK_STATUS, &linked)
	if linked == gl.TRUE {
		return nil
	}

	var logLength int32
	gl.GetProgramiv(progId, gl.INFO_LOG_LENGTH, &logLength)

	log := gl.Str(strings.Repeat("\x00", int(logLength+1)))
	gl.GetProgramInfoLog(progId, logLength, nil, log)

	return errors.Errorf("failed to link shader program %d. Err: %s", progId, gl.GoStr(log))
}
