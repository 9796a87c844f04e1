package renderer

// WindowHandle is the slice of a platform window the render worker needs.
// The context calls are made from the worker goroutine, which stays on one OS thread.
type WindowHandle interface {
	MakeContextCurrent() error
	ReleaseContext() error
	SwapBuffers()
	DrawableSize() (width, height int32)
	SetSwapInterval(interval int) error
}

// Mesh is geometry a batch can draw. Backends type assert to their own mesh type.
type Mesh interface {
	MeshName() string
}

// RenderTarget is where a pass draws to. A nil target means the window's default framebuffer.
type RenderTarget interface {
	TargetSize() (width, height int32)
}

type MeshInstance struct {
	Mesh          Mesh
	InstanceCount int32
}

type TargetFormat uint8

const (
	TargetFormat_RGBA8 TargetFormat = iota
	TargetFormat_SRGBA
	TargetFormat_R32Int
)

// OffscreenTarget describes a framebuffer a pass renders into instead of the window.
// The backend creates the GPU object the first time a pipeline using it is set.
type OffscreenTarget struct {
	Name         string
	Width        int32
	Height       int32
	Format       TargetFormat
	DepthStencil bool
}

func (t *OffscreenTarget) TargetSize() (width, height int32) {
	return t.Width, t.Height
}
