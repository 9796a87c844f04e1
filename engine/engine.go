package engine

import (
	"runtime"

	"github.com/bloeys/nrend/assert"
	"github.com/bloeys/nrend/logging"
	"github.com/bloeys/nrend/renderer"
	"github.com/pkg/errors"
	"github.com/veandco/go-sdl2/sdl"
)

var (
	isInited = false
)

var _ renderer.WindowHandle = &Window{}

// Window is an SDL window with an OpenGL context.
//
// Events must be polled from the goroutine that called Init, while the context is made
// current on the render worker through the renderer.WindowHandle methods.
type Window struct {
	SDLWin         *sdl.Window
	GlCtx          sdl.GLContext
	EventCallbacks []func(sdl.Event)

	// OnResize is called with the new drawable size whenever the window size changes
	OnResize func(width, height int32)
}

// PollEvents handles all pending window events and reports whether the user asked to quit
func (w *Window) PollEvents() (quit bool) {

	for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {

		for i := 0; i < len(w.EventCallbacks); i++ {
			w.EventCallbacks[i](event)
		}

		switch e := event.(type) {

		case *sdl.WindowEvent:

			if e.Event == sdl.WINDOWEVENT_SIZE_CHANGED {
				w.handleWindowResize()
			}

		case *sdl.KeyboardEvent:

			if e.Type == sdl.KEYDOWN && e.Keysym.Sym == sdl.K_ESCAPE {
				quit = true
			}

		case *sdl.QuitEvent:
			quit = true
		}
	}

	return quit
}

func (w *Window) handleWindowResize() {

	fbWidth, fbHeight := w.DrawableSize()
	if fbWidth <= 0 || fbHeight <= 0 || w.OnResize == nil {
		return
	}

	w.OnResize(fbWidth, fbHeight)
}

func (w *Window) MakeContextCurrent() error {
	return w.SDLWin.GLMakeCurrent(w.GlCtx)
}

func (w *Window) ReleaseContext() error {
	return w.SDLWin.GLMakeCurrent(nil)
}

func (w *Window) SwapBuffers() {
	w.SDLWin.GLSwap()
}

func (w *Window) DrawableSize() (width, height int32) {
	return w.SDLWin.GLGetDrawableSize()
}

// SetSwapInterval sets vsync (1) or no vsync (0) on the context current on the calling thread
func (w *Window) SetSwapInterval(interval int) error {
	return sdl.GLSetSwapInterval(interval)
}

func (w *Window) Destroy() error {

	if w.GlCtx != nil {
		sdl.GLDeleteContext(w.GlCtx)
		w.GlCtx = nil
	}

	return w.SDLWin.Destroy()
}

type InitOptions struct {
	// MSAASamples of 0 disables multisampling
	MSAASamples int
	Srgb        bool
}

func Init(opts InitOptions) error {

	isInited = true

	runtime.LockOSThread()
	return initSDL(opts)
}

func Quit() {
	sdl.Quit()
}

func initSDL(opts InitOptions) error {

	err := sdl.Init(sdl.INIT_TIMER | sdl.INIT_VIDEO)
	if err != nil {
		return errors.Wrap(err, "failed to init SDL")
	}

	sdl.ShowCursor(1)

	sdl.GLSetAttribute(sdl.MAJOR_VERSION, 4)
	sdl.GLSetAttribute(sdl.MINOR_VERSION, 1)

	sdl.GLSetAttribute(sdl.GL_RED_SIZE, 8)
	sdl.GLSetAttribute(sdl.GL_GREEN_SIZE, 8)
	sdl.GLSetAttribute(sdl.GL_BLUE_SIZE, 8)
	sdl.GLSetAttribute(sdl.GL_ALPHA_SIZE, 8)

	sdl.GLSetAttribute(sdl.GL_DOUBLEBUFFER, 1)
	sdl.GLSetAttribute(sdl.GL_DEPTH_SIZE, 24)
	sdl.GLSetAttribute(sdl.GL_STENCIL_SIZE, 8)

	if opts.Srgb {
		sdl.GLSetAttribute(sdl.GL_FRAMEBUFFER_SRGB_CAPABLE, 1)
	}

	if opts.MSAASamples > 0 {
		sdl.GLSetAttribute(sdl.GL_MULTISAMPLEBUFFERS, 1)
		sdl.GLSetAttribute(sdl.GL_MULTISAMPLESAMPLES, opts.MSAASamples)
	}

	sdl.GLSetAttribute(sdl.GL_CONTEXT_PROFILE_MASK, sdl.GL_CONTEXT_PROFILE_CORE)

	return nil
}

func CreateOpenGLWindow(title string, x, y, width, height int32, flags WindowFlags) (*Window, error) {
	return createWindow(title, x, y, width, height, WindowFlags_OPENGL|flags)
}

func CreateOpenGLWindowCentered(title string, width, height int32, flags WindowFlags) (*Window, error) {
	return createWindow(title, sdl.WINDOWPOS_CENTERED, sdl.WINDOWPOS_CENTERED, width, height, WindowFlags_OPENGL|flags)
}

// createWindow creates the window and its context, then releases the context
// so the render worker can make it current on its own thread
func createWindow(title string, x, y, width, height int32, flags WindowFlags) (*Window, error) {

	assert.T(isInited, "engine.Init() was not called!")

	sdlWin, err := sdl.CreateWindow(title, x, y, width, height, uint32(flags))
	if err != nil {
		return nil, errors.Wrap(err, "failed to create window")
	}

	win := &Window{
		SDLWin:         sdlWin,
		EventCallbacks: make([]func(sdl.Event), 0),
	}

	win.GlCtx, err = sdlWin.GLCreateContext()
	if err != nil {
		sdlWin.Destroy()
		return nil, errors.Wrap(err, "failed to create OpenGL context")
	}

	if err := win.ReleaseContext(); err != nil {
		logging.WarnLog.Warnf("Failed to release OpenGL context after creation. Err: %v\n", err)
	}

	return win, nil
}
