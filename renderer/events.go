package renderer

import "github.com/bloeys/nrend/systask"

// Payloads of the control events the service sends to its backend.
// Each is created fresh per send and never touched by the producer afterwards.

type CreateRendererEventData struct {
	Window          WindowHandle
	VSync           bool
	MSAA            bool
	SrgbFramebuffer bool
}

type ResizeEventData struct {
	Width  int32
	Height int32
}

type Viewport struct {
	X, Y          int32
	Width, Height int32
}

type ViewportEventData struct {
	Viewport Viewport
}

type SetPipelineEventData struct {
	Pipeline *Pipeline
}

// RenderFrameEventData carries the committed frame. The backend must treat it as read only.
type RenderFrameEventData struct {
	Frame *Frame
}

// Re-exported so backends and applications need only import this package for the common tags
const (
	EventType_CreateRenderer  = systask.EventType_CreateRenderer
	EventType_DestroyRenderer = systask.EventType_DestroyRenderer
	EventType_Resize          = systask.EventType_Resize
	EventType_SetViewport     = systask.EventType_SetViewport
	EventType_SetPipeline     = systask.EventType_SetPipeline
	EventType_RenderFrame     = systask.EventType_RenderFrame
	EventType_Shutdown        = systask.EventType_Shutdown
)
