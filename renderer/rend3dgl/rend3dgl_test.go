package rend3dgl

import (
	"bytes"
	"os"
	"testing"

	"github.com/bloeys/nrend/logging"
	"github.com/bloeys/nrend/renderer"
	"github.com/stretchr/testify/require"
)

// These only cover paths that don't reach OpenGL, which is everything before CreateRenderer

func captureLogs(t *testing.T) *bytes.Buffer {

	buf := &bytes.Buffer{}
	logging.SetOutput(buf)
	t.Cleanup(func() { logging.SetOutput(os.Stderr) })

	return buf
}

func TestEventsBeforeCreate(t *testing.T) {

	logs := captureLogs(t)
	r := NewRend3DGL()

	r.OnEvent(renderer.EventType_RenderFrame, &renderer.RenderFrameEventData{Frame: &renderer.Frame{}})
	require.Contains(t, logs.String(), "RenderFrame received before CreateRenderer")
	require.Zero(t, r.FramesRendered)

	r.OnEvent(renderer.EventType_SetPipeline, &renderer.SetPipelineEventData{Pipeline: renderer.DefaultPipeline()})
	require.Contains(t, logs.String(), "SetPipeline received before CreateRenderer")

	// Without a context the viewport is only remembered
	r.OnEvent(renderer.EventType_Resize, &renderer.ResizeEventData{Width: 640, Height: 480})
	require.Equal(t, renderer.Viewport{Width: 640, Height: 480}, r.viewport)

	r.OnEvent(renderer.EventType_SetViewport, &renderer.ViewportEventData{Viewport: renderer.Viewport{X: 10, Y: 20, Width: 30, Height: 40}})
	require.Equal(t, renderer.Viewport{X: 10, Y: 20, Width: 30, Height: 40}, r.viewport)

	// Destroying with nothing created is a no-op
	r.OnEvent(renderer.EventType_DestroyRenderer, nil)
	require.False(t, r.hasCtx)
}

func TestLoadMeshBeforeCreate(t *testing.T) {

	captureLogs(t)
	r := NewRend3DGL()

	d := &LoadMeshEventData{Name: "cube", Path: "./res/models/cube.obj"}
	r.OnEvent(EventType_LoadMesh, d)

	require.Error(t, d.Err)
	require.Nil(t, d.Mesh)
}

func TestBadPayload(t *testing.T) {

	logs := captureLogs(t)
	r := NewRend3DGL()

	r.OnEvent(renderer.EventType_Resize, renderer.ResizeEventData{Width: 1, Height: 1})
	require.Contains(t, logs.String(), "unexpected payload type renderer.ResizeEventData")
	require.Equal(t, renderer.Viewport{}, r.viewport)

	r.OnEvent(renderer.EventType_CreateRenderer, "not a window")
	require.False(t, r.hasCtx)
}

func TestCreateWithoutWindow(t *testing.T) {

	logs := captureLogs(t)
	r := NewRend3DGL()

	r.OnEvent(renderer.EventType_CreateRenderer, &renderer.CreateRendererEventData{})
	require.Contains(t, logs.String(), "CreateRenderer received without a window")
	require.False(t, r.hasCtx)
}
