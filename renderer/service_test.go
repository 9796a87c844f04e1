package renderer

import (
	"sync"
	"testing"

	"github.com/bloeys/gglm/gglm"
	"github.com/bloeys/nrend/systask"
	"github.com/stretchr/testify/require"
)

type testMesh struct {
	name string
}

func (m *testMesh) MeshName() string {
	return m.name
}

type handledEvent struct {
	Event systask.EventType
	Data  any

	// Snapshot of a RenderFrame payload taken on the worker
	FrameNumber uint64
	PassIds     []string
}

type recordingBackend struct {
	lock   sync.Mutex
	events []handledEvent
}

func (b *recordingBackend) OnEvent(ev systask.EventType, data any) {

	he := handledEvent{Event: ev, Data: data}
	if rf, ok := data.(*RenderFrameEventData); ok {
		he.FrameNumber = rf.Frame.Number
		for _, p := range rf.Frame.Passes {
			he.PassIds = append(he.PassIds, p.Id)
		}
	}

	b.lock.Lock()
	b.events = append(b.events, he)
	b.lock.Unlock()
}

func (b *recordingBackend) Events() []handledEvent {

	b.lock.Lock()
	defer b.lock.Unlock()

	out := make([]handledEvent, len(b.events))
	copy(out, b.events)
	return out
}

func (b *recordingBackend) EventTypes() []systask.EventType {

	events := b.Events()
	out := make([]systask.EventType, len(events))
	for i := range events {
		out[i] = events[i].Event
	}

	return out
}

type fakeWindow struct {
	width, height int32
}

func (w *fakeWindow) MakeContextCurrent() error          { return nil }
func (w *fakeWindow) ReleaseContext() error              { return nil }
func (w *fakeWindow) SwapBuffers()                       {}
func (w *fakeWindow) DrawableSize() (int32, int32)       { return w.width, w.height }
func (w *fakeWindow) SetSwapInterval(interval int) error { return nil }

func newTestPipeline(t *testing.T, ids ...string) *Pipeline {

	t.Helper()

	descs := make([]RenderPassDesc, len(ids))
	for i, id := range ids {
		descs[i] = RenderPassDesc{Id: id, States: DefaultRenderStates()}
	}

	p, err := NewPipeline("test", descs...)
	require.NoError(t, err)
	return p
}

func newTestService(t *testing.T) *RenderBackendService {

	t.Helper()

	s := NewRenderBackendService(&recordingBackend{}, nil, ServiceOptions{})
	require.True(t, s.SetActivePipeline(newTestPipeline(t, "p1", "p2")))
	return s
}

func identity() *gglm.Mat4 {
	return &gglm.Mat4{Data: [4][4]float32{{1, 0, 0, 0}, {0, 1, 0, 0}, {0, 0, 1, 0}, {0, 0, 0, 1}}}
}

func TestBeginPassTwiceFails(t *testing.T) {

	s := newTestService(t)

	first := s.BeginPass("p1")
	require.NotNil(t, first)
	require.Equal(t, RecordState_PassOpen, s.State())

	require.Nil(t, s.BeginPass("p1"))
	require.Equal(t, RecordState_PassOpen, s.State())
	require.Same(t, first, s.currPass)
	require.Len(t, s.SubmitFrame().Passes, 1)

	// A different pass can't start either while p1 is open
	require.Nil(t, s.BeginPass("p2"))
	require.True(t, s.EndPass())
	require.Equal(t, RecordState_Idle, s.State())
}

func TestBeginPassRequiresPipelinePass(t *testing.T) {

	s := NewRenderBackendService(&recordingBackend{}, nil, ServiceOptions{})
	require.Nil(t, s.BeginPass("p1"), "no active pipeline")

	require.True(t, s.SetActivePipeline(newTestPipeline(t, "p1")))
	require.Nil(t, s.BeginPass("missing"))
	require.Equal(t, RecordState_Idle, s.State())
	require.Empty(t, s.SubmitFrame().Passes)
}

func TestBeginPassCopiesDescriptorStates(t *testing.T) {

	desc := RenderPassDesc{Id: "p1", States: DefaultRenderStates()}
	desc.States.Clear.Color = SrgbColor(255, 0, 0, 255)
	p, err := NewPipeline("test", desc)
	require.NoError(t, err)

	s := NewRenderBackendService(&recordingBackend{}, nil, ServiceOptions{})
	s.SetActivePipeline(p)

	pass := s.BeginPass("p1")
	require.NotNil(t, pass)
	require.Equal(t, desc.States, pass.States)

	// Per frame changes don't leak into the pipeline
	pass.States.Clear.Flags = ClearFlags_None
	stored, _ := p.GetPassDesc("p1")
	require.True(t, stored.States.Clear.Flags.Has(ClearFlags_Color))
}

func TestBeginBatchNeedsOpenPass(t *testing.T) {

	s := newTestService(t)
	require.Nil(t, s.BeginRenderBatch("b1"))
	require.Equal(t, RecordState_Idle, s.State())

	s.BeginPass("p1")
	b := s.BeginRenderBatch("b1")
	require.NotNil(t, b)
	require.Equal(t, RecordState_BatchOpen, s.State())

	// No nested batches
	require.Nil(t, s.BeginRenderBatch("b2"))
	require.Equal(t, RecordState_BatchOpen, s.State())
}

func TestEndPassWithOpenBatchFails(t *testing.T) {

	s := newTestService(t)
	s.BeginPass("p1")
	s.BeginRenderBatch("b1")

	require.False(t, s.EndPass())
	require.Equal(t, RecordState_BatchOpen, s.State())

	require.True(t, s.EndRenderBatch())
	require.Equal(t, RecordState_PassOpen, s.State())
	require.True(t, s.EndPass())
	require.Equal(t, RecordState_Idle, s.State())
}

func TestEndCallsOutOfOrder(t *testing.T) {

	s := newTestService(t)
	require.False(t, s.EndPass())
	require.False(t, s.EndRenderBatch())

	s.BeginPass("p1")
	require.False(t, s.EndRenderBatch())
	require.Equal(t, RecordState_PassOpen, s.State())
}

func TestRecordingOutsideBatchFails(t *testing.T) {

	s := newTestService(t)
	m := &testMesh{name: "cube"}

	require.False(t, s.SetMatrix(MatrixType_Model, identity()))
	require.False(t, s.SetUniform(Uniform{Name: "color", Value: float32(1)}))
	require.False(t, s.AddMesh(m, 1))

	s.BeginPass("p1")
	require.False(t, s.SetMatrix(MatrixType_Model, identity()))
	require.False(t, s.AddMesh(m, 1))

	require.Empty(t, s.GetPassById("p1").Batches)
}

func TestBatchRecording(t *testing.T) {

	s := newTestService(t)
	m := &testMesh{name: "cube"}

	s.BeginPass("p1")
	b := s.BeginRenderBatch("b1")

	model := identity()
	model.Data[3][0] = 5
	require.True(t, s.SetMatrix(MatrixType_Model, model))
	require.True(t, s.SetMatrixByName("lightMat", identity()))

	// Setting the same name again replaces the value
	model.Data[3][0] = 7
	require.True(t, s.SetMatrix(MatrixType_Model, model))

	require.True(t, s.SetUniform(Uniform{Name: "exposure", Value: float32(1.5)}))
	require.True(t, s.SetUniform(Uniform{Name: "exposure", Value: float32(2)}))
	require.True(t, s.SetUniform(Uniform{Name: "tint", Value: gglm.Vec3{Data: [3]float32{1, 0, 0}}}))
	require.False(t, s.SetUniform(Uniform{Name: "bad", Value: 1.0}), "float64 is not a supported uniform type")
	require.False(t, s.SetUniform(Uniform{Value: int32(1)}), "empty name")

	require.True(t, s.AddMesh(m, 3))
	require.False(t, s.AddMesh(m, 0))
	require.False(t, s.AddMesh(nil, 1))

	require.True(t, s.EndRenderBatch())
	require.True(t, b.Sealed)

	require.Len(t, b.Matrices, 2)
	got, ok := b.GetMatrix("modelMat")
	require.True(t, ok)
	require.Equal(t, float32(7), got.Data[3][0])

	// The batch holds its own copy
	model.Data[3][0] = 9
	got, _ = b.GetMatrix("modelMat")
	require.Equal(t, float32(7), got.Data[3][0])

	require.Len(t, b.Uniforms, 2)
	u, ok := b.GetUniform("exposure")
	require.True(t, ok)
	require.Equal(t, float32(2), u.Value)

	require.Equal(t, []MeshInstance{{Mesh: m, InstanceCount: 3}}, b.Meshes)
	require.Same(t, b, s.GetPassById("p1").GetBatchByName("b1"))
}

func TestClearPassesEmptiesSubmitFrame(t *testing.T) {

	s := newTestService(t)

	s.BeginPass("p1")
	s.BeginRenderBatch("b1")
	require.True(t, s.AddMesh(&testMesh{name: "m"}, 1))
	require.True(t, s.EndRenderBatch())

	require.False(t, s.ClearPasses(), "pass still open")
	require.True(t, s.EndPass())
	require.NotNil(t, s.GetPassById("p1"))
	require.True(t, s.SubmitFrame().Dirty)

	require.True(t, s.ClearPasses())
	require.Nil(t, s.GetPassById("p1"))
	require.Empty(t, s.SubmitFrame().Passes)
	require.False(t, s.SubmitFrame().Dirty)
}

func TestCommitNextFrameSwaps(t *testing.T) {

	s := newTestService(t)

	oldSubmit := s.SubmitFrame()
	oldRender := s.RenderFrame()
	require.NotSame(t, oldSubmit, oldRender)

	s.BeginPass("p1")
	s.BeginRenderBatch("b1")
	s.AddMesh(&testMesh{name: "m"}, 2)
	s.EndRenderBatch()
	s.EndPass()
	s.BeginPass("p2")
	s.EndPass()

	require.True(t, s.CommitNextFrame())

	require.Same(t, oldSubmit, s.RenderFrame())
	require.Same(t, oldRender, s.SubmitFrame())
	require.Empty(t, s.SubmitFrame().Passes)

	rf := s.RenderFrame()
	require.Equal(t, uint64(1), rf.Number)
	require.Len(t, rf.Passes, 2)
	require.Equal(t, 1, rf.BatchCount())
	require.Equal(t, int32(2), rf.GetPassById("p1").GetBatchByName("b1").Meshes[0].InstanceCount)

	// Second commit brings the first frame instance back, cleared
	s.BeginPass("p2")
	s.EndPass()
	require.True(t, s.CommitNextFrame())
	require.Same(t, oldRender, s.RenderFrame())
	require.Same(t, oldSubmit, s.SubmitFrame())
	require.Empty(t, s.SubmitFrame().Passes)
	require.Equal(t, uint64(2), s.RenderFrame().Number)
}

func TestCommitNextFrameRequiresIdle(t *testing.T) {

	s := newTestService(t)
	submit := s.SubmitFrame()

	s.BeginPass("p1")
	require.False(t, s.CommitNextFrame())
	require.Same(t, submit, s.SubmitFrame())

	s.BeginRenderBatch("b1")
	require.False(t, s.CommitNextFrame())
	require.Same(t, submit, s.SubmitFrame())
}

func TestSetActivePipelineOnlyWhenIdle(t *testing.T) {

	s := newTestService(t)
	other := newTestPipeline(t, "x")

	require.False(t, s.SetActivePipeline(nil))

	s.BeginPass("p1")
	require.False(t, s.SetActivePipeline(other))
	s.EndPass()

	require.True(t, s.SetActivePipeline(other))
	require.Same(t, other, s.ActivePipeline())
	require.NotNil(t, s.BeginPass("x"))
}

func TestRejectionsWithoutCurrentPass(t *testing.T) {

	s := newTestService(t)
	other := newTestPipeline(t, "x")

	// Non-idle state with no pass or batch recorded must still be rejected cleanly
	for _, st := range []RecordState{RecordState_PassOpen, RecordState_BatchOpen} {

		s.state = st
		s.currPass = nil
		s.currBatch = nil

		require.NotPanics(t, func() {
			require.Nil(t, s.BeginPass("p1"))
			require.False(t, s.EndPass())
			require.False(t, s.ClearPasses())
			require.False(t, s.CommitNextFrame())
			require.False(t, s.SetActivePipeline(other))
		}, "state=%s", st)

		require.NotSame(t, other, s.ActivePipeline())
		require.Empty(t, s.SubmitFrame().Passes)
	}

	require.Equal(t, "<none>", s.currPassId())
	require.Equal(t, "<none>", s.currBatchName())

	s.resetRecording()
	require.NotNil(t, s.BeginPass("p1"))
	require.Equal(t, "p1", s.currPassId())
}

func TestResizeAndViewportValidation(t *testing.T) {

	s := newTestService(t)

	require.False(t, s.Resize(0, 10))
	require.True(t, s.Resize(800, 600))
	w, h := s.Size()
	require.Equal(t, int32(800), w)
	require.Equal(t, int32(600), h)
	require.Equal(t, Viewport{Width: 800, Height: 600}, s.Viewport())

	require.False(t, s.SetViewport(0, 0, 10, -1))
	require.True(t, s.SetViewport(10, 20, 100, 50))
	require.Equal(t, Viewport{X: 10, Y: 20, Width: 100, Height: 50}, s.Viewport())
}

func TestSendEventWhenClosed(t *testing.T) {
	s := newTestService(t)
	require.False(t, s.SendEvent(systask.EventType_User, nil))
}

func TestOpenCloseEventSequence(t *testing.T) {

	backend := &recordingBackend{}
	win := &fakeWindow{width: 1280, height: 720}
	s := NewRenderBackendService(backend, win, ServiceOptions{VSync: true})
	s.SetActivePipeline(s.CreateDefaultPipeline())

	require.False(t, s.Close())
	require.True(t, s.Open())
	require.False(t, s.Open())
	require.True(t, s.IsOpen())

	w, h := s.Size()
	require.Equal(t, int32(1280), w)
	require.Equal(t, int32(720), h)

	s.BeginPass(PassId_Scene)
	s.BeginRenderBatch("cubes")
	s.SetMatrix(MatrixType_Model, identity())
	s.AddMesh(&testMesh{name: "cube"}, 10)
	s.EndRenderBatch()
	s.EndPass()
	require.True(t, s.CommitNextFrame())

	require.True(t, s.Resize(640, 480))
	require.True(t, s.SendEvent(systask.EventType_User, "custom"))
	require.True(t, s.Close())
	require.False(t, s.IsOpen())

	require.Equal(t, []systask.EventType{
		EventType_CreateRenderer,
		EventType_SetPipeline,
		EventType_RenderFrame,
		EventType_Resize,
		systask.EventType_User,
		EventType_DestroyRenderer,
		EventType_Shutdown,
	}, backend.EventTypes())

	events := backend.Events()

	create := events[0].Data.(*CreateRendererEventData)
	require.Same(t, win, create.Window)
	require.True(t, create.VSync)

	require.Same(t, s.ActivePipeline(), events[1].Data.(*SetPipelineEventData).Pipeline)

	require.Equal(t, uint64(1), events[2].FrameNumber)
	require.Equal(t, []string{PassId_Scene}, events[2].PassIds)
	require.Same(t, s.RenderFrame(), events[2].Data.(*RenderFrameEventData).Frame)

	require.Equal(t, &ResizeEventData{Width: 640, Height: 480}, events[3].Data)
	require.Equal(t, "custom", events[4].Data)
}

func TestCommitWaitsForPreviousRender(t *testing.T) {

	release := make(chan struct{})
	var lock sync.Mutex
	var rendered []uint64

	handler := systask.EventHandlerFunc(func(ev systask.EventType, data any) {

		if ev != EventType_RenderFrame {
			return
		}

		<-release
		lock.Lock()
		rendered = append(rendered, data.(*RenderFrameEventData).Frame.Number)
		lock.Unlock()
	})

	s := NewRenderBackendService(handler, nil, ServiceOptions{})
	s.SetActivePipeline(newTestPipeline(t, "p1"))
	require.True(t, s.Open())

	require.True(t, s.CommitNextFrame())

	committed := make(chan struct{})
	go func() {
		s.CommitNextFrame()
		close(committed)
	}()

	// Unblock both renders. The second commit can only return after the first was rendered.
	release <- struct{}{}
	<-committed
	lock.Lock()
	require.Equal(t, []uint64{1}, rendered)
	lock.Unlock()

	close(release)
	require.True(t, s.Close())
	require.Equal(t, []uint64{1, 2}, rendered)
}

func TestCloseDiscardsOpenRecording(t *testing.T) {

	backend := &recordingBackend{}
	s := NewRenderBackendService(backend, nil, ServiceOptions{})
	s.SetActivePipeline(newTestPipeline(t, "p1"))
	s.Open()

	s.BeginPass("p1")
	s.BeginRenderBatch("b1")
	require.True(t, s.Close())

	require.Equal(t, RecordState_Idle, s.State())
	require.Empty(t, s.SubmitFrame().Passes)

	// Reopening gives a fresh worker
	require.True(t, s.Open())
	require.True(t, s.Close())
	require.Len(t, backend.Events(), 8)
}
