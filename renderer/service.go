package renderer

import (
	"github.com/bloeys/gglm/gglm"
	"github.com/bloeys/nrend/logging"
	"github.com/bloeys/nrend/systask"
)

type RecordState uint8

const (
	RecordState_Idle RecordState = iota
	RecordState_PassOpen
	RecordState_BatchOpen
)

func (rs RecordState) String() string {

	switch rs {
	case RecordState_Idle:
		return "Idle"
	case RecordState_PassOpen:
		return "PassOpen"
	case RecordState_BatchOpen:
		return "BatchOpen"
	default:
		return "Unknown"
	}
}

type ServiceOptions struct {
	// TaskName names the render worker in logs. Defaults to "render"
	TaskName        string
	VSync           bool
	MSAA            bool
	SrgbFramebuffer bool
}

// RenderBackendService is what application code records frames through.
//
// All methods except SendEvent and Await must be called from one producer goroutine.
// Recording only touches the submit frame, and CommitNextFrame is the one place the submit
// and render frames trade places. The render worker, and so the backend handler, only
// exists between Open and Close.
type RenderBackendService struct {
	opts    ServiceOptions
	handler systask.EventHandler
	win     WindowHandle
	task    *systask.SystemTask

	frames          [2]Frame
	submitFrame     *Frame
	renderFrame     *Frame
	framesCommitted uint64
	renderPending   bool

	state     RecordState
	currPass  *PassData
	currBatch *RenderBatchData

	activePipeline *Pipeline
	width          int32
	height         int32
	viewport       Viewport
}

// NewRenderBackendService creates a closed service. handler runs on the render worker and
// receives every event in send order. win may be nil when no window is involved.
func NewRenderBackendService(handler systask.EventHandler, win WindowHandle, opts ServiceOptions) *RenderBackendService {

	if opts.TaskName == "" {
		opts.TaskName = "render"
	}

	s := &RenderBackendService{
		opts:    opts,
		handler: handler,
		win:     win,
	}
	s.submitFrame = &s.frames[0]
	s.renderFrame = &s.frames[1]

	return s
}

func (s *RenderBackendService) IsOpen() bool {
	return s.task != nil && s.task.IsRunning()
}

// Open starts the render worker and asks the backend to create its renderer
func (s *RenderBackendService) Open() bool {

	if s.IsOpen() {
		logging.ErrLog.Errorln("Failed to open render service. Err: service is already open")
		return false
	}

	if s.win != nil {
		s.width, s.height = s.win.DrawableSize()
		s.viewport = Viewport{Width: s.width, Height: s.height}
	}

	s.task = systask.NewSystemTask(s.opts.TaskName)
	s.task.AttachEventHandler(s.handler)
	s.task.Start()

	s.task.SendEvent(EventType_CreateRenderer, &CreateRendererEventData{
		Window:          s.win,
		VSync:           s.opts.VSync,
		MSAA:            s.opts.MSAA,
		SrgbFramebuffer: s.opts.SrgbFramebuffer,
	})

	if s.activePipeline != nil {
		s.task.SendEvent(EventType_SetPipeline, &SetPipelineEventData{Pipeline: s.activePipeline})
	}

	return true
}

// Close destroys the renderer, waits for the worker to finish everything already sent, and stops it.
// Anything still being recorded is discarded.
func (s *RenderBackendService) Close() bool {

	if !s.IsOpen() {
		logging.ErrLog.Errorln("Failed to close render service. Err: service is not open")
		return false
	}

	if s.state != RecordState_Idle {
		logging.WarnLog.Warnf("Closing render service while in state '%s'. Open passes and batches are discarded\n", s.state)
		s.resetRecording()
	}
	s.submitFrame.Reset()

	s.task.SendEvent(EventType_DestroyRenderer, nil)
	s.task.SendEvent(EventType_Shutdown, nil)
	s.task.Await()
	s.task.Stop()

	s.task = nil
	s.renderPending = false
	return true
}

func (s *RenderBackendService) State() RecordState {
	return s.state
}

func (s *RenderBackendService) SubmitFrame() *Frame {
	return s.submitFrame
}

// RenderFrame returns the last committed frame. While the service is open it belongs to the
// backend and must only be read.
func (s *RenderBackendService) RenderFrame() *Frame {
	return s.renderFrame
}

// GetPassById looks up a pass in the submit frame
func (s *RenderBackendService) GetPassById(id string) *PassData {
	return s.submitFrame.GetPassById(id)
}

func (s *RenderBackendService) BeginPass(id string) *PassData {

	if s.state != RecordState_Idle {

		if s.currPass != nil && s.currPass.Id == id {
			logging.ErrLog.Errorf("Failed to begin pass '%s'. Err: pass is already open\n", id)
		} else {
			logging.ErrLog.Errorf("Failed to begin pass '%s'. Err: pass '%s' is still open (state=%s)\n", id, s.currPassId(), s.state)
		}

		return nil
	}

	if s.activePipeline == nil {
		logging.ErrLog.Errorf("Failed to begin pass '%s'. Err: no active pipeline\n", id)
		return nil
	}

	desc, ok := s.activePipeline.GetPassDesc(id)
	if !ok {
		logging.ErrLog.Errorf("Failed to begin pass '%s'. Err: pipeline '%s' has no such pass\n", id, s.activePipeline.Name())
		return nil
	}

	pass := &PassData{
		Id:      id,
		Target:  desc.Target,
		States:  desc.States,
		Batches: make([]*RenderBatchData, 0, 4),
	}

	s.submitFrame.Passes = append(s.submitFrame.Passes, pass)
	s.submitFrame.Dirty = true

	s.currPass = pass
	s.state = RecordState_PassOpen
	return pass
}

func (s *RenderBackendService) EndPass() bool {

	switch s.state {
	case RecordState_PassOpen:
		s.currPass = nil
		s.state = RecordState_Idle
		return true

	case RecordState_BatchOpen:
		logging.ErrLog.Errorf("Failed to end pass '%s'. Err: batch '%s' is still open\n", s.currPassId(), s.currBatchName())
		return false

	default:
		logging.ErrLog.Errorln("Failed to end pass. Err: no pass is open")
		return false
	}
}

func (s *RenderBackendService) BeginRenderBatch(name string) *RenderBatchData {

	if s.state != RecordState_PassOpen {
		logging.ErrLog.Errorf("Failed to begin batch '%s'. Err: needs an open pass and no open batch (state=%s)\n", name, s.state)
		return nil
	}

	batch := &RenderBatchData{Name: name}
	s.currPass.Batches = append(s.currPass.Batches, batch)

	s.currBatch = batch
	s.state = RecordState_BatchOpen
	return batch
}

func (s *RenderBackendService) EndRenderBatch() bool {

	if s.state != RecordState_BatchOpen {
		logging.ErrLog.Errorf("Failed to end batch. Err: no batch is open (state=%s)\n", s.state)
		return false
	}

	s.currBatch.Sealed = true
	s.currBatch = nil
	s.state = RecordState_PassOpen
	return true
}

func (s *RenderBackendService) SetMatrix(mt MatrixType, m *gglm.Mat4) bool {

	name := mt.UniformName()
	if name == "" {
		logging.ErrLog.Errorf("Failed to set matrix. Err: unknown matrix type '%d'\n", mt)
		return false
	}

	return s.SetMatrixByName(name, m)
}

func (s *RenderBackendService) SetMatrixByName(name string, m *gglm.Mat4) bool {

	if !s.requireOpenBatch("SetMatrix") {
		return false
	}

	if name == "" || m == nil {
		logging.ErrLog.Errorf("Failed to set matrix '%s' on batch '%s'. Err: empty name or nil matrix\n", name, s.currBatch.Name)
		return false
	}

	s.currBatch.setMatrix(name, m)
	return true
}

func (s *RenderBackendService) SetUniform(u Uniform) bool {

	if !s.requireOpenBatch("SetUniform") {
		return false
	}

	if !u.IsValid() {
		logging.ErrLog.Errorf("Failed to set uniform '%s' on batch '%s'. Err: unsupported value type %T\n", u.Name, s.currBatch.Name, u.Value)
		return false
	}

	s.currBatch.setUniform(u)
	return true
}

func (s *RenderBackendService) AddMesh(mesh Mesh, instanceCount int32) bool {

	if !s.requireOpenBatch("AddMesh") {
		return false
	}

	if mesh == nil || instanceCount < 1 {
		logging.ErrLog.Errorf("Failed to add mesh to batch '%s'. Err: nil mesh or instance count %d < 1\n", s.currBatch.Name, instanceCount)
		return false
	}

	s.currBatch.Meshes = append(s.currBatch.Meshes, MeshInstance{Mesh: mesh, InstanceCount: instanceCount})
	return true
}

// ClearPasses drops everything recorded into the submit frame. Only valid with no pass open.
func (s *RenderBackendService) ClearPasses() bool {

	if s.state != RecordState_Idle {
		logging.ErrLog.Errorf("Failed to clear passes. Err: pass '%s' is still open\n", s.currPassId())
		return false
	}

	s.submitFrame.Reset()
	return true
}

// CommitNextFrame hands the submit frame to the backend and starts a fresh one.
//
// It must be called with no pass open. If the backend is still drawing the previous frame this
// blocks until it is done, since that frame becomes the new submit frame and is cleared.
func (s *RenderBackendService) CommitNextFrame() bool {

	if s.state != RecordState_Idle {
		logging.ErrLog.Errorf("Failed to commit frame. Err: pass '%s' is still open (state=%s)\n", s.currPassId(), s.state)
		return false
	}

	open := s.IsOpen()
	if open && s.renderPending {
		s.task.Await()
	}

	s.submitFrame, s.renderFrame = s.renderFrame, s.submitFrame
	s.submitFrame.Reset()

	s.framesCommitted++
	s.renderFrame.Number = s.framesCommitted

	s.renderPending = false
	if open {
		s.renderPending = s.task.SendEvent(EventType_RenderFrame, &RenderFrameEventData{Frame: s.renderFrame})
	}

	return true
}

func (s *RenderBackendService) CreateDefaultPipeline() *Pipeline {
	return DefaultPipeline()
}

func (s *RenderBackendService) ActivePipeline() *Pipeline {
	return s.activePipeline
}

// SetActivePipeline makes p the pipeline passes are resolved against, for both recording and the backend
func (s *RenderBackendService) SetActivePipeline(p *Pipeline) bool {

	if p == nil {
		logging.ErrLog.Errorln("Failed to set active pipeline. Err: pipeline is nil")
		return false
	}

	if s.state != RecordState_Idle {
		logging.ErrLog.Errorf("Failed to set active pipeline '%s'. Err: pass '%s' is still open\n", p.Name(), s.currPassId())
		return false
	}

	s.activePipeline = p
	if s.IsOpen() {
		s.task.SendEvent(EventType_SetPipeline, &SetPipelineEventData{Pipeline: p})
	}

	return true
}

func (s *RenderBackendService) Size() (width, height int32) {
	return s.width, s.height
}

func (s *RenderBackendService) Viewport() Viewport {
	return s.viewport
}

// Resize records the new framebuffer size and resets the viewport to cover it
func (s *RenderBackendService) Resize(width, height int32) bool {

	if width <= 0 || height <= 0 {
		logging.ErrLog.Errorf("Failed to resize to %dx%d. Err: sizes must be positive\n", width, height)
		return false
	}

	s.width, s.height = width, height
	s.viewport = Viewport{Width: width, Height: height}

	if s.IsOpen() {
		s.task.SendEvent(EventType_Resize, &ResizeEventData{Width: width, Height: height})
	}

	return true
}

func (s *RenderBackendService) SetViewport(x, y, width, height int32) bool {

	if width <= 0 || height <= 0 {
		logging.ErrLog.Errorf("Failed to set viewport to %dx%d. Err: sizes must be positive\n", width, height)
		return false
	}

	s.viewport = Viewport{X: x, Y: y, Width: width, Height: height}
	if s.IsOpen() {
		s.task.SendEvent(EventType_SetViewport, &ViewportEventData{Viewport: s.viewport})
	}

	return true
}

// SendEvent forwards an out of band event to the backend. Safe from any goroutine while open.
func (s *RenderBackendService) SendEvent(ev systask.EventType, data any) bool {

	task := s.task
	if task == nil {
		logging.ErrLog.Errorf("Failed to send event '%s'. Err: service is not open\n", ev)
		return false
	}

	return task.SendEvent(ev, data)
}

// Await blocks until the backend has handled what was sent so far
func (s *RenderBackendService) Await() {

	if s.task != nil {
		s.task.Await()
	}
}

func (s *RenderBackendService) requireOpenBatch(op string) bool {

	if s.state == RecordState_BatchOpen {
		return true
	}

	logging.ErrLog.Errorf("Failed to %s. Err: no batch is open (state=%s)\n", op, s.state)
	return false
}

// currPassId is for log lines only, it tolerates a nil pass
func (s *RenderBackendService) currPassId() string {

	if s.currPass == nil {
		return "<none>"
	}

	return s.currPass.Id
}

func (s *RenderBackendService) currBatchName() string {

	if s.currBatch == nil {
		return "<none>"
	}

	return s.currBatch.Name
}

func (s *RenderBackendService) resetRecording() {
	s.currPass = nil
	s.currBatch = nil
	s.state = RecordState_Idle
}
