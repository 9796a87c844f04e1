package systask

import "strconv"

// EventType tags a job sent to a system task. Tags are plain comparable values so
// handlers switch on them directly.
type EventType int32

const (
	// EventType_Unknown is the zero value. A job carrying it is a defect: it means a
	// TaskJob was built without going through SendEvent.
	EventType_Unknown EventType = iota

	EventType_CreateRenderer
	EventType_DestroyRenderer
	EventType_Resize
	EventType_SetViewport
	EventType_SetPipeline
	EventType_RenderFrame
	EventType_Shutdown

	// EventType_User is the first tag free for application defined events
	EventType_User EventType = 1000
)

func (e EventType) String() string {

	switch e {
	case EventType_Unknown:
		return "Unknown"
	case EventType_CreateRenderer:
		return "CreateRenderer"
	case EventType_DestroyRenderer:
		return "DestroyRenderer"
	case EventType_Resize:
		return "Resize"
	case EventType_SetViewport:
		return "SetViewport"
	case EventType_SetPipeline:
		return "SetPipeline"
	case EventType_RenderFrame:
		return "RenderFrame"
	case EventType_Shutdown:
		return "Shutdown"
	}

	if e >= EventType_User {
		return "User+" + strconv.Itoa(int(e-EventType_User))
	}

	return "EventType(" + strconv.Itoa(int(e)) + ")"
}

// EventHandler receives the jobs of a system task, one at a time, on the task's worker goroutine
type EventHandler interface {
	OnEvent(ev EventType, data any)
}

type EventHandlerFunc func(ev EventType, data any)

func (f EventHandlerFunc) OnEvent(ev EventType, data any) {
	f(ev, data)
}
