package systask

type jobKind uint8

const (
	jobKind_Dispatch jobKind = iota
	jobKind_Attach
	jobKind_Detach
	jobKind_Quit
)

// TaskJob is one unit of work crossing from a producer to the worker.
//
// Once enqueued the queue owns Data, and once dequeued the worker does.
// Producers must not keep mutating what they passed in.
type TaskJob struct {
	Event EventType
	Data  any

	kind    jobKind
	handler EventHandler
}
