package models

// Lifecycle is the state of a single asynchronous operation.
type Lifecycle int

const (
	Idle Lifecycle = iota
	Pending
	Succeeded
	Failed
)

func (l Lifecycle) String() string {
	switch l {
	case Idle:
		return "idle"
	case Pending:
		return "pending"
	case Succeeded:
		return "succeeded"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}
