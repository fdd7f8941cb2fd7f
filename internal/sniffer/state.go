package sniffer

// State is the lifecycle state of a Sniffer.
type State int32

const (
	// StateIdle means no capture session exists.
	StateIdle State = iota
	// StateStarting means Start is opening the capture facility.
	StateStarting
	// StateRunning means a capture worker is reading frames.
	StateRunning
	// StateStopping means Stop is waiting for the worker.
	StateStopping
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateStarting:
		return "starting"
	case StateRunning:
		return "running"
	case StateStopping:
		return "stopping"
	default:
		return "unknown"
	}
}
