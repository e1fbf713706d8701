package gate

// State is the lifecycle state of a screen.
type State int32

const (
	Created State = iota
	Resumed
	Paused
	Destroyed
)

func (s State) String() string {
	switch s {
	case Created:
		return "created"
	case Resumed:
		return "resumed"
	case Paused:
		return "paused"
	case Destroyed:
		return "destroyed"
	default:
		return "unknown"
	}
}
