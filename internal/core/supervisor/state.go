package supervisor

// State is a supervisor lifecycle state.
type State int32

const (
	StateIdle State = iota
	StateClaiming
	StateRegistering
	StateSessionStarting
	StateHeartbeating
	StateRestarting
	StateShutDown
)

var stateNames = [...]string{
	StateIdle:            "idle",
	StateClaiming:        "claiming",
	StateRegistering:     "registering",
	StateSessionStarting: "session_starting",
	StateHeartbeating:    "heartbeating",
	StateRestarting:      "restarting",
	StateShutDown:        "shut_down",
}

func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return "unknown"
	}
	return stateNames[s]
}
