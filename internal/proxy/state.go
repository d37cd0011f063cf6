package proxy

// State names a step of the cycle state machine.
type State string

const (
	StateStart        State = "start"
	StateResolvingID  State = "resolving_id"
	StateStaged       State = "staged"
	StateConnected    State = "connected"
	StateRequesting   State = "requesting"
	StateInterpreting State = "interpreting"
	StateTimedOut     State = "timed_out"
	StateFaulted      State = "faulted"
	StateCleaning     State = "cleaning"
	StateReported     State = "reported"
)

func (s State) String() string {
	return string(s)
}
