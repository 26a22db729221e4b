// Package browser pastes the compiled prompt into the chat page of a remotely
// debuggable Chrome and triggers one of the page's action buttons.
package browser

// State is the driver's position in the paste sequence.
type State int

const (
	Disconnected State = iota
	Connecting
	Connected
	PageLoaded
	AwaitingInput
	InputFilled
	ActionTriggered
)

var stateNames = [...]string{
	Disconnected:    "disconnected",
	Connecting:      "connecting",
	Connected:       "connected",
	PageLoaded:      "page-loaded",
	AwaitingInput:   "awaiting-input",
	InputFilled:     "input-filled",
	ActionTriggered: "action-triggered",
}

func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return "unknown"
	}
	return stateNames[s]
}

// Transition returns the state reached after the step taken in s finished
// with err. A failed step leaves the state unchanged and ActionTriggered is
// terminal.
func Transition(s State, err error) State {
	if err != nil || s >= ActionTriggered || s < 0 {
		return s
	}
	return s + 1
}
