package browser

import (
	"fmt"
	"strings"
)

// Action is the page button pressed once the text is in place.
type Action int

const (
	ActionCode Action = iota
	ActionAsk
	ActionNone
)

// Actions lists every action in menu order.
func Actions() []Action {
	return []Action{ActionCode, ActionAsk, ActionNone}
}

func (a Action) String() string {
	switch a {
	case ActionCode:
		return "Code"
	case ActionAsk:
		return "Ask"
	case ActionNone:
		return "None"
	default:
		return fmt.Sprintf("Action(%d)", int(a))
	}
}

// Label is the button text searched for on the page. ActionNone has none.
func (a Action) Label() string {
	switch a {
	case ActionCode:
		return "code"
	case ActionAsk:
		return "ask"
	default:
		return ""
	}
}

// ParseAction accepts code, ask or none in any case.
func ParseAction(s string) (Action, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "code":
		return ActionCode, nil
	case "ask":
		return ActionAsk, nil
	case "none":
		return ActionNone, nil
	default:
		return ActionNone, fmt.Errorf("unknown action %q (want code, ask or none)", s)
	}
}

// Chooser asks the operator which action to trigger.
type Chooser interface {
	ChooseAction(def Action) (Action, error)
}
