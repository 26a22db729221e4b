package browser

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/andywolf/issuecast/internal/config"
	"github.com/andywolf/issuecast/internal/logging"
	"go.uber.org/zap"
)

// Driver performs the individual browser operations.
type Driver interface {
	// Connect attaches to an already running browser.
	Connect(ctx context.Context) error
	// Launch starts a browser and attaches to it.
	Launch(ctx context.Context) error
	// Navigate opens a new page on url and waits for it to settle.
	Navigate(ctx context.Context, url string) error
	// WaitForElement blocks until selector matches. Only ctx bounds the wait.
	WaitForElement(ctx context.Context, selector string) error
	// TypeText focuses selector and inserts text.
	TypeText(ctx context.Context, selector, text string) error
	// FindAndClickByLabel clicks the first element matching selector whose
	// trimmed text equals label, ignoring case. It reports whether one was found.
	FindAndClickByLabel(ctx context.Context, selector, label string) (bool, error)
}

// Session runs the paste sequence once.
type Session struct {
	Driver Driver
	Target config.TargetConfig

	// Chooser is consulted when Target.Action is empty. Nil means ActionCode.
	Chooser Chooser

	Logger *logging.Logger
	Out    io.Writer // operator-facing notices; nil discards
}

// Run pastes text into the target page and triggers the chosen action. It
// returns the last state reached. The browser is left open.
func (s *Session) Run(ctx context.Context, text string) (State, error) {
	log := s.Logger
	if log == nil {
		log = logging.Nop()
	}
	state := Transition(Disconnected, nil)

	err := s.Driver.Connect(ctx)
	if err != nil {
		log.Debug("no running browser, launching one", zap.Error(err))
		if lerr := s.Driver.Launch(ctx); lerr != nil {
			var le *LaunchError
			if !errors.As(lerr, &le) {
				le = &LaunchError{Err: lerr}
			}
			return state, le
		}
		err = nil
	}
	state = Transition(state, err)
	log.Debug("browser connected", zap.Stringer("state", state))

	if err := s.Driver.Navigate(ctx, s.Target.URL); err != nil {
		return state, fmt.Errorf("navigate to %s: %w", s.Target.URL, err)
	}
	state = Transition(state, nil)

	log.Debug("waiting for input", zap.String("selector", s.Target.InputSelector))
	if err := s.Driver.WaitForElement(ctx, s.Target.InputSelector); err != nil {
		return state, fmt.Errorf("wait for %s: %w", s.Target.InputSelector, err)
	}
	state = Transition(state, nil)

	if err := s.Driver.TypeText(ctx, s.Target.InputSelector, text); err != nil {
		return state, fmt.Errorf("type into %s: %w", s.Target.InputSelector, err)
	}
	state = Transition(state, nil)

	action, err := s.chooseAction()
	if err != nil {
		return state, err
	}

	if action != ActionNone {
		found, err := s.Driver.FindAndClickByLabel(ctx, s.Target.ButtonSelector, action.Label())
		if err != nil {
			return state, fmt.Errorf("click %s: %w", action, err)
		}
		if !found {
			log.Warn("action button not found", zap.String("label", action.Label()))
			s.notify("Warning: no %q button found on the page; the text was typed but nothing was clicked.\n", action)
		} else {
			log.Info("action triggered", zap.Stringer("action", action))
		}
	}

	return Transition(state, nil), nil
}

func (s *Session) chooseAction() (Action, error) {
	if s.Target.Action != "" {
		return ParseAction(s.Target.Action)
	}
	if s.Chooser == nil {
		return ActionCode, nil
	}
	action, err := s.Chooser.ChooseAction(ActionCode)
	if err != nil {
		return ActionNone, fmt.Errorf("choose action: %w", err)
	}
	return action, nil
}

func (s *Session) notify(format string, args ...interface{}) {
	if s.Out != nil {
		fmt.Fprintf(s.Out, format, args...)
	}
}
