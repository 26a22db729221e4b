// Package wizard provides interactive prompts for CLI commands.
package wizard

import (
	"errors"
	"fmt"
	"strings"

	"github.com/andywolf/issuecast/internal/browser"
	"github.com/charmbracelet/huh"
)

// ErrCancelled is returned when the operator aborts a form.
var ErrCancelled = errors.New("prompt cancelled")

// HuhAsker asks questions with huh forms.
type HuhAsker struct {
	// Accessible switches huh to plain line prompts, for terminals that cannot
	// render the interactive widgets.
	Accessible bool
}

// Confirm asks a yes/no question.
func (a *HuhAsker) Confirm(title string, def bool) (bool, error) {
	confirmed := def
	err := a.run(huh.NewConfirm().
		Title(title).
		Affirmative("Yes").
		Negative("No").
		Value(&confirmed))
	return confirmed, err
}

// Input asks for a line of free text.
func (a *HuhAsker) Input(title, def string) (string, error) {
	value := def
	err := a.run(huh.NewInput().
		Title(title).
		Value(&value))
	return strings.TrimSpace(value), err
}

// Select asks the operator to pick one of options.
func (a *HuhAsker) Select(title string, options []string, def string) (string, error) {
	if len(options) == 0 {
		return "", fmt.Errorf("select %q: no options", title)
	}
	value := defaultOption(options, def)
	err := a.run(huh.NewSelect[string]().
		Title(title).
		Options(huh.NewOptions(options...)...).
		Value(&value))
	return value, err
}

// ChooseAction asks which page button to press after the text is typed.
func (a *HuhAsker) ChooseAction(def browser.Action) (browser.Action, error) {
	var labels []string
	for _, act := range browser.Actions() {
		labels = append(labels, act.String())
	}

	picked, err := a.Select("Which action should be triggered?", labels, def.String())
	if err != nil {
		return browser.ActionNone, err
	}
	return browser.ParseAction(picked)
}

func (a *HuhAsker) run(field huh.Field) error {
	form := huh.NewForm(huh.NewGroup(field)).WithAccessible(a.Accessible)
	if err := form.Run(); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return ErrCancelled
		}
		return fmt.Errorf("%w: %v", ErrCancelled, err)
	}
	return nil
}

// defaultOption returns def when it is one of options, else the first option.
func defaultOption(options []string, def string) string {
	for _, o := range options {
		if o == def {
			return def
		}
	}
	return options[0]
}
