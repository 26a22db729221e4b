package browser

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/andywolf/issuecast/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeDriver records calls and fails the operation named in failOn.
type fakeDriver struct {
	calls      []string
	connectErr error
	launchErr  error
	failOn     string
	buttons    []string

	typed   string
	clicked string
}

func (f *fakeDriver) step(name string) error {
	f.calls = append(f.calls, name)
	if f.failOn == name {
		return errors.New(name + " failed")
	}
	return nil
}

func (f *fakeDriver) Connect(ctx context.Context) error {
	f.calls = append(f.calls, "connect")
	return f.connectErr
}

func (f *fakeDriver) Launch(ctx context.Context) error {
	f.calls = append(f.calls, "launch")
	return f.launchErr
}

func (f *fakeDriver) Navigate(ctx context.Context, url string) error {
	return f.step("navigate")
}

func (f *fakeDriver) WaitForElement(ctx context.Context, selector string) error {
	return f.step("wait")
}

func (f *fakeDriver) TypeText(ctx context.Context, selector, text string) error {
	if err := f.step("type"); err != nil {
		return err
	}
	f.typed = text
	return nil
}

func (f *fakeDriver) FindAndClickByLabel(ctx context.Context, selector, label string) (bool, error) {
	if err := f.step("click"); err != nil {
		return false, err
	}
	if i := matchLabel(f.buttons, label); i >= 0 {
		f.clicked = f.buttons[i]
		return true, nil
	}
	return false, nil
}

type fixedChooser struct {
	action Action
	err    error
	called bool
}

func (c *fixedChooser) ChooseAction(def Action) (Action, error) {
	c.called = true
	return c.action, c.err
}

func target() config.TargetConfig {
	return config.TargetConfig{
		URL:            "https://chatgpt.com/codex",
		InputSelector:  "#prompt-textarea",
		ButtonSelector: "button",
	}
}

func TestSessionRun_HappyPath(t *testing.T) {
	d := &fakeDriver{buttons: []string{"Archive", " Code ", "Ask"}}
	s := &Session{Driver: d, Target: target()}

	state, err := s.Run(context.Background(), "hello")
	require.NoError(t, err)

	assert.Equal(t, ActionTriggered, state)
	assert.Equal(t, []string{"connect", "navigate", "wait", "type", "click"}, d.calls)
	assert.Equal(t, "hello", d.typed)
	assert.Equal(t, " Code ", d.clicked)
}

func TestSessionRun_LaunchesWhenConnectFails(t *testing.T) {
	d := &fakeDriver{connectErr: errors.New("connection refused"), buttons: []string{"Code"}}
	s := &Session{Driver: d, Target: target()}

	state, err := s.Run(context.Background(), "x")
	require.NoError(t, err)
	assert.Equal(t, ActionTriggered, state)
	assert.Equal(t, []string{"connect", "launch", "navigate", "wait", "type", "click"}, d.calls)
}

func TestSessionRun_LaunchFailure(t *testing.T) {
	d := &fakeDriver{
		connectErr: errors.New("connection refused"),
		launchErr:  errors.New("exec: chrome not found"),
	}
	s := &Session{Driver: d, Target: target()}

	state, err := s.Run(context.Background(), "x")
	require.Error(t, err)

	var le *LaunchError
	require.True(t, errors.As(err, &le))
	assert.Equal(t, Connecting, state)
	assert.Equal(t, []string{"connect", "launch"}, d.calls)
}

func TestSessionRun_LaunchErrorPassedThrough(t *testing.T) {
	orig := &LaunchError{Address: "127.0.0.1:9222", Attempts: 10, Err: errors.New("refused")}
	d := &fakeDriver{connectErr: errors.New("refused"), launchErr: orig}
	s := &Session{Driver: d, Target: target()}

	_, err := s.Run(context.Background(), "x")
	var le *LaunchError
	require.True(t, errors.As(err, &le))
	assert.Same(t, orig, le)
}

func TestSessionRun_StepFailures(t *testing.T) {
	tests := []struct {
		failOn string
		want   State
	}{
		{failOn: "navigate", want: Connected},
		{failOn: "wait", want: PageLoaded},
		{failOn: "type", want: AwaitingInput},
		{failOn: "click", want: InputFilled},
	}

	for _, tt := range tests {
		t.Run(tt.failOn, func(t *testing.T) {
			d := &fakeDriver{failOn: tt.failOn, buttons: []string{"Code"}}
			s := &Session{Driver: d, Target: target()}

			state, err := s.Run(context.Background(), "x")
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.failOn+" failed")
			assert.Equal(t, tt.want, state)
		})
	}
}

func TestSessionRun_AskWithoutMatchingButton(t *testing.T) {
	var out bytes.Buffer
	d := &fakeDriver{buttons: []string{"Code", "Asking", "Archive"}}
	tgt := target()
	tgt.Action = "ask"
	s := &Session{Driver: d, Target: tgt, Out: &out}

	state, err := s.Run(context.Background(), "x")
	require.NoError(t, err)
	assert.Equal(t, ActionTriggered, state)
	assert.Empty(t, d.clicked)
	assert.True(t, strings.Contains(out.String(), "Warning"), "operator should be told nothing was clicked")
}

func TestSessionRun_ActionNoneSkipsClick(t *testing.T) {
	d := &fakeDriver{buttons: []string{"Code"}}
	ch := &fixedChooser{action: ActionNone}
	s := &Session{Driver: d, Target: target(), Chooser: ch}

	state, err := s.Run(context.Background(), "x")
	require.NoError(t, err)
	assert.True(t, ch.called)
	assert.Equal(t, ActionTriggered, state)
	assert.NotContains(t, d.calls, "click")
}

func TestSessionRun_PreselectedActionSkipsChooser(t *testing.T) {
	d := &fakeDriver{buttons: []string{"ASK"}}
	ch := &fixedChooser{action: ActionCode}
	tgt := target()
	tgt.Action = "Ask"
	s := &Session{Driver: d, Target: tgt, Chooser: ch}

	_, err := s.Run(context.Background(), "x")
	require.NoError(t, err)
	assert.False(t, ch.called)
	assert.Equal(t, "ASK", d.clicked)
}

func TestSessionRun_ChooserError(t *testing.T) {
	d := &fakeDriver{}
	s := &Session{Driver: d, Target: target(), Chooser: &fixedChooser{err: errors.New("cancelled")}}

	state, err := s.Run(context.Background(), "x")
	require.Error(t, err)
	assert.Equal(t, InputFilled, state)
	assert.NotContains(t, d.calls, "click")
}

func TestSessionRun_InvalidPreselectedAction(t *testing.T) {
	tgt := target()
	tgt.Action = "deploy"
	s := &Session{Driver: &fakeDriver{}, Target: tgt}

	_, err := s.Run(context.Background(), "x")
	assert.Error(t, err)
}
