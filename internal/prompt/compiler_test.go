package prompt

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scriptedAsker answers from queues; an empty queue returns the default.
type scriptedAsker struct {
	confirms []bool
	inputs   []string
	selects  []string
	err      error

	asked []string
}

func (a *scriptedAsker) Confirm(title string, def bool) (bool, error) {
	a.asked = append(a.asked, title)
	if a.err != nil {
		return false, a.err
	}
	if len(a.confirms) == 0 {
		return def, nil
	}
	v := a.confirms[0]
	a.confirms = a.confirms[1:]
	return v, nil
}

func (a *scriptedAsker) Input(title, def string) (string, error) {
	a.asked = append(a.asked, title)
	if len(a.inputs) == 0 {
		return def, nil
	}
	v := a.inputs[0]
	a.inputs = a.inputs[1:]
	return v, nil
}

func (a *scriptedAsker) Select(title string, options []string, def string) (string, error) {
	a.asked = append(a.asked, title)
	if len(a.selects) == 0 {
		return def, nil
	}
	v := a.selects[0]
	a.selects = a.selects[1:]
	return v, nil
}

func TestCompilerRun_AllDefaults(t *testing.T) {
	var out bytes.Buffer
	asker := &scriptedAsker{}
	c := &Compiler{Asker: asker, Out: &out}

	res, err := c.Run(sampleIssue())
	require.NoError(t, err)

	want := "**Issue:** Fix login bug\n**Description:** Users cannot log in\n"
	assert.True(t, res.Accepted)
	assert.Equal(t, want, res.Text)
	assert.Contains(t, out.String(), want, "preview must be printed before confirmation")
	// monorepo + review; no sub-issue question without children
	assert.Len(t, asker.asked, 2)
}

func TestCompilerRun_DeclineSubIssues(t *testing.T) {
	asker := &scriptedAsker{confirms: []bool{false, false, true}}
	c := &Compiler{Asker: asker, Out: &bytes.Buffer{}}

	res, err := c.Run(issueWithChildren())
	require.NoError(t, err)

	assert.True(t, res.Accepted)
	assert.False(t, res.Choices.IncludeSubIssues)
	assert.NotContains(t, res.Text, "Sub-issues")
}

func TestCompilerRun_IncludeSubIssuesByDefault(t *testing.T) {
	c := &Compiler{Asker: &scriptedAsker{}, Out: &bytes.Buffer{}}

	res, err := c.Run(issueWithChildren())
	require.NoError(t, err)
	assert.Contains(t, res.Text, "**Sub-issues:**\n- Reset flow: Token expires early\n")
}

func TestCompilerRun_ProjectFreeText(t *testing.T) {
	asker := &scriptedAsker{confirms: []bool{true, true}, inputs: []string{"  billing "}}
	c := &Compiler{Asker: asker, Out: &bytes.Buffer{}}

	res, err := c.Run(sampleIssue())
	require.NoError(t, err)
	assert.Equal(t, "billing", res.Choices.Project)
	assert.True(t, strings.HasSuffix(res.Text, "Focus on the `billing` project in this monorepo.\n"))
}

func TestCompilerRun_ProjectEmptyAnswer(t *testing.T) {
	asker := &scriptedAsker{confirms: []bool{true, true}, inputs: []string{""}}
	c := &Compiler{Asker: asker, Out: &bytes.Buffer{}}

	res, err := c.Run(sampleIssue())
	require.NoError(t, err)
	assert.True(t, res.Choices.Monorepo)
	assert.NotContains(t, res.Text, "Project context")
}

func TestCompilerRun_ProjectFromWorkspaceList(t *testing.T) {
	tests := []struct {
		name    string
		selects []string
		inputs  []string
		want    string
	}{
		{name: "default pick", want: "api"},
		{name: "explicit pick", selects: []string{"web"}, want: "web"},
		{name: "other", selects: []string{OtherProject}, inputs: []string{"docs"}, want: "docs"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			asker := &scriptedAsker{confirms: []bool{true, true}, selects: tt.selects, inputs: tt.inputs}
			c := &Compiler{Asker: asker, Out: &bytes.Buffer{}, Projects: []string{"api", "web"}}

			res, err := c.Run(sampleIssue())
			require.NoError(t, err)
			assert.Equal(t, tt.want, res.Choices.Project)
		})
	}
}

func TestCompilerRun_Declined(t *testing.T) {
	var out bytes.Buffer
	asker := &scriptedAsker{confirms: []bool{false, false}}
	c := &Compiler{Asker: asker, Out: &out}

	res, err := c.Run(sampleIssue())
	require.NoError(t, err)
	assert.False(t, res.Accepted)
	assert.Empty(t, res.Text)
	assert.Contains(t, out.String(), "Fix login bug")
}

func TestCompilerRun_AskerError(t *testing.T) {
	cancelled := errors.New("user aborted")
	c := &Compiler{Asker: &scriptedAsker{err: cancelled}, Out: &bytes.Buffer{}}

	_, err := c.Run(sampleIssue())
	require.Error(t, err)
	assert.ErrorIs(t, err, cancelled)
	assert.Contains(t, err.Error(), "ask-monorepo")
}

func TestCompilerRun_RenderApplied(t *testing.T) {
	var out bytes.Buffer
	c := &Compiler{
		Asker:  &scriptedAsker{},
		Out:    &out,
		Render: func(s string) string { return "<<" + s + ">>" },
	}

	res, err := c.Run(sampleIssue())
	require.NoError(t, err)
	assert.Contains(t, out.String(), "<<**Issue:** Fix login bug")
	assert.NotContains(t, res.Text, "<<", "rendering only affects the preview")
}

func TestCompilerRun_CommentsFlag(t *testing.T) {
	issue := sampleIssue()
	issue.Comments = nil
	c := &Compiler{Asker: &scriptedAsker{}, Out: &bytes.Buffer{}, IncludeComments: true}

	res, err := c.Run(issue)
	require.NoError(t, err)
	assert.True(t, res.Choices.IncludeComments)
	assert.NotContains(t, res.Text, "Comments")
}

func TestCompilerRun_CheckProjectNote(t *testing.T) {
	var out bytes.Buffer
	var checked []string
	c := &Compiler{
		Asker: &scriptedAsker{confirms: []bool{true, true}, inputs: []string{"mobile"}},
		Out:   &out,
		CheckProject: func(p string) error {
			checked = append(checked, p)
			return errors.New(`package "mobile" not found in workspace`)
		},
	}

	res, err := c.Run(sampleIssue())
	require.NoError(t, err)
	assert.Equal(t, []string{"mobile"}, checked)
	assert.Equal(t, "mobile", res.Choices.Project, "the answer is kept")
	assert.Contains(t, out.String(), `Note: package "mobile" not found`)
}

func TestCompilerRun_CheckProjectSkippedForEmptyAnswer(t *testing.T) {
	c := &Compiler{
		Asker: &scriptedAsker{confirms: []bool{true, true}},
		Out:   &bytes.Buffer{},
		CheckProject: func(string) error {
			t.Fatal("CheckProject must not run for an empty project")
			return nil
		},
	}

	_, err := c.Run(sampleIssue())
	require.NoError(t, err)
}

func TestCompilerRun_SensitiveWarning(t *testing.T) {
	issue := sampleIssue()
	issue.Description = "use key lin_api_0123456789abcdefghij"

	var out bytes.Buffer
	c := &Compiler{
		Asker:     &scriptedAsker{},
		Out:       &out,
		Sensitive: func(s string) bool { return strings.Contains(s, "lin_api_") },
	}

	_, err := c.Run(issue)
	require.NoError(t, err)
	assert.Contains(t, out.String(), "looks like it contains a credential")

	out.Reset()
	_, err = c.Run(sampleIssue())
	require.NoError(t, err)
	assert.NotContains(t, out.String(), "credential")
}
