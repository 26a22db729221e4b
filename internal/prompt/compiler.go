package prompt

import (
	"fmt"
	"io"
	"strings"

	"github.com/andywolf/issuecast/internal/linear"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
)

// OtherProject is the select option that falls back to free-text entry.
const OtherProject = "Other..."

// Asker asks the operator blocking questions. Every question carries a default.
type Asker interface {
	Confirm(title string, def bool) (bool, error)
	Input(title, def string) (string, error)
	Select(title string, options []string, def string) (string, error)
}

// Result is the outcome of Compiler.Run.
type Result struct {
	Text     string
	Choices  Choices
	Accepted bool
}

// Compiler walks the question steps for one issue.
type Compiler struct {
	Asker Asker
	Out   io.Writer

	// Render formats the preview. Nil prints the text unchanged.
	Render func(string) string

	// Projects, when non-empty, are offered as a list for the project question.
	Projects []string

	// IncludeComments is fixed by the caller rather than asked.
	IncludeComments bool

	// CheckProject vets a non-empty project answer. A failure is shown as a
	// note and the answer is kept.
	CheckProject func(string) error

	// Sensitive flags text that looks like it carries a credential. A match
	// prints a warning above the confirmation.
	Sensitive func(string) bool
}

var (
	previewHeader = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	warningStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("11"))
)

// Run asks every applicable question, prints the compiled text and asks for
// final confirmation. Text is only set when the operator accepted.
func (c *Compiler) Run(issue *linear.Issue) (Result, error) {
	choices := DefaultChoices()
	choices.IncludeComments = c.IncludeComments

	step := Start(issue)
	if step != AskSubIssues {
		choices.IncludeSubIssues = false
	}

	for !step.Terminal() {
		var answer bool
		var err error

		switch step {
		case AskSubIssues:
			title := fmt.Sprintf("Include %d sub-issue(s)?", len(issue.Children))
			answer, err = c.Asker.Confirm(title, true)
			choices.IncludeSubIssues = answer
		case AskMonorepo:
			answer, err = c.Asker.Confirm("Is this a monorepo?", false)
			choices.Monorepo = answer
		case AskProject:
			choices.Project, err = c.askProject()
			if err == nil && choices.Project != "" && c.CheckProject != nil {
				if cerr := c.CheckProject(choices.Project); cerr != nil {
					c.printf("Note: %v\n", cerr)
				}
			}
		case Review:
			c.preview(Compile(issue, choices))
			answer, err = c.Asker.Confirm("Send this to the browser?", true)
		}
		if err != nil {
			return Result{Choices: choices}, fmt.Errorf("%s: %w", step, err)
		}

		step = Next(step, answer)
	}

	if step == Declined {
		return Result{Choices: choices}, nil
	}
	return Result{Text: Compile(issue, choices), Choices: choices, Accepted: true}, nil
}

func (c *Compiler) askProject() (string, error) {
	const title = "Which project should the work focus on?"
	if len(c.Projects) == 0 {
		answer, err := c.Asker.Input(title, "")
		return strings.TrimSpace(answer), err
	}

	options := append(append([]string{}, c.Projects...), OtherProject)
	picked, err := c.Asker.Select(title, options, c.Projects[0])
	if err != nil {
		return "", err
	}
	if picked != OtherProject {
		return picked, nil
	}
	answer, err := c.Asker.Input("Project name", "")
	return strings.TrimSpace(answer), err
}

func (c *Compiler) preview(text string) {
	if c.Out == nil {
		return
	}
	sensitive := c.Sensitive != nil && c.Sensitive(text)
	if c.Render != nil {
		text = c.Render(text)
	}
	fmt.Fprintln(c.Out, previewHeader.Render("Prompt preview"))
	fmt.Fprintln(c.Out, text)
	if sensitive {
		fmt.Fprintln(c.Out, warningStyle.Render("Warning: the text above looks like it contains a credential."))
	}
}

func (c *Compiler) printf(format string, args ...interface{}) {
	if c.Out != nil {
		fmt.Fprintf(c.Out, format, args...)
	}
}

// MarkdownRenderer returns a Render func backed by glamour. If the renderer
// cannot be built, or rendering fails, the text is returned unchanged.
func MarkdownRenderer(width int) func(string) string {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return nil
	}
	return func(s string) string {
		out, err := r.Render(s)
		if err != nil {
			return s
		}
		return out
	}
}
