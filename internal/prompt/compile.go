// Package prompt turns a fetched issue plus the operator's answers into the
// Prompt Text that is pasted into the chat interface.
package prompt

import (
	"fmt"
	"strings"

	"github.com/andywolf/issuecast/internal/linear"
)

// NoDescription stands in for an empty issue or sub-issue description.
const NoDescription = "No description provided."

// Choices are the operator's answers to the compiler prompts.
type Choices struct {
	IncludeSubIssues bool
	Monorepo         bool
	Project          string
	IncludeComments  bool
}

// DefaultChoices returns the answers used when every prompt is accepted as-is.
func DefaultChoices() Choices {
	return Choices{IncludeSubIssues: true}
}

// Compile builds the Prompt Text for issue under choices.
func Compile(issue *linear.Issue, choices Choices) string {
	var b strings.Builder

	fmt.Fprintf(&b, "**Issue:** %s\n", issue.Title)
	fmt.Fprintf(&b, "**Description:** %s\n", orNoDescription(issue.Description))

	if choices.IncludeSubIssues && issue.HasChildren() {
		b.WriteString("\n**Sub-issues:**\n")
		for _, child := range issue.Children {
			fmt.Fprintf(&b, "- %s: %s\n", child.Title, orNoDescription(child.Description))
		}
	}

	if choices.IncludeComments && len(issue.Comments) > 0 {
		b.WriteString("\n**Comments:**\n")
		for _, c := range issue.Comments {
			fmt.Fprintf(&b, "- %s: %s\n", c.Author, strings.TrimSpace(c.Body))
		}
	}

	if project := strings.TrimSpace(choices.Project); choices.Monorepo && project != "" {
		fmt.Fprintf(&b, "\n**Project context:** Focus on the `%s` project in this monorepo.\n", project)
	}

	return b.String()
}

func orNoDescription(s string) string {
	if strings.TrimSpace(s) == "" {
		return NoDescription
	}
	return s
}
