package prompt

import "github.com/andywolf/issuecast/internal/linear"

// Step is a position in the compiler's question sequence.
type Step int

const (
	AskSubIssues Step = iota
	AskMonorepo
	AskProject
	Review
	Accepted
	Declined
)

var stepNames = map[Step]string{
	AskSubIssues: "ask-sub-issues",
	AskMonorepo:  "ask-monorepo",
	AskProject:   "ask-project",
	Review:       "review",
	Accepted:     "accepted",
	Declined:     "declined",
}

func (s Step) String() string {
	if name, ok := stepNames[s]; ok {
		return name
	}
	return "unknown"
}

// Terminal reports whether no further question follows s.
func (s Step) Terminal() bool {
	return s == Accepted || s == Declined
}

// Start returns the first question for issue. The sub-issue question is
// skipped when there is nothing to include.
func Start(issue *linear.Issue) Step {
	if issue.HasChildren() {
		return AskSubIssues
	}
	return AskMonorepo
}

// Next returns the step after s given the operator's yes/no answer. The answer
// is ignored for steps whose successor does not depend on it.
func Next(s Step, answer bool) Step {
	switch s {
	case AskSubIssues:
		return AskMonorepo
	case AskMonorepo:
		if answer {
			return AskProject
		}
		return Review
	case AskProject:
		return Review
	case Review:
		if answer {
			return Accepted
		}
		return Declined
	default:
		return s
	}
}
