// Package security removes credentials from text before it reaches logs or the terminal.
package security

import (
	"regexp"
	"strings"
)

const redacted = "***REDACTED***"

type rule struct {
	pattern *regexp.Regexp
	replace string
}

// Linear keys are matched first so their prefix survives for debugging.
var defaultRules = []rule{
	{regexp.MustCompile(`\b(lin_(?:api|oauth))_[A-Za-z0-9]{16,}`), "${1}_" + redacted},
	{regexp.MustCompile(`(?i)\b(bearer)\s+[A-Za-z0-9_\-./+=]{16,}`), "${1} " + redacted},
	{regexp.MustCompile(`(?i)\b(authorization|api[_-]?key|access[_-]?token)(["']?\s*[:=]\s*["']?)[A-Za-z0-9_\-./+=]{16,}`), "${1}${2}" + redacted},
	{regexp.MustCompile(`eyJ[a-zA-Z0-9_-]+\.eyJ[a-zA-Z0-9_-]+\.[a-zA-Z0-9_-]+`), redacted},
}

// Scrubber redacts known credential shapes plus any literal secrets registered with it.
type Scrubber struct {
	rules    []rule
	literals []string
}

// NewScrubber creates a Scrubber with the default rules and the given literal secrets.
func NewScrubber(secrets ...string) *Scrubber {
	s := &Scrubber{rules: defaultRules}
	for _, secret := range secrets {
		s.AddSecret(secret)
	}
	return s
}

// AddSecret registers an exact value to redact. Values shorter than 8
// characters are ignored; they would match ordinary words.
func (s *Scrubber) AddSecret(secret string) {
	secret = strings.TrimSpace(secret)
	if len(secret) < 8 {
		return
	}
	s.literals = append(s.literals, secret)
}

// Scrub returns input with every secret replaced.
func (s *Scrubber) Scrub(input string) string {
	if s == nil {
		return input
	}
	out := input
	for _, lit := range s.literals {
		out = strings.ReplaceAll(out, lit, redacted)
	}
	for _, r := range s.rules {
		out = r.pattern.ReplaceAllString(out, r.replace)
	}
	return out
}

// ContainsSensitive reports whether Scrub would change input.
func (s *Scrubber) ContainsSensitive(input string) bool {
	return s.Scrub(input) != input
}
