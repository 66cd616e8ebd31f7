package moderation

import (
	"regexp"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// defaultWords is the built-in replacement dictionary. Deployments extend it
// via MODERATION_WORDS.
var defaultWords = []string{
	"ass", "asshole", "bastard", "bitch", "crap", "cunt", "damn", "dick",
	"fuck", "fucker", "fucking", "piss", "prick", "shit", "slut", "whore",
}

// Filter masks dictionary words and strips HTML from user text. Clean is
// deterministic and total: it has no failure mode, and with an empty
// dictionary text passes through the HTML policy unchanged.
type Filter struct {
	policy *bluemonday.Policy
	re     *regexp.Regexp
}

// NewFilter builds a filter over the default dictionary plus extra words.
func NewFilter(extra ...string) *Filter {
	words := append(append([]string{}, defaultWords...), extra...)
	return newFilter(words)
}

// NewEmptyFilter builds a filter with no dictionary; Clean only strips HTML.
func NewEmptyFilter() *Filter {
	return newFilter(nil)
}

func newFilter(words []string) *Filter {
	f := &Filter{policy: bluemonday.StrictPolicy()}

	if len(words) > 0 {
		quoted := make([]string, 0, len(words))
		for _, w := range words {
			w = strings.TrimSpace(w)
			if w == "" {
				continue
			}
			quoted = append(quoted, regexp.QuoteMeta(w))
		}
		if len(quoted) > 0 {
			f.re = regexp.MustCompile(`(?i)\b(` + strings.Join(quoted, "|") + `)\b`)
		}
	}

	return f
}

// Clean strips markup and replaces every dictionary word with a run of
// asterisks of the same length.
func (f *Filter) Clean(text string) string {
	if text == "" {
		return text
	}

	cleaned := f.policy.Sanitize(text)

	if f.re == nil {
		return cleaned
	}
	return f.re.ReplaceAllStringFunc(cleaned, func(match string) string {
		return strings.Repeat("*", len(match))
	})
}
