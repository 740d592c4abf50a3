// Package redact replaces personally identifiable information in free-form
// text with fixed placeholder tokens before the text leaves the process.
//
// Detection is pattern based and best-effort. Each category is an
// independent rule that can be enabled or disabled through a Config; rules
// are applied in the fixed order reported by Order.
package redact

import (
	"regexp"
	"strings"
)

// maxPasses bounds the fixed-point loop in Redact. Every replacement removes
// a digit, an '@' or a URL scheme from the text, so the loop converges long
// before this in practice.
const maxPasses = 8

// Rule configures a single category.
type Rule struct {
	Enabled     bool
	Replacement string
}

// Config maps a category to its rule. Categories missing from the map are
// treated as disabled; unknown categories are ignored.
type Config map[Category]Rule

// HighPrivacyConfig enables every category with a "[category]" token.
func HighPrivacyConfig() Config {
	cfg := make(Config, len(matchers))
	for _, m := range matchers {
		cfg[m.category] = Rule{Enabled: true, Replacement: "[" + string(m.category) + "]"}
	}
	return cfg
}

type step struct {
	category Category
	patterns []*regexp.Regexp
	token    string
}

// Redactor applies a Config. It is immutable and safe for concurrent use.
type Redactor struct {
	steps []step
}

// New builds a Redactor for cfg. The config is copied; later changes to the
// map do not affect the Redactor.
func New(cfg Config) *Redactor {
	r := &Redactor{}
	for _, m := range matchers {
		rule, ok := cfg[m.category]
		if !ok || !rule.Enabled {
			continue
		}
		r.steps = append(r.steps, step{
			category: m.category,
			patterns: m.patterns,
			token:    rule.Replacement,
		})
	}
	return r
}

// Categories returns the enabled categories in application order.
func (r *Redactor) Categories() []Category {
	out := make([]Category, len(r.steps))
	for i, s := range r.steps {
		out[i] = s.category
	}
	return out
}

// Redact replaces every enabled category match with its token and trims the
// result. The rules are reapplied until the text stops changing, so the
// output is a fixed point: Redact(Redact(s)) == Redact(s).
func (r *Redactor) Redact(text string) string {
	out := strings.TrimSpace(text)
	if out == "" {
		return ""
	}
	for range maxPasses {
		next := r.pass(out)
		if next == out {
			break
		}
		out = next
	}
	return strings.TrimSpace(out)
}

func (r *Redactor) pass(text string) string {
	for _, s := range r.steps {
		for _, re := range s.patterns {
			text = replace(re, text, s.token)
		}
	}
	return text
}

// replace substitutes token for each match of re. When re declares the pii
// group only that group is replaced and the surrounding context is kept.
func replace(re *regexp.Regexp, text, token string) string {
	idx := re.SubexpIndex(piiGroup)
	if idx < 0 {
		return re.ReplaceAllLiteralString(text, token)
	}

	locs := re.FindAllStringSubmatchIndex(text, -1)
	if len(locs) == 0 {
		return text
	}

	var sb strings.Builder
	sb.Grow(len(text))
	last := 0
	for _, loc := range locs {
		start, end := loc[2*idx], loc[2*idx+1]
		if start < 0 {
			continue
		}
		sb.WriteString(text[last:start])
		sb.WriteString(token)
		last = end
	}
	sb.WriteString(text[last:])
	return sb.String()
}

var defaultRedactor = New(HighPrivacyConfig())

// Redact applies the process-wide high privacy configuration.
func Redact(text string) string {
	return defaultRedactor.Redact(text)
}
