// Package vocabulary rewrites prompts into a synthetic vocabulary and model
// output back into canonical terms. Substitution is whole-word and
// case-insensitive, with the matched span's case pattern preserved.
package vocabulary

import (
	_ "embed"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"sync"
	"unicode"

	"gopkg.in/yaml.v3"
)

// #region mappings

//go:embed mappings.yaml
var rawMappings []byte

// Mapping is one (original, synthetic, category) triple from the static table.
type Mapping struct {
	Original  string `yaml:"original"`
	Synthetic string `yaml:"synthetic"`
	Category  string `yaml:"category"`
}

var (
	mappingsOnce sync.Once
	mappings     []Mapping
)

// Mappings returns the static substitution table.
func Mappings() []Mapping {
	mappingsOnce.Do(func() {
		var doc struct {
			Mappings []Mapping `yaml:"mappings"`
		}
		if err := yaml.Unmarshal(rawMappings, &doc); err != nil {
			// The table is embedded and covered by tests; a parse failure
			// here is a build defect, not a runtime condition.
			panic(fmt.Sprintf("vocabulary: embedded mappings invalid: %v", err))
		}
		mappings = doc.Mappings
	})
	return mappings
}

// #endregion mappings

// #region ruleset

// ruleset is one compiled direction: a single alternation over all terms
// sorted longest-first, so the longest match always wins and a substituted
// span can never be re-matched within the same pass.
type ruleset struct {
	re   *regexp.Regexp
	repl map[string]string // lowercase matched term -> lowercase replacement
}

func compile(pairs [][2]string) *ruleset {
	sort.SliceStable(pairs, func(i, j int) bool {
		if len(pairs[i][0]) != len(pairs[j][0]) {
			return len(pairs[i][0]) > len(pairs[j][0])
		}
		return pairs[i][0] < pairs[j][0]
	})

	terms := make([]string, len(pairs))
	repl := make(map[string]string, len(pairs))
	for i, p := range pairs {
		terms[i] = regexp.QuoteMeta(p[0])
		repl[strings.ToLower(p[0])] = p[1]
	}

	return &ruleset{
		re:   regexp.MustCompile(`(?i)\b(?:` + strings.Join(terms, "|") + `)\b`),
		repl: repl,
	}
}

func (r *ruleset) rewrite(text string) string {
	return r.re.ReplaceAllStringFunc(text, func(match string) string {
		out, ok := r.repl[strings.ToLower(match)]
		if !ok {
			return match
		}
		return matchCase(match, out)
	})
}

// matchCase transfers the matched span's case pattern onto the replacement:
// all-caps stays all-caps, a capitalized first letter stays capitalized,
// anything else comes out lowercase.
func matchCase(match, repl string) string {
	if isAllUpper(match) {
		return strings.ToUpper(repl)
	}
	first, _ := firstLetter(match)
	if unicode.IsUpper(first) {
		runes := []rune(repl)
		runes[0] = unicode.ToUpper(runes[0])
		return string(runes)
	}
	return repl
}

func isAllUpper(s string) bool {
	hasLetter := false
	for _, r := range s {
		if unicode.IsLetter(r) {
			hasLetter = true
			if !unicode.IsUpper(r) {
				return false
			}
		}
	}
	return hasLetter
}

func firstLetter(s string) (rune, bool) {
	for _, r := range s {
		if unicode.IsLetter(r) {
			return r, true
		}
	}
	return 0, false
}

// #endregion ruleset

// #region engine

// Engine applies the substitution table in both directions. Pattern tables
// compile once on first use and are safe to share across goroutines.
type Engine struct {
	enabled bool

	fwdOnce sync.Once
	fwd     *ruleset

	revOnce sync.Once
	rev     *ruleset
}

// NewEngine creates an engine; when disabled, Apply is a passthrough.
func NewEngine(enabled bool) *Engine {
	return &Engine{enabled: enabled}
}

// Enabled reports whether the forward pass is active.
func (e *Engine) Enabled() bool { return e.enabled }

// Apply rewrites original terms to synthetic ones. Identity when disabled.
func (e *Engine) Apply(text string) string {
	if !e.enabled {
		return text
	}
	e.fwdOnce.Do(func() {
		pairs := make([][2]string, 0, len(Mappings()))
		for _, m := range Mappings() {
			pairs = append(pairs, [2]string{m.Original, m.Synthetic})
		}
		e.fwd = compile(pairs)
	})
	return e.fwd.rewrite(text)
}

// Reverse restores canonical terms in synthetic text. It has no disable
// switch: it only ever runs on text the forward pass produced.
func (e *Engine) Reverse(text string) string {
	e.revOnce.Do(func() {
		pairs := make([][2]string, 0, len(Mappings()))
		for _, m := range Mappings() {
			pairs = append(pairs, [2]string{m.Synthetic, m.Original})
		}
		e.rev = compile(pairs)
	})
	return e.rev.rewrite(text)
}

// #endregion engine
