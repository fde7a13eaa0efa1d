// Package lexicon holds the static business vocabulary used to tag spreadsheet rows
// and to classify search queries. A Lexicon is compiled once at startup and is
// read-only afterwards, so it is safe for any number of concurrent readers.
package lexicon

import (
	"fmt"
	"regexp"
	"strings"
)

// PatternCompileError reports a lexicon regex that failed to compile.
type PatternCompileError struct {
	Table   string
	Key     string
	Pattern string
	Err     error
}

func (e *PatternCompileError) Error() string {
	return fmt.Sprintf("lexicon: compile %s[%s] pattern %q: %v", e.Table, e.Key, e.Pattern, e.Err)
}

func (e *PatternCompileError) Unwrap() error { return e.Err }

// Concept is a named business theme with its vocabulary.
type Concept struct {
	Name     string
	Primary  []string
	Synonyms []string
	Patterns []*regexp.Regexp
}

// Match reports whether lower-cased text hits the concept.
// Primary terms are tried first, then synonyms, then patterns.
func (c *Concept) Match(text string) bool {
	return containsAny(text, c.Primary) || containsAny(text, c.Synonyms) || matchesAny(text, c.Patterns)
}

// Compound maps a multi-word term to a concept.
type Compound struct {
	Term    string
	Concept string
}

// PatternGroup is a named set of regexes; a group matches when any pattern does.
type PatternGroup struct {
	Key      string
	Patterns []*regexp.Regexp
}

// Matches reports whether any pattern of the group matches text.
func (g *PatternGroup) Matches(text string) bool {
	return matchesAny(text, g.Patterns)
}

// CountMatches returns the number of patterns that match text.
func (g *PatternGroup) CountMatches(text string) int {
	n := 0
	for _, p := range g.Patterns {
		if p.MatchString(text) {
			n++
		}
	}
	return n
}

// FindAll returns every match of every pattern, in pattern order.
func (g *PatternGroup) FindAll(text string) []string {
	var out []string
	for _, p := range g.Patterns {
		out = append(out, p.FindAllString(text, -1)...)
	}
	return out
}

// IntentRule scores one query intent.
type IntentRule struct {
	Intent   string
	Patterns []*regexp.Regexp
	Keywords []string
}

// Score returns 2 per matching pattern plus 1 per keyword found in text.
func (r *IntentRule) Score(text string) int {
	score := 0
	for _, p := range r.Patterns {
		if p.MatchString(text) {
			score += 2
		}
	}
	for _, k := range r.Keywords {
		if strings.Contains(text, k) {
			score++
		}
	}
	return score
}

// Group is a named, ordered list of members (function taxonomy, concept hierarchy).
type Group struct {
	Name    string
	Members []string
}

// Lexicon is the compiled, immutable vocabulary. Slices returned by its accessors
// are shared and must not be modified.
type Lexicon struct {
	concepts  []Concept
	compounds []Compound
	contexts  []PatternGroup
	functions []Group
	intents   []IntentRule
	temporal  []PatternGroup
	families  []PatternGroup
	hierarchy []Group
}

// New compiles the built-in tables.
func New() (*Lexicon, error) {
	return compile(builtinTables())
}

// MustNew is like New but panics on error.
func MustNew() *Lexicon {
	lx, err := New()
	if err != nil {
		panic(err)
	}
	return lx
}

// Concepts returns concepts in declaration order.
func (l *Lexicon) Concepts() []Concept { return l.concepts }

// Compounds returns the compound-term table.
func (l *Lexicon) Compounds() []Compound { return l.compounds }

// Contexts returns the row context pattern groups.
func (l *Lexicon) Contexts() []PatternGroup { return l.contexts }

// FunctionGroups returns the formula function taxonomy.
func (l *Lexicon) FunctionGroups() []Group { return l.functions }

// Intents returns the intent rules in tie-break order.
func (l *Lexicon) Intents() []IntentRule { return l.intents }

// Temporal returns the temporal pattern groups.
func (l *Lexicon) Temporal() []PatternGroup { return l.temporal }

// QueryFamilies returns the legacy query-category pattern families in tie-break order.
func (l *Lexicon) QueryFamilies() []PatternGroup { return l.families }

// Hierarchy returns the concept hierarchy groups.
func (l *Lexicon) Hierarchy() []Group { return l.hierarchy }

// MatchConcepts returns the names of concepts hit by lower-cased text, in declaration order.
func (l *Lexicon) MatchConcepts(text string) []string {
	var out []string
	for i := range l.concepts {
		if l.concepts[i].Match(text) {
			out = append(out, l.concepts[i].Name)
		}
	}
	return out
}

// Related returns every member of each hierarchy group that contains one of concepts,
// deduplicated, in group order.
func (l *Lexicon) Related(concepts []string) []string {
	want := make(map[string]bool, len(concepts))
	for _, c := range concepts {
		want[c] = true
	}
	seen := make(map[string]bool)
	var out []string
	for _, g := range l.hierarchy {
		hit := false
		for _, m := range g.Members {
			if want[m] {
				hit = true
				break
			}
		}
		if !hit {
			continue
		}
		for _, m := range g.Members {
			if !seen[m] {
				seen[m] = true
				out = append(out, m)
			}
		}
	}
	return out
}

func compile(t tables) (*Lexicon, error) {
	lx := &Lexicon{}

	seen := make(map[string]bool, len(t.concepts))
	for _, def := range t.concepts {
		if seen[def.name] {
			return nil, fmt.Errorf("lexicon: duplicate concept %q", def.name)
		}
		seen[def.name] = true
		patterns, err := compileAll("concepts", def.name, "", def.patterns)
		if err != nil {
			return nil, err
		}
		lx.concepts = append(lx.concepts, Concept{
			Name:     def.name,
			Primary:  def.primary,
			Synonyms: def.synonyms,
			Patterns: patterns,
		})
	}

	for _, def := range t.compounds {
		lx.compounds = append(lx.compounds, Compound{Term: def.term, Concept: def.concept})
	}

	var err error
	if lx.contexts, err = compileGroups("contexts", "(?i)", t.contexts); err != nil {
		return nil, err
	}
	if lx.temporal, err = compileGroups("temporal", "", t.temporal); err != nil {
		return nil, err
	}
	if lx.families, err = compileGroups("families", "", t.families); err != nil {
		return nil, err
	}

	for _, def := range t.intents {
		patterns, err := compileAll("intents", def.intent, "", def.patterns)
		if err != nil {
			return nil, err
		}
		lx.intents = append(lx.intents, IntentRule{Intent: def.intent, Patterns: patterns, Keywords: def.keywords})
	}

	for _, g := range t.functions {
		lx.functions = append(lx.functions, Group{Name: g.name, Members: g.members})
	}
	for _, g := range t.hierarchy {
		lx.hierarchy = append(lx.hierarchy, Group{Name: g.name, Members: g.members})
	}

	return lx, nil
}

func compileGroups(table, flags string, defs []patternGroupDef) ([]PatternGroup, error) {
	out := make([]PatternGroup, 0, len(defs))
	for _, def := range defs {
		patterns, err := compileAll(table, def.key, flags, def.patterns)
		if err != nil {
			return nil, err
		}
		out = append(out, PatternGroup{Key: def.key, Patterns: patterns})
	}
	return out, nil
}

func compileAll(table, key, flags string, patterns []string) ([]*regexp.Regexp, error) {
	out := make([]*regexp.Regexp, 0, len(patterns))
	for _, p := range patterns {
		re, err := regexp.Compile(flags + p)
		if err != nil {
			return nil, &PatternCompileError{Table: table, Key: key, Pattern: p, Err: err}
		}
		out = append(out, re)
	}
	return out, nil
}

func containsAny(text string, terms []string) bool {
	for _, t := range terms {
		if strings.Contains(text, t) {
			return true
		}
	}
	return false
}

func matchesAny(text string, patterns []*regexp.Regexp) bool {
	for _, p := range patterns {
		if p.MatchString(text) {
			return true
		}
	}
	return false
}
