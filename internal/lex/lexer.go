// Package lex implements the context-aware tokenizer the jqx table-driven
// parser needs: at any position, only a small subset of terminal patterns
// ("the active token group") are legal, and that subset is chosen by the
// parser's last transition rather than fixed in advance. This is what lets
// a format string's interpolated `{expr}` switch back into full-expression
// tokens and then back into string-fragment tokens, matching the
// kilojoule original's get_next_token.
package lex

import (
	"regexp"
	"sort"

	"github.com/dekarrin/jqx/internal/jqxerr"
)

// Def is one terminal pattern: Name is the token name the grammar refers
// to, Pattern is matched with an implicit anchor at the current position
// (regexp.Regexp.FindStringIndex on the remaining text, keeping only a
// match starting at index 0 -- Go's regexp has no native "match here only"
// primitive the way Python's re.match does, so Lexer fakes it this way).
type Def struct {
	Name    string
	Pattern *regexp.Regexp
}

// Token is one lexed unit: its token name, the exact text matched, and the
// byte offset it started at.
type Token struct {
	Name string
	Text string
	Pos  int
}

// End is the synthetic token name returned once the lexer is exhausted.
const End = "END"

// Lexer tokenizes text against an ordered list of Defs, skipping runs
// matched by Ignore before every token fetch. Declaration order in Defs
// breaks ties when two patterns match the same length at the same
// position, exactly as the original's declared-order token_idx tiebreak.
type Lexer struct {
	Defs   []Def
	Ignore *regexp.Regexp

	// Keyword, if set, is consulted after a successful match of the named
	// def: if the matched text is a key in the map, the returned Token's
	// Name is replaced by the mapped value. This is how `null`, `true`,
	// `false`, `and`, and `or` are carved out of a generic identifier
	// pattern without separate, higher-priority regexes for each -- the
	// same lookup-after-match the original performs via its keyword_map.
	Keyword     map[string]string
	KeywordFrom string

	text string
	pos  int
}

// New returns a Lexer positioned at the start of text.
func New(defs []Def, ignore *regexp.Regexp, text string) *Lexer {
	return &Lexer{Defs: defs, Ignore: ignore, text: text, pos: 0}
}

// Pos returns the current byte offset.
func (l *Lexer) Pos() int { return l.pos }

// Seek moves the lexer to an arbitrary byte offset.
func (l *Lexer) Seek(pos int) { l.pos = pos }

func (l *Lexer) skipIgnore() {
	if l.Ignore == nil {
		return
	}
	for l.pos < len(l.text) {
		loc := l.Ignore.FindStringIndex(l.text[l.pos:])
		if loc == nil || loc[0] != 0 || loc[1] == 0 {
			return
		}
		l.pos += loc[1]
	}
}

// Next scans one token using only the Defs whose Name appears in allowed,
// plus the KeywordFrom def whenever Keyword is set, since a keyword token
// (e.g. NULL or MAP) can only come from that def's match being renamed.
// Without a Keyword map, a nil or empty allowed restricts to nothing and
// always fails (except at end of input, which always yields End regardless
// of allowed).
func (l *Lexer) Next(allowed []string) (Token, error) {
	l.skipIgnore()

	if l.pos >= len(l.text) {
		return Token{Name: End, Pos: l.pos}, nil
	}

	allowedSet := make(map[string]bool, len(allowed))
	for _, a := range allowed {
		allowedSet[a] = true
	}

	bestLen := -1
	bestIdx := -1
	for i, d := range l.Defs {
		if !allowedSet[d.Name] && (l.Keyword == nil || d.Name != l.KeywordFrom) {
			continue
		}
		loc := d.Pattern.FindStringIndex(l.text[l.pos:])
		if loc == nil || loc[0] != 0 {
			continue
		}
		if loc[1] > bestLen {
			bestLen = loc[1]
			bestIdx = i
		}
	}

	if bestIdx == -1 {
		return Token{}, jqxerr.Lexf(l.pos, "no token in the active set matches here (tried %v)", sortedCopy(allowed))
	}
	if bestLen == 0 {
		return Token{}, jqxerr.Lexf(l.pos, "token %q matched zero characters", l.Defs[bestIdx].Name)
	}

	def := l.Defs[bestIdx]
	text := l.text[l.pos : l.pos+bestLen]
	tok := Token{Name: def.Name, Text: text, Pos: l.pos}
	l.pos += bestLen

	if l.Keyword != nil && def.Name == l.KeywordFrom {
		if kw, ok := l.Keyword[text]; ok {
			tok.Name = kw
		}
	}

	return tok, nil
}

func sortedCopy(s []string) []string {
	cp := append([]string(nil), s...)
	sort.Strings(cp)
	return cp
}
