// Package textnorm turns raw, free-text battle and boss labels into stable
// comparison keys. Labels arrive from years of user and admin input across
// multiple scripts (ASCII, full-width forms, kana), so folding and noise
// stripping run as two separate stages: fold first, then strip.
package textnorm

import (
	"regexp"
	"strings"
	"sync"

	"golang.org/x/text/cases"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
	"golang.org/x/text/width"
)

// Transformer chains are stateful, so each call borrows a fresh one.
var foldPool = sync.Pool{
	New: func() any {
		return transform.Chain(
			norm.NFKC,    // compose + map full-width forms to their half-width equivalents
			cases.Fold(), // unicode case folding
			width.Fold,
		)
	},
}

var (
	// Parenthetical annotations, ASCII and full-width pairs. NFKC maps the
	// full-width pair to ASCII, but raw input may reach here unfolded too.
	reParen = regexp.MustCompile(`\([^()]*\)|（[^（）]*）`)

	// Trailing numbering suffixes: "no. 3", "no3", "#3", "3番". Input is
	// already lower-cased when this runs.
	reNumbering = regexp.MustCompile(`(?:[\s]*(?:no\.?[\s]*[0-9]+|#[0-9]+|[0-9]+番))+$`)
)

// Characters stripped outright. ASCII punctuation plus the Japanese
// typographic variants that survive NFKC. The katakana prolonged sound
// mark is deliberately absent: it is part of kana spelling, not a dash.
const blacklist = "'\"`!?,.:;~-_/\\|*+=<>[]{}・「」『』【】〈〉《》〜―…★☆、。！？"

// Normalize converts an arbitrary raw label into its canonical comparison
// key. It is pure, total and idempotent: Normalize(Normalize(s)) == Normalize(s).
// Unmappable or empty input yields the empty string, never an error.
func Normalize(raw string) string {
	if raw == "" {
		return ""
	}

	// Stage 1: fold width and case, collapse whitespace.
	s := strings.ToValidUTF8(raw, "")
	tr := foldPool.Get().(transform.Transformer)
	folded, _, err := transform.String(tr, s)
	tr.Reset()
	foldPool.Put(tr)
	if err == nil {
		s = folded
	}
	s = strings.ToLower(s)
	s = collapse(s)

	// Stage 2: strip annotations, numbering suffixes and punctuation.
	// One stripping pass can uncover more noise (a blacklist hit exposing a
	// trailing numbering suffix, a paren pair emptied by inner removal), so
	// strip until the string stops changing.
	for {
		next := strip(s)
		if next == s {
			return s
		}
		s = next
	}
}

func strip(s string) string {
	s = reParen.ReplaceAllString(s, " ")
	s = collapse(s)
	s = reNumbering.ReplaceAllString(s, "")
	s = strings.Map(func(r rune) rune {
		if strings.ContainsRune(blacklist, r) {
			return ' '
		}
		return r
	}, s)
	return collapse(s)
}

// collapse squeezes runs of whitespace into single spaces and trims the ends.
func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
