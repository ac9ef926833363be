package creation

import (
	"strings"
	"unicode"

	"github.com/rivo/uniseg"
)

// MinInputLength is the shortest description accepted, in grapheme clusters.
const MinInputLength = 5

// Rule identifies the local check that rejected an input.
type Rule string

const (
	RuleTooShort        Rule = "too_short"
	RuleForbidden       Rule = "forbidden_content"
	RuleVague           Rule = "vague"
	RuleRepeatedChar    Rule = "repeated_character"
	RuleQuestionRun     Rule = "question_mark_run"
	RulePunctuationOnly Rule = "punctuation_only"
)

var (
	forbiddenTerms = []string{"hack", "cheat", "nsfw", "sex", "illegal", "bomb", "attack"}
	vagueTerms     = []string{"随便", "whatever", "anything", "test"}
)

const (
	maxRepeatRun    = 5
	questionMarkRun = "???"
)

// Verdict is the result of Validate. Match holds the offending term or
// character when the rule has one.
type Verdict struct {
	OK    bool
	Rule  Rule
	Match string
}

// IsValidInput is the client-side pre-filter for descriptions. It is not
// authoritative; the backend applies its own checks.
func IsValidInput(text string) bool {
	return Validate(text).OK
}

// Validate runs the checks in order (length, forbidden terms, vague terms,
// patterns) and stops at the first failure.
func Validate(text string) Verdict {
	if uniseg.GraphemeClusterCount(text) < MinInputLength {
		return Verdict{Rule: RuleTooShort}
	}

	lower := strings.ToLower(text)
	if term, ok := containsAny(lower, forbiddenTerms); ok {
		return Verdict{Rule: RuleForbidden, Match: term}
	}
	if term, ok := containsAny(lower, vagueTerms); ok {
		return Verdict{Rule: RuleVague, Match: term}
	}

	if r, ok := repeatedRune(text, maxRepeatRun); ok {
		return Verdict{Rule: RuleRepeatedChar, Match: string(r)}
	}
	if strings.Contains(text, questionMarkRun) {
		return Verdict{Rule: RuleQuestionRun, Match: questionMarkRun}
	}
	if onlySpaceAndPunct(text) {
		return Verdict{Rule: RulePunctuationOnly}
	}

	return Verdict{OK: true}
}

func containsAny(s string, terms []string) (string, bool) {
	for _, t := range terms {
		if strings.Contains(s, t) {
			return t, true
		}
	}
	return "", false
}

// repeatedRune reports the first rune that occurs n or more times in a row.
// Line terminators never count as a repeated character.
func repeatedRune(s string, n int) (rune, bool) {
	var prev rune
	run := 0
	for _, r := range s {
		if isLineTerminator(r) {
			run = 0
			continue
		}
		if run > 0 && r == prev {
			run++
		} else {
			prev, run = r, 1
		}
		if run >= n {
			return r, true
		}
	}
	return 0, false
}

func isLineTerminator(r rune) bool {
	return r == '\n' || r == '\r' || r == '\u2028' || r == '\u2029'
}

func onlySpaceAndPunct(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsSpace(r) && !unicode.IsPunct(r) {
			return false
		}
	}
	return true
}
