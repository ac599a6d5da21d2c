package fuzzy

import (
	"regexp"
	"strings"
)

// DefaultSimilarityThreshold is the score at or above which two subjects
// are treated as near-duplicates.
const DefaultSimilarityThreshold = 0.8

var (
	bracketPattern    = regexp.MustCompile(`\[[^\]]*\]|\([^)]*\)`)
	calendarPattern   = regexp.MustCompile(`\d{4}년|\d{4}|\d{1,2}월|\d{1,2}일|\d{1,2}시|\d{1,2}분|\d{1,2}초`)
	bareNumberPattern = regexp.MustCompile(`\d{1,2}`)
	weekdayPattern    = regexp.MustCompile(`월|화|수|목|금|토|일|mon|tue|wed|thu|fri|sat|sun`)
	symbolPattern     = regexp.MustCompile(`[^\w가-힣]`)
	spacePattern      = regexp.MustCompile(`\s+`)
)

// Normalize reduces a subject line to its canonical comparison form:
// lowercase, with bracketed segments, calendar tokens (years, months, days,
// hours, minutes, seconds, bare one/two digit numbers), weekday names,
// remaining symbols, and whitespace all stripped. Two subjects that differ
// only in dates or annotations normalize to the same string.
func Normalize(s string) string {
	s = strings.ToLower(s)
	s = bracketPattern.ReplaceAllString(s, "")
	s = calendarPattern.ReplaceAllString(s, "")
	s = bareNumberPattern.ReplaceAllString(s, "")
	s = weekdayPattern.ReplaceAllString(s, "")
	s = symbolPattern.ReplaceAllString(s, "")
	s = spacePattern.ReplaceAllString(s, "")
	return s
}

// LevenshteinDistance calculates the edit distance between two strings,
// measured in runes so multi-byte Hangul counts as single edits.
func LevenshteinDistance(s1, s2 string) int {
	r1 := []rune(s1)
	r2 := []rune(s2)
	m := len(r1)
	n := len(r2)

	if m == 0 {
		return n
	}
	if n == 0 {
		return m
	}

	d := make([][]int, m+1)
	for i := range d {
		d[i] = make([]int, n+1)
	}

	for i := 0; i <= m; i++ {
		d[i][0] = i
	}
	for j := 0; j <= n; j++ {
		d[0][j] = j
	}

	for i := 1; i <= m; i++ {
		for j := 1; j <= n; j++ {
			cost := 0
			if r1[i-1] != r2[j-1] {
				cost = 1
			}
			d[i][j] = min3(
				d[i-1][j]+1,      // deletion
				d[i][j-1]+1,      // insertion
				d[i-1][j-1]+cost, // substitution
			)
		}
	}

	return d[m][n]
}

// Similarity returns a score in [0,1] for how alike two raw strings are
// after normalization: 1 - distance/max(len). The function is symmetric
// and deterministic.
//
// When both sides normalize to empty (e.g. pure date strings), the score
// is 1 only if the raw inputs were already equal; a single empty side
// scores 0. This keeps "12/25" and "3/4" from counting as duplicates.
func Similarity(a, b string) float64 {
	na := Normalize(a)
	nb := Normalize(b)

	if na == "" && nb == "" {
		if a == b {
			return 1
		}
		return 0
	}
	if na == "" || nb == "" {
		return 0
	}
	if na == nb {
		return 1
	}

	ra := []rune(na)
	rb := []rune(nb)
	maxLen := len(ra)
	if len(rb) > maxLen {
		maxLen = len(rb)
	}

	return 1 - float64(LevenshteinDistance(na, nb))/float64(maxLen)
}

func min3(a, b, c int) int {
	if a < b {
		if a < c {
			return a
		}
		return c
	}
	if b < c {
		return b
	}
	return c
}
