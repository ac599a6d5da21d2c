package classify

import (
	"fmt"
	"regexp"
	"strconv"
	"time"
)

// labelFragmentRunes bounds how far past a deadline label the extractor
// looks for the date itself.
const labelFragmentRunes = 20

var (
	parenDatePattern     = regexp.MustCompile(`\((\d{1,2})[/.\-](\d{1,2})\)`)
	deadlineLabelPattern = regexp.MustCompile(`(?i)(마감일|마감|제출기한|제출일|기한|deadline|due\s*date|due)\s*:?\s*`)
	bareDatePattern      = regexp.MustCompile(`(?:^|[^\d/.\-])(\d{1,2})[/.\-](\d{1,2})(?:$|[^\d/.\-])`)
	koreanDatePattern    = regexp.MustCompile(`(\d{1,2})월\s*(\d{1,2})일`)
	fullDatePattern      = regexp.MustCompile(`(\d{4})[/.\-](\d{1,2})[/.\-](\d{1,2})`)
	koreanFullPattern    = regexp.MustCompile(`(\d{4})년\s*(\d{1,2})월\s*(\d{1,2})일`)
)

// dateCandidate is one structurally parsed date. Year 0 means the pattern
// carried no explicit year and the caller must resolve it.
type dateCandidate struct {
	year  int
	month int
	day   int
}

// dateMatcher is one link of the extraction chain. Matchers are tried in
// order and the first structurally valid candidate wins.
type dateMatcher struct {
	name string
	find func(text string) (dateCandidate, bool)
}

var deadlineMatchers = []dateMatcher{
	{"parenthesized", matchParenthesized},
	{"labeled", matchLabeled},
	{"bare", matchBare},
	{"korean-month-day", matchKoreanMonthDay},
	{"explicit-year", matchExplicitYear},
}

// fragmentMatchers are what a deadline label's trailing fragment is
// re-scanned with. The label matcher itself is excluded to keep the
// chain from recursing.
var fragmentMatchers = []dateMatcher{
	{"parenthesized", matchParenthesized},
	{"bare", matchBare},
	{"korean-month-day", matchKoreanMonthDay},
	{"explicit-year", matchExplicitYear},
}

// ExtractDeadline scans free text for a date-like substring and returns it
// as a zero-padded ISO date (YYYY-MM-DD), or "" when nothing matches.
// Yearless dates resolve against now: current year, rolled forward to next
// year when the date has already passed. Day validity stops at 1–31; month
// length and leap years are deliberately not checked.
func ExtractDeadline(text string, now time.Time) string {
	if text == "" {
		return ""
	}
	for _, m := range deadlineMatchers {
		if c, ok := m.find(text); ok {
			return resolveDate(c, now)
		}
	}
	return ""
}

func matchParenthesized(text string) (dateCandidate, bool) {
	return firstValidMonthDay(parenDatePattern.FindAllStringSubmatch(text, -1), 1, 2)
}

func matchLabeled(text string) (dateCandidate, bool) {
	loc := deadlineLabelPattern.FindStringIndex(text)
	if loc == nil {
		return dateCandidate{}, false
	}
	fragment := []rune(text[loc[1]:])
	if len(fragment) > labelFragmentRunes {
		fragment = fragment[:labelFragmentRunes]
	}
	for _, m := range fragmentMatchers {
		if c, ok := m.find(string(fragment)); ok {
			return c, true
		}
	}
	return dateCandidate{}, false
}

func matchBare(text string) (dateCandidate, bool) {
	return firstValidMonthDay(bareDatePattern.FindAllStringSubmatch(text, -1), 1, 2)
}

func matchKoreanMonthDay(text string) (dateCandidate, bool) {
	// "2025년 12월 3일" carries an explicit year; strip those spans so the
	// yearless form does not swallow them before the explicit-year matcher.
	text = koreanFullPattern.ReplaceAllString(text, "")
	return firstValidMonthDay(koreanDatePattern.FindAllStringSubmatch(text, -1), 1, 2)
}

func matchExplicitYear(text string) (dateCandidate, bool) {
	for _, pattern := range []*regexp.Regexp{fullDatePattern, koreanFullPattern} {
		for _, groups := range pattern.FindAllStringSubmatch(text, -1) {
			year, _ := strconv.Atoi(groups[1])
			month, _ := strconv.Atoi(groups[2])
			day, _ := strconv.Atoi(groups[3])
			if validMonthDay(month, day) {
				return dateCandidate{year: year, month: month, day: day}, true
			}
		}
	}
	return dateCandidate{}, false
}

// firstValidMonthDay walks regex matches in document order and returns the
// first one whose month and day are in range.
func firstValidMonthDay(matches [][]string, monthIdx, dayIdx int) (dateCandidate, bool) {
	for _, groups := range matches {
		month, _ := strconv.Atoi(groups[monthIdx])
		day, _ := strconv.Atoi(groups[dayIdx])
		if validMonthDay(month, day) {
			return dateCandidate{month: month, day: day}, true
		}
	}
	return dateCandidate{}, false
}

func validMonthDay(month, day int) bool {
	return month >= 1 && month <= 12 && day >= 1 && day <= 31
}

// resolveDate assigns a year to yearless candidates: the current year, or
// the next one when the month/day has already passed (midnight truncation,
// so today itself stays in the current year).
func resolveDate(c dateCandidate, now time.Time) string {
	year := c.year
	if year == 0 {
		year = now.Year()
		if c.month < int(now.Month()) || (c.month == int(now.Month()) && c.day < now.Day()) {
			year++
		}
	}
	return fmt.Sprintf("%04d-%02d-%02d", year, c.month, c.day)
}
