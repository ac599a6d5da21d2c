package classify

import (
	"regexp"
	"strings"

	"mailtodo-backend/pkg/fuzzy"
)

// Decision is the classifier's verdict for one email.
type Decision int

const (
	// DecisionNone leaves the email's state untouched.
	DecisionNone Decision = iota
	// DecisionCandidate marks the email as an actionable obligation.
	DecisionCandidate
	// DecisionExcluded marks the email as noise, permanently.
	DecisionExcluded
)

func (d Decision) String() string {
	switch d {
	case DecisionCandidate:
		return "candidate"
	case DecisionExcluded:
		return "excluded"
	default:
		return "none"
	}
}

// DefaultSubKeywordThreshold is how many distinct exclude-phrase fragments
// must co-occur before the combination rule fires.
const DefaultSubKeywordThreshold = 3

// Snapshot is the read-only keyword and exclusion state one pass operates
// on. It is loaded once at the start of a pass; keyword edits made mid-pass
// are picked up on the next cycle.
type Snapshot struct {
	IncludeKeywords   []string
	ExcludeKeywords   []string
	ExcludedSubjects  []string // subjects of emails already marked excluded
	DismissedSubjects []string // normalized subjects from the dismissed-mail archive
}

// Config tunes the classifier thresholds. Zero values fall back to the
// defaults (0.8 similarity, 3 sub-keywords).
type Config struct {
	SimilarityThreshold float64
	SubKeywordThreshold int
}

func (c Config) withDefaults() Config {
	if c.SimilarityThreshold <= 0 {
		c.SimilarityThreshold = fuzzy.DefaultSimilarityThreshold
	}
	if c.SubKeywordThreshold <= 0 {
		c.SubKeywordThreshold = DefaultSubKeywordThreshold
	}
	return c
}

var (
	dateInSubjectPattern = regexp.MustCompile(`(\d{4}년\s*\d{1,2}월\s*\d{1,2}일)|(\d{1,2}월\s*\d{1,2}일)`)
	untilDatePattern     = regexp.MustCompile(`(\d{1,2})[/.\-](\d{1,2})\s*까지`)
	subKeywordSplitter   = regexp.MustCompile(`[^가-힣a-zA-Z0-9]+`)
)

// Classifier applies the exclusion and candidacy rules to a single email.
// It is stateless apart from its thresholds and safe for concurrent use.
type Classifier struct {
	cfg Config
}

func NewClassifier(cfg Config) *Classifier {
	return &Classifier{cfg: cfg.withDefaults()}
}

// Classify runs the rule chain over one email. The first applicable rule
// wins:
//
//  1. any exclude keyword as a substring of subject or body
//  2. a calendar date in the subject alongside an exclude keyword
//  3. near-duplicate of an already-excluded subject
//  4. enough distinct exclude-phrase fragments co-occurring
//  5. any include keyword as a substring of subject or body
//  6. an action verb in subject or body
//  7. a "…까지" date, unless the body reads as news with no action signal
//
// Anything that falls through keeps its current state.
func (c *Classifier) Classify(subject, body string, snap Snapshot) Decision {
	subjectLower := strings.ToLower(subject)
	bodyLower := strings.ToLower(body)
	combined := subjectLower + " " + bodyLower

	excludes := lowerNonEmpty(snap.ExcludeKeywords)
	includes := lowerNonEmpty(snap.IncludeKeywords)
	if len(includes) == 0 {
		includes = lowerNonEmpty(DefaultIncludeKeywords)
	}

	if containsAny(combined, excludes) {
		return DecisionExcluded
	}

	// A date in the subject does not protect a message once an exclude
	// term shows up next to it.
	if dateInSubjectPattern.MatchString(subject) && containsAny(subjectLower, excludes) {
		return DecisionExcluded
	}

	for _, prev := range snap.ExcludedSubjects {
		if fuzzy.Similarity(subject, prev) >= c.cfg.SimilarityThreshold {
			return DecisionExcluded
		}
	}

	if countSubKeywordHits(combined, excludes) >= c.cfg.SubKeywordThreshold {
		return DecisionExcluded
	}

	if containsAny(combined, includes) {
		return DecisionCandidate
	}

	if containsAny(combined, actionKeywords) {
		return DecisionCandidate
	}

	if untilDatePattern.MatchString(subject) || untilDatePattern.MatchString(body) {
		// News articles that merely mention a date are not obligations.
		if containsAny(bodyLower, newsKeywords) &&
			!containsAny(combined, actionKeywords) &&
			!containsAny(combined, lowerNonEmpty(DefaultIncludeKeywords)) {
			return DecisionExcluded
		}
		return DecisionCandidate
	}

	return DecisionNone
}

// countSubKeywordHits splits every exclude phrase into fragments on
// non-alphanumeric/non-Hangul boundaries, deduplicates them, and counts
// how many distinct fragments appear in the text.
func countSubKeywordHits(text string, excludeKeywords []string) int {
	seen := make(map[string]struct{})
	hits := 0
	for _, kw := range excludeKeywords {
		for _, sub := range subKeywordSplitter.Split(kw, -1) {
			if sub == "" {
				continue
			}
			if _, dup := seen[sub]; dup {
				continue
			}
			seen[sub] = struct{}{}
			if strings.Contains(text, sub) {
				hits++
			}
		}
	}
	return hits
}

func lowerNonEmpty(words []string) []string {
	out := make([]string, 0, len(words))
	for _, w := range words {
		w = strings.ToLower(strings.TrimSpace(w))
		if w != "" {
			out = append(out, w)
		}
	}
	return out
}

func containsAny(text string, words []string) bool {
	for _, w := range words {
		if strings.Contains(text, w) {
			return true
		}
	}
	return false
}
