package fuzzy

import "testing"

func TestNormalize(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "empty string",
			input:    "",
			expected: "",
		},
		{
			name:     "lowercases ascii",
			input:    "Weekly REPORT",
			expected: "weeklyreport",
		},
		{
			name:     "strips bracketed segments",
			input:    "[공지] 보고서 제출 (최종)",
			expected: "보고서제출",
		},
		{
			name:     "strips parenthesized date",
			input:    "1월 보고서 제출(1/15)",
			expected: "보고서제출",
		},
		{
			name:     "strips year month day tokens",
			input:    "2025년 12월 25일 마감 안내",
			expected: "마감안내",
		},
		{
			name:     "strips time tokens",
			input:    "회의 3시 30분",
			expected: "회의",
		},
		{
			name:     "strips weekday names",
			input:    "(금) 제출 fri",
			expected: "제출",
		},
		{
			name:     "strips punctuation and whitespace",
			input:    "제출!! - 안내 ***",
			expected: "제출안내",
		},
		{
			name:     "pure date normalizes to empty",
			input:    "12/25",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Normalize(tt.input); got != tt.expected {
				t.Errorf("Normalize(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestNormalizeDeterministic(t *testing.T) {
	input := "[중요] 1월 보고서 제출 (1/15) 까지!!"
	first := Normalize(input)
	for i := 0; i < 10; i++ {
		if got := Normalize(input); got != first {
			t.Fatalf("Normalize not deterministic: %q != %q", got, first)
		}
	}
}

func TestLevenshteinDistance(t *testing.T) {
	tests := []struct {
		s1       string
		s2       string
		expected int
	}{
		{"", "", 0},
		{"abc", "", 3},
		{"", "abc", 3},
		{"kitten", "sitting", 3},
		{"보고서", "보고서", 0},
		{"보고서제출", "보고서회신", 2},
	}

	for _, tt := range tests {
		if got := LevenshteinDistance(tt.s1, tt.s2); got != tt.expected {
			t.Errorf("LevenshteinDistance(%q, %q) = %d, want %d", tt.s1, tt.s2, got, tt.expected)
		}
	}
}

func TestSimilaritySymmetry(t *testing.T) {
	pairs := [][2]string{
		{"주간 보고서 제출", "주간 보고서 제출 안내"},
		{"회의 일정 공지", "광고 메일"},
		{"1월 보고서 제출(1/15)", "1월 보고서 제출 (1/16)"},
		{"", "제출"},
	}

	for _, p := range pairs {
		ab := Similarity(p[0], p[1])
		ba := Similarity(p[1], p[0])
		if ab != ba {
			t.Errorf("Similarity(%q, %q) = %v, reversed = %v", p[0], p[1], ab, ba)
		}
		if ab < 0 || ab > 1 {
			t.Errorf("Similarity(%q, %q) = %v, out of [0,1]", p[0], p[1], ab)
		}
	}
}

func TestSimilarityIdentity(t *testing.T) {
	inputs := []string{"보고서 제출", "weekly report", "회의 안내 (3/4)"}
	for _, in := range inputs {
		if got := Similarity(in, in); got != 1 {
			t.Errorf("Similarity(%q, %q) = %v, want 1", in, in, got)
		}
	}
}

func TestSimilarityEmptyCases(t *testing.T) {
	tests := []struct {
		name     string
		a, b     string
		expected float64
	}{
		{"both raw empty", "", "", 1},
		{"one side empty", "", "제출 안내", 0},
		{"both normalize empty but raw differ", "12/25", "3/4", 0},
		{"both normalize empty and raw equal", "12/25", "12/25", 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Similarity(tt.a, tt.b); got != tt.expected {
				t.Errorf("Similarity(%q, %q) = %v, want %v", tt.a, tt.b, got, tt.expected)
			}
		})
	}
}

func TestSimilarityNearDuplicateSubjects(t *testing.T) {
	// Date-only differences disappear under normalization, so consecutive
	// sends of the same report request should exceed the default threshold.
	a := "1월 보고서 제출(1/15)"
	b := "1월 보고서 제출 (1/16)"

	if got := Similarity(a, b); got < DefaultSimilarityThreshold {
		t.Errorf("Similarity(%q, %q) = %v, want >= %v", a, b, got, DefaultSimilarityThreshold)
	}

	unrelated := "사내 식당 메뉴 안내"
	if got := Similarity(a, unrelated); got >= DefaultSimilarityThreshold {
		t.Errorf("Similarity(%q, %q) = %v, want < %v", a, unrelated, got, DefaultSimilarityThreshold)
	}
}
