package classify

import "testing"

func TestClassifyExcludeRules(t *testing.T) {
	c := NewClassifier(Config{})

	tests := []struct {
		name     string
		subject  string
		body     string
		snap     Snapshot
		expected Decision
	}{
		{
			name:     "exclude keyword in subject",
			subject:  "정기 회의 일정 공지",
			body:     "이번 주 일정입니다",
			snap:     Snapshot{ExcludeKeywords: []string{"회의"}},
			expected: DecisionExcluded,
		},
		{
			name:     "exclude keyword in body only",
			subject:  "안내",
			body:     "광고 메일입니다",
			snap:     Snapshot{ExcludeKeywords: []string{"광고"}},
			expected: DecisionExcluded,
		},
		{
			name:     "exclude keyword is case insensitive",
			subject:  "Weekly NEWSLETTER",
			body:     "",
			snap:     Snapshot{ExcludeKeywords: []string{"newsletter"}},
			expected: DecisionExcluded,
		},
		{
			name:     "exclude wins over include in the same subject",
			subject:  "제출 회의 안내",
			body:     "",
			snap:     Snapshot{ExcludeKeywords: []string{"회의"}, IncludeKeywords: []string{"제출"}},
			expected: DecisionExcluded,
		},
		{
			name:     "dated subject with exclude keyword",
			subject:  "12월 25일 송년회 안내",
			body:     "",
			snap:     Snapshot{ExcludeKeywords: []string{"송년회"}},
			expected: DecisionExcluded,
		},
		{
			name:     "similar to previously excluded subject",
			subject:  "1월 보고서 제출 (1/16)",
			body:     "",
			snap:     Snapshot{ExcludedSubjects: []string{"1월 보고서 제출(1/15)"}},
			expected: DecisionExcluded,
		},
		{
			name:     "dissimilar to excluded subjects falls through",
			subject:  "사내 식당 메뉴",
			body:     "",
			snap:     Snapshot{ExcludedSubjects: []string{"1월 보고서 제출(1/15)"}},
			expected: DecisionNone,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := c.Classify(tt.subject, tt.body, tt.snap); got != tt.expected {
				t.Errorf("Classify(%q, %q) = %v, want %v", tt.subject, tt.body, got, tt.expected)
			}
		})
	}
}

func TestClassifySubKeywordCombination(t *testing.T) {
	c := NewClassifier(Config{})
	snap := Snapshot{ExcludeKeywords: []string{"정기 회의 안내"}}

	tests := []struct {
		name     string
		subject  string
		body     string
		expected Decision
	}{
		{
			name:     "all three fragments disjointly present",
			subject:  "정기 점검",
			body:     "다음 회의 일정 안내드립니다",
			expected: DecisionExcluded,
		},
		{
			name:     "only two fragments present",
			subject:  "정기 점검",
			body:     "회의실 예약 현황",
			expected: DecisionNone,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := c.Classify(tt.subject, tt.body, snap); got != tt.expected {
				t.Errorf("Classify(%q, %q) = %v, want %v", tt.subject, tt.body, got, tt.expected)
			}
		})
	}
}

func TestClassifySubKeywordThresholdTunable(t *testing.T) {
	c := NewClassifier(Config{SubKeywordThreshold: 2})
	snap := Snapshot{ExcludeKeywords: []string{"정기 회의 안내"}}

	got := c.Classify("정기 점검", "회의실 예약 현황", snap)
	if got != DecisionExcluded {
		t.Errorf("Classify with threshold 2 = %v, want %v", got, DecisionExcluded)
	}
}

func TestClassifyCandidateRules(t *testing.T) {
	c := NewClassifier(Config{})

	tests := []struct {
		name     string
		subject  string
		body     string
		snap     Snapshot
		expected Decision
	}{
		{
			name:     "user include keyword match",
			subject:  "월간 리포트 공유",
			body:     "",
			snap:     Snapshot{IncludeKeywords: []string{"리포트"}},
			expected: DecisionCandidate,
		},
		{
			name:     "default include keywords when store is empty",
			subject:  "과제 안내",
			body:     "",
			snap:     Snapshot{},
			expected: DecisionCandidate,
		},
		{
			name:     "user includes replace defaults entirely",
			subject:  "과제 안내",
			body:     "",
			snap:     Snapshot{IncludeKeywords: []string{"리포트"}},
			expected: DecisionNone,
		},
		{
			name:     "action verb in body",
			subject:  "사내 공지",
			body:     "의견 회신 부탁드립니다",
			snap:     Snapshot{IncludeKeywords: []string{"리포트"}},
			expected: DecisionCandidate,
		},
		{
			name:     "until-date pattern with empty keyword store",
			subject:  "12/29까지 제출",
			body:     "",
			snap:     Snapshot{},
			expected: DecisionCandidate,
		},
		{
			name:     "until-date pattern alone in body",
			subject:  "공지사항",
			body:     "신청은 3/15까지 입니다",
			snap:     Snapshot{IncludeKeywords: []string{"리포트"}},
			expected: DecisionCandidate,
		},
		{
			name:     "news body with a date is not an obligation",
			subject:  "오늘의 소식",
			body:     "3/15까지 진행되는 행사 관련 뉴스 기사입니다",
			snap:     Snapshot{IncludeKeywords: []string{"리포트"}},
			expected: DecisionExcluded,
		},
		{
			name:     "news body with an action verb stays a candidate",
			subject:  "오늘의 소식",
			body:     "3/15까지 회신 부탁드립니다. 관련 뉴스 기사 첨부",
			snap:     Snapshot{IncludeKeywords: []string{"리포트"}},
			expected: DecisionCandidate,
		},
		{
			name:     "nothing applicable stays unclassified",
			subject:  "사내 식당 메뉴",
			body:     "이번 주 메뉴입니다",
			snap:     Snapshot{IncludeKeywords: []string{"리포트"}},
			expected: DecisionNone,
		},
		{
			name:     "empty subject and body",
			subject:  "",
			body:     "",
			snap:     Snapshot{IncludeKeywords: []string{"리포트"}},
			expected: DecisionNone,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := c.Classify(tt.subject, tt.body, tt.snap); got != tt.expected {
				t.Errorf("Classify(%q, %q) = %v, want %v", tt.subject, tt.body, got, tt.expected)
			}
		})
	}
}

func TestCountSubKeywordHits(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		excludes []string
		expected int
	}{
		{"no excludes", "아무 내용", nil, 0},
		{"all fragments hit", "정기 회의 안내", []string{"정기 회의 안내"}, 3},
		{"duplicate fragments counted once", "정기 회의", []string{"정기 회의", "정기 안내"}, 2},
		{"mixed separators split alike", "주간 보고 요약", []string{"주간-보고/요약"}, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := countSubKeywordHits(tt.text, tt.excludes); got != tt.expected {
				t.Errorf("countSubKeywordHits(%q, %v) = %d, want %d", tt.text, tt.excludes, got, tt.expected)
			}
		})
	}
}
