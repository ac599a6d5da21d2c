package domain

import (
	"testing"
	"time"
)

func TestDDayFor(t *testing.T) {
	now := time.Date(2025, time.June, 15, 14, 45, 0, 0, time.UTC)

	intPtr := func(v int) *int { return &v }

	tests := []struct {
		name     string
		deadline string
		expected *int
	}{
		{"empty deadline", "", nil},
		{"unparseable deadline", "next friday", nil},
		{"today", "2025-06-15", intPtr(0)},
		{"tomorrow", "2025-06-16", intPtr(1)},
		{"next week", "2025-06-22", intPtr(7)},
		{"already passed", "2025-06-10", intPtr(-5)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DDayFor(tt.deadline, now)
			switch {
			case got == nil && tt.expected == nil:
			case got == nil || tt.expected == nil:
				t.Errorf("DDayFor(%q) = %v, want %v", tt.deadline, got, tt.expected)
			case *got != *tt.expected:
				t.Errorf("DDayFor(%q) = %d, want %d", tt.deadline, *got, *tt.expected)
			}
		})
	}
}

func TestDDayForIgnoresTimeOfDay(t *testing.T) {
	deadline := "2025-06-16"

	morning := time.Date(2025, time.June, 15, 0, 1, 0, 0, time.UTC)
	night := time.Date(2025, time.June, 15, 23, 59, 0, 0, time.UTC)

	a := DDayFor(deadline, morning)
	b := DDayFor(deadline, night)
	if a == nil || b == nil || *a != *b {
		t.Fatalf("DDayFor varies with time of day: %v vs %v", a, b)
	}
	if *a != 1 {
		t.Errorf("DDayFor(%q) = %d, want 1", deadline, *a)
	}
}
