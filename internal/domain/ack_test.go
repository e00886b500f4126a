package domain

import (
	"strings"
	"testing"
)

func TestClassifyDelay_TierBoundaries(t *testing.T) {
	const base = int64(1_700_000_000)

	cases := []struct {
		name    string
		minutes int
		tier    Tier
	}{
		{"zero", 0, TierOnTime},
		{"five minutes", 5, TierOnTime},
		{"six minutes", 6, TierSmall},
		{"thirty minutes", 30, TierSmall},
		{"thirty one minutes", 31, TierMedium},
		{"sixty minutes", 60, TierMedium},
		{"sixty one minutes", 61, TierLarge},
		{"three hours", 180, TierLarge},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			tier, minutes := ClassifyDelay(base, base+int64(tc.minutes)*60)
			if tier != tc.tier {
				t.Fatalf("want tier %v, got %v", tc.tier, tier)
			}
			if minutes != tc.minutes {
				t.Fatalf("want %d minutes, got %d", tc.minutes, minutes)
			}
		})
	}
}

func TestClassifyDelay_FloorsSeconds(t *testing.T) {
	const base = int64(1_700_000_000)

	// 5m59s still floors to 5 minutes → on-time.
	tier, minutes := ClassifyDelay(base, base+359)
	if tier != TierOnTime || minutes != 5 {
		t.Fatalf("want on-time/5, got %v/%d", tier, minutes)
	}
	// 6m00s crosses the boundary.
	tier, _ = ClassifyDelay(base, base+360)
	if tier != TierSmall {
		t.Fatalf("want small delay at 360s, got %v", tier)
	}
}

func TestClassifyDelay_NegativeClampsToOnTime(t *testing.T) {
	const base = int64(1_700_000_000)

	tier, minutes := ClassifyDelay(base, base-600)
	if tier != TierOnTime {
		t.Fatalf("want on-time for negative delay, got %v", tier)
	}
	if minutes != 0 {
		t.Fatalf("want 0 minutes for negative delay, got %d", minutes)
	}
}

func TestFormatDelay(t *testing.T) {
	cases := []struct {
		minutes int
		want    string
	}{
		{0, "0 мин"},
		{45, "45 мин"},
		{60, "1 ч 0 мин"},
		{61, "1 ч 1 мин"},
		{135, "2 ч 15 мин"},
	}
	for _, tc := range cases {
		if got := FormatDelay(tc.minutes); got != tc.want {
			t.Fatalf("FormatDelay(%d): want %q, got %q", tc.minutes, tc.want, got)
		}
	}
}

// AckText picks a random template; assert the stable parts only.
func TestAckText_ContainsNameAndDelay(t *testing.T) {
	for i := 0; i < 20; i++ {
		got := AckText(TierLarge, 61, "Иван", "Аспирин")
		if !strings.Contains(got, "Иван") || !strings.Contains(got, "Аспирин") {
			t.Fatalf("missing user or medication name: %q", got)
		}
		if !strings.Contains(got, "1 ч 1 мин") {
			t.Fatalf("large tier must include hours+minutes: %q", got)
		}
	}
	for i := 0; i < 20; i++ {
		got := AckText(TierOnTime, 3, "Иван", "Аспирин")
		if !strings.Contains(got, "Иван") || !strings.Contains(got, "Аспирин") {
			t.Fatalf("missing user or medication name: %q", got)
		}
	}
}
