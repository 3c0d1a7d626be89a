package credit

import "testing"

func TestCategory_Boundaries(t *testing.T) {
	cases := []struct {
		score int
		want  string
	}{
		{700, "Elite"},
		{699, "Trusted"},
		{500, "Trusted"},
		{499, "Average"},
		{300, "Average"},
		{299, "Low"},
		{100, "Low"},
		{99, "New"},
		{0, "New"},
		{-40, "New"},
		{1200, "Elite"},
	}
	for _, tc := range cases {
		if got := Category(tc.score); got != tc.want {
			t.Errorf("Category(%d) = %q, want %q", tc.score, got, tc.want)
		}
	}
}

func TestClampImpact(t *testing.T) {
	if got := ClampImpact(150); got != 99 {
		t.Fatalf("clamp high = %d", got)
	}
	if got := ClampImpact(-150); got != -99 {
		t.Fatalf("clamp low = %d", got)
	}
	if got := ClampImpact(42); got != 42 {
		t.Fatalf("clamp passthrough = %d", got)
	}
}

func TestTrustPoint_Delta(t *testing.T) {
	r := TrustPoint{Points: 20, Polarity: PolarityReward}
	p := TrustPoint{Points: 60, Polarity: PolarityPunishment}
	if r.Delta() != 20 {
		t.Fatalf("reward delta = %d", r.Delta())
	}
	if p.Delta() != -60 {
		t.Fatalf("punishment delta = %d", p.Delta())
	}
}

func TestTotal_FoldsSignedDeltas(t *testing.T) {
	events := []TrustPoint{
		{Points: 20, Polarity: PolarityReward},
		{Points: 50, Polarity: PolarityReward},
		{Points: 40, Polarity: PolarityPunishment},
	}
	if got := Total(events); got != 30 {
		t.Fatalf("total = %d, want 30", got)
	}
}

func TestReason_Valid(t *testing.T) {
	if !ReasonOnTimeRepayment.Valid() {
		t.Fatal("known reason rejected")
	}
	if Reason("typo_reason").Valid() {
		t.Fatal("unknown reason accepted")
	}
}
