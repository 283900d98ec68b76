package riskbalancer

import "testing"

func TestCategoryStatus(t *testing.T) {
	path := MustCategoryPath("Equities")
	tests := []struct {
		name   string
		actual float64
		target float64
		want   Status
	}{
		{"exactly on target", 0.5, 0.5, OnTarget},
		{"within threshold above", 0.50005, 0.5, OnTarget},
		{"within threshold below", 0.49995, 0.5, OnTarget},
		{"over invested", 0.52, 0.5, OverInvested},
		{"under invested", 0.48, 0.5, UnderInvested},
		{"just past threshold", 0.5002, 0.5, OverInvested},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			s := CategoryStatus{Path: path, ActualWeight: tc.actual, TargetCashWeight: tc.target}
			if got := s.Status(); got != tc.want {
				t.Errorf("Status() = %v, want %v (delta %g)", got, tc.want, s.Delta())
			}
		})
	}
}

func TestStatusStringRoundTrip(t *testing.T) {
	for _, s := range []Status{OnTarget, OverInvested, UnderInvested} {
		got, err := ParseStatus(s.String())
		if err != nil {
			t.Fatalf("ParseStatus(%q): %v", s.String(), err)
		}
		if got != s {
			t.Errorf("ParseStatus(%q) = %v, want %v", s.String(), got, s)
		}
	}
	if _, err := ParseStatus("balanced"); err == nil {
		t.Error("ParseStatus(invalid) expected an error")
	}
}
