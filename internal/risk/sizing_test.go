package risk

import "testing"

func TestSizerShares(t *testing.T) {
	tests := []struct {
		name         string
		budget       float64
		riskFraction float64
		entry        float64
		stop         float64
		want         int
	}{
		{
			name:   "risk budget binds",
			budget: 10000, riskFraction: 0.01,
			entry: 10, stop: 9.5,
			// 1% of 10000 = 100 risked, 0.50 per share -> 200 shares.
			want: 200,
		},
		{
			name:   "trading budget binds",
			budget: 1000, riskFraction: 1.0,
			entry: 10, stop: 9.99,
			want: 100,
		},
		{
			name:   "stop above entry falls back to budget sizing",
			budget: 1000, riskFraction: 0.01,
			entry: 10, stop: 11,
			want: 100,
		},
		{
			name:   "zero entry yields zero",
			budget: 10000, riskFraction: 0.01,
			entry: 0, stop: 0,
			want: 0,
		},
		{
			name:   "wide stop cuts size hard",
			budget: 10000, riskFraction: 0.01,
			entry: 10, stop: 0,
			// 100 risked at 10 per share -> 10 shares.
			want: 10,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewSizer(tt.budget, tt.riskFraction)
			if got := s.Shares(tt.entry, tt.stop); got != tt.want {
				t.Errorf("Shares(%.2f, %.2f) = %d, want %d", tt.entry, tt.stop, got, tt.want)
			}
		})
	}
}
