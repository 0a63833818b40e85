package engine

import "testing"

func TestDetectTrend(t *testing.T) {
	rising := make([]float64, 40)
	falling := make([]float64, 40)
	flat := make([]float64, 40)
	for i := range rising {
		rising[i] = 100 + float64(i)*2
		falling[i] = 180 - float64(i)*2
		flat[i] = 100
	}

	tests := []struct {
		name   string
		closes []float64
		want   Trend
	}{
		{"rising series", rising, TrendUp},
		{"falling series", falling, TrendDown},
		{"flat series", flat, TrendFlat},
		{"too short", rising[:10], TrendFlat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DetectTrend(tt.closes, 10, 30); got != tt.want {
				t.Errorf("DetectTrend() = %v, want %v", got, tt.want)
			}
		})
	}
}
