package score

import (
	"math"
	"testing"
)

func TestCalibrate(t *testing.T) {
	tests := []struct {
		name      string
		sentiment float64
		fallacies int
		evidence  bool
		want      float64
	}{
		{"neutral no evidence", 0, 0, false, 0.5},
		{"neutral with evidence", 0, 0, true, 0.7},
		{"strong sentiment", 1, 0, true, 0.45},
		{"negative sentiment", -1, 0, false, 0.25},
		{"sentiment penalty capped", 4, 0, false, 0.1},
		{"one fallacy", 0, 1, true, 0.55},
		{"fallacy penalty capped", 0, 5, true, 0.1},
		{"floor", 5, 10, false, 0.01},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Calibrate(tt.sentiment, tt.fallacies, tt.evidence)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("Calibrate(%v, %d, %v) = %v, want %v", tt.sentiment, tt.fallacies, tt.evidence, got, tt.want)
			}
		})
	}
}

func TestCalibrate_AlwaysClamped(t *testing.T) {
	sentiments := []float64{-100, -1, -0.3, 0, 0.3, 1, 100, math.NaN(), math.Inf(1)}
	for _, s := range sentiments {
		for f := -2; f <= 20; f++ {
			for _, ev := range []bool{false, true} {
				got := Calibrate(s, f, ev)
				if got < 0.01 || got > 0.99 {
					t.Errorf("Calibrate(%v, %d, %v) = %v, outside [0.01, 0.99]", s, f, ev, got)
				}
			}
		}
	}
}
