package progression

import "testing"

func TestThresholdFor(t *testing.T) {
	tests := []struct {
		stage int
		want  int
	}{
		{1, 100},
		{2, 150},
		{3, 225},
		{4, 337},
		{5, 506},
		{0, 100},
		{-3, 100},
	}
	for _, tt := range tests {
		if got := ThresholdFor(tt.stage); got != tt.want {
			t.Errorf("ThresholdFor(%d) = %d, want %d", tt.stage, got, tt.want)
		}
	}
}

func TestThresholdForStrictlyIncreasing(t *testing.T) {
	prev := ThresholdFor(1)
	for stage := 2; stage <= 40; stage++ {
		cur := ThresholdFor(stage)
		if cur <= prev {
			t.Fatalf("ThresholdFor(%d) = %d, not greater than ThresholdFor(%d) = %d", stage, cur, stage-1, prev)
		}
		prev = cur
	}
}

func TestProgress(t *testing.T) {
	if got := Progress(1, 0); got != 0 {
		t.Errorf("Progress(1, 0) = %v, want 0", got)
	}
	if got := Progress(1, 50); got != 0.5 {
		t.Errorf("Progress(1, 50) = %v, want 0.5", got)
	}
	if got := Progress(2, 75); got != 0.5 {
		t.Errorf("Progress(2, 75) = %v, want 0.5", got)
	}
	if got := Progress(1, 500); got != 1 {
		t.Errorf("Progress(1, 500) = %v, want 1", got)
	}
}
