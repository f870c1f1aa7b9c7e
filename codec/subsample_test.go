package codec

import "testing"

func TestSubsampledWidthHeight(t *testing.T) {
	tests := []struct {
		dataWindow int
		sampling   int
		want       int
	}{
		{16, 1, 16},
		{16, 2, 8},
		{16, 4, 4},
		{1, 1, 1},
	}
	for _, tt := range tests {
		if got := SubsampledWidth(tt.dataWindow, tt.sampling); got != tt.want {
			t.Errorf("SubsampledWidth(%d, %d): got %d, want %d", tt.dataWindow, tt.sampling, got, tt.want)
		}
		if got := SubsampledHeight(tt.dataWindow, tt.sampling); got != tt.want {
			t.Errorf("SubsampledHeight(%d, %d): got %d, want %d", tt.dataWindow, tt.sampling, got, tt.want)
		}
	}
}
