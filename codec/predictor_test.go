package codec

import (
	"bytes"
	"testing"
)

func TestPredictUnpredictRoundTrip(t *testing.T) {
	tests := [][]byte{
		nil,
		{1},
		{1, 2, 3, 4, 5},
		{0, 255, 0, 255, 0},
		{200, 10, 250, 5, 128, 128, 128},
	}
	for i, original := range tests {
		buf := append([]byte(nil), original...)
		Predict(buf)
		Unpredict(buf)
		if !bytes.Equal(buf, original) {
			t.Errorf("test %d: round-trip failed: got %v, want %v", i, buf, original)
		}
	}
}

func TestReorderUnreorderRoundTrip(t *testing.T) {
	tests := [][]byte{
		nil,
		{1},
		{1, 2},
		{1, 2, 3},
		{1, 2, 3, 4, 5, 6, 7},
	}
	for i, original := range tests {
		reordered := Reorder(original)
		back := Unreorder(reordered)
		if !bytes.Equal(back, original) {
			t.Errorf("test %d: round-trip failed: got %v, want %v", i, back, original)
		}
	}
}

func TestReorderInterleavesEvenOdd(t *testing.T) {
	// {a,b,c,d,e} -> evens {a,c,e} then odds {b,d}
	in := []byte{10, 20, 30, 40, 50}
	got := Reorder(in)
	want := []byte{10, 30, 50, 20, 40}
	if !bytes.Equal(got, want) {
		t.Errorf("Reorder: got %v, want %v", got, want)
	}
}
