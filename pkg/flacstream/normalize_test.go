// ABOUTME: Tests for sample normalization
// ABOUTME: Checks full-scale range and exact values across bit depths
package flacstream

import "testing"

func TestNormalizeZeroIsZero(t *testing.T) {
	for _, depth := range []uint{8, 16, 24, 32} {
		if got := normalize(0, 32-depth); got != 0.0 {
			t.Errorf("bit depth %d: expected 0.0, got %v", depth, got)
		}
	}
}

func TestNormalizeRange(t *testing.T) {
	cases := []struct {
		depth    uint
		min, max int32
	}{
		{8, -128, 127},
		{16, -32768, 32767},
		{24, -8388608, 8388607},
	}

	for _, c := range cases {
		shift := 32 - c.depth

		lo := normalize(c.min, shift)
		if lo != -1.0 {
			t.Errorf("bit depth %d: expected minimum to map to -1.0, got %v", c.depth, lo)
		}

		hi := normalize(c.max, shift)
		if hi < 0.999 || hi >= 1.0 {
			t.Errorf("bit depth %d: expected maximum just below 1.0, got %v", c.depth, hi)
		}
	}
}

func TestNormalizeKnownValue(t *testing.T) {
	// 1000 at 16 bits: (1000<<16 + 2^31)/2^31 - 1 = 65536000/2147483648.
	got := normalize(1000, 16)
	want := float32(0.030517578)
	if diff := got - want; diff > 1e-6 || diff < -1e-6 {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestNormalizeMonotonic(t *testing.T) {
	prev := normalize(-32768, 16)
	for _, s := range []int32{-1, 0, 1, 100, 32767} {
		v := normalize(s, 16)
		if v <= prev {
			t.Errorf("expected normalize(%d)=%v to exceed %v", s, v, prev)
		}
		prev = v
	}
}
