// ABOUTME: Sample normalization helpers
// ABOUTME: Maps sign-extended integer samples to float32 in [-1.0, 1.0)
package flacstream

// normalize maps a sign-extended integer sample to [-1.0, 1.0). The sample
// is shifted to the top of a 32-bit word, biased into unsigned range, and
// scaled, so the mapping is full-scale for every source bit depth.
func normalize(s int32, shift uint) float32 {
	u := uint32(s<<shift) + 1<<31
	return float32(u)/(1<<31) - 1.0
}
