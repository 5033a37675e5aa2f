package fuzztests

import (
	"testing"
	"time"

	"deducels/internal/analysis"
)

// analyzeTimeout is the maximum time allowed for analyzing a single input.
// Longer runs point at an infinite loop in error recovery.
const analyzeTimeout = 5 * time.Second

func FuzzAnalyzeInvariants(f *testing.F) {
	addCorpusSeeds(f)
	f.Fuzz(func(t *testing.T, input []byte) {
		text := string(clampSeed(input))
		snap := analysis.Analyze("file:///fuzz.pf", text, analysis.Options{})
		if err := snap.Verify(); err != nil {
			t.Fatalf("invariants broken: %v\ninput: %q", err, truncateForLog(input, 200))
		}
	})
}

// FuzzAnalyzeNoHang tests that analysis terminates on any input.
func FuzzAnalyzeNoHang(f *testing.F) {
	addCorpusSeeds(f)

	// глубокая вложенность и незакрытые конструкции
	f.Add([]byte("define x = ((((((((((((((((((((((((((((((1"))
	f.Add([]byte("theorem t: all x. proof induction Nat case case { } end"))
	f.Add([]byte("union { { { ("))
	f.Add([]byte("proof proof proof proof"))

	f.Fuzz(func(t *testing.T, input []byte) {
		text := string(clampSeed(input))
		done := make(chan struct{})
		go func() {
			defer close(done)
			_ = analysis.Analyze("file:///fuzz.pf", text, analysis.Options{})
		}()

		select {
		case <-done:
		case <-time.After(analyzeTimeout):
			t.Fatalf("analysis hang detected: took longer than %v\ninput (%d bytes): %q",
				analyzeTimeout, len(input), truncateForLog(input, 200))
		}
	})
}

// truncateForLog truncates input for logging purposes
func truncateForLog(input []byte, maxLen int) []byte {
	if len(input) <= maxLen {
		return input
	}
	return append(append([]byte(nil), input[:maxLen]...), "..."...)
}
