package testkit

import "testing"

var newPool = func() string { return "real" }

func TestSwap_RestoresAfterSubtest(t *testing.T) {
	t.Run("swapped", func(t *testing.T) {
		Serial(t)
		Swap(t, &newPool, func() string { return "fake" })
		if newPool() != "fake" {
			t.Fatal("swap not applied")
		}
	})
	if newPool() != "real" {
		t.Fatal("not restored")
	}
}

func TestAssertions(t *testing.T) {
	MustPanic(t, func() { panic("boom") })
	MustContain(t, `{"level":"warn","component":"charts"}`, `"component":"charts"`)
}
