package raw

import "testing"

func TestRaw(t *testing.T) {
	c := New().Prefix("LOG_")
	t.Setenv("LOG_LEVEL", " debug ")
	t.Setenv("LOG_PRETTY", "On")
	t.Setenv("LOG_COLOR", "nope")
	t.Setenv("LOG_SAMPLE", "10")
	t.Setenv("LOG_NEG", "-3")
	t.Setenv("LOG_TEXT", "ten")

	if c.Get("LEVEL", "info") != "debug" || c.Get("UNSET", "info") != "info" {
		t.Fatal("Get")
	}
	if !c.GetBool("PRETTY", false) || c.GetBool("COLOR", true) || !c.GetBool("UNSET", true) {
		t.Fatal("GetBool")
	}
	for key, want := range map[string]int{"SAMPLE": 10, "NEG": 5, "TEXT": 5, "UNSET": 5} {
		if got := c.GetInt(key, 5); got != want {
			t.Fatalf("GetInt(%s) = %d want %d", key, got, want)
		}
	}
}
