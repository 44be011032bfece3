package strings

import (
	"testing"

	kit "bluebird/internal/platform/testkit"
)

func TestIfEmpty(t *testing.T) {
	def := []string{"GET"}
	if got := IfEmpty(nil, def); len(got) != 1 {
		t.Fatalf("nil: %v", got)
	}
	if got := IfEmpty([]string{"PATCH", "POST"}, def); len(got) != 2 {
		t.Fatalf("set: %v", got)
	}
}

func TestMustString(t *testing.T) {
	if MustString("charts", "module name") != "charts" {
		t.Fatal("value changed")
	}
	kit.MustPanic(t, func() { MustString(" \t", "module name") })
}

func TestMustPrefix(t *testing.T) {
	for in, want := range map[string]string{
		"/occurrences":  "/occurrences",
		" charts/ ":     "/charts",
		"//documents//": "/documents",
		"api/v1":        "/api/v1",
	} {
		if got := MustPrefix(in); got != want {
			t.Fatalf("MustPrefix(%q) = %q want %q", in, got, want)
		}
	}
	kit.MustPanic(t, func() { MustPrefix(" / ") })
}
